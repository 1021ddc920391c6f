package signal

import (
	"fmt"
	"math"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
	"github.com/yordihernandez1/trading-alert2/internal/indicator"
)

const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0

	minDailyBars     = 50
	srWindow         = 14
	returnWindow     = 7
	volatilityWindow = 14
	momentumWindow   = 10
)

// Daily applies the daily threshold rules over a 1d bar history. Every rule
// is evaluated; each hit appends one reason string and bumps exactly one
// counter. Fewer than minDailyBars bars, or an unresolved core indicator,
// yields domain.ErrInsufficientData.
func (e *Engine) Daily(symbol string, bars []domain.Bar) (*domain.DailySnapshot, error) {
	if len(bars) < minDailyBars {
		return nil, fmt.Errorf("%w: %s daily has %d bars, need %d", domain.ErrInsufficientData, symbol, len(bars), minDailyBars)
	}

	closes := indicator.Closes(bars)
	rsi := indicator.Latest(indicator.RSI(closes, indicator.RSIPeriod))
	macdLine, macdSignal := indicator.MACD(closes, indicator.MACDFastPeriod, indicator.MACDSlowPeriod, indicator.MACDSignalPeriod)
	macd := indicator.Latest(macdLine)
	macdSig := indicator.Latest(macdSignal)
	sma50 := indicator.Latest(indicator.SMA(closes, 50))
	sma200 := indicator.Latest(indicator.SMA(closes, 200))
	atr := indicator.Latest(indicator.ATR(bars, indicator.ATRPeriod))

	price := closes[len(closes)-1]
	prevClose := closes[len(closes)-2]

	for _, v := range []float64{rsi, macd, macdSig, sma50, atr} {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: %s daily indicators unresolved", domain.ErrInsufficientData, symbol)
		}
	}
	// SMA200 never resolves inside the 3 month window; comparisons against
	// NaN below are false, so the SMA200 rules simply do not fire then.

	snap := &domain.DailySnapshot{
		Symbol:     symbol,
		Price:      price,
		PrevClose:  prevClose,
		RSI:        rsi,
		MACD:       macd,
		MACDSignal: macdSig,
		SMA50:      sma50,
		SMA200:     sma200,
		ATR:        atr,
	}

	bearish := func(reason string) {
		snap.BearishSignals = append(snap.BearishSignals, reason)
		snap.BearScore++
	}
	bullish := func(reason string) {
		snap.BullishSignals = append(snap.BullishSignals, reason)
		snap.BullScore++
	}

	if rsi > rsiOverbought {
		bearish("RSI en sobrecompra → posible venta")
	}
	if rsi < rsiOversold {
		bullish("RSI en sobreventa → posible compra")
	}
	if macd < macdSig {
		bearish("MACD cruzando a la baja")
	}
	if macd > macdSig {
		bullish("MACD cruzando al alza")
	}
	if price < sma50 {
		bearish("Precio por debajo de la SMA 50")
	}
	if sma50 < sma200 {
		bearish("SMA 50 por debajo de SMA 200")
	}
	if price < prevClose {
		bearish("Última vela cerró en rojo")
	}
	if price > prevClose {
		bullish("Última vela cerró en verde")
	}
	// Overlaps with the bearish SMA50<SMA200 rule above; see Rules.
	if e.rules.RecoveryDoubleCount && price < sma50 && sma50 < sma200 {
		bullish("Precio bajo con posible recuperación")
	}

	snap.Trend = e.trend(closes, sma50, sma200)
	snap.Support, snap.Resistance = supportResistance(closes, srWindow)
	snap.Return7d = (closes[len(closes)-1]/closes[len(closes)-returnWindow] - 1) * 100
	snap.Volatility14 = stddev(closes[len(closes)-volatilityWindow:]) / price * 100

	return snap, nil
}

func (e *Engine) trend(closes []float64, sma50, sma200 float64) domain.Trend {
	switch e.rules.TrendMode {
	case TrendModeMomentum10:
		if closes[len(closes)-1] > closes[len(closes)-momentumWindow] {
			return domain.TrendUp
		}
		return domain.TrendDown
	default:
		if sma50 > sma200 {
			return domain.TrendUp
		}
		return domain.TrendDown
	}
}

func supportResistance(closes []float64, window int) (support, resistance float64) {
	tail := closes[len(closes)-window:]
	support, resistance = tail[0], tail[0]
	for _, c := range tail[1:] {
		if c < support {
			support = c
		}
		if c > resistance {
			resistance = c
		}
	}
	return support, resistance
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
