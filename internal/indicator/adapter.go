// Package indicator wraps the go-talib indicator library. The library pads
// the warm-up region of every series with zeros; the wrappers here re-mask
// that region with NaN so callers can tell "no value yet" from "value is 0".
package indicator

import (
	"math"

	talib "github.com/markcheno/go-talib"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
)

const (
	RSIPeriod        = 14
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
	ATRPeriod        = 14
)

// RSI returns Wilder's RSI aligned to the input length.
func RSI(closes []float64, period int) []float64 {
	if len(closes) <= period {
		return nanSeries(len(closes))
	}
	return mask(talib.Rsi(closes, period), period)
}

// MACD returns the MACD line and its signal line, both aligned to the input.
func MACD(closes []float64, fast, slow, signal int) (line, sig []float64) {
	lookback := slow - 1 + signal - 1
	if len(closes) <= lookback {
		return nanSeries(len(closes)), nanSeries(len(closes))
	}
	macd, macdSignal, _ := talib.Macd(closes, fast, slow, signal)
	return mask(macd, lookback), mask(macdSignal, lookback)
}

// SMA returns the simple moving average aligned to the input.
func SMA(closes []float64, period int) []float64 {
	if len(closes) < period {
		return nanSeries(len(closes))
	}
	return mask(talib.Sma(closes, period), period-1)
}

// EMA returns the exponential moving average aligned to the input.
func EMA(closes []float64, period int) []float64 {
	if len(closes) < period {
		return nanSeries(len(closes))
	}
	return mask(talib.Ema(closes, period), period-1)
}

// ATR returns the average true range aligned to the input.
func ATR(bars []domain.Bar, period int) []float64 {
	if len(bars) <= period {
		return nanSeries(len(bars))
	}
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
	}
	return mask(talib.Atr(highs, lows, closes, period), period)
}

// Closes extracts the close series from a bar sequence.
func Closes(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volume series from a bar sequence.
func Volumes(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

// Latest returns the final value of a series, or NaN for an empty one.
func Latest(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}

func mask(series []float64, lookback int) []float64 {
	if lookback > len(series) {
		lookback = len(series)
	}
	for i := 0; i < lookback; i++ {
		series[i] = math.NaN()
	}
	return series
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
