package signal

import (
	"fmt"
	"math"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
	"github.com/yordihernandez1/trading-alert2/internal/indicator"
)

const (
	minIntradayBars = 30

	emaFastPeriod = 9
	emaSlowPeriod = 21

	volumeWindow     = 20
	rsiZoneWeight    = 20
	volumeSpikeHigh  = 15
	volumeSpikeMid   = 10
	volumeSpikeLow   = 5
	bodyStrongWeight = 10
	bodyMidWeight    = 5

	riskLookback   = 5
	rewardLookback = 6
	barMinutes     = 5
)

// Intraday scores a 5-minute bar history. The two scores accumulate
// independent rule contributions; volume strength is directionally neutral
// and feeds both before direction is taken as argmax (ties go up).
func (e *Engine) Intraday(symbol string, bars []domain.Bar) (*domain.IntradaySnapshot, error) {
	if len(bars) < minIntradayBars {
		return nil, fmt.Errorf("%w: %s intraday has %d bars, need %d", domain.ErrInsufficientData, symbol, len(bars), minIntradayBars)
	}
	last := bars[len(bars)-1]
	if last.Volume <= 0 {
		return nil, fmt.Errorf("%w: %s last intraday bar has no volume", domain.ErrInsufficientData, symbol)
	}

	closes := indicator.Closes(bars)
	ema9 := indicator.EMA(closes, emaFastPeriod)
	ema21 := indicator.EMA(closes, emaSlowPeriod)
	rsi := indicator.Latest(indicator.RSI(closes, indicator.RSIPeriod))

	currFast, currSlow := indicator.Latest(ema9), indicator.Latest(ema21)
	prevFast, prevSlow := ema9[len(ema9)-2], ema21[len(ema21)-2]
	for _, v := range []float64{currFast, currSlow, prevFast, prevSlow, rsi} {
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: %s intraday indicators unresolved", domain.ErrInsufficientData, symbol)
		}
	}

	snap := &domain.IntradaySnapshot{
		Symbol:    symbol,
		Price:     last.Close,
		EMA9:      currFast,
		EMA21:     currSlow,
		RSI:       rsi,
		Crossover: domain.CrossoverNone,
		RSIZone:   domain.ZoneNeutral,
	}

	switch {
	case prevFast < prevSlow && currFast > currSlow:
		snap.Crossover = domain.CrossoverBullish
		snap.ProbUp += e.rules.CrossoverWeight
	case prevFast > prevSlow && currFast < currSlow:
		snap.Crossover = domain.CrossoverBearish
		snap.ProbDown += e.rules.CrossoverWeight
	}

	switch {
	case rsi >= rsiOverbought:
		snap.RSIZone = domain.ZoneOverbought
		snap.ProbDown += rsiZoneWeight
	case rsi <= rsiOversold:
		snap.RSIZone = domain.ZoneOversold
		snap.ProbUp += rsiZoneWeight
	}

	snap.VolumeRatio = volumeRatio(bars)
	if bonus := volumeBonus(snap.VolumeRatio); bonus > 0 {
		snap.ProbUp += bonus
		snap.ProbDown += bonus
	}

	if up, down := candleBodyScore(last); up > 0 {
		snap.ProbUp += up
	} else if down > 0 {
		snap.ProbDown += down
	}

	if snap.ProbUp >= snap.ProbDown {
		snap.Direction = domain.DirectionUp
	} else {
		snap.Direction = domain.DirectionDown
	}

	e.scoreRiskReward(snap, bars)
	return snap, nil
}

func volumeRatio(bars []domain.Bar) float64 {
	window := bars[len(bars)-volumeWindow:]
	var sum float64
	for _, b := range window {
		sum += b.Volume
	}
	mean := sum / float64(len(window))
	if mean == 0 {
		return 0
	}
	return bars[len(bars)-1].Volume / mean
}

func volumeBonus(ratio float64) int {
	switch {
	case ratio >= 2.0:
		return volumeSpikeHigh
	case ratio >= 1.5:
		return volumeSpikeMid
	case ratio >= 1.2:
		return volumeSpikeLow
	default:
		return 0
	}
}

func candleBodyScore(bar domain.Bar) (up, down int) {
	rng := bar.High - bar.Low
	if rng <= 0 {
		return 0, 0
	}
	strength := math.Abs(bar.Close-bar.Open) / rng

	var weight int
	switch {
	case strength > 0.6:
		weight = bodyStrongWeight
	case strength >= 0.3:
		weight = bodyMidWeight
	default:
		return 0, 0
	}
	if bar.Close > bar.Open {
		return weight, 0
	}
	if bar.Close < bar.Open {
		return 0, weight
	}
	return 0, 0
}

// scoreRiskReward derives the entry risk (distance to the recent low,
// current bar excluded) and reward (distance to the recent high, current bar
// included). Either being non-positive marks the ratio invalid and leaves the
// time estimate unset.
func (e *Engine) scoreRiskReward(snap *domain.IntradaySnapshot, bars []domain.Bar) {
	n := len(bars)
	price := snap.Price

	low := math.Inf(1)
	for _, b := range bars[n-1-riskLookback : n-1] {
		if b.Low < low {
			low = b.Low
		}
	}
	high := math.Inf(-1)
	for _, b := range bars[n-rewardLookback:] {
		if b.High > high {
			high = b.High
		}
	}

	snap.Risk = price - low
	snap.Reward = high - price
	if snap.Risk <= 0 || snap.Reward <= 0 {
		return
	}
	snap.RiskReward = snap.Reward / snap.Risk
	snap.RiskRewardValid = true

	if avg := avgFavorableChange(bars, snap.Direction); avg > 0 {
		snap.TimeEstimateMin = int(math.Round(snap.Reward / avg * barMinutes))
	}
}

func avgFavorableChange(bars []domain.Bar, dir domain.Direction) float64 {
	n := len(bars)
	var sum float64
	var count int
	for i := n - rewardLookback; i < n-1; i++ {
		delta := bars[i+1].Close - bars[i].Close
		if dir == domain.DirectionDown {
			delta = -delta
		}
		if delta > 0 {
			sum += delta
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
