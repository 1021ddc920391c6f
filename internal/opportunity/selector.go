// Package opportunity filters evaluated symbols into tradeable candidates
// and picks the single best one per run.
package opportunity

import (
	"math"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
)

const (
	// maxATRPct rejects symbols whose daily ATR exceeds 1.5% of price.
	maxATRPct = 0.015
	// stopCapPct caps the stop distance at 1.5% of price.
	stopCapPct = 0.015
	// Take-profit distance is stop × tpMultiple, clamped to the band below.
	tpMultiple = 1.5
	tpFloorPct = 0.009
	tpCeilPct  = 0.02

	// DefaultScoreScale divides the raw rule-hit score before scaling to
	// [0,100]. The script generations disagree (40 vs 60), so the scale is
	// a constructor knob.
	DefaultScoreScale = 40
)

type Sizer struct {
	scoreScale float64
}

func NewSizer(scoreScale int) *Sizer {
	if scoreScale <= 0 {
		scoreScale = DefaultScoreScale
	}
	return &Sizer{scoreScale: float64(scoreScale)}
}

// Build applies the filter chain to one evaluated symbol. A false return
// means the symbol is out of this run; reason is a short human-readable
// explanation for the log line.
func (s *Sizer) Build(daily *domain.DailySnapshot, intraday *domain.IntradaySnapshot) (*domain.Candidate, bool, string) {
	price := daily.Price
	if price <= 0 {
		return nil, false, "precio no positivo"
	}

	if daily.ATR/price > maxATRPct {
		return nil, false, "volatilidad demasiado alta"
	}

	stopDist := math.Min(daily.ATR, stopCapPct*price)
	tpDist := clamp(stopDist*tpMultiple, tpFloorPct*price, tpCeilPct*price)

	stopPct := stopDist / price
	tpPct := tpDist / price
	if stopPct >= tpPct {
		return nil, false, "recompensa no supera el riesgo"
	}

	cand := &domain.Candidate{
		Symbol:        daily.Symbol,
		Daily:         *daily,
		Intraday:      *intraday,
		Entry:         price,
		StopPct:       stopPct,
		TakeProfitPct: tpPct,
		Score:         s.normalize(intraday.ProbUp, intraday.ProbDown),
	}
	if intraday.Direction == domain.DirectionDown {
		cand.StopLoss = price + stopDist
		cand.TakeProfit = price - tpDist
	} else {
		cand.StopLoss = price - stopDist
		cand.TakeProfit = price + tpDist
	}
	return cand, true, ""
}

// normalize maps the raw argmax score onto [0,100].
func (s *Sizer) normalize(probUp, probDown int) float64 {
	raw := float64(probUp)
	if float64(probDown) > raw {
		raw = float64(probDown)
	}
	if raw < 0 {
		raw = 0
	}
	score := raw / s.scoreScale * 100
	if score > 100 {
		score = 100
	}
	return score
}

// SelectBest returns the highest-scoring candidate, or nil when none exist.
// Earlier watchlist position wins ties.
func SelectBest(cands []domain.Candidate) *domain.Candidate {
	var best *domain.Candidate
	for i := range cands {
		if best == nil || cands[i].Score > best.Score {
			best = &cands[i]
		}
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
