package signal

import (
	"errors"
	"testing"
	"time"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
)

func flatBar(t0 time.Time, i int, close, volume float64) domain.Bar {
	return domain.Bar{
		Time:   t0.Add(time.Duration(i) * 5 * time.Minute),
		Open:   close,
		High:   close,
		Low:    close,
		Close:  close,
		Volume: volume,
	}
}

// oversoldReboundBars builds a 5m series whose final bar completes a bullish
// EMA9/EMA21 crossover while RSI(14) sits in the oversold zone: a long
// plateau, a sharp three-bar crash that loads the Wilder loss average, then
// a flat stretch long enough for the EMA gap to decay faster than the loss
// memory, and a small green closing bar with a volume spike.
func oversoldReboundBars() []domain.Bar {
	t0 := time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC)
	var bars []domain.Bar
	i := 0
	for ; i < 20; i++ {
		bars = append(bars, flatBar(t0, i, 50000, 1000))
	}
	for _, c := range []float64{40000, 30000, 20000} {
		bars = append(bars, flatBar(t0, i, c, 1000))
		i++
	}
	for j := 0; j < 165; j++ {
		bars = append(bars, flatBar(t0, i, 20000, 1000))
		i++
	}
	bars = append(bars, domain.Bar{
		Time:   t0.Add(time.Duration(i) * 5 * time.Minute),
		Open:   20000,
		High:   20000.0423,
		Low:    20000,
		Close:  20000.0423,
		Volume: 2350,
	})
	return bars
}

func TestIntradayInsufficientBars(t *testing.T) {
	engine := NewEngine(DefaultRules())
	t0 := time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC)

	bars := make([]domain.Bar, 29)
	for i := range bars {
		bars[i] = flatBar(t0, i, 100, 1000)
	}
	_, err := engine.Intraday("AAPL", bars)
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for 29 bars, got %v", err)
	}
}

func TestIntradayZeroVolumeLastBar(t *testing.T) {
	engine := NewEngine(DefaultRules())
	t0 := time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC)

	bars := make([]domain.Bar, 40)
	for i := range bars {
		bars[i] = flatBar(t0, i, 100, 1000)
	}
	bars[len(bars)-1].Volume = 0

	_, err := engine.Intraday("AAPL", bars)
	if !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for zero-volume bar, got %v", err)
	}
}

func TestIntradayBullishConfluence(t *testing.T) {
	engine := NewEngine(DefaultRules())

	snap, err := engine.Intraday("TSLA", oversoldReboundBars())
	if err != nil {
		t.Fatalf("Intraday returned error: %v", err)
	}

	if snap.Crossover != domain.CrossoverBullish {
		t.Fatalf("expected bullish crossover, got %s (ema9=%f ema21=%f)", snap.Crossover, snap.EMA9, snap.EMA21)
	}
	if snap.RSIZone != domain.ZoneOversold {
		t.Fatalf("expected oversold zone, got %s (rsi=%f)", snap.RSIZone, snap.RSI)
	}
	if snap.VolumeRatio < 2.0 {
		t.Fatalf("expected volume ratio >= 2.0, got %f", snap.VolumeRatio)
	}
	if snap.ProbUp < 65 {
		t.Fatalf("expected ProbUp >= 65, got %d", snap.ProbUp)
	}
	if snap.Direction != domain.DirectionUp {
		t.Fatalf("expected direction up, got %s", snap.Direction)
	}
}

func TestCandleBodyScoreBands(t *testing.T) {
	bar := func(open, close float64) domain.Bar {
		return domain.Bar{Open: open, High: 107, Low: 97, Close: close}
	}

	cases := []struct {
		name     string
		bar      domain.Bar
		up, down int
	}{
		{"below band", bar(100, 102), 0, 0},
		{"lower boundary is mid weight", bar(100, 103), bodyMidWeight, 0},
		{"upper boundary stays mid weight", bar(100, 106), bodyMidWeight, 0},
		{"above band is strong weight", bar(100, 107), bodyStrongWeight, 0},
		{"red candle scores down", bar(103, 100), 0, bodyMidWeight},
		{"zero range", domain.Bar{Open: 100, High: 100, Low: 100, Close: 100}, 0, 0},
	}
	for _, tc := range cases {
		up, down := candleBodyScore(tc.bar)
		if up != tc.up || down != tc.down {
			t.Fatalf("%s: got (%d,%d), want (%d,%d)", tc.name, up, down, tc.up, tc.down)
		}
	}
}

func TestIntradayOverboughtLeansDown(t *testing.T) {
	engine := NewEngine(DefaultRules())
	t0 := time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC)

	// Steady rise: RSI pegs high, EMAs never cross, volume stays at its mean.
	bars := make([]domain.Bar, 60)
	price := 100.0
	for i := range bars {
		bars[i] = flatBar(t0, i, price, 1000)
		price += 1
	}

	snap, err := engine.Intraday("NVDA", bars)
	if err != nil {
		t.Fatalf("Intraday returned error: %v", err)
	}
	if snap.RSIZone != domain.ZoneOverbought {
		t.Fatalf("expected overbought zone, got %s (rsi=%f)", snap.RSIZone, snap.RSI)
	}
	if snap.Crossover != domain.CrossoverNone {
		t.Fatalf("expected no crossover, got %s", snap.Crossover)
	}
	if snap.ProbDown < rsiZoneWeight {
		t.Fatalf("expected ProbDown >= %d, got %d", rsiZoneWeight, snap.ProbDown)
	}
}
