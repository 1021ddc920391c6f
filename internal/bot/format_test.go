package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
)

func sampleCandidate() domain.Candidate {
	return domain.Candidate{
		Symbol: "AAPL",
		Daily: domain.DailySnapshot{
			Symbol:         "AAPL",
			Price:          182.50,
			RSI:            28.4,
			MACD:           -0.52,
			ATR:            1.85,
			Trend:          domain.TrendDown,
			Support:        179.20,
			Resistance:     188.10,
			Return7d:       -2.1,
			Volatility14:   1.23,
			BullishSignals: []string{"RSI en sobreventa → posible compra"},
		},
		Intraday: domain.IntradaySnapshot{
			Symbol:          "AAPL",
			ProbUp:          75,
			ProbDown:        20,
			Direction:       domain.DirectionUp,
			RiskReward:      1.8,
			RiskRewardValid: true,
			TimeEstimateMin: 25,
		},
		Entry:         182.50,
		StopLoss:      179.76,
		TakeProfit:    186.15,
		StopPct:       0.015,
		TakeProfitPct: 0.02,
		Score:         100,
	}
}

func TestFormatAlertContents(t *testing.T) {
	msg := FormatAlert(sampleCandidate(), domain.SentimentReport{
		Sentiment: domain.SentimentPositive,
		Compound:  0.32,
		Headlines: []string{"Apple rallies on earnings"},
	})

	for _, want := range []string{
		"Oportunidad destacada: AAPL",
		"Entrada sugerida: en largo",
		"SL: 179.76 (-1.50%) | TP: 186.15 (+2.00%)",
		"Riesgo/Recompensa: 1.80",
		"Tiempo estimado: ~25 min",
		"RSI en sobreventa → posible compra",
		"Apple rallies on earnings",
		"Sentimiento: positivo (0.32)",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("alert message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatAlertShortDirection(t *testing.T) {
	cand := sampleCandidate()
	cand.Intraday.Direction = domain.DirectionDown
	cand.Daily.BearishSignals = []string{"MACD cruzando a la baja"}

	msg := FormatAlert(cand, domain.SentimentReport{Sentiment: domain.SentimentUnavailable})
	if !strings.Contains(msg, "Entrada sugerida: en corto") {
		t.Fatalf("expected short entry, got:\n%s", msg)
	}
	if !strings.Contains(msg, "MACD cruzando a la baja") {
		t.Fatalf("short alert should list bearish signals, got:\n%s", msg)
	}
	if !strings.Contains(msg, "Sentimiento: no disponible") {
		t.Fatalf("expected unavailable sentiment without compound, got:\n%s", msg)
	}
	if strings.Contains(msg, "no disponible (") {
		t.Fatal("unavailable sentiment must not carry a compound score")
	}
}

func TestFormatDigest(t *testing.T) {
	now := time.Date(2026, 8, 28, 14, 5, 0, 0, time.UTC)
	msg := FormatDigest([]domain.DailySnapshot{
		{Symbol: "AAPL", Price: 182.5, RSI: 55.2, Trend: domain.TrendUp, BullScore: 1, BearScore: 2},
		{Symbol: "MSFT", Price: 410.1, RSI: 48.0, Trend: domain.TrendDown, BullScore: 0, BearScore: 1},
	}, now)

	if !strings.Contains(msg, "(14:05)") {
		t.Fatalf("digest missing timestamp:\n%s", msg)
	}
	if !strings.Contains(msg, "AAPL: 182.50 USD") || !strings.Contains(msg, "MSFT: 410.10 USD") {
		t.Fatalf("digest missing symbol lines:\n%s", msg)
	}
	if !strings.Contains(msg, "tendencia alcista") || !strings.Contains(msg, "tendencia bajista") {
		t.Fatalf("digest missing trend labels:\n%s", msg)
	}
}

func TestFormatDigestEmpty(t *testing.T) {
	msg := FormatDigest(nil, time.Now())
	if !strings.Contains(msg, "No se pudo analizar ningún activo.") {
		t.Fatalf("empty digest should carry the no-data line:\n%s", msg)
	}
}

func TestTruncate(t *testing.T) {
	short := "hola"
	if got := truncate(short, 10); got != short {
		t.Fatalf("short message must pass through, got %q", got)
	}

	long := strings.Repeat("a", 5000)
	got := truncate(long, textMessageLimit)
	if len([]rune(got)) > textMessageLimit {
		t.Fatalf("truncated message has %d runes, limit %d", len([]rune(got)), textMessageLimit)
	}
	if !strings.HasSuffix(got, truncationMarker) {
		t.Fatal("truncated message missing marker")
	}
}
