package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
)

const (
	// Telegram hard-caps text messages at 4096 and photo captions at 1024.
	// The text limit stays a little under the cap so the truncation marker
	// always fits.
	textMessageLimit  = 4000
	photoCaptionLimit = 1024

	truncationMarker = "\n\n(Mensaje truncado por longitud)"
)

// FormatAlert renders the single-opportunity alert message.
func FormatAlert(cand domain.Candidate, sentiment domain.SentimentReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📈 Oportunidad destacada: %s\n", cand.Symbol)
	fmt.Fprintf(&b, "Precio actual: %.2f USD\n", cand.Entry)
	fmt.Fprintf(&b, "Entrada sugerida: en %s\n", positionLabel(cand.Intraday.Direction))
	fmt.Fprintf(&b, "SL: %.2f (-%.2f%%) | TP: %.2f (+%.2f%%)\n",
		cand.StopLoss, cand.StopPct*100, cand.TakeProfit, cand.TakeProfitPct*100)
	if cand.Intraday.RiskRewardValid {
		fmt.Fprintf(&b, "Riesgo/Recompensa: %.2f\n", cand.Intraday.RiskReward)
		if cand.Intraday.TimeEstimateMin > 0 {
			fmt.Fprintf(&b, "Tiempo estimado: ~%d min\n", cand.Intraday.TimeEstimateMin)
		}
	}
	fmt.Fprintf(&b, "Probabilidad: ↑%d / ↓%d (puntaje %.0f)\n",
		cand.Intraday.ProbUp, cand.Intraday.ProbDown, cand.Score)

	daily := cand.Daily
	fmt.Fprintf(&b, "RSI: %.1f | MACD: %.2f\n", daily.RSI, daily.MACD)
	fmt.Fprintf(&b, "Tendencia: %s\n", trendLabel(daily.Trend))
	fmt.Fprintf(&b, "Volatilidad 14d: %.2f%% | ATR: %.2f\n", daily.Volatility14, daily.ATR)
	fmt.Fprintf(&b, "Retorno 7d: %.2f%%\n", daily.Return7d)
	fmt.Fprintf(&b, "Soporte: %.2f | Resistencia: %.2f\n", daily.Support, daily.Resistance)

	signals := daily.BullishSignals
	if cand.Intraday.Direction == domain.DirectionDown {
		signals = daily.BearishSignals
	}
	if len(signals) > 0 {
		b.WriteString("\nSeñales detectadas:\n")
		for _, s := range signals {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	b.WriteString("\nNoticias recientes:\n")
	if len(sentiment.Headlines) == 0 {
		b.WriteString("Sin titulares disponibles.\n")
	} else {
		for _, h := range sentiment.Headlines {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}
	fmt.Fprintf(&b, "Sentimiento: %s", sentiment.Sentiment)
	if sentiment.Sentiment != domain.SentimentUnavailable {
		fmt.Fprintf(&b, " (%.2f)", sentiment.Compound)
	}

	return b.String()
}

// FormatDigest renders the no-opportunity summary with one line per
// evaluated symbol.
func FormatDigest(snaps []domain.DailySnapshot, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏳ No se detectaron oportunidades claras. (%s)\n", now.UTC().Format("15:04"))
	for _, s := range snaps {
		fmt.Fprintf(&b, "%s: %.2f USD | RSI %.1f | tendencia %s | señales ↑%d ↓%d\n",
			s.Symbol, s.Price, s.RSI, trendLabel(s.Trend), s.BullScore, s.BearScore)
	}
	if len(snaps) == 0 {
		b.WriteString("No se pudo analizar ningún activo.")
	}
	return strings.TrimRight(b.String(), "\n")
}

func positionLabel(dir domain.Direction) string {
	if dir == domain.DirectionDown {
		return "corto"
	}
	return "largo"
}

func trendLabel(t domain.Trend) string {
	if t == domain.TrendDown {
		return "bajista"
	}
	return "alcista"
}

// truncate keeps the message under limit runes, appending a marker when it
// had to cut.
func truncate(msg string, limit int) string {
	runes := []rune(msg)
	if len(runes) <= limit {
		return msg
	}
	marker := []rune(truncationMarker)
	return string(runes[:limit-len(marker)]) + truncationMarker
}
