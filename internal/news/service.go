// Package news scrapes recent headlines for a symbol and scores them with a
// word-lexicon sentiment model.
package news

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
)

const defaultMaxHeadlines = 5

// headlineSource is what the service needs from a scraper.
type headlineSource interface {
	Headlines(ctx context.Context, symbol string, max int) ([]string, error)
}

// Service ties headline scraping to sentiment scoring. Scraping failures
// degrade to an "unavailable" report; they never surface as errors.
type Service struct {
	source       headlineSource
	analyzer     *Analyzer
	maxHeadlines int
	tracer       trace.Tracer
	log          zerolog.Logger
}

func NewService(source headlineSource, tracer trace.Tracer, log zerolog.Logger) *Service {
	return &Service{
		source:       source,
		analyzer:     NewAnalyzer(),
		maxHeadlines: defaultMaxHeadlines,
		tracer:       tracer,
		log:          log.With().Str("component", "news").Logger(),
	}
}

// Report fetches and scores headlines for the symbol.
func (s *Service) Report(ctx context.Context, symbol string) domain.SentimentReport {
	ctx, span := s.tracer.Start(ctx, "news.report", trace.WithAttributes(attribute.String("symbol", symbol)))
	defer span.End()

	fetchCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	headlines, err := s.source.Headlines(fetchCtx, symbol, s.maxHeadlines)
	if err != nil {
		if !errors.Is(err, domain.ErrNetwork) {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("headline fetch failed")
		}
		return domain.SentimentReport{Sentiment: domain.SentimentUnavailable}
	}

	report := s.analyzer.Report(headlines)
	span.SetAttributes(attribute.Float64("compound", report.Compound), attribute.Int("headlines", len(headlines)))
	return report
}
