// Package service runs the single-pass scan: fetch, evaluate, select, and
// notify, then exit.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yordihernandez1/trading-alert2/internal/bot"
	"github.com/yordihernandez1/trading-alert2/internal/domain"
	"github.com/yordihernandez1/trading-alert2/internal/marketdata"
	"github.com/yordihernandez1/trading-alert2/internal/opportunity"
)

type BarSource interface {
	GetBars(ctx context.Context, symbol, rng, interval string) ([]domain.Bar, error)
}

type Evaluator interface {
	Daily(symbol string, bars []domain.Bar) (*domain.DailySnapshot, error)
	Intraday(symbol string, bars []domain.Bar) (*domain.IntradaySnapshot, error)
}

type CandidateBuilder interface {
	Build(daily *domain.DailySnapshot, intraday *domain.IntradaySnapshot) (*domain.Candidate, bool, string)
}

type SentimentSource interface {
	Report(ctx context.Context, symbol string) domain.SentimentReport
}

type ChartRenderer interface {
	RenderCandidate(bars []domain.Bar, cand domain.Candidate) (*domain.ChartImage, error)
}

type Notifier interface {
	SendAlert(ctx context.Context, cand domain.Candidate, sentiment domain.SentimentReport, chart *domain.ChartImage) error
	SendDigest(ctx context.Context, text string) error
}

type RunState interface {
	TouchAlert(now time.Time) error
	LastSummary() (time.Time, error)
	TouchSummary(now time.Time) error
}

// Scanner owns one pass over the watchlist. Per-symbol failures are logged
// and skipped; only notification delivery can fail the run.
type Scanner struct {
	bars      BarSource
	evaluator Evaluator
	builder   CandidateBuilder
	sentiment SentimentSource
	charts    ChartRenderer
	notifier  Notifier
	state     RunState

	symbols        []string
	digestInterval time.Duration
	inNewsWindow   func(time.Time) bool

	tracer trace.Tracer
	log    zerolog.Logger
	now    func() time.Time
}

type Options struct {
	Symbols        []string
	DigestInterval time.Duration
	// InNewsWindow gates headline scraping; nil means always scrape.
	InNewsWindow func(time.Time) bool
}

func NewScanner(
	bars BarSource,
	evaluator Evaluator,
	builder CandidateBuilder,
	sentiment SentimentSource,
	charts ChartRenderer,
	notifier Notifier,
	state RunState,
	opts Options,
	tracer trace.Tracer,
	log zerolog.Logger,
) *Scanner {
	window := opts.InNewsWindow
	if window == nil {
		window = func(time.Time) bool { return true }
	}
	return &Scanner{
		bars:           bars,
		evaluator:      evaluator,
		builder:        builder,
		sentiment:      sentiment,
		charts:         charts,
		notifier:       notifier,
		state:          state,
		symbols:        opts.Symbols,
		digestInterval: opts.DigestInterval,
		inNewsWindow:   window,
		tracer:         tracer,
		log:            log.With().Str("component", "scanner").Logger(),
		now:            time.Now,
	}
}

type evaluated struct {
	daily        *domain.DailySnapshot
	intraday     *domain.IntradaySnapshot
	intradayBars []domain.Bar
}

// Run executes one scan. It either sends one alert for the best candidate,
// sends a digest when the throttle allows, or stays silent.
func (s *Scanner) Run(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "scan.run", trace.WithAttributes(attribute.Int("symbols", len(s.symbols))))
	defer span.End()

	var (
		snaps      []domain.DailySnapshot
		candidates []domain.Candidate
		barsBySym  = make(map[string][]domain.Bar, len(s.symbols))
	)
	for _, symbol := range s.symbols {
		ev, err := s.evaluateSymbol(ctx, symbol)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", symbol).Msg("symbol skipped")
			continue
		}
		snaps = append(snaps, *ev.daily)
		barsBySym[symbol] = ev.intradayBars

		cand, ok, reason := s.builder.Build(ev.daily, ev.intraday)
		if !ok {
			s.log.Info().Str("symbol", symbol).Str("reason", reason).Msg("symbol filtered out")
			continue
		}
		candidates = append(candidates, *cand)
	}
	span.SetAttributes(attribute.Int("evaluated", len(snaps)), attribute.Int("candidates", len(candidates)))

	if best := opportunity.SelectBest(candidates); best != nil {
		return s.alert(ctx, best, barsBySym[best.Symbol])
	}
	return s.digest(ctx, snaps)
}

func (s *Scanner) evaluateSymbol(ctx context.Context, symbol string) (*evaluated, error) {
	ctx, span := s.tracer.Start(ctx, "scan.symbol", trace.WithAttributes(attribute.String("symbol", symbol)))
	defer span.End()

	dailyBars, err := s.bars.GetBars(ctx, symbol, marketdata.DailyRange, marketdata.DailyInterval)
	if err != nil {
		return nil, fmt.Errorf("daily bars: %w", err)
	}
	daily, err := s.evaluator.Daily(symbol, dailyBars)
	if err != nil {
		return nil, err
	}

	intradayBars, err := s.bars.GetBars(ctx, symbol, marketdata.IntradayRange, marketdata.IntradayInterval)
	if err != nil {
		return nil, fmt.Errorf("intraday bars: %w", err)
	}
	intraday, err := s.evaluator.Intraday(symbol, intradayBars)
	if err != nil {
		return nil, err
	}

	return &evaluated{daily: daily, intraday: intraday, intradayBars: intradayBars}, nil
}

func (s *Scanner) alert(ctx context.Context, best *domain.Candidate, intradayBars []domain.Bar) error {
	ctx, span := s.tracer.Start(ctx, "scan.alert", trace.WithAttributes(attribute.String("symbol", best.Symbol)))
	defer span.End()

	now := s.now()
	report := domain.SentimentReport{Sentiment: domain.SentimentUnavailable}
	if s.inNewsWindow(now) {
		report = s.sentiment.Report(ctx, best.Symbol)
	}

	var chart *domain.ChartImage
	if img, err := s.charts.RenderCandidate(intradayBars, *best); err != nil {
		s.log.Warn().Err(err).Str("symbol", best.Symbol).Msg("chart render failed, sending text only")
	} else {
		chart = img
	}

	if err := s.notifier.SendAlert(ctx, *best, report, chart); err != nil {
		return err
	}
	if err := s.state.TouchAlert(now); err != nil {
		s.log.Warn().Err(err).Msg("recording alert time failed")
	}
	s.log.Info().Str("symbol", best.Symbol).Float64("score", best.Score).Msg("alert sent")
	return nil
}

func (s *Scanner) digest(ctx context.Context, snaps []domain.DailySnapshot) error {
	ctx, span := s.tracer.Start(ctx, "scan.digest")
	defer span.End()

	now := s.now()
	last, err := s.state.LastSummary()
	if err != nil {
		s.log.Warn().Err(err).Msg("reading digest time failed")
	}
	if !last.IsZero() && now.Sub(last) < s.digestInterval {
		s.log.Debug().Time("last_summary", last).Msg("digest throttled")
		return nil
	}

	if err := s.notifier.SendDigest(ctx, bot.FormatDigest(snaps, now)); err != nil {
		return err
	}
	if err := s.state.TouchSummary(now); err != nil {
		s.log.Warn().Err(err).Msg("recording digest time failed")
	}
	s.log.Info().Int("symbols", len(snaps)).Msg("digest sent")
	return nil
}
