package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
)

type fakeBars struct {
	bars map[string][]domain.Bar
	errs map[string]error
}

func (f *fakeBars) GetBars(_ context.Context, symbol, _, _ string) ([]domain.Bar, error) {
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	return f.bars[symbol], nil
}

type fakeEvaluator struct {
	dailyErr map[string]error
}

func (f *fakeEvaluator) Daily(symbol string, _ []domain.Bar) (*domain.DailySnapshot, error) {
	if err, ok := f.dailyErr[symbol]; ok {
		return nil, err
	}
	return &domain.DailySnapshot{Symbol: symbol, Price: 100, RSI: 50}, nil
}

func (f *fakeEvaluator) Intraday(symbol string, _ []domain.Bar) (*domain.IntradaySnapshot, error) {
	return &domain.IntradaySnapshot{Symbol: symbol, Price: 100, ProbUp: 40, Direction: domain.DirectionUp}, nil
}

type fakeBuilder struct {
	accept map[string]bool
}

func (f *fakeBuilder) Build(daily *domain.DailySnapshot, intraday *domain.IntradaySnapshot) (*domain.Candidate, bool, string) {
	if !f.accept[daily.Symbol] {
		return nil, false, "volatilidad demasiado alta"
	}
	return &domain.Candidate{
		Symbol:   daily.Symbol,
		Daily:    *daily,
		Intraday: *intraday,
		Entry:    daily.Price,
		Score:    float64(intraday.ProbUp),
	}, true, ""
}

type fakeSentiment struct{ calls int }

func (f *fakeSentiment) Report(_ context.Context, _ string) domain.SentimentReport {
	f.calls++
	return domain.SentimentReport{Sentiment: domain.SentimentNeutral}
}

type fakeCharts struct{ err error }

func (f *fakeCharts) RenderCandidate(_ []domain.Bar, _ domain.Candidate) (*domain.ChartImage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ChartImage{Bytes: []byte("png"), MimeType: "image/png"}, nil
}

type fakeNotifier struct {
	alerts  []domain.Candidate
	digests []string
	charts  []*domain.ChartImage
	sendErr error
}

func (f *fakeNotifier) SendAlert(_ context.Context, cand domain.Candidate, _ domain.SentimentReport, chart *domain.ChartImage) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.alerts = append(f.alerts, cand)
	f.charts = append(f.charts, chart)
	return nil
}

func (f *fakeNotifier) SendDigest(_ context.Context, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.digests = append(f.digests, text)
	return nil
}

type fakeState struct {
	alert   time.Time
	summary time.Time
}

func (f *fakeState) TouchAlert(now time.Time) error   { f.alert = now; return nil }
func (f *fakeState) LastSummary() (time.Time, error)  { return f.summary, nil }
func (f *fakeState) TouchSummary(now time.Time) error { f.summary = now; return nil }

func newTestScanner(symbols []string, accept map[string]bool, notifier *fakeNotifier, st *fakeState) *Scanner {
	return NewScanner(
		&fakeBars{bars: map[string][]domain.Bar{}},
		&fakeEvaluator{},
		&fakeBuilder{accept: accept},
		&fakeSentiment{},
		&fakeCharts{},
		notifier,
		st,
		Options{Symbols: symbols, DigestInterval: 30 * time.Minute},
		noop.NewTracerProvider().Tracer("test"),
		zerolog.Nop(),
	)
}

func TestRunSendsAlertForBestCandidate(t *testing.T) {
	notifier := &fakeNotifier{}
	st := &fakeState{}
	s := newTestScanner([]string{"AAPL", "MSFT"}, map[string]bool{"AAPL": true, "MSFT": true}, notifier, st)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(notifier.alerts))
	}
	if len(notifier.digests) != 0 {
		t.Fatalf("expected no digest alongside an alert, got %d", len(notifier.digests))
	}
	if st.alert.IsZero() {
		t.Fatal("alert time not recorded")
	}
	if notifier.charts[0] == nil {
		t.Fatal("expected chart attached to alert")
	}
}

func TestRunDigestThrottle(t *testing.T) {
	notifier := &fakeNotifier{}
	st := &fakeState{}
	s := newTestScanner([]string{"AAPL"}, map[string]bool{}, notifier, st)

	base := time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(notifier.digests) != 1 {
		t.Fatalf("expected first run to send a digest, got %d", len(notifier.digests))
	}

	// Second run 10 minutes later stays silent.
	s.now = func() time.Time { return base.Add(10 * time.Minute) }
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(notifier.digests) != 1 {
		t.Fatalf("second run inside the interval must not send, got %d digests", len(notifier.digests))
	}

	// A run past the interval sends again.
	s.now = func() time.Time { return base.Add(31 * time.Minute) }
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("third run: %v", err)
	}
	if len(notifier.digests) != 2 {
		t.Fatalf("expected second digest after interval, got %d", len(notifier.digests))
	}
}

func TestRunSkipsFailingSymbols(t *testing.T) {
	notifier := &fakeNotifier{}
	st := &fakeState{}
	s := newTestScanner([]string{"BAD", "AAPL"}, map[string]bool{"AAPL": true}, notifier, st)
	s.bars = &fakeBars{
		bars: map[string][]domain.Bar{},
		errs: map[string]error{"BAD": fmt.Errorf("%w: BAD", domain.ErrDataUnavailable)},
	}

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.alerts) != 1 || notifier.alerts[0].Symbol != "AAPL" {
		t.Fatalf("expected alert for AAPL despite BAD failing, got %+v", notifier.alerts)
	}
}

func TestRunChartFailureDegradesToText(t *testing.T) {
	notifier := &fakeNotifier{}
	st := &fakeState{}
	s := newTestScanner([]string{"AAPL"}, map[string]bool{"AAPL": true}, notifier, st)
	s.charts = &fakeCharts{err: fmt.Errorf("render exploded")}

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(notifier.alerts))
	}
	if notifier.charts[0] != nil {
		t.Fatal("expected nil chart after render failure")
	}
}

func TestRunNewsWindowGatesSentiment(t *testing.T) {
	notifier := &fakeNotifier{}
	st := &fakeState{}
	sentiment := &fakeSentiment{}
	s := NewScanner(
		&fakeBars{bars: map[string][]domain.Bar{}},
		&fakeEvaluator{},
		&fakeBuilder{accept: map[string]bool{"AAPL": true}},
		sentiment,
		&fakeCharts{},
		notifier,
		st,
		Options{
			Symbols:        []string{"AAPL"},
			DigestInterval: 30 * time.Minute,
			InNewsWindow:   func(time.Time) bool { return false },
		},
		noop.NewTracerProvider().Tracer("test"),
		zerolog.Nop(),
	)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sentiment.calls != 0 {
		t.Fatalf("sentiment must not be fetched outside the window, got %d calls", sentiment.calls)
	}
}
