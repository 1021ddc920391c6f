package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/yordihernandez1/trading-alert2/internal/bot"
	"github.com/yordihernandez1/trading-alert2/internal/chart"
	"github.com/yordihernandez1/trading-alert2/internal/config"
	"github.com/yordihernandez1/trading-alert2/internal/logger"
	"github.com/yordihernandez1/trading-alert2/internal/marketdata"
	"github.com/yordihernandez1/trading-alert2/internal/news"
	"github.com/yordihernandez1/trading-alert2/internal/opportunity"
	"github.com/yordihernandez1/trading-alert2/internal/service"
	signalengine "github.com/yordihernandez1/trading-alert2/internal/signal"
	"github.com/yordihernandez1/trading-alert2/internal/state"
	"github.com/yordihernandez1/trading-alert2/internal/tracing"
)

const runTimeout = 5 * time.Minute

var (
	loadEnvFunc     = godotenv.Load
	loadConfigFunc  = config.Load
	initTracerFunc  = tracing.Init
	newNotifierFunc = bot.New
	newStoreFunc    = state.NewStore
	exitFunc        = os.Exit
)

func main() {
	if err := run(); err != nil {
		exitFunc(1)
	}
}

func run() error {
	loadEnvFunc()

	cfg, err := loadConfigFunc()
	if err != nil {
		fallback := logger.New("info")
		fallback.Error().Err(err).Msg("invalid configuration")
		return err
	}
	log := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, cfg.TracingEnabled)
	if err != nil {
		log.Error().Err(err).Msg("tracer init failed")
		return err
	}
	defer func() {
		if err := tracing.Shutdown(context.Background(), tp); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	notifier, err := newNotifierFunc(cfg.BotToken, cfg.ChatID, log)
	if err != nil {
		log.Error().Err(err).Msg("telegram setup failed")
		return err
	}

	store, err := newStoreFunc(cfg.StateDir)
	if err != nil {
		log.Error().Err(err).Msg("state store setup failed")
		return err
	}

	bars := marketdata.NewClient(tracer, log)
	engine := signalengine.NewEngine(signalengine.Rules{
		TrendMode:           cfg.TrendMode,
		CrossoverWeight:     cfg.CrossoverWeight,
		RecoveryDoubleCount: cfg.RecoveryDoubleCount,
	})
	sizer := opportunity.NewSizer(cfg.ScoreScale)
	scraper := news.NewScraper(0, log)
	sentiment := news.NewService(scraper, tracer, log)
	renderer := chart.NewRenderer()

	scanner := service.NewScanner(
		bars, engine, sizer, sentiment, renderer, notifier, store,
		service.Options{
			Symbols:        cfg.Symbols,
			DigestInterval: cfg.DigestInterval(),
			InNewsWindow:   cfg.InNewsWindow,
		},
		tracer, log,
	)

	if err := scanner.Run(ctx); err != nil {
		log.Error().Err(err).Msg("scan failed")
		return err
	}
	return nil
}
