package domain

import (
	"errors"
	"time"
)

// Closed set of analysis outcomes. Anything not covered by these is a bug,
// not a skip condition.
var (
	// ErrInsufficientData means the fetched history is too short (or too
	// NaN-ridden) for the evaluator's windows.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDataUnavailable means the market data source has no bars for the
	// symbol and range.
	ErrDataUnavailable = errors.New("market data unavailable")
	// ErrComputeFailed means an indicator could not be computed over an
	// otherwise well-formed series.
	ErrComputeFailed = errors.New("indicator computation failed")
	// ErrNetwork covers transport-level failures against external sources.
	ErrNetwork = errors.New("network failure")
)

type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

type Crossover string

const (
	CrossoverBullish Crossover = "bullish"
	CrossoverBearish Crossover = "bearish"
	CrossoverNone    Crossover = "none"
)

type RSIZone string

const (
	ZoneOverbought RSIZone = "overbought"
	ZoneOversold   RSIZone = "oversold"
	ZoneNeutral    RSIZone = "neutral"
)

type Sentiment string

const (
	SentimentPositive    Sentiment = "positivo"
	SentimentNegative    Sentiment = "negativo"
	SentimentNeutral     Sentiment = "neutro"
	SentimentUnavailable Sentiment = "no disponible"
)

// DailySnapshot is the per-symbol view over the daily window. Computed fresh
// each run, discarded after the message is rendered.
type DailySnapshot struct {
	Symbol     string
	Price      float64
	PrevClose  float64
	RSI        float64
	MACD       float64
	MACDSignal float64
	SMA50      float64
	SMA200     float64
	ATR        float64

	Trend        Trend
	Support      float64
	Resistance   float64
	Return7d     float64
	Volatility14 float64

	BullishSignals []string
	BearishSignals []string
	BullScore      int
	BearScore      int
}

// IntradaySnapshot is the 5-minute view. ProbUp and ProbDown are sums of
// independent rule contributions, not probabilities; they need not total 100.
type IntradaySnapshot struct {
	Symbol      string
	Price       float64
	EMA9        float64
	EMA21       float64
	RSI         float64
	VolumeRatio float64

	Crossover Crossover
	RSIZone   RSIZone
	ProbUp    int
	ProbDown  int
	Direction Direction

	Risk            float64
	Reward          float64
	RiskReward      float64
	RiskRewardValid bool
	TimeEstimateMin int
}

// Candidate is a symbol that survived the volatility and risk/reward filters,
// paired with its entry levels and a score normalized to [0,100].
type Candidate struct {
	Symbol   string
	Daily    DailySnapshot
	Intraday IntradaySnapshot

	Entry         float64
	StopLoss      float64
	TakeProfit    float64
	StopPct       float64
	TakeProfitPct float64
	Score         float64
}

// SentimentReport carries the scraped headlines alongside their lexicon
// classification. Headlines may be empty when both sources failed.
type SentimentReport struct {
	Sentiment Sentiment
	Compound  float64
	Headlines []string
}

type ChartImage struct {
	Bytes    []byte
	MimeType string
	Width    int
	Height   int
}
