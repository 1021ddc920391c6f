// Package marketdata fetches OHLCV history from the public Yahoo Finance
// chart endpoint. The endpoint is consumed as a black box: symbol, range and
// interval in, bar sequence out.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// Lookback windows used by the evaluators.
	DailyRange       = "3mo"
	DailyInterval    = "1d"
	IntradayRange    = "2d"
	IntradayInterval = "5m"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	log        zerolog.Logger
}

func NewClient(tracer trace.Tracer, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tracer:     tracer,
		log:        log.With().Str("component", "marketdata").Logger(),
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(baseURL string, tracer trace.Tracer, log zerolog.Logger) *Client {
	c := NewClient(tracer, log)
	c.baseURL = baseURL
	return c
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetBars fetches the bar sequence for a symbol. Rows with null fields
// (halted or still-forming bars) are dropped. An empty result maps to
// domain.ErrDataUnavailable, transport and decode problems to
// domain.ErrNetwork.
func (c *Client) GetBars(ctx context.Context, symbol, rng, interval string) ([]domain.Bar, error) {
	ctx, span := c.tracer.Start(ctx, "marketdata.get-bars")
	defer span.End()

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(rng), url.QueryEscape(interval))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request for %s: %v", domain.ErrNetwork, symbol, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s %s/%s: %v", domain.ErrNetwork, symbol, rng, interval, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrDataUnavailable, symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: http %d", domain.ErrNetwork, symbol, resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrNetwork, symbol, err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrDataUnavailable, symbol, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrDataUnavailable, symbol)
	}

	result := payload.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]domain.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		cl := at(quote.Close, i)
		v := at(quote.Volume, i)
		if o == nil || h == nil || l == nil || cl == nil {
			continue
		}
		bar := domain.Bar{
			Time:  time.Unix(ts, 0).UTC(),
			Open:  *o,
			High:  *h,
			Low:   *l,
			Close: *cl,
		}
		if v != nil {
			bar.Volume = *v
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s returned no usable rows", domain.ErrDataUnavailable, symbol)
	}

	c.log.Debug().Str("symbol", symbol).Str("range", rng).Str("interval", interval).
		Int("bars", len(bars)).Msg("fetched bars")
	return bars, nil
}

func at(values []*float64, i int) *float64 {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}
