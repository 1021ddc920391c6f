package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"

	"github.com/yordihernandez1/trading-alert2/internal/domain"
)

const (
	defaultBingBaseURL   = "https://www.bing.com"
	defaultGoogleBaseURL = "https://news.google.com"
	userAgent            = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// Structural selectors against third-party result pages. Brittle by
	// construction; zero matches is a normal outcome, not an error.
	bingHeadlineSelector   = "a.title"
	googleArticleSelector  = "article"
	googleHeadlineSelector = "h3, h4"
)

// Scraper extracts news headlines for a symbol. Bing News is the primary
// source (scraped with colly); Google News is the fallback (fetched directly
// and parsed with goquery).
type Scraper struct {
	bingBaseURL   string
	googleBaseURL string
	timeout       time.Duration
	httpClient    *http.Client
	log           zerolog.Logger
}

func NewScraper(timeout time.Duration, log zerolog.Logger) *Scraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{
		bingBaseURL:   defaultBingBaseURL,
		googleBaseURL: defaultGoogleBaseURL,
		timeout:       timeout,
		httpClient:    &http.Client{Timeout: timeout},
		log:           log.With().Str("component", "news").Logger(),
	}
}

// NewScraperWithBaseURLs points both sources at stub servers for tests.
func NewScraperWithBaseURLs(bingBaseURL, googleBaseURL string, timeout time.Duration, log zerolog.Logger) *Scraper {
	s := NewScraper(timeout, log)
	s.bingBaseURL = bingBaseURL
	s.googleBaseURL = googleBaseURL
	return s
}

// Headlines returns up to max headline strings for the symbol, trying the
// primary source first and falling back to the secondary. Both failing (or
// both empty) returns domain.ErrNetwork so the caller can degrade sentiment
// to "unavailable" without cancelling the run.
func (s *Scraper) Headlines(ctx context.Context, symbol string, max int) ([]string, error) {
	if max <= 0 {
		max = 5
	}

	headlines, err := s.scrapeBing(ctx, symbol, max)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("primary news source failed, trying fallback")
	}
	if len(headlines) > 0 {
		return headlines, nil
	}

	headlines, fbErr := s.scrapeGoogle(ctx, symbol, max)
	if fbErr != nil {
		s.log.Warn().Err(fbErr).Str("symbol", symbol).Msg("fallback news source failed")
	}
	if len(headlines) > 0 {
		return headlines, nil
	}
	return nil, fmt.Errorf("%w: no headlines for %s", domain.ErrNetwork, symbol)
}

func (s *Scraper) scrapeBing(ctx context.Context, symbol string, max int) ([]string, error) {
	c := colly.NewCollector(colly.MaxDepth(1))
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	var headlines []string
	c.OnHTML(bingHeadlineSelector, func(e *colly.HTMLElement) {
		if len(headlines) >= max {
			return
		}
		title := strings.TrimSpace(e.Text)
		if title != "" {
			headlines = append(headlines, title)
		}
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	searchURL := fmt.Sprintf("%s/news/search?q=%s", s.bingBaseURL, url.QueryEscape(symbol+" stock"))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", searchURL, err)
	}
	c.Wait()

	if visitErr != nil {
		return nil, visitErr
	}
	return headlines, nil
}

func (s *Scraper) scrapeGoogle(ctx context.Context, symbol string, max int) ([]string, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s&hl=en-US", s.googleBaseURL, url.QueryEscape(symbol+" stock"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google news http %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var headlines []string
	doc.Find(googleArticleSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find(googleHeadlineSelector).First().Text())
		if title != "" {
			headlines = append(headlines, title)
		}
		return len(headlines) < max
	})
	return headlines, nil
}
