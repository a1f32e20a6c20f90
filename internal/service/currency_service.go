package service

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// CurrencyRate is one quote from the CBR daily feed.
type CurrencyRate struct {
	Name  string
	Value string
}

type valCurs struct {
	Valutes []valute `xml:"Valute"`
}

type valute struct {
	ID    string `xml:"ID,attr"`
	Name  string `xml:"Name"`
	Value string `xml:"Value"`
}

// CurrencyService fetches the Central Bank of Russia daily exchange-rate
// feed and keeps the last successful result cached in memory. The feed is
// served in windows-1251, so decoding goes through a charset reader.
type CurrencyService struct {
	client  *http.Client
	feedURL string
	codes   []string
	log     *zap.Logger

	mu        sync.Mutex
	cached    []CurrencyRate
	fetchedAt time.Time
}

func NewCurrencyService(feedURL string, codes []string, log *zap.Logger) *CurrencyService {
	return &CurrencyService{
		client:  &http.Client{Timeout: 15 * time.Second},
		feedURL: feedURL,
		codes:   codes,
		log:     log.With(zap.String("component", "currency")),
	}
}

// Rates returns the cached quote list, fetching the feed first when the
// cache is still empty.
func (s *CurrencyService) Rates(ctx context.Context) ([]CurrencyRate, error) {
	s.mu.Lock()
	cached := s.cached
	s.mu.Unlock()

	if len(cached) > 0 {
		return cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches the feed and replaces the cache. Run periodically from
// the scheduler.
func (s *CurrencyService) Refresh(ctx context.Context) ([]CurrencyRate, error) {
	rates, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = rates
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	s.log.Info("currency rates refreshed", zap.Int("count", len(rates)))
	return rates, nil
}

func (s *CurrencyService) fetch(ctx context.Context) ([]CurrencyRate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch currency feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("currency feed status %d", resp.StatusCode)
	}

	parsed, err := parseCurrencyFeed(resp.Body)
	if err != nil {
		return nil, err
	}

	return filterCurrencyRates(parsed, s.codes), nil
}

// parseCurrencyFeed decodes the CBR XML document, converting windows-1251
// content to UTF-8 on the fly.
func parseCurrencyFeed(r io.Reader) (*valCurs, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "windows-1251":
			return charmap.Windows1251.NewDecoder().Reader(input), nil
		case "utf-8", "":
			return input, nil
		default:
			return nil, fmt.Errorf("unsupported charset %q", charset)
		}
	}

	var doc valCurs
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse currency feed: %w", err)
	}
	return &doc, nil
}

func filterCurrencyRates(doc *valCurs, codes []string) []CurrencyRate {
	wanted := make(map[string]bool, len(codes))
	for _, code := range codes {
		wanted[code] = true
	}

	var rates []CurrencyRate
	for _, v := range doc.Valutes {
		if !wanted[v.ID] {
			continue
		}
		rates = append(rates, CurrencyRate{Name: v.Name, Value: v.Value})
	}
	return rates
}
