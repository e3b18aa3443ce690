// backend/src/services/rate_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/financeflow/backend/src/logger"
	"github.com/username/financeflow/backend/src/processors"
)

const rateCacheKey = "rate-EUR-BRL"

// openERResponse is the shape of the open.er-api.com latest-rates payload;
// only the BRL entry is consumed.
type openERResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// RateService fetches and caches the EUR→BRL rate. A fetch failure never
// propagates: callers always get a converter, marked stale when the rate is
// the default or a previously cached value past its TTL.
type RateService struct {
	baseURL     string
	defaultRate float64
	client      *http.Client
	cache       *cache.Cache

	mu        sync.Mutex
	lastKnown float64
}

func NewRateService(baseURL string, defaultRate float64, timeout, ttl time.Duration) *RateService {
	if defaultRate <= 0 {
		defaultRate = processors.DefaultBRLPerEUR
	}
	return &RateService{
		baseURL:     baseURL,
		defaultRate: defaultRate,
		client:      &http.Client{Timeout: timeout},
		cache:       cache.New(ttl, 2*ttl),
	}
}

// Converter returns the current converter. The rate comes from the cache when
// fresh; otherwise one fetch is attempted and, on failure, the last known or
// default rate is kept with the stale flag set.
func (s *RateService) Converter(ctx context.Context) processors.Converter {
	if rate, found := s.cache.Get(rateCacheKey); found {
		return processors.NewConverter(rate.(float64), false)
	}

	rate, err := s.fetch(ctx)
	if err != nil {
		s.mu.Lock()
		fallback := s.lastKnown
		s.mu.Unlock()
		if fallback <= 0 {
			fallback = s.defaultRate
		}
		logger.WarnFromContext(ctx, "Exchange rate fetch failed, using fallback rate", "fallback", fallback, "error", err)
		return processors.NewConverter(fallback, true)
	}

	s.cache.Set(rateCacheKey, rate, cache.DefaultExpiration)
	s.mu.Lock()
	s.lastKnown = rate
	s.mu.Unlock()
	return processors.NewConverter(rate, false)
}

func (s *RateService) fetch(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/EUR", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate API returned status %s", resp.Status)
	}

	var payload openERResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decoding rate API response: %w", err)
	}

	rate, ok := payload.Rates["BRL"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("BRL rate missing from response")
	}

	logger.FromContext(ctx).Debug("Fetched EUR→BRL exchange rate", "rate", rate)
	return rate, nil
}
