package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/triptally/triptally-api/models"
)

// ============================================================================
// EXCHANGE RATE SERVICE
// Rate resolution order: in-memory cache (1h), AI, HTTP fallback API, static
// table. Conversion happens once, at expense write time; stored amounts are
// never recomputed when rates move later.
// ============================================================================

const rateCacheTTL = time.Hour

// staticRates are the last-resort rates when both the AI and the fallback
// API are unreachable. Approximate, better than refusing the expense.
var staticRates = map[models.Currency]map[models.Currency]float64{
	models.CurrencyEUR: {models.CurrencyUSD: 1.08, models.CurrencyILS: 4.00},
	models.CurrencyUSD: {models.CurrencyEUR: 0.93, models.CurrencyILS: 3.70},
	models.CurrencyILS: {models.CurrencyEUR: 0.25, models.CurrencyUSD: 0.27},
}

// ratePredictor is the AI capability the rate service tries first.
type ratePredictor interface {
	PredictRate(ctx context.Context, from, to models.Currency) (string, error)
}

type cachedRate struct {
	rate      float64
	fetchedAt time.Time
}

type RateService struct {
	ai          ratePredictor
	client      *http.Client
	fallbackURL string

	mu    sync.Mutex
	cache map[string]cachedRate
}

// NewRateService builds the rate lookup. ai may be nil (fallback API only).
// EXCHANGE_RATE_API_URL overrides the fallback base URL; tests point it at a
// local server.
func NewRateService(ai ratePredictor) *RateService {
	base := os.Getenv("EXCHANGE_RATE_API_URL")
	if base == "" {
		base = "https://api.exchangerate-api.com/v4/latest"
	}
	return &RateService{
		ai:          ai,
		client:      &http.Client{Timeout: 10 * time.Second},
		fallbackURL: base,
		cache:       make(map[string]cachedRate),
	}
}

// GetRate returns the conversion rate from one currency to another.
func (s *RateService) GetRate(ctx context.Context, from, to models.Currency) (float64, error) {
	if from == to {
		return 1, nil
	}
	if !from.Valid() || !to.Valid() {
		return 0, fmt.Errorf("%w: unknown currency pair %s/%s", models.ErrMalformed, from, to)
	}

	key := string(from) + "-" + string(to)
	s.mu.Lock()
	if c, ok := s.cache[key]; ok && time.Since(c.fetchedAt) < rateCacheTTL {
		s.mu.Unlock()
		return c.rate, nil
	}
	s.mu.Unlock()

	rate, err := s.fetchRate(ctx, from, to)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.cache[key] = cachedRate{rate: rate, fetchedAt: time.Now()}
	s.mu.Unlock()
	return rate, nil
}

// Convert converts an amount between currencies at the current rate.
func (s *RateService) Convert(ctx context.Context, amount float64, from, to models.Currency) (float64, float64, error) {
	rate, err := s.GetRate(ctx, from, to)
	if err != nil {
		return 0, 0, err
	}
	return amount * rate, rate, nil
}

func (s *RateService) fetchRate(ctx context.Context, from, to models.Currency) (float64, error) {
	if s.ai != nil {
		text, err := s.ai.PredictRate(ctx, from, to)
		if err == nil {
			if rate, perr := strconv.ParseFloat(strings.TrimSpace(text), 64); perr == nil && rate > 0 {
				return rate, nil
			}
			log.Printf("[Rates] Unusable AI rate %q, trying fallback API", text)
		} else {
			log.Printf("[Rates] AI rate lookup failed: %v", err)
		}
	}

	rate, err := s.fallbackRate(ctx, from, to)
	if err == nil {
		return rate, nil
	}
	log.Printf("[Rates] Fallback API failed: %v", err)

	if static, ok := staticRates[from][to]; ok {
		return static, nil
	}
	return 0, fmt.Errorf("no rate available for %s to %s: %w", from, to, err)
}

func (s *RateService) fallbackRate(ctx context.Context, from, to models.Currency) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.fallbackURL+"/"+string(from), nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate API status %d", resp.StatusCode)
	}

	var result struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}

	rate, ok := result.Rates[string(to)]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("no rate for %s in response", to)
	}
	return rate, nil
}
