package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triptally/triptally-api/models"
)

type stubRatePredictor struct {
	text string
	err  error
}

func (s *stubRatePredictor) PredictRate(_ context.Context, _, _ models.Currency) (string, error) {
	return s.text, s.err
}

func newTestRateService(ai ratePredictor, fallbackURL string) *RateService {
	s := NewRateService(ai)
	if fallbackURL != "" {
		s.fallbackURL = fallbackURL
	}
	return s
}

func TestGetRateSameCurrency(t *testing.T) {
	s := newTestRateService(nil, "")
	rate, err := s.GetRate(context.Background(), models.CurrencyEUR, models.CurrencyEUR)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
}

func TestGetRateFromAI(t *testing.T) {
	s := newTestRateService(&stubRatePredictor{text: " 1.0842 "}, "")
	rate, err := s.GetRate(context.Background(), models.CurrencyEUR, models.CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, 1.0842, rate)
}

func TestGetRateFallbackAPI(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/EUR", r.URL.Path)
		w.Write([]byte(`{"base":"EUR","rates":{"USD":1.09,"ILS":4.02}}`))
	}))
	defer srv.Close()

	ai := &stubRatePredictor{err: errors.New("model offline")}
	s := newTestRateService(ai, srv.URL)

	rate, err := s.GetRate(context.Background(), models.CurrencyEUR, models.CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, 1.09, rate)

	// Second lookup inside the TTL is served from cache.
	rate, err = s.GetRate(context.Background(), models.CurrencyEUR, models.CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, 1.09, rate)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGetRateGarbageAIFallsThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"rates":{"ILS":3.71}}`))
	}))
	defer srv.Close()

	s := newTestRateService(&stubRatePredictor{text: "about four shekels"}, srv.URL)
	rate, err := s.GetRate(context.Background(), models.CurrencyUSD, models.CurrencyILS)
	require.NoError(t, err)
	assert.Equal(t, 3.71, rate)
}

func TestGetRateStaticLastResort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ai := &stubRatePredictor{err: errors.New("model offline")}
	s := newTestRateService(ai, srv.URL)

	rate, err := s.GetRate(context.Background(), models.CurrencyEUR, models.CurrencyILS)
	require.NoError(t, err)
	assert.Equal(t, staticRates[models.CurrencyEUR][models.CurrencyILS], rate)
}

func TestConvert(t *testing.T) {
	s := newTestRateService(&stubRatePredictor{text: "2"}, "")
	converted, rate, err := s.Convert(context.Background(), 50, models.CurrencyUSD, models.CurrencyEUR)
	require.NoError(t, err)
	assert.Equal(t, 2.0, rate)
	assert.Equal(t, 100.0, converted)
}

func TestGetRateUnknownCurrency(t *testing.T) {
	s := newTestRateService(nil, "")
	_, err := s.GetRate(context.Background(), models.Currency("GBP"), models.CurrencyEUR)
	assert.ErrorIs(t, err, models.ErrMalformed)
}
