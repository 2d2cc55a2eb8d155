package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCountryPredictor struct {
	country string
	flag    string
	err     error
}

func (s *stubCountryPredictor) PredictCountry(_ context.Context, _ string) (string, string, error) {
	return s.country, s.flag, s.err
}

func TestDetectLocal(t *testing.T) {
	svc := NewCountryService(nil)

	cases := []struct {
		destination string
		wantCountry string
	}{
		{"Berlin", "Germany"},
		{"berlin", "Germany"},
		{"Paris, France", "France"},
		{"Tel Aviv", "Israel"},
		{"Bangkok", "Thailand"},
	}
	for _, tc := range cases {
		t.Run(tc.destination, func(t *testing.T) {
			info := svc.DetectLocal(tc.destination)
			require.NotNil(t, info)
			assert.Equal(t, tc.wantCountry, info.Country)
			assert.NotEmpty(t, info.Flag)
		})
	}

	assert.Nil(t, svc.DetectLocal(""))
	assert.Nil(t, svc.DetectLocal("Atlantis"))
}

func TestDetectFallsBackToAI(t *testing.T) {
	ai := &stubCountryPredictor{country: "Portugal", flag: "🇵🇹"}
	svc := NewCountryService(ai)

	info := svc.Detect(context.Background(), "Porto")
	require.NotNil(t, info)
	assert.Equal(t, "Portugal", info.Country)

	// Known destinations never reach the AI.
	svc = NewCountryService(&stubCountryPredictor{err: errors.New("down")})
	info = svc.Detect(context.Background(), "Madrid")
	require.NotNil(t, info)
	assert.Equal(t, "Spain", info.Country)
}

func TestDetectUnknownEverywhere(t *testing.T) {
	svc := NewCountryService(&stubCountryPredictor{err: errors.New("down")})
	assert.Nil(t, svc.Detect(context.Background(), "Atlantis"))
}
