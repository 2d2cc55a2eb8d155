package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/triptally/triptally-api/models"
)

type stubPredictor struct {
	category models.ExpenseCategory
	err      error
	calls    int
}

func (s *stubPredictor) PredictCategory(_ context.Context, _ string) (models.ExpenseCategory, error) {
	s.calls++
	return s.category, s.err
}

type stubCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]string)}
}

func (c *stubCache) Get(_ context.Context, label string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[label]
	return v, ok
}

func (c *stubCache) Put(_ context.Context, label, category, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[label] = category
	return nil
}

func TestGetCategoryKeywords(t *testing.T) {
	svc := NewCategorizerService(nil, nil)

	cases := []struct {
		description string
		want        models.ExpenseCategory
	}{
		{"Ryanair to Berlin", models.CategoryFlight},
		{"טיסה לברלין", models.CategoryFlight},
		{"Hotel Sacher two nights", models.CategoryAccommodation},
		{"airbnb downtown", models.CategoryAccommodation},
		{"Pizza and drinks", models.CategoryFood},
		{"ארוחת ערב במסעדה", models.CategoryFood},
		{"Uber to the airport", models.CategoryTransport},
		{"travel insurance policy", models.CategoryInsurance},
		{"Museum tickets", models.CategoryActivity},
		{"souvenir shop", models.CategoryActivity},
		{"exchange fee", models.CategoryMisc},
		{"", models.CategoryMisc},
		{"xyzzy unknowable", models.CategoryMisc}, // no keyword, no cache, no AI
	}
	for _, tc := range cases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.want, svc.GetCategory(context.Background(), tc.description))
		})
	}
}

func TestGetCategoryUsesCacheBeforeAI(t *testing.T) {
	cache := newStubCache()
	cache.Put(context.Background(), "mystery merchant 42", "activity", "AI")

	ai := &stubPredictor{category: models.CategoryFood}
	svc := NewCategorizerService(cache, ai)

	got := svc.GetCategory(context.Background(), "Mystery Merchant 42")
	assert.Equal(t, models.CategoryActivity, got)
	assert.Zero(t, ai.calls)
}

func TestGetCategoryFallsBackToAI(t *testing.T) {
	ai := &stubPredictor{category: models.CategoryTransport}
	svc := NewCategorizerService(nil, ai)

	got := svc.GetCategory(context.Background(), "zzq unknown label")
	assert.Equal(t, models.CategoryTransport, got)
	assert.Equal(t, 1, ai.calls)
}

func TestGetCategoryAIFailureDegradesToMisc(t *testing.T) {
	ai := &stubPredictor{category: models.CategoryMisc, err: errors.New("api down")}
	svc := NewCategorizerService(nil, ai)

	got := svc.GetCategory(context.Background(), "zzq unknown label")
	assert.Equal(t, models.CategoryMisc, got)
}
