package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/triptally/triptally-api/models"
	"github.com/triptally/triptally-api/repository"
	"github.com/triptally/triptally-api/services"
)

const testUserID = "user-1"

// stubAI answers every prediction with fixed values, so handler tests never
// leave the process.
type stubAI struct {
	category models.ExpenseCategory
	rate     string
}

func (s *stubAI) PredictCategory(_ context.Context, _ string) (models.ExpenseCategory, error) {
	return s.category, nil
}

func (s *stubAI) PredictRate(_ context.Context, _, _ models.Currency) (string, error) {
	return s.rate, nil
}

type testEnv struct {
	router   *gin.Engine
	trips    *repository.MemoryTripRepository
	expenses *repository.MemoryExpenseRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	expenses := repository.NewMemoryExpenseRepository()
	trips := repository.NewMemoryTripRepository(expenses)
	ai := &stubAI{category: models.CategoryActivity, rate: "4.0"}

	tripHandler := &TripHandler{
		Trips:     trips,
		Expenses:  expenses,
		Countries: services.NewCountryService(nil),
	}
	expenseHandler := &ExpenseHandler{
		Trips:       trips,
		Expenses:    expenses,
		Categorizer: services.NewCategorizerService(nil, ai),
		Rates:       services.NewRateService(ai),
	}
	summaryHandler := &SummaryHandler{Trips: trips, Expenses: expenses}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Next()
	})

	router.GET("/trips", tripHandler.ListTrips)
	router.POST("/trips", tripHandler.CreateTrip)
	router.GET("/trips/:id", tripHandler.GetTrip)
	router.PUT("/trips/:id", tripHandler.UpdateTrip)
	router.DELETE("/trips/:id", tripHandler.DeleteTrip)
	router.PUT("/trips/:id/cash", tripHandler.UpdateCash)
	router.GET("/trips/:id/expenses", expenseHandler.ListExpenses)
	router.POST("/trips/:id/expenses", expenseHandler.CreateExpense)
	router.GET("/trips/:id/expenses/:expenseId", expenseHandler.GetExpense)
	router.PUT("/trips/:id/expenses/:expenseId", expenseHandler.UpdateExpense)
	router.DELETE("/trips/:id/expenses/:expenseId", expenseHandler.DeleteExpense)
	router.GET("/trips/:id/summary", summaryHandler.GetTripSummary)
	router.GET("/analytics/summaries", summaryHandler.ListSummaries)
	router.GET("/analytics/comparison", summaryHandler.CompareTrips)

	return &testEnv{router: router, trips: trips, expenses: expenses}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func testTripRequest() models.CreateTripRequest {
	return models.CreateTripRequest{
		Name:          "Summer in Italy",
		Destinations:  []models.Destination{{Name: "Rome"}},
		StartDate:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC),
		Currency:      models.CurrencyEUR,
		InitialBudget: 2000,
		InitialCash:   500,
	}
}

func (e *testEnv) createTrip(t *testing.T) models.Trip {
	t.Helper()
	w := e.do(t, http.MethodPost, "/trips", testTripRequest())
	if w.Code != http.StatusCreated {
		t.Fatalf("create trip: got %d, body %s", w.Code, w.Body.String())
	}
	return decode[models.Trip](t, w)
}
