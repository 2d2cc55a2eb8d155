package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triptally/triptally-api/models"
)

func TestCreateTrip(t *testing.T) {
	env := newTestEnv(t)

	trip := env.createTrip(t)

	assert.NotEmpty(t, trip.ID)
	assert.Equal(t, testUserID, trip.UserID)
	assert.Equal(t, "Summer in Italy", trip.Name)
	assert.Equal(t, models.CurrencyEUR, trip.Currency)
}

func TestCreateTripEnrichesDestinations(t *testing.T) {
	env := newTestEnv(t)

	req := testTripRequest()
	req.Destinations = []models.Destination{{Name: "Paris"}}
	w := env.do(t, http.MethodPost, "/trips", req)
	require.Equal(t, http.StatusCreated, w.Code)

	trip := decode[models.Trip](t, w)
	require.Len(t, trip.Destinations, 1)
	assert.Equal(t, "France", trip.Destinations[0].Country)
	assert.NotEmpty(t, trip.Destinations[0].Flag)
}

func TestCreateTripRejectsBackwardsDates(t *testing.T) {
	env := newTestEnv(t)

	req := testTripRequest()
	req.StartDate, req.EndDate = req.EndDate, req.StartDate
	w := env.do(t, http.MethodPost, "/trips", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateTripRejectsFixedBudgetWithoutAmount(t *testing.T) {
	env := newTestEnv(t)

	req := testTripRequest()
	req.InitialBudget = 0
	req.IsOpenBudget = false
	w := env.do(t, http.MethodPost, "/trips", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTripNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/trips/no-such-trip", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateTripPartial(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t)

	name := "Winter in Italy"
	budget := 3000.0
	w := env.do(t, http.MethodPut, "/trips/"+trip.ID, models.UpdateTripRequest{
		Name:          &name,
		InitialBudget: &budget,
	})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decode[models.Trip](t, w)
	assert.Equal(t, "Winter in Italy", updated.Name)
	assert.Equal(t, 3000.0, updated.InitialBudget)
	// untouched fields survive
	assert.Equal(t, trip.StartDate.UTC(), updated.StartDate.UTC())
	assert.Equal(t, 500.0, updated.InitialCash)
}

func TestUpdateCashOverride(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t)

	remaining := 320.0
	w := env.do(t, http.MethodPut, "/trips/"+trip.ID+"/cash", models.UpdateCashRequest{
		RemainingCash: &remaining,
	})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decode[models.Trip](t, w)
	require.NotNil(t, updated.RemainingCash)
	assert.Equal(t, 320.0, *updated.RemainingCash)
}

func TestUpdateCashNullClearsOverride(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t) // initial cash 500

	w := env.do(t, http.MethodPost, "/trips/"+trip.ID+"/expenses", models.CreateExpenseRequest{
		Date:          time.Date(2025, 7, 2, 12, 0, 0, 0, time.UTC),
		Category:      models.CategoryFood,
		Amount:        150,
		PaymentMethod: models.PaymentCash,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	remaining := 300.0
	w = env.do(t, http.MethodPut, "/trips/"+trip.ID+"/cash", models.UpdateCashRequest{RemainingCash: &remaining})
	require.Equal(t, http.StatusOK, w.Code)

	// explicit null drops the override and the ledger derives again
	w = env.do(t, http.MethodPut, "/trips/"+trip.ID+"/cash", models.UpdateCashRequest{RemainingCash: nil})
	require.Equal(t, http.StatusOK, w.Code)

	cleared := decode[models.Trip](t, w)
	assert.Nil(t, cleared.RemainingCash)

	w = env.do(t, http.MethodGet, "/trips/"+trip.ID+"/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	summary := decode[models.TripSummary](t, w)
	assert.Equal(t, 350.0, summary.RemainingCash)
}

func TestUpdateCashRejectsNegative(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t)

	remaining := -10.0
	w := env.do(t, http.MethodPut, "/trips/"+trip.ID+"/cash", models.UpdateCashRequest{
		RemainingCash: &remaining,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTripCascadesExpenses(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t)

	w := env.do(t, http.MethodPost, "/trips/"+trip.ID+"/expenses", models.CreateExpenseRequest{
		Date:          time.Date(2025, 7, 2, 12, 0, 0, 0, time.UTC),
		Category:      models.CategoryFood,
		Amount:        40,
		PaymentMethod: models.PaymentCash,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodDelete, "/trips/"+trip.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/trips/"+trip.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/trips/"+trip.ID+"/summary", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTripsScopedToUser(t *testing.T) {
	env := newTestEnv(t)
	env.createTrip(t)

	// a trip belonging to someone else never shows up
	other := testTripRequest()
	_, err := env.trips.Create(context.Background(), models.Trip{
		ID:            "other-trip",
		UserID:        "user-2",
		Name:          other.Name,
		Destinations:  other.Destinations,
		StartDate:     other.StartDate,
		EndDate:       other.EndDate,
		Currency:      other.Currency,
		InitialBudget: other.InitialBudget,
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/trips", nil)
	require.Equal(t, http.StatusOK, w.Code)

	trips := decode[[]models.Trip](t, w)
	require.Len(t, trips, 1)
	assert.Equal(t, testUserID, trips[0].UserID)
}
