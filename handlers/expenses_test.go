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

func testExpenseRequest() models.CreateExpenseRequest {
	return models.CreateExpenseRequest{
		Date:          time.Date(2025, 7, 2, 12, 0, 0, 0, time.UTC),
		Category:      models.CategoryFood,
		Amount:        40,
		PaymentMethod: models.PaymentCredit,
		Description:   "Trattoria dinner",
	}
}

func TestCreateExpense(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t)

	w := env.do(t, http.MethodPost, "/trips/"+trip.ID+"/expenses", testExpenseRequest())
	require.Equal(t, http.StatusCreated, w.Code)

	expense := decode[models.Expense](t, w)
	assert.NotEmpty(t, expense.ID)
	assert.Equal(t, trip.ID, expense.TripID)
	assert.Equal(t, 40.0, expense.Amount)
	assert.Nil(t, expense.OriginalAmount)
}

func TestCreateExpenseAutoCategorizesByKeyword(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t)

	req := testExpenseRequest()
	req.Category = ""
	req.Description = "pizza near the station"
	w := env.do(t, http.MethodPost, "/trips/"+trip.ID+"/expenses", req)
	require.Equal(t, http.StatusCreated, w.Code)

	expense := decode[models.Expense](t, w)
	assert.Equal(t, models.CategoryFood, expense.Category)
}

func TestCreateExpenseAutoCategorizesViaAI(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t)

	// no keyword matches, so the stubbed AI answer wins
	req := testExpenseRequest()
	req.Category = ""
	req.Description = "Vatican entrance"
	w := env.do(t, http.MethodPost, "/trips/"+trip.ID+"/expenses", req)
	require.Equal(t, http.StatusCreated, w.Code)

	expense := decode[models.Expense](t, w)
	assert.Equal(t, models.CategoryActivity, expense.Category)
}

func TestCreateExpenseConvertsCurrency(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t) // trip currency EUR, stub rate 4.0

	usd := models.CurrencyUSD
	req := testExpenseRequest()
	req.Amount = 25
	req.OriginalCurrency = &usd
	w := env.do(t, http.MethodPost, "/trips/"+trip.ID+"/expenses", req)
	require.Equal(t, http.StatusCreated, w.Code)

	expense := decode[models.Expense](t, w)
	assert.Equal(t, 100.0, expense.Amount)
	require.NotNil(t, expense.OriginalAmount)
	assert.Equal(t, 25.0, *expense.OriginalAmount)
	require.NotNil(t, expense.OriginalCurrency)
	assert.Equal(t, models.CurrencyUSD, *expense.OriginalCurrency)
}

func TestCreateExpenseSameCurrencyKeepsAmount(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t)

	eur := models.CurrencyEUR
	req := testExpenseRequest()
	req.OriginalCurrency = &eur
	w := env.do(t, http.MethodPost, "/trips/"+trip.ID+"/expenses", req)
	require.Equal(t, http.StatusCreated, w.Code)

	expense := decode[models.Expense](t, w)
	assert.Equal(t, 40.0, expense.Amount)
	assert.Nil(t, expense.OriginalAmount)
}

func TestCreateSharedExpenseSplitsAmount(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t)

	req := testExpenseRequest()
	req.Amount = 90
	req.IsShared = true
	req.NumberOfPeople = 3
	w := env.do(t, http.MethodPost, "/trips/"+trip.ID+"/expenses", req)
	require.Equal(t, http.StatusCreated, w.Code)

	expense := decode[models.Expense](t, w)
	assert.Equal(t, 30.0, expense.Amount)
	require.NotNil(t, expense.TotalAmountBeforeSharing)
	assert.Equal(t, 90.0, *expense.TotalAmountBeforeSharing)
}

func TestCreateSharedExpenseRejectsOnePerson(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t)

	req := testExpenseRequest()
	req.IsShared = true
	req.NumberOfPeople = 1
	w := env.do(t, http.MethodPost, "/trips/"+trip.ID+"/expenses", req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateSharedExpenseEditsPreSplitTotal(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t)

	req := testExpenseRequest()
	req.Amount = 90
	req.IsShared = true
	req.NumberOfPeople = 3
	w := env.do(t, http.MethodPost, "/trips/"+trip.ID+"/expenses", req)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Expense](t, w)

	// editing the total re-splits; the form always deals in the pre-split figure
	newTotal := 120.0
	w = env.do(t, http.MethodPut, "/trips/"+trip.ID+"/expenses/"+created.ID, models.UpdateExpenseRequest{
		Amount: &newTotal,
	})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decode[models.Expense](t, w)
	assert.Equal(t, 40.0, updated.Amount)
	require.NotNil(t, updated.TotalAmountBeforeSharing)
	assert.Equal(t, 120.0, *updated.TotalAmountBeforeSharing)
}

func TestUpdateExpenseUnshareRestoresTotal(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t)

	req := testExpenseRequest()
	req.Amount = 90
	req.IsShared = true
	req.NumberOfPeople = 3
	w := env.do(t, http.MethodPost, "/trips/"+trip.ID+"/expenses", req)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Expense](t, w)

	unshared := false
	w = env.do(t, http.MethodPut, "/trips/"+trip.ID+"/expenses/"+created.ID, models.UpdateExpenseRequest{
		IsShared: &unshared,
	})
	require.Equal(t, http.StatusOK, w.Code)

	updated := decode[models.Expense](t, w)
	assert.False(t, updated.IsShared)
	assert.Equal(t, 90.0, updated.Amount)
	assert.Nil(t, updated.TotalAmountBeforeSharing)
}

func TestDeleteExpense(t *testing.T) {
	env := newTestEnv(t)
	trip := env.createTrip(t)

	w := env.do(t, http.MethodPost, "/trips/"+trip.ID+"/expenses", testExpenseRequest())
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[models.Expense](t, w)

	w = env.do(t, http.MethodDelete, "/trips/"+trip.ID+"/expenses/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/trips/"+trip.ID+"/expenses/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExpenseRoutesRejectForeignTrip(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.trips.Create(context.Background(), models.Trip{
		ID:            "other-trip",
		UserID:        "user-2",
		Name:          "Not yours",
		Destinations:  []models.Destination{{Name: "Oslo"}},
		StartDate:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		Currency:      models.CurrencyEUR,
		InitialBudget: 100,
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/trips/other-trip/expenses", testExpenseRequest())
	assert.Equal(t, http.StatusNotFound, w.Code)
}
