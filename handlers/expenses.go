package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/triptally/triptally-api/middleware"
	"github.com/triptally/triptally-api/models"
	"github.com/triptally/triptally-api/repository"
	"github.com/triptally/triptally-api/services"
)

type ExpenseHandler struct {
	Trips       repository.TripRepository
	Expenses    repository.ExpenseRepository
	Categorizer *services.CategorizerService
	Rates       *services.RateService
	WS          *WSHandler
}

func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	trip, ok := h.ownedTrip(c)
	if !ok {
		return
	}

	expenses, err := h.Expenses.ListByTrip(c.Request.Context(), trip.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}

	c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	trip, ok := h.ownedTrip(c)
	if !ok {
		return
	}

	expense, err := h.Expenses.GetByID(c.Request.Context(), trip.ID, c.Param("expenseId"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expense"})
		return
	}

	c.JSON(http.StatusOK, expense)
}

// CreateExpense records a spend against the trip. The entered amount is
// normalized in order: converted to the trip currency if it arrived in a
// different one, then split per person if shared. Both happen exactly once,
// here; stored figures are never recomputed later.
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	trip, ok := h.ownedTrip(c)
	if !ok {
		return
	}

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	category := req.Category
	if category == "" {
		category = h.Categorizer.GetCategory(ctx, req.Description)
	}

	amount := req.Amount
	var originalAmount *float64
	var originalCurrency *models.Currency

	if req.OriginalCurrency != nil && *req.OriginalCurrency != trip.Currency {
		converted, _, err := h.Rates.Convert(ctx, req.Amount, *req.OriginalCurrency, trip.Currency)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to convert currency"})
			return
		}
		entered := req.Amount
		originalAmount = &entered
		originalCurrency = req.OriginalCurrency
		amount = converted
	}

	var totalBeforeSharing *float64
	if req.IsShared {
		total := amount
		share, err := services.SplitShared(total, req.NumberOfPeople)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		totalBeforeSharing = &total
		amount = share
	}

	now := time.Now()
	expense := models.Expense{
		ID:                       uuid.New().String(),
		TripID:                   trip.ID,
		Date:                     req.Date,
		Category:                 category,
		Amount:                   amount,
		OriginalAmount:           originalAmount,
		OriginalCurrency:         originalCurrency,
		PaymentMethod:            req.PaymentMethod,
		Description:              req.Description,
		Notes:                    req.Notes,
		ReceiptURL:               req.ReceiptURL,
		IsShared:                 req.IsShared,
		NumberOfPeople:           req.NumberOfPeople,
		TotalAmountBeforeSharing: totalBeforeSharing,
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	if err := expense.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Expenses.Create(c.Request.Context(), expense)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	h.WS.BroadcastUpdate(trip.ID, "expense_created")

	c.JSON(http.StatusCreated, created)
}

// UpdateExpense edits an expense in the trip currency. For shared expenses
// the Amount field carries the pre-split total, matching what edit forms
// display, and the per-person share is recomputed from it.
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	trip, ok := h.ownedTrip(c)
	if !ok {
		return
	}

	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expense, err := h.Expenses.GetByID(c.Request.Context(), trip.ID, c.Param("expenseId"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expense"})
		return
	}

	// Capture the editable figure before sharing flags move underneath it:
	// unsharing must restore the pre-split total, not keep the share.
	total := expense.EditableTotal()
	if req.Amount != nil {
		total = *req.Amount
	}

	if req.Date != nil {
		expense.Date = *req.Date
	}
	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.PaymentMethod != nil {
		expense.PaymentMethod = *req.PaymentMethod
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Notes != nil {
		expense.Notes = *req.Notes
	}
	if req.ReceiptURL != nil {
		expense.ReceiptURL = *req.ReceiptURL
	}
	if req.IsShared != nil {
		expense.IsShared = *req.IsShared
	}
	if req.NumberOfPeople != nil {
		expense.NumberOfPeople = *req.NumberOfPeople
	}

	if expense.IsShared {
		share, err := services.SplitShared(total, expense.NumberOfPeople)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		expense.TotalAmountBeforeSharing = &total
		expense.Amount = share
	} else {
		expense.TotalAmountBeforeSharing = nil
		expense.Amount = total
	}

	// An edited figure is in the trip currency; the conversion record from
	// the original entry no longer describes it.
	if req.Amount != nil {
		expense.OriginalAmount = nil
		expense.OriginalCurrency = nil
	}

	expense.UpdatedAt = time.Now()

	if err := expense.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Expenses.Update(c.Request.Context(), expense)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
		return
	}

	h.WS.BroadcastUpdate(trip.ID, "expense_updated")

	c.JSON(http.StatusOK, updated)
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	trip, ok := h.ownedTrip(c)
	if !ok {
		return
	}

	err := h.Expenses.Delete(c.Request.Context(), trip.ID, c.Param("expenseId"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}

	h.WS.BroadcastUpdate(trip.ID, "expense_deleted")

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// ownedTrip resolves the :id trip and checks it belongs to the caller.
// Expense routes never touch a trip the user does not own.
func (h *ExpenseHandler) ownedTrip(c *gin.Context) (models.Trip, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return models.Trip{}, false
	}

	trip, err := h.Trips.GetByID(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return models.Trip{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trip"})
		return models.Trip{}, false
	}

	return trip, true
}
