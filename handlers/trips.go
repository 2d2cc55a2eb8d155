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
	"github.com/triptally/triptally-api/utils"
)

type TripHandler struct {
	Trips     repository.TripRepository
	Expenses  repository.ExpenseRepository
	Countries *services.CountryService
	WS        *WSHandler
}

func (h *TripHandler) ListTrips(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	trips, err := h.Trips.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trips"})
		return
	}

	c.JSON(http.StatusOK, trips)
}

func (h *TripHandler) GetTrip(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	trip, err := h.Trips.GetByID(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trip"})
		return
	}

	c.JSON(http.StatusOK, trip)
}

func (h *TripHandler) CreateTrip(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	trip := models.Trip{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          req.Name,
		Destinations:  h.enrichDestinations(c, req.Destinations),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Currency:      req.Currency,
		InitialBudget: req.InitialBudget,
		IsOpenBudget:  req.IsOpenBudget,
		InitialCash:   req.InitialCash,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := trip.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.Trips.Create(c.Request.Context(), trip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create trip"})
		return
	}

	utils.LogTripAction("create", created.ID, userID)

	c.JSON(http.StatusCreated, created)
}

func (h *TripHandler) UpdateTrip(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trip, err := h.Trips.GetByID(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trip"})
		return
	}

	if req.Name != nil {
		trip.Name = *req.Name
	}
	if req.Destinations != nil {
		trip.Destinations = h.enrichDestinations(c, req.Destinations)
	}
	if req.StartDate != nil {
		trip.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		trip.EndDate = *req.EndDate
	}
	if req.InitialBudget != nil {
		trip.InitialBudget = *req.InitialBudget
	}
	if req.IsOpenBudget != nil {
		trip.IsOpenBudget = *req.IsOpenBudget
	}
	if req.InitialCash != nil {
		trip.InitialCash = *req.InitialCash
	}
	if req.Notes != nil {
		trip.Notes = *req.Notes
	}
	trip.UpdatedAt = time.Now()

	if err := trip.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Trips.Update(c.Request.Context(), trip)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update trip"})
		return
	}

	utils.LogTripAction("update", updated.ID, userID)
	h.WS.BroadcastUpdate(updated.ID, "trip_updated")

	c.JSON(http.StatusOK, updated)
}

// UpdateCash re-anchors the cash ledger from a physical count. From here on
// the stored override is authoritative; cash-tagged expenses no longer move
// the remaining figure until the override is cleared.
func (h *TripHandler) UpdateCash(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.UpdateCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RemainingCash != nil && *req.RemainingCash < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Remaining cash cannot be negative"})
		return
	}

	updated, err := h.Trips.UpdateCash(c.Request.Context(), userID, c.Param("id"), req.RemainingCash)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cash"})
		return
	}

	utils.LogTripAction("update_cash", updated.ID, userID)
	h.WS.BroadcastUpdate(updated.ID, "cash_updated")

	c.JSON(http.StatusOK, updated)
}

func (h *TripHandler) DeleteTrip(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	tripID := c.Param("id")
	err := h.Trips.Delete(c.Request.Context(), userID, tripID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete trip"})
		return
	}

	utils.LogTripAction("delete", tripID, userID)
	h.WS.BroadcastUpdate(tripID, "trip_deleted")

	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

// enrichDestinations fills country and flag for destinations the lookup can
// resolve. Unresolvable names pass through untouched.
func (h *TripHandler) enrichDestinations(c *gin.Context, destinations []models.Destination) []models.Destination {
	if h.Countries == nil {
		return destinations
	}

	enriched := make([]models.Destination, len(destinations))
	for i, d := range destinations {
		if d.Country == "" {
			if info := h.Countries.Detect(c.Request.Context(), d.Name); info != nil {
				d.Country = info.Country
				d.Flag = info.Flag
			}
		}
		enriched[i] = d
	}
	return enriched
}
