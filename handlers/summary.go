package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/triptally/triptally-api/middleware"
	"github.com/triptally/triptally-api/models"
	"github.com/triptally/triptally-api/repository"
	"github.com/triptally/triptally-api/services"
)

// SummaryHandler exposes the derived ledgers: per-trip rollups and the
// cross-trip analytics views. All figures are computed on read from the
// stored expenses; nothing here writes.
type SummaryHandler struct {
	Trips    repository.TripRepository
	Expenses repository.ExpenseRepository
}

func (h *SummaryHandler) GetTripSummary(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, ok := h.summarize(c, userID, c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListSummaries returns the rollup for every trip the user owns, for the
// trips overview screen.
func (h *SummaryHandler) ListSummaries(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summaries, ok := h.allSummaries(c, userID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// CompareTrips lines trips up by total spend, daily average and budget
// status so past trips can be compared when planning the next one.
func (h *SummaryHandler) CompareTrips(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summaries, ok := h.allSummaries(c, userID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, services.Compare(summaries))
}

func (h *SummaryHandler) summarize(c *gin.Context, userID, tripID string) (models.TripSummary, bool) {
	trip, err := h.Trips.GetByID(c.Request.Context(), userID, tripID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return models.TripSummary{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trip"})
		return models.TripSummary{}, false
	}

	expenses, err := h.Expenses.ListByTrip(c.Request.Context(), trip.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return models.TripSummary{}, false
	}

	summary, err := services.Summarize(trip, expenses)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return models.TripSummary{}, false
	}
	return summary, true
}

func (h *SummaryHandler) allSummaries(c *gin.Context, userID string) ([]models.TripSummary, bool) {
	trips, err := h.Trips.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trips"})
		return nil, false
	}

	summaries := make([]models.TripSummary, 0, len(trips))
	for _, trip := range trips {
		expenses, err := h.Expenses.ListByTrip(c.Request.Context(), trip.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
			return nil, false
		}

		summary, err := services.Summarize(trip, expenses)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return nil, false
		}
		summaries = append(summaries, summary)
	}
	return summaries, true
}
