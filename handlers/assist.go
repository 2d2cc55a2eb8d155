package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/triptally/triptally-api/models"
	"github.com/triptally/triptally-api/services"
)

// AssistHandler groups the helper lookups the client calls while the user is
// typing: expense categorization, destination country detection and exchange
// rates. All are best-effort; none of them blocks saving.
type AssistHandler struct {
	Categorizer *services.CategorizerService
	Countries   *services.CountryService
	Rates       *services.RateService
}

type CategorizeRequest struct {
	Description string `json:"description" binding:"required"`
}

func (h *AssistHandler) Categorize(c *gin.Context) {
	var req CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := h.Categorizer.GetCategory(c.Request.Context(), req.Description)

	c.JSON(http.StatusOK, gin.H{
		"description": req.Description,
		"category":    category,
	})
}

type CountryRequest struct {
	Destination string `json:"destination" binding:"required"`
}

func (h *AssistHandler) DetectCountry(c *gin.Context) {
	var req CountryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info := h.Countries.Detect(c.Request.Context(), req.Destination)
	if info == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Country not recognized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"destination": req.Destination,
		"country":     info.Country,
		"flag":        info.Flag,
	})
}

func (h *AssistHandler) GetRate(c *gin.Context) {
	from := models.Currency(c.Query("from"))
	to := models.Currency(c.Query("to"))

	rate, err := h.Rates.GetRate(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported currency pair"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from": from,
		"to":   to,
		"rate": rate,
	})
}
