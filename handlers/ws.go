package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/triptally/triptally-api/repository"
	"github.com/triptally/triptally-api/utils"
)

// WSHandler pushes live updates to every device viewing the same trip, so a
// couple logging expenses on two phones stays in sync without polling.
type WSHandler struct {
	M     *melody.Melody
	Trips repository.TripRepository
}

func NewWSHandler(trips repository.TripRepository) *WSHandler {
	m := melody.New()

	m.Config.MaxMessageSize = 1024 * 1024

	// Keep-alive so idle connections survive cloud load balancers.
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		if id, ok := sessionTripID(s); ok {
			utils.LogWebSocket("connect", id)
		}
	})

	m.HandleDisconnect(func(s *melody.Session) {
		if id, ok := sessionTripID(s); ok {
			utils.LogWebSocket("disconnect", id)
		}
	})

	m.HandleError(func(s *melody.Session, err error) {
		log.Printf("WebSocket error: %v", err)
	})

	return &WSHandler{M: m, Trips: trips}
}

// HandleWS upgrades the request and subscribes the session to one trip.
// Browsers cannot set headers on websocket upgrades, so the access token
// arrives as a query parameter; the caller must own the trip.
func (h *WSHandler) HandleWS(c *gin.Context) {
	tripID := c.Param("id")

	claims, err := utils.ValidateAccessToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if _, err := h.Trips.GetByID(c.Request.Context(), claims.UserID, tripID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trip"})
		return
	}

	// Keys tag the session before it joins the hub; a shared HandleConnect
	// callback could be overwritten by a concurrent upgrade for another trip.
	err = h.M.HandleRequestWithKeys(c.Writer, c.Request, map[string]interface{}{"trip_id": tripID})
	if err != nil {
		log.Printf("Failed to upgrade websocket: %v", err)
	}
}

// BroadcastUpdate signals every session watching the trip that something
// changed. Clients refetch on receipt; the message carries no expense data.
func (h *WSHandler) BroadcastUpdate(tripID, updateType string) {
	if h == nil || h.M == nil {
		return
	}

	msg, err := json.Marshal(gin.H{"type": updateType, "trip_id": tripID})
	if err != nil {
		return
	}

	err = h.M.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get("trip_id")
		return exists && id == tripID
	})

	if err != nil {
		log.Printf("Error broadcasting to trip %s: %v", utils.MaskID(tripID), err)
	}
}

func sessionTripID(s *melody.Session) (string, bool) {
	v, ok := s.Get("trip_id")
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
