package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hypeshop/raffle-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryHandler handles entry registration and eligibility HTTP requests
type EntryHandler struct {
	entryService services.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// RegisterEntryRequest is the payload for POST /raffles/:id/entries
type RegisterEntryRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

// RegisterEntry handles POST /raffles/:id/entries
func (h *EntryHandler) RegisterEntry(c *gin.Context) {
	raffleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request RegisterEntryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	participantID, err := primitive.ObjectIDFromHex(request.ParticipantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant ID format"})
		return
	}

	entry, err := h.entryService.RegisterEntry(c.Request.Context(), raffleID, participantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// CheckEligibility handles GET /raffles/:id/eligibility
func (h *EntryHandler) CheckEligibility(c *gin.Context) {
	raffleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	participantID, err := primitive.ObjectIDFromHex(c.Query("participantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant ID format"})
		return
	}

	result, err := h.entryService.CheckEligibility(c.Request.Context(), raffleID, participantID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
