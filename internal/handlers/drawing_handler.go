package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hypeshop/raffle-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawingHandler handles operator drawing actions
type DrawingHandler struct {
	drawingService services.DrawingService
}

// NewDrawingHandler creates a new DrawingHandler
func NewDrawingHandler(drawingService services.DrawingService) *DrawingHandler {
	return &DrawingHandler{drawingService: drawingService}
}

// StartDrawing handles POST /raffles/:id/drawing/start. Starting a closed
// raffle and resuming an interrupted drawing are the same call.
func (h *DrawingHandler) StartDrawing(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	state, err := h.drawingService.StartDrawing(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// RevealNext handles POST /raffles/:id/drawing/reveal
func (h *DrawingHandler) RevealNext(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	winner, err := h.drawingService.RevealNext(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, winner)
}
