package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hypeshop/raffle-backend/internal/services"
)

// respondServiceError maps service errors to HTTP responses. Sentinel errors
// carry their own status; anything unrecognized is a 500.
func respondServiceError(c *gin.Context, err error) {
	var notEligible *services.NotEligibleError
	switch {
	case errors.Is(err, services.ErrRaffleNotFound),
		errors.Is(err, services.ErrParticipantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSlugTaken),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrDrawingInProgress),
		errors.Is(err, services.ErrNoConfirmedEntries),
		errors.Is(err, services.ErrSelectionMissing),
		errors.Is(err, services.ErrAllRevealed),
		errors.Is(err, services.ErrRegistrationClosed),
		errors.Is(err, services.ErrEntryLimitReached):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &notEligible):
		c.JSON(http.StatusForbidden, gin.H{"error": "Participant is not eligible", "reasons": notEligible.Reasons})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
