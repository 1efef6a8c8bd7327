package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hypeshop/raffle-backend/internal/models"
	"github.com/hypeshop/raffle-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RaffleHandler handles raffle lifecycle and read HTTP requests
type RaffleHandler struct {
	raffleService services.RaffleService
}

// NewRaffleHandler creates a new RaffleHandler
func NewRaffleHandler(raffleService services.RaffleService) *RaffleHandler {
	return &RaffleHandler{raffleService: raffleService}
}

// CreateRaffleRequest is the payload for POST /raffles
type CreateRaffleRequest struct {
	Slug                     string    `json:"slug" binding:"required"`
	Title                    string    `json:"title" binding:"required"`
	ProductID                string    `json:"productId" binding:"required"`
	ProductName              string    `json:"productName" binding:"required"`
	RegistrationStartsAt     time.Time `json:"registrationStartsAt" binding:"required"`
	RegistrationEndsAt       time.Time `json:"registrationEndsAt" binding:"required"`
	DrawDate                 time.Time `json:"drawDate" binding:"required"`
	TotalWinners             int       `json:"totalWinners" binding:"required,min=1"`
	MaxEntriesPerUser        int       `json:"maxEntriesPerUser" binding:"min=0"`
	PurchaseWindowHours      int       `json:"purchaseWindowHours" binding:"min=0"`
	RequireEmailVerification bool      `json:"requireEmailVerification"`
	RequirePreviousPurchase  bool      `json:"requirePreviousPurchase"`
	MinAccountAgeDays        int       `json:"minAccountAgeDays" binding:"min=0"`
}

// CreateRaffle handles POST /raffles
func (h *RaffleHandler) CreateRaffle(c *gin.Context) {
	var request CreateRaffleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	productID, err := primitive.ObjectIDFromHex(request.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID format"})
		return
	}

	raffle := &models.Raffle{
		Slug:  request.Slug,
		Title: request.Title,
		Product: models.ProductRef{
			ProductID: productID,
			Name:      request.ProductName,
		},
		RegistrationStartsAt:     request.RegistrationStartsAt,
		RegistrationEndsAt:       request.RegistrationEndsAt,
		DrawDate:                 request.DrawDate,
		TotalWinners:             request.TotalWinners,
		MaxEntriesPerUser:        request.MaxEntriesPerUser,
		PurchaseWindowHours:      request.PurchaseWindowHours,
		RequireEmailVerification: request.RequireEmailVerification,
		RequirePreviousPurchase:  request.RequirePreviousPurchase,
		MinAccountAgeDays:        request.MinAccountAgeDays,
	}
	if err := h.raffleService.CreateRaffle(c.Request.Context(), raffle); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, raffle)
}

// GetRaffles handles GET /raffles
func (h *RaffleHandler) GetRaffles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	raffles, err := h.raffleService.GetRaffles(c.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffles)
}

// GetRaffleByID handles GET /raffles/:id
func (h *RaffleHandler) GetRaffleByID(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	raffle, err := h.raffleService.GetRaffleByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffle)
}

// GetRaffleBySlug handles GET /raffles/slug/:slug
func (h *RaffleHandler) GetRaffleBySlug(c *gin.Context) {
	raffle, err := h.raffleService.GetRaffleBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffle)
}

// UpdateScheduleRequest is the payload for PUT /raffles/:id/schedule
type UpdateScheduleRequest struct {
	RegistrationStartsAt time.Time `json:"registrationStartsAt" binding:"required"`
	RegistrationEndsAt   time.Time `json:"registrationEndsAt" binding:"required"`
	DrawDate             time.Time `json:"drawDate" binding:"required"`
}

// UpdateSchedule handles PUT /raffles/:id/schedule
func (h *RaffleHandler) UpdateSchedule(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request UpdateScheduleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raffle, err := h.raffleService.UpdateSchedule(c.Request.Context(), id,
		request.RegistrationStartsAt, request.RegistrationEndsAt, request.DrawDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffle)
}

// UpdateConfig handles PUT /raffles/:id/config
func (h *RaffleHandler) UpdateConfig(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request services.RaffleConfigUpdate
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raffle, err := h.raffleService.UpdateConfig(c.Request.Context(), id, request)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffle)
}

// OpenRegistration handles POST /raffles/:id/open
func (h *RaffleHandler) OpenRegistration(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	force := c.Query("force") == "true"

	raffle, err := h.raffleService.OpenRegistration(c.Request.Context(), id, force)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffle)
}

// CloseRegistration handles POST /raffles/:id/close
func (h *RaffleHandler) CloseRegistration(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	raffle, err := h.raffleService.CloseRegistration(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffle)
}

// GetRaffleWinners handles GET /raffles/:id/winners
func (h *RaffleHandler) GetRaffleWinners(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	winners, err := h.raffleService.GetWinnersByRaffleID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, winners)
}

// GetRaffleStream handles GET /raffles/:id/stream. Clients pass ?after=<seq>
// with the last sequence they have seen to poll for new drawing events.
func (h *RaffleHandler) GetRaffleStream(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	after, err := strconv.ParseInt(c.DefaultQuery("after", "0"), 10, 64)
	if err != nil || after < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid after parameter"})
		return
	}

	events, err := h.raffleService.GetStream(c.Request.Context(), id, after)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
