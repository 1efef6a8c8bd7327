package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/hypeshop/raffle-backend/internal/config"
	"github.com/hypeshop/raffle-backend/internal/handlers"
	"github.com/hypeshop/raffle-backend/internal/middleware"
)

// HandlerDependencies carries the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler    *handlers.AuthHandler
	RaffleHandler  *handlers.RaffleHandler
	EntryHandler   *handlers.EntryHandler
	DrawingHandler *handlers.DrawingHandler
}

// SetupRouter sets up the router. Reads and participant actions are public;
// raffle administration and the drawing console sit behind admin JWT auth.
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/login", deps.AuthHandler.Login)
		}

		raffles := public.Group("/raffles")
		{
			raffles.GET("", deps.RaffleHandler.GetRaffles)
			raffles.GET("/:id", deps.RaffleHandler.GetRaffleByID)
			raffles.GET("/slug/:slug", deps.RaffleHandler.GetRaffleBySlug)
			raffles.GET("/:id/winners", deps.RaffleHandler.GetRaffleWinners)
			raffles.GET("/:id/stream", deps.RaffleHandler.GetRaffleStream)
			raffles.GET("/:id/eligibility", deps.EntryHandler.CheckEligibility)
			raffles.POST("/:id/entries", deps.EntryHandler.RegisterEntry)
		}
	}

	// Protected admin routes
	protected := router.Group("/api/v1/admin")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		raffles := protected.Group("/raffles")
		{
			raffles.POST("", deps.RaffleHandler.CreateRaffle)
			raffles.PUT("/:id/schedule", deps.RaffleHandler.UpdateSchedule)
			raffles.PUT("/:id/config", deps.RaffleHandler.UpdateConfig)
			raffles.POST("/:id/open", deps.RaffleHandler.OpenRegistration)
			raffles.POST("/:id/close", deps.RaffleHandler.CloseRegistration)
			raffles.POST("/:id/drawing/start", deps.DrawingHandler.StartDrawing)
			raffles.POST("/:id/drawing/reveal", deps.DrawingHandler.RevealNext)
		}
	}

	return router
}
