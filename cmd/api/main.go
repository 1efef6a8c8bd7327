package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hypeshop/raffle-backend/api/routes"
	"github.com/hypeshop/raffle-backend/internal/config"
	"github.com/hypeshop/raffle-backend/internal/handlers"
	mongorepo "github.com/hypeshop/raffle-backend/internal/repositories/mongodb"
	"github.com/hypeshop/raffle-backend/internal/services"
	"github.com/hypeshop/raffle-backend/pkg/mailgateway"
	"github.com/hypeshop/raffle-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	// Load .env if present; real deployments use environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Connect to MongoDB
	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// The unique indexes back the drawing invariants; refuse to start without them.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelIndex()
	if err := mongodb.EnsureIndexes(indexCtx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Repositories
	raffleRepo := mongorepo.NewRaffleRepository(db)
	entryRepo := mongorepo.NewEntryRepository(db)
	winnerRepo := mongorepo.NewWinnerRepository(db)
	eventRepo := mongorepo.NewStreamEventRepository(db)
	participantRepo := mongorepo.NewParticipantRepository(db)
	orderRepo := mongorepo.NewOrderRepository(db)
	notificationRepo := mongorepo.NewNotificationRepository(db)
	adminUserRepo := mongorepo.NewAdminUserRepository(db)

	// Mail gateways
	var primary, fallback mailgateway.Gateway
	if cfg.Mail.MockGateway {
		primary = mailgateway.NewMockGateway("PRIMARY")
		fallback = mailgateway.NewMockGateway("FALLBACK")
	} else {
		primary = mailgateway.NewHTTPGateway(cfg.Mail.BaseURL, cfg.Mail.APIKey, cfg.Mail.Sender)
		if cfg.Mail.FallbackBaseURL != "" {
			fallback = mailgateway.NewHTTPGateway(cfg.Mail.FallbackBaseURL, cfg.Mail.FallbackAPIKey, cfg.Mail.Sender)
		}
	}

	// Services
	notificationService := services.NewNotificationService(notificationRepo, primary, fallback)
	raffleService := services.NewRaffleService(raffleRepo, winnerRepo, eventRepo)
	entryService := services.NewEntryService(raffleRepo, entryRepo, participantRepo, orderRepo)
	drawingService := services.NewDrawingService(raffleRepo, entryRepo, winnerRepo, eventRepo, participantRepo, notificationService)
	authService := services.NewAuthService(adminUserRepo, cfg)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:    handlers.NewAuthHandler(authService),
		RaffleHandler:  handlers.NewRaffleHandler(raffleService),
		EntryHandler:   handlers.NewEntryHandler(entryService),
		DrawingHandler: handlers.NewDrawingHandler(drawingService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	slog.Info("Server exiting")
}
