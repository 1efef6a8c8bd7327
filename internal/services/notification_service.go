package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hypeshop/raffle-backend/internal/models"
	"github.com/hypeshop/raffle-backend/internal/repositories"
	"github.com/hypeshop/raffle-backend/internal/utils"
	"github.com/hypeshop/raffle-backend/pkg/mailgateway"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure NotificationServiceImpl implements NotificationService
var _ NotificationService = (*NotificationServiceImpl)(nil)

// NotificationServiceImpl sends winner emails through the primary gateway,
// falling back to the secondary when the primary fails. Every attempt, sent
// or failed, is recorded for the admin console.
type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	primary          mailgateway.Gateway
	fallback         mailgateway.Gateway
}

// NewNotificationService creates a new NotificationServiceImpl
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	primary mailgateway.Gateway,
	fallback mailgateway.Gateway,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		primary:          primary,
		fallback:         fallback,
	}
}

// NotifyWinner emails a winner their position and purchase deadline. The
// caller treats failure as non-fatal; the reveal must never block on mail.
func (s *NotificationServiceImpl) NotifyWinner(ctx context.Context, raffle *models.Raffle, winner *models.Winner, email string) error {
	subject := fmt.Sprintf("You won the %s raffle!", raffle.Title)
	body := fmt.Sprintf(
		"<p>Congratulations %s!</p>"+
			"<p>Your entry #%d was drawn at position %d in the <strong>%s</strong> raffle.</p>"+
			"<p>You have until <strong>%s</strong> to complete your purchase of %s. "+
			"After the deadline your slot may be offered to another participant.</p>",
		winner.DisplayName,
		winner.EntryNumber,
		winner.Position,
		raffle.Title,
		winner.PurchaseDeadline.Format("Monday, 2 Jan 2006 15:04 MST"),
		raffle.Product.Name,
	)

	messageID, gatewayName, sendErr := s.send(email, subject, body)

	notification := &models.Notification{
		RaffleID:      raffle.ID,
		WinnerID:      winner.ID,
		ParticipantID: winner.ParticipantID,
		Email:         email,
		Subject:       subject,
		MessageID:     messageID,
		Gateway:       gatewayName,
	}
	if sendErr != nil {
		notification.Status = "FAILED"
	} else {
		notification.Status = "SENT"
		notification.SentAt = time.Now()
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		slog.Error("Failed to record notification", "raffleId", raffle.ID, "winnerId", winner.ID, "error", err)
	}

	if sendErr != nil {
		return fmt.Errorf("failed to notify %s: %w", utils.MaskEmail(email), sendErr)
	}
	slog.Info("Winner notified", "raffleId", raffle.ID, "position", winner.Position,
		"email", utils.MaskEmail(email), "gateway", gatewayName, "messageId", messageID)
	return nil
}

func (s *NotificationServiceImpl) send(to, subject, body string) (string, string, error) {
	messageID, err := s.primary.SendEmail(to, subject, body)
	if err == nil {
		return messageID, "primary", nil
	}
	slog.Warn("Primary mail gateway failed, trying fallback", "email", utils.MaskEmail(to), "error", err)

	if s.fallback == nil {
		return "", "primary", err
	}
	messageID, fbErr := s.fallback.SendEmail(to, subject, body)
	if fbErr != nil {
		return "", "fallback", fbErr
	}
	return messageID, "fallback", nil
}
