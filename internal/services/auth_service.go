package services

import (
	"context"
	"errors"

	"github.com/hypeshop/raffle-backend/internal/config"
	"github.com/hypeshop/raffle-backend/internal/models"
	"github.com/hypeshop/raffle-backend/internal/repositories"
	"github.com/hypeshop/raffle-backend/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl implements admin authentication
type AuthServiceImpl struct {
	adminUserRepo repositories.AdminUserRepository
	config        *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(adminUserRepo repositories.AdminUserRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		adminUserRepo: adminUserRepo,
		config:        cfg,
	}
}

// Login verifies admin credentials and issues a JWT. Unknown email and wrong
// password return the same error so the endpoint leaks nothing about which
// accounts exist.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := s.adminUserRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateJWT(user.ID.Hex(), user.Role, s.config)
	if err != nil {
		return nil, err
	}

	slog.Info("Admin logged in", "email", utils.MaskEmail(email), "role", user.Role)
	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Name:      user.Name,
		Role:      user.Role,
	}, nil
}
