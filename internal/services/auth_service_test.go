package services

import (
	"context"
	"testing"

	"github.com/hypeshop/raffle-backend/internal/config"
	"github.com/hypeshop/raffle-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpiresIn: 3600}}

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2!"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := newFakeAdminUserRepo()
	require.NoError(t, repo.Create(ctx, &models.AdminUser{
		Email:        "ops@hypeshop.example",
		PasswordHash: string(hash),
		Name:         "Ops",
		Role:         "admin",
	}))
	service := NewAuthService(repo, cfg)

	t.Run("issues a token for valid credentials", func(t *testing.T) {
		response, err := service.Login(ctx, "ops@hypeshop.example", "hunter2!")
		require.NoError(t, err)
		assert.NotEmpty(t, response.Token)
		assert.Equal(t, "admin", response.Role)
		assert.Equal(t, "Ops", response.Name)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, wrongPassword := service.Login(ctx, "ops@hypeshop.example", "nope")
		_, unknownEmail := service.Login(ctx, "ghost@hypeshop.example", "hunter2!")
		assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
		assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
		assert.Equal(t, wrongPassword, unknownEmail)
	})
}
