package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/example/fooddash/pkg/apperr"
	"github.com/example/fooddash/pkg/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SignUp creates the account and opens a session. Emails are normalized to
// trimmed lower case before the uniqueness check.
func (c *Client) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing UserRow
	err := c.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperr.Auth("gateway.SignUp", "email already registered", apperr.ErrEmailTaken)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Gateway("gateway.SignUp", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.config.Auth.BcryptCost)
	if err != nil {
		return nil, apperr.Gateway("gateway.SignUp", err)
	}

	user := UserRow{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := c.db.WithContext(ctx).Create(&user).Error; err != nil {
		c.logger.Error("Failed to create user", zap.String("email", email), zap.Error(err))
		return nil, apperr.Gateway("gateway.SignUp", err)
	}

	return c.openSession(ctx, &user)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user UserRow
	err := c.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Auth("gateway.SignIn", "invalid credentials", apperr.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, apperr.Gateway("gateway.SignIn", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Auth("gateway.SignIn", "invalid credentials", apperr.ErrInvalidCredentials)
	}

	return c.openSession(ctx, &user)
}

func (c *Client) SignOut(ctx context.Context, token string) error {
	if err := c.redis.DeleteSession(ctx, token); err != nil {
		return apperr.Gateway("gateway.SignOut", err)
	}
	return nil
}

// GetSession resolves a token and slides its expiry forward.
func (c *Client) GetSession(ctx context.Context, token string) (*Session, error) {
	rec, err := c.redis.GetSession(ctx, token)
	if errors.Is(err, apperr.ErrSessionNotFound) {
		return nil, apperr.Auth("gateway.GetSession", "session expired", apperr.ErrSessionExpired)
	}
	if err != nil {
		return nil, apperr.Gateway("gateway.GetSession", err)
	}
	c.redis.TouchSession(ctx, token, c.config.Auth.SessionTTL)
	return &Session{Token: rec.Token, UserID: rec.UserID, Email: rec.Email}, nil
}

func (c *Client) openSession(ctx context.Context, user *UserRow) (*Session, error) {
	rec := &repository.SessionRecord{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: time.Now(),
	}
	if err := c.redis.SaveSession(ctx, rec, c.config.Auth.SessionTTL); err != nil {
		return nil, apperr.Gateway("gateway.openSession", err)
	}
	c.logger.Info("Session opened", zap.String("user_id", user.ID))
	return &Session{Token: rec.Token, UserID: rec.UserID, Email: rec.Email}, nil
}
