package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carsmotion/carsmotion/internal/common/auth"
	"github.com/carsmotion/carsmotion/internal/common/config"
	"github.com/carsmotion/carsmotion/internal/common/logger"
	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned on a bad username or password. Login
// never says which of the two was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Store is the user persistence the service runs on.
type Store interface {
	Create(ctx context.Context, u *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// Service authenticates operators and issues access tokens.
type Service struct {
	store   Store
	authCfg config.AuthConfig
	log     logger.Logger
}

func NewService(store Store, authCfg config.AuthConfig, log logger.Logger) *Service {
	return &Service{store: store, authCfg: authCfg, log: log}
}

// LoginResult carries the issued token and its owner.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	u, err := s.store.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, u.PasswordSalt, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	ttl := time.Duration(s.authCfg.TokenTTLHours) * time.Hour
	token, expiresAt, err := auth.GenerateAccessToken(s.authCfg, u.ID, u.RolesSlice(), ttl)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if s.log != nil {
		s.log.WithField("user", u.Username).Info("login ok")
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

// EnsureAdmin seeds the configured admin account on first boot so a
// fresh install can be logged into. An existing account is left alone.
func (s *Service) EnsureAdmin(ctx context.Context) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("service not initialized")
	}
	username := strings.TrimSpace(s.authCfg.AdminUsername)
	if username == "" {
		return nil
	}

	_, err := s.store.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	salt, err := GenerateSaltHex()
	if err != nil {
		return err
	}
	hash, err := HashPassword(s.authCfg.AdminPassword, salt)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		DisplayName:  "Administrator",
		Roles:        RolesJoin([]string{"user", "admin"}),
	}
	if err := s.store.Create(ctx, u); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if s.log != nil {
		s.log.WithField("user", username).Info("seeded admin account")
	}
	return nil
}
