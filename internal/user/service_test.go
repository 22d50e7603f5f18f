package user

import (
	"context"
	"errors"
	"testing"

	"github.com/carsmotion/carsmotion/internal/common/config"
)

type memStore struct {
	items map[string]*User
}

func newMemStore() *memStore {
	return &memStore{items: map[string]*User{}}
}

func (m *memStore) Create(_ context.Context, u *User) error {
	cp := *u
	m.items[u.Username] = &cp
	return nil
}

func (m *memStore) FindByUsername(_ context.Context, username string) (*User, error) {
	u, ok := m.items[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func testAuthCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:     "test-secret",
		Issuer:        "carsmotion",
		Audience:      "carsmotion-backoffice",
		TokenTTLHours: 1,
		AdminUsername: "admin",
		AdminPassword: "s3cret",
	}
}

func TestEnsureAdminSeedsOnce(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testAuthCfg(), nil)

	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	seeded, ok := store.items["admin"]
	if !ok {
		t.Fatal("expected admin account")
	}

	// A second boot must not recreate or overwrite the account.
	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}
	if store.items["admin"].PasswordHash != seeded.PasswordHash {
		t.Fatal("existing account must be left alone")
	}
}

func TestLogin(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testAuthCfg(), nil)
	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	result, err := svc.Login(context.Background(), "admin", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}
	if result.User == nil || result.User.Username != "admin" {
		t.Fatal("expected the admin user back")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, testAuthCfg(), nil)
	if err := svc.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	if _, err := svc.Login(context.Background(), "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ghost", "s3cret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}
