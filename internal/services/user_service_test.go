package services

import (
	"context"
	"errors"
	"testing"

	"medstock-backend/internal/auth"
	"medstock-backend/internal/config"
	"medstock-backend/internal/models"
)

func testJWTManager() *auth.JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "medstock-test"
	return auth.NewJWTManager(cfg)
}

func TestLoginSuccess(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "erika", "geheim", "Erika Musterfrau")
	svc := NewUserService(e, testJWTManager())

	resp, err := svc.Login(models.LoginRequest{Username: "erika", Password: "geheim"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.User.PasswordHash != "" {
		t.Fatal("login response must not carry the password hash")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "erika", "geheim", "Erika Musterfrau")
	svc := NewUserService(e, testJWTManager())

	for _, req := range []models.LoginRequest{
		{Username: "erika", Password: "falsch"},
		{Username: "unbekannt", Password: "geheim"},
	} {
		if _, err := svc.Login(req); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	e := newTestEngine(t)
	svc := NewUserService(e, testJWTManager())

	u, err := svc.CreateUser(context.Background(), models.CreateUserRequest{
		Username: "max", Password: "pass123", FullName: "Max Mustermann",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.PasswordHash == "pass123" || u.PasswordHash == "" {
		t.Fatal("expected a bcrypt hash, not the plaintext")
	}
	if !u.Permissions.AddMedicine || u.Permissions.ManageUsers {
		t.Fatalf("expected member default permissions, got %+v", u.Permissions)
	}
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "erika", "geheim", "Erika Musterfrau")
	svc := NewUserService(e, testJWTManager())

	_, err := svc.CreateUser(context.Background(), models.CreateUserRequest{
		Username: "erika", Password: "x", FullName: "Erika Zwei",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUpdateUserKeepsPasswordWhenEmpty(t *testing.T) {
	e := newTestEngine(t)
	u := seedUser(t, e, "erika", "geheim", "Erika Musterfrau")
	svc := NewUserService(e, testJWTManager())

	updated, err := svc.UpdateUser(context.Background(), u.ID, models.UpdateUserRequest{JobTitle: "Wachleiterin"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PasswordHash != u.PasswordHash {
		t.Fatal("empty password must keep the existing hash")
	}
	if updated.JobTitle != "Wachleiterin" {
		t.Fatalf("expected job title update, got %q", updated.JobTitle)
	}
}

func TestEnsureAdminOnlyWhenEmpty(t *testing.T) {
	e := newTestEngine(t)
	svc := NewUserService(e, testJWTManager())
	cfg := &config.Config{}
	cfg.Bootstrap.AdminUsername = "admin"
	cfg.Bootstrap.AdminPassword = "start123"

	if err := svc.EnsureAdmin(context.Background(), cfg); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	admin, ok := e.UserByUsername("admin")
	if !ok || admin.Role != "admin" || !admin.Permissions.FullAdminAccess {
		t.Fatalf("expected bootstrap admin, got %+v", admin)
	}

	// Second call must not create another account.
	if err := svc.EnsureAdmin(context.Background(), cfg); err != nil {
		t.Fatalf("ensure admin again: %v", err)
	}
	if len(e.Users()) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(e.Users()))
	}
}
