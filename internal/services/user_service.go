package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"medstock-backend/internal/auth"
	"medstock-backend/internal/config"
	"medstock-backend/internal/models"
	"medstock-backend/internal/syncengine"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
)

type UserService struct {
	engine     *syncengine.Engine
	jwtManager *auth.JWTManager
}

func NewUserService(engine *syncengine.Engine, jwtManager *auth.JWTManager) *UserService {
	return &UserService{engine: engine, jwtManager: jwtManager}
}

// Login verifies credentials against the users snapshot and issues a
// token.
func (s *UserService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, ok := s.engine.UserByUsername(strings.TrimSpace(req.Username))
	if !ok || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(&user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: user.Sanitized()}, nil
}

// CreateUser adds a user with a hashed password. Member defaults apply
// unless an explicit permission set is given.
func (s *UserService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" || strings.TrimSpace(req.FullName) == "" {
		return nil, errors.New("username, password and full name are required")
	}
	if _, exists := s.engine.UserByUsername(username); exists {
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = "member"
	}
	perms := models.DefaultPermissions()
	if req.Permissions != nil {
		perms = *req.Permissions
	} else if role == "admin" {
		perms = models.AdminPermissions()
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Email:        req.Email,
		Role:         role,
		JobTitle:     req.JobTitle,
		JoinDate:     time.Now().UTC().Format("2006-01-02"),
		Permissions:  perms,
	}
	if err := s.engine.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser edits profile fields; an empty password keeps the current
// hash.
func (s *UserService) UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	user, ok := s.engine.User(id)
	if !ok {
		return nil, ErrUserNotFound
	}

	if username := strings.TrimSpace(req.Username); username != "" && username != user.Username {
		if _, exists := s.engine.UserByUsername(username); exists {
			return nil, ErrUsernameTaken
		}
		user.Username = username
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if req.FullName != "" {
		user.FullName = strings.TrimSpace(req.FullName)
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.JobTitle != "" {
		user.JobTitle = req.JobTitle
	}
	if req.Permissions != nil {
		user.Permissions = *req.Permissions
	}

	if err := s.engine.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, ok := s.engine.User(id); !ok {
		return ErrUserNotFound
	}
	return s.engine.DeleteUser(ctx, id)
}

// EnsureAdmin creates the bootstrap admin account when the users
// collection is empty, so a fresh install is sign-in-able.
func (s *UserService) EnsureAdmin(ctx context.Context, cfg *config.Config) error {
	if len(s.engine.Users()) > 0 {
		return nil
	}
	password := cfg.Bootstrap.AdminPassword
	if password == "" {
		password = uuid.NewString()[:12]
		log.Printf("[Users] Bootstrap admin password (set BOOTSTRAP_ADMIN_PASSWORD to override): %s", password)
	}
	_, err := s.CreateUser(ctx, models.CreateUserRequest{
		Username: cfg.Bootstrap.AdminUsername,
		Password: password,
		FullName: "Administrator",
		Role:     "admin",
	})
	if err != nil && !errors.Is(err, ErrUsernameTaken) {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	return nil
}
