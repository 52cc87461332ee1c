package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/explorekarawang/directory-api/internal/domain"
	"github.com/explorekarawang/directory-api/internal/repository/ports"
	"github.com/explorekarawang/directory-api/internal/util"
)

type LoginResult struct {
	User      *domain.AdminUser
	Token     string
	ExpiresAt time.Time
}

type CreateAdminInput struct {
	Username string
	Email    *string
	Password string
}

// AuthService signs admins in. A session is a signed JWT whose token string is
// also stored server side so logout can revoke it.
type AuthService struct {
	users    ports.AdminUserRepository
	sessions ports.AdminSessionRepository
	jwt      *util.JWTManager
	now      func() time.Time
}

func NewAuthService(users ports.AdminUserRepository, sessions ports.AdminSessionRepository, jwtManager *util.JWTManager) *AuthService {
	return &AuthService{users: users, sessions: sessions, jwt: jwtManager, now: time.Now}
}

func (s *AuthService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: find admin: %v", ErrStoreFailure, err)
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) || !user.IsAdmin() {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.Generate(user.ID, user.Username, user.Role, uuid.New())
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	if _, err := s.sessions.Create(ctx, user.ID, token, expiresAt); err != nil {
		return nil, fmt.Errorf("%w: create session: %v", ErrStoreFailure, err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate resolves a session token to its admin. Any failure other than a
// store error is ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.AdminUser, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	session, err := s.sessions.FindActive(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: find session: %v", ErrStoreFailure, err)
	}
	if session.UserID != claims.UserID || !session.Valid(s.now().UTC()) {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: find admin: %v", ErrStoreFailure, err)
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := s.sessions.Deactivate(ctx, token); err != nil {
		return fmt.Errorf("%w: deactivate session: %v", ErrStoreFailure, err)
	}
	return nil
}

func (s *AuthService) CreateAdmin(ctx context.Context, input CreateAdminInput) (*domain.AdminUser, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if err := util.ValidatePassword(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	hash, salt, err := util.DerivePassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("derive password: %w", err)
	}
	user := &domain.AdminUser{
		ID:           uuid.New(),
		Username:     username,
		Email:        normalizeString(input.Email),
		PasswordHash: hash,
		PasswordSalt: salt,
		Role:         domain.RoleAdmin,
		CreatedAt:    s.now().UTC(),
	}
	stored, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, ports.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: username %q already exists", ErrValidation, username)
		}
		return nil, fmt.Errorf("%w: insert admin: %v", ErrStoreFailure, err)
	}
	return stored, nil
}
