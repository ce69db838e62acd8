package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/group/ticketmachine/internal/auth"
	"github.com/group/ticketmachine/internal/domain"
	"github.com/group/ticketmachine/internal/domain/admin"
)

// LoginRequest carries administrator credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginDTO is returned on successful login.
type LoginDTO struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService checks administrator credentials and issues sessions.
type AuthService struct {
	users  admin.UserRepository
	jwt    *auth.JWTManager
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users admin.UserRepository, jwt *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, logger: logger, now: time.Now}
}

// Authenticate reports whether the credentials match a stored administrator.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return false, nil
	}
	hash, found, err := s.users.PasswordHash(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to load admin user: %w", err)
	}
	return found && admin.MatchesHash(password, hash), nil
}

// Login authenticates and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginDTO, error) {
	ok, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Info("admin login rejected", zap.String("username", strings.TrimSpace(req.Username)))
		return nil, domain.NewUnauthorizedError("invalid username or password")
	}

	now := s.now().UTC()
	session := admin.Session{
		Username:  strings.TrimSpace(req.Username),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.jwt.TTL()),
	}
	token, err := s.jwt.Issue(session)
	if err != nil {
		return nil, err
	}

	s.logger.Info("admin logged in", zap.String("username", session.Username))
	return &LoginDTO{Token: token, Username: session.Username, ExpiresAt: session.ExpiresAt}, nil
}

// SessionFromToken decodes a bearer token into a session.
func (s *AuthService) SessionFromToken(token string) (admin.Session, error) {
	session, err := s.jwt.Verify(token)
	if err != nil {
		return admin.Session{}, domain.NewUnauthorizedError("invalid or expired session")
	}
	return session, nil
}
