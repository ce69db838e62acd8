package admin

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Session identifies an authenticated administrator. It is passed explicitly to
// operations that need it.
type Session struct {
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Valid reports whether the session names a user and has not expired at now.
func (s Session) Valid(now time.Time) bool {
	return s.Username != "" && now.Before(s.ExpiresAt)
}

// UserRepository verifies administrator credentials.
type UserRepository interface {
	// PasswordHash returns the stored hex SHA-256 hash and whether the user exists.
	PasswordHash(ctx context.Context, username string) (string, bool, error)
}

// HashPassword returns the lowercase hex SHA-256 digest of password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// MatchesHash compares password against a stored hex hash, ignoring hex case.
func MatchesHash(password, storedHash string) bool {
	return strings.EqualFold(HashPassword(password), strings.TrimSpace(storedHash))
}
