package memory

import (
	"context"
	"strings"

	"github.com/group/ticketmachine/internal/domain/admin"
)

// AdminUsers maps usernames to password hashes.
type AdminUsers struct {
	hashes map[string]string
}

// NewAdminUsers builds a repository from plaintext passwords keyed by username.
func NewAdminUsers(passwords map[string]string) *AdminUsers {
	u := &AdminUsers{hashes: make(map[string]string, len(passwords))}
	for name, pw := range passwords {
		u.hashes[strings.TrimSpace(name)] = admin.HashPassword(pw)
	}
	return u
}

// PasswordHash returns the stored hash for username.
func (u *AdminUsers) PasswordHash(_ context.Context, username string) (string, bool, error) {
	h, ok := u.hashes[strings.TrimSpace(username)]
	return h, ok, nil
}
