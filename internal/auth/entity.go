// AngelaMos | 2026
// entity.go

package auth

import (
	"time"

	"github.com/prasanth1122/coherencebackend/internal/core"
)

// Session is the single active session owned by a user record. It is
// replaced wholesale on every login, so at most one refresh token per user
// verifies at any time; an earlier token fails the hash match even if its
// signature is still valid.
type Session struct {
	RefreshTokenHash string
	IssuedAt         time.Time
	ExpiresAt        time.Time
}

func (s *Session) Matches(refreshToken string) bool {
	if s == nil || s.RefreshTokenHash == "" {
		return false
	}
	return core.CompareTokenHash(refreshToken, s.RefreshTokenHash)
}

// UserInfo is the auth-facing view of a user record, owned by the user
// package and projected through the UserProvider interface.
type UserInfo struct {
	ID                  string
	Email               string
	Name                string
	Role                string
	UserType            string
	PasswordHash        string
	Session             *Session
	ResetTokenHash      *string
	ResetTokenExpiresAt *time.Time
}
