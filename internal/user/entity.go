// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/prasanth1122/coherencebackend/internal/auth"
)

type User struct {
	ID                  string     `db:"id"`
	Name                string     `db:"name"`
	Email               string     `db:"email"`
	PasswordHash        string     `db:"password_hash"`
	Role                string     `db:"role"`
	UserType            string     `db:"user_type"`
	RefreshTokenHash    *string    `db:"refresh_token_hash"`
	SessionIssuedAt     *time.Time `db:"session_issued_at"`
	SessionExpiresAt    *time.Time `db:"session_expires_at"`
	ResetTokenHash      *string    `db:"reset_token_hash"`
	ResetTokenExpiresAt *time.Time `db:"reset_token_expires_at"`
	LastLoginAt         *time.Time `db:"last_login_at"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session projects the session columns as the value the auth package owns.
// Nil when the user has never logged in or has logged out.
func (u *User) Session() *auth.Session {
	if u.RefreshTokenHash == nil || *u.RefreshTokenHash == "" {
		return nil
	}

	s := &auth.Session{RefreshTokenHash: *u.RefreshTokenHash}
	if u.SessionIssuedAt != nil {
		s.IssuedAt = *u.SessionIssuedAt
	}
	if u.SessionExpiresAt != nil {
		s.ExpiresAt = *u.SessionExpiresAt
	}
	return s
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	UserTypeStudent  = "student"
	UserTypeEducator = "educator"
)
