// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prasanth1122/coherencebackend/internal/core"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailExists         = errors.New("email already exists")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
)

type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	UserType     string
}

// UserProvider is the credential store contract. Session and reset-token
// mutations are partial single-record updates; they never touch unrelated
// fields.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	GetByResetTokenHash(ctx context.Context, hash string) (*UserInfo, error)
	Create(ctx context.Context, params CreateUserParams) (*UserInfo, error)
	ReplaceSession(ctx context.Context, userID string, session Session) error
	ClearSession(ctx context.Context, userID string) error
	SetResetToken(
		ctx context.Context,
		userID, tokenHash string,
		expiresAt time.Time,
	) error
	// CompleteReset stores the new password hash and clears both the reset
	// token and the session in a single atomic update.
	CompleteReset(ctx context.Context, userID, passwordHash string) error
}

type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

type Service struct {
	users    UserProvider
	jwt      *JWTManager
	mailer   Mailer
	resetTTL time.Duration
}

func NewService(
	users UserProvider,
	jwtManager *JWTManager,
	mailer Mailer,
	resetTTL time.Duration,
) *Service {
	return &Service{
		users:    users,
		jwt:      jwtManager,
		mailer:   mailer,
		resetTTL: resetTTL,
	}
}

// Login verifies credentials and replaces the user's session. The previous
// refresh token, if any, stops verifying the moment the new hash lands.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refreshData, err := s.jwt.CreateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	err = s.users.ReplaceSession(ctx, user.ID, Session{
		RefreshTokenHash: refreshData.Hash,
		IssuedAt:         refreshData.IssuedAt,
		ExpiresAt:        refreshData.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("replace session: %w", err)
	}

	return &AuthResponse{
		User: UserSummary{
			ID:   user.ID,
			Name: user.Name,
			Role: user.Role,
		},
		Tokens: TokenResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshData.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.jwt.AccessTokenTTL() / time.Second),
			ExpiresAt:    time.Now().Add(s.jwt.AccessTokenTTL()),
		},
	}, nil
}

func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*UserSummary, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         req.Role,
		UserType:     req.UserType,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &UserSummary{ID: user.ID, Name: user.Name, Role: user.Role}, nil
}

// Refresh issues a new access token against a presented refresh token. The
// token must carry a valid signature and expiry AND match the current
// session hash: a token superseded by a later login fails here even when it
// is unexpired.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (*TokenResponse, error) {
	userID, err := s.jwt.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.Session.Matches(refreshToken) {
		return nil, ErrInvalidRefreshToken
	}

	accessToken, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	// The refresh token itself is not rotated here; rotation happens on
	// login, which replaces the session wholesale.
	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwt.AccessTokenTTL() / time.Second),
		ExpiresAt:   time.Now().Add(s.jwt.AccessTokenTTL()),
	}, nil
}

// Logout clears the stored session hash, permanently invalidating any
// outstanding refresh token for the user.
func (s *Service) Logout(ctx context.Context, userID string) error {
	if err := s.users.ClearSession(ctx, userID); err != nil &&
		!errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// RequestPasswordReset stores a reset-token hash and dispatches the
// plaintext by mail. An unknown email performs no mutation and reports
// nothing: callers observe the same outcome either way.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	token, err := core.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, core.HashToken(token), expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}

	return nil
}

// ResetPassword consumes a reset token exactly once. Success clears the
// token fields and the session, so stale refresh tokens die with the old
// password.
func (s *Service) ResetPassword(
	ctx context.Context,
	token, newPassword string,
) error {
	user, err := s.users.GetByResetTokenHash(ctx, core.HashToken(token))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("find reset token: %w", err)
	}

	if user.ResetTokenExpiresAt == nil ||
		time.Now().After(*user.ResetTokenExpiresAt) {
		return ErrInvalidResetToken
	}

	passwordHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.CompleteReset(ctx, user.ID, passwordHash); err != nil {
		return fmt.Errorf("complete reset: %w", err)
	}

	return nil
}
