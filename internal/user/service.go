// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prasanth1122/coherencebackend/internal/auth"
	"github.com/prasanth1122/coherencebackend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByResetTokenHash(
	ctx context.Context,
	hash string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByResetTokenHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	params auth.CreateUserParams,
) (*auth.UserInfo, error) {
	role := params.Role
	if role == "" {
		role = RoleUser
	}
	userType := params.UserType
	if userType == "" {
		userType = UserTypeStudent
	}

	user := &User{
		ID:           uuid.New().String(),
		Name:         params.Name,
		Email:        strings.ToLower(params.Email),
		PasswordHash: params.PasswordHash,
		Role:         role,
		UserType:     userType,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) ReplaceSession(
	ctx context.Context,
	userID string,
	session auth.Session,
) error {
	return s.repo.ReplaceSession(
		ctx,
		userID,
		session.RefreshTokenHash,
		session.IssuedAt,
		session.ExpiresAt,
	)
}

func (s *Service) ClearSession(ctx context.Context, userID string) error {
	return s.repo.ClearSession(ctx, userID)
}

func (s *Service) SetResetToken(
	ctx context.Context,
	userID, tokenHash string,
	expiresAt time.Time,
) error {
	return s.repo.SetResetToken(ctx, userID, tokenHash, expiresAt)
}

func (s *Service) CompleteReset(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.CompleteReset(ctx, userID, passwordHash)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()
	return s.repo.List(ctx, params)
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	if role != RoleUser && role != RoleAdmin {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		Role:                u.Role,
		UserType:            u.UserType,
		PasswordHash:        u.PasswordHash,
		Session:             u.Session(),
		ResetTokenHash:      u.ResetTokenHash,
		ResetTokenExpiresAt: u.ResetTokenExpiresAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
