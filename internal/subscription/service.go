// AngelaMos | 2026
// service.go

package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prasanth1122/coherencebackend/internal/core"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// CurrentTier resolves the user's effective tier at call time. Missing,
// cancelled, or lapsed subscriptions all resolve to free. Callers must
// not cache the result across requests, since an upgrade or expiry
// changes the answer immediately.
func (s *Service) CurrentTier(
	ctx context.Context,
	userID string,
) (Tier, *Record, error) {
	rec, err := s.repo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return TierFree, nil, nil
		}
		return TierFree, nil, err
	}

	if rec.Expired(s.now()) {
		return TierFree, nil, nil
	}

	return rec.Tier, rec, nil
}

// Authorize reports whether the user may read content gated at the
// required tier, resolving the user's standing live.
func (s *Service) Authorize(
	ctx context.Context,
	userID, role string,
	required Tier,
) (bool, error) {
	if required == TierFree || required == "" {
		return true, nil
	}
	if role == "admin" {
		return true, nil
	}

	tier, _, err := s.CurrentTier(ctx, userID)
	if err != nil {
		return false, err
	}

	return ResolveAccess(role, tier, required), nil
}

// ResolveTier is a middleware.TierResolver: it maps a user ID to the
// rate-limit tier name, swallowing lookup errors as free.
func (s *Service) ResolveTier(ctx context.Context, userID string) string {
	tier, _, err := s.CurrentTier(ctx, userID)
	if err != nil {
		return string(TierFree)
	}
	return string(tier)
}

// Subscribe grants the user a new subscription, replacing whatever
// active record they held. The superseded record is marked replaced in
// history.
func (s *Service) Subscribe(
	ctx context.Context,
	userID string,
	tier Tier,
	months int,
) (*Record, error) {
	if !tier.Valid() || tier == TierFree {
		return nil, fmt.Errorf(
			"subscribe: invalid tier %q: %w",
			tier,
			core.ErrInvalidInput,
		)
	}
	if months < 1 {
		return nil, fmt.Errorf(
			"subscribe: invalid duration: %w",
			core.ErrInvalidInput,
		)
	}

	start := s.now()
	rec := &Record{
		ID:        uuid.NewString(),
		UserID:    userID,
		Tier:      tier,
		StartDate: start,
		EndDate:   start.AddDate(0, months, 0),
		IsActive:  true,
	}

	if err := s.repo.Replace(ctx, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// Renew extends the subscription's end date from whichever is later,
// its current end date or now.
func (s *Service) Renew(
	ctx context.Context,
	id string,
	months int,
) (*Record, error) {
	if months < 1 {
		return nil, fmt.Errorf(
			"renew: invalid duration: %w",
			core.ErrInvalidInput,
		)
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	base := rec.EndDate
	if now := s.now(); base.Before(now) {
		base = now
	}

	return s.repo.Renew(ctx, id, base.AddDate(0, months, 0))
}

func (s *Service) Cancel(ctx context.Context, id string) error {
	return s.repo.Cancel(ctx, id)
}

func (s *Service) History(
	ctx context.Context,
	userID string,
) ([]HistoryEntry, error) {
	return s.repo.History(ctx, userID)
}
