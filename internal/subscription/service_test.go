// AngelaMos | 2026
// service_test.go

package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prasanth1122/coherencebackend/internal/core"
)

type fakeRepo struct {
	byID map[string]*Record
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[string]*Record)}
}

func (f *fakeRepo) GetActiveByUserID(
	ctx context.Context,
	userID string,
) (*Record, error) {
	for _, rec := range f.byID {
		if rec.UserID == userID && rec.IsActive &&
			!rec.EndDate.Before(time.Now()) {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Record, error) {
	rec, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeRepo) Replace(ctx context.Context, rec *Record) error {
	for _, old := range f.byID {
		if old.UserID == rec.UserID && old.IsActive {
			old.IsActive = false
		}
	}
	copied := *rec
	f.byID[rec.ID] = &copied
	return nil
}

func (f *fakeRepo) Renew(
	ctx context.Context,
	id string,
	endDate time.Time,
) (*Record, error) {
	rec, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	rec.EndDate = endDate
	rec.IsActive = true
	copied := *rec
	return &copied, nil
}

func (f *fakeRepo) Cancel(ctx context.Context, id string) error {
	rec, ok := f.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	rec.IsActive = false
	return nil
}

func (f *fakeRepo) History(
	ctx context.Context,
	userID string,
) ([]HistoryEntry, error) {
	return nil, nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo), repo
}

func TestCurrentTierNoSubscription(t *testing.T) {
	svc, _ := newTestService()

	tier, rec, err := svc.CurrentTier(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CurrentTier: %v", err)
	}
	if tier != TierFree {
		t.Errorf("tier = %s, want free", tier)
	}
	if rec != nil {
		t.Error("expected nil record")
	}
}

func TestSubscribeThenCurrentTier(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Subscribe(ctx, "user-1", TierPremium, 3)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if !rec.IsActive {
		t.Error("new record not active")
	}

	tier, current, err := svc.CurrentTier(ctx, "user-1")
	if err != nil {
		t.Fatalf("CurrentTier: %v", err)
	}
	if tier != TierPremium {
		t.Errorf("tier = %s, want premium", tier)
	}
	if current == nil || current.ID != rec.ID {
		t.Error("current record does not match subscription")
	}
}

func TestSubscribeRejectsBadInput(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Subscribe(ctx, "user-1", TierFree, 1); !errors.Is(
		err,
		core.ErrInvalidInput,
	) {
		t.Errorf("free tier error = %v, want ErrInvalidInput", err)
	}

	if _, err := svc.Subscribe(ctx, "user-1", Tier("gold"), 1); !errors.Is(
		err,
		core.ErrInvalidInput,
	) {
		t.Errorf("unknown tier error = %v, want ErrInvalidInput", err)
	}

	if _, err := svc.Subscribe(ctx, "user-1", TierBasic, 0); !errors.Is(
		err,
		core.ErrInvalidInput,
	) {
		t.Errorf("zero months error = %v, want ErrInvalidInput", err)
	}
}

// A new subscription replaces the old one; the user's effective tier
// changes immediately, with no token reissue involved.
func TestUpgradeTakesEffectImmediately(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Subscribe(ctx, "user-1", TierBasic, 1); err != nil {
		t.Fatalf("Subscribe basic: %v", err)
	}

	ok, err := svc.Authorize(ctx, "user-1", "user", TierPremium)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if ok {
		t.Error("basic subscriber authorized for premium")
	}

	if _, err := svc.Subscribe(ctx, "user-1", TierPremium, 1); err != nil {
		t.Fatalf("Subscribe premium: %v", err)
	}

	ok, err = svc.Authorize(ctx, "user-1", "user", TierPremium)
	if err != nil {
		t.Fatalf("Authorize after upgrade: %v", err)
	}
	if !ok {
		t.Error("premium subscriber not authorized for premium")
	}
}

// A lapsed end date downgrades to free even when is_active was never
// flipped off.
func TestExpiredSubscriptionResolvesFree(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	rec, err := svc.Subscribe(ctx, "user-1", TierPremium, 1)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	repo.byID[rec.ID].EndDate = time.Now().Add(-time.Hour)

	tier, _, err := svc.CurrentTier(ctx, "user-1")
	if err != nil {
		t.Fatalf("CurrentTier: %v", err)
	}
	if tier != TierFree {
		t.Errorf("tier = %s, want free", tier)
	}

	ok, err := svc.Authorize(ctx, "user-1", "user", TierBasic)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if ok {
		t.Error("expired subscriber authorized for basic")
	}
}

func TestAuthorizeAdminBypass(t *testing.T) {
	svc, _ := newTestService()

	ok, err := svc.Authorize(
		context.Background(),
		"admin-1",
		"admin",
		TierInstitutional,
	)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if !ok {
		t.Error("admin denied without subscription")
	}
}

func TestRenewExtendsFromLaterOfEndDateOrNow(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	rec, err := svc.Subscribe(ctx, "user-1", TierBasic, 1)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	renewed, err := svc.Renew(ctx, rec.ID, 2)
	if err != nil {
		t.Fatalf("Renew: %v", err)
	}
	want := rec.EndDate.AddDate(0, 2, 0)
	if !renewed.EndDate.Equal(want) {
		t.Errorf("EndDate = %v, want %v", renewed.EndDate, want)
	}

	// Lapsed subscription renews from now, not from the old end date.
	repo.byID[rec.ID].EndDate = time.Now().AddDate(0, -6, 0)
	renewed, err = svc.Renew(ctx, rec.ID, 1)
	if err != nil {
		t.Fatalf("Renew lapsed: %v", err)
	}
	if renewed.EndDate.Before(time.Now().AddDate(0, 0, 27)) {
		t.Errorf("lapsed renewal end date too early: %v", renewed.EndDate)
	}
}

func TestCancelDropsToFree(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rec, err := svc.Subscribe(ctx, "user-1", TierInstitutional, 12)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := svc.Cancel(ctx, rec.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	tier, _, err := svc.CurrentTier(ctx, "user-1")
	if err != nil {
		t.Fatalf("CurrentTier: %v", err)
	}
	if tier != TierFree {
		t.Errorf("tier after cancel = %s, want free", tier)
	}
}

func TestResolveTierSwallowsErrors(t *testing.T) {
	svc, _ := newTestService()

	if got := svc.ResolveTier(context.Background(), "user-1"); got != "free" {
		t.Errorf("ResolveTier = %q, want free", got)
	}
}
