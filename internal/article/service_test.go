// AngelaMos | 2026
// service_test.go

package article

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prasanth1122/coherencebackend/internal/core"
	"github.com/prasanth1122/coherencebackend/internal/subscription"
)

type fakeRepo struct {
	byID     map[string]*Article
	comments map[string][]Comment
	ratings  map[string]map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:     make(map[string]*Article),
		comments: make(map[string][]Comment),
		ratings:  make(map[string]map[string]int),
	}
}

func (f *fakeRepo) Create(ctx context.Context, a *Article) error {
	copied := *a
	f.byID[a.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Article, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *a
	copied.CommentCount = len(f.comments[id])
	return &copied, nil
}

func (f *fakeRepo) IncrementViews(ctx context.Context, id string) error {
	a, ok := f.byID[id]
	if !ok {
		return core.ErrNotFound
	}
	a.Views++
	return nil
}

func (f *fakeRepo) List(
	ctx context.Context,
	params ListArticlesParams,
) ([]Article, int, error) {
	var out []Article
	for _, a := range f.byID {
		if params.Category != "" && a.Category != params.Category {
			continue
		}
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListSubArticles(
	ctx context.Context,
	parentID string,
) ([]Article, error) {
	var out []Article
	for _, a := range f.byID {
		if a.ParentArticleID.Valid && a.ParentArticleID.String == parentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, a *Article) error {
	if _, ok := f.byID[a.ID]; !ok {
		return core.ErrNotFound
	}
	copied := *a
	f.byID[a.ID] = &copied
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) AddComment(ctx context.Context, c *Comment) error {
	f.comments[c.ArticleID] = append(f.comments[c.ArticleID], *c)
	return nil
}

func (f *fakeRepo) ListComments(
	ctx context.Context,
	articleID string,
) ([]Comment, error) {
	return f.comments[articleID], nil
}

func (f *fakeRepo) UpsertRating(ctx context.Context, r *Rating) error {
	if f.ratings[r.ArticleID] == nil {
		f.ratings[r.ArticleID] = make(map[string]int)
	}
	f.ratings[r.ArticleID][r.UserID] = r.Rating
	return nil
}

// fakeResolver grants access when the user's assigned tier meets the
// requirement, with the same admin bypass as the real resolver.
type fakeResolver struct {
	tiers map[string]subscription.Tier
}

func (f *fakeResolver) Authorize(
	ctx context.Context,
	userID, role string,
	required subscription.Tier,
) (bool, error) {
	return subscription.ResolveAccess(role, f.tiers[userID], required), nil
}

func newTestService() (*Service, *fakeRepo, *fakeResolver) {
	repo := newFakeRepo()
	resolver := &fakeResolver{tiers: make(map[string]subscription.Tier)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, resolver, logger), repo, resolver
}

func createArticle(
	t *testing.T,
	svc *Service,
	level subscription.Tier,
) *Article {
	t.Helper()

	a, err := svc.Create(context.Background(), CreateArticleRequest{
		Title:            "The Coherence of Forests",
		Category:         CategoryNature,
		Introduction:     "intro",
		ValueProposition: "value",
		Author:           "A. Writer",
		AccessLevel:      string(level),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return a
}

func TestGetFreeArticleBySubscriberlessUser(t *testing.T) {
	svc, _, _ := newTestService()
	a := createArticle(t, svc, subscription.TierFree)

	got, err := svc.Get(context.Background(), a.ID, "user-1", "user")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Views != 1 {
		t.Errorf("Views = %d, want 1 after first read", got.Views)
	}
}

func TestGetGatedArticleDenied(t *testing.T) {
	svc, _, resolver := newTestService()
	a := createArticle(t, svc, subscription.TierPremium)

	_, err := svc.Get(context.Background(), a.ID, "user-1", "user")
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}

	// Subscribing flips the answer on the next read with no other change.
	resolver.tiers["user-1"] = subscription.TierPremium

	if _, err := svc.Get(
		context.Background(),
		a.ID,
		"user-1",
		"user",
	); err != nil {
		t.Errorf("Get after upgrade: %v", err)
	}
}

func TestGetGatedArticleAdminBypass(t *testing.T) {
	svc, _, _ := newTestService()
	a := createArticle(t, svc, subscription.TierInstitutional)

	if _, err := svc.Get(
		context.Background(),
		a.ID,
		"admin-1",
		"admin",
	); err != nil {
		t.Errorf("admin Get: %v", err)
	}
}

func TestDeniedReadDoesNotCountView(t *testing.T) {
	svc, repo, _ := newTestService()
	a := createArticle(t, svc, subscription.TierBasic)

	_, _ = svc.Get(context.Background(), a.ID, "user-1", "user")

	if repo.byID[a.ID].Views != 0 {
		t.Errorf("Views = %d after denied read, want 0", repo.byID[a.ID].Views)
	}
}

func TestGetUnknownArticle(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Get(context.Background(), "missing", "user-1", "user")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCreateMonthlyEditionForcesGeneral(t *testing.T) {
	svc, _, _ := newTestService()

	a, err := svc.Create(context.Background(), CreateArticleRequest{
		Title:            "March Edition",
		Category:         CategoryEconomics,
		Introduction:     "intro",
		ValueProposition: "value",
		Author:           "Editors",
		IsMonthlyEdition: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if a.Category != CategoryGeneral {
		t.Errorf("Category = %q, want General", a.Category)
	}
	if a.AccessLevel != subscription.TierFree {
		t.Errorf("default AccessLevel = %s, want free", a.AccessLevel)
	}
}

func TestCreateSubArticleValidatesParent(t *testing.T) {
	svc, _, _ := newTestService()
	parent := createArticle(t, svc, subscription.TierFree)

	missing := "no-such-article"
	_, err := svc.Create(context.Background(), CreateArticleRequest{
		Title:            "Orphan",
		Category:         CategoryNature,
		Introduction:     "intro",
		ValueProposition: "value",
		Author:           "A. Writer",
		ParentArticleID:  &missing,
	})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("missing parent error = %v, want ErrInvalidInput", err)
	}

	sub, err := svc.Create(context.Background(), CreateArticleRequest{
		Title:            "Chapter One",
		Category:         CategoryNature,
		Introduction:     "intro",
		ValueProposition: "value",
		Author:           "A. Writer",
		ParentArticleID:  &parent.ID,
	})
	if err != nil {
		t.Fatalf("Create sub-article: %v", err)
	}
	if !sub.ParentArticleID.Valid || sub.ParentArticleID.String != parent.ID {
		t.Error("sub-article not linked to parent")
	}

	subs, err := svc.ListSubArticles(context.Background(), parent.ID)
	if err != nil {
		t.Fatalf("ListSubArticles: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("sub-article count = %d, want 1", len(subs))
	}
}

func TestUpdateMonthlyEditionKeepsGeneral(t *testing.T) {
	svc, repo, _ := newTestService()
	a := createArticle(t, svc, subscription.TierFree)
	repo.byID[a.ID].IsMonthlyEdition = true

	category := CategoryComputers
	updated, err := svc.Update(context.Background(), a.ID, UpdateArticleRequest{
		Category: &category,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Category != CategoryGeneral {
		t.Errorf("Category = %q, want General", updated.Category)
	}
}

func TestCommentRequiresReadAccess(t *testing.T) {
	svc, _, resolver := newTestService()
	a := createArticle(t, svc, subscription.TierBasic)
	ctx := context.Background()

	_, err := svc.AddComment(ctx, a.ID, "user-1", "user", "great read")
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}

	resolver.tiers["user-1"] = subscription.TierBasic

	c, err := svc.AddComment(ctx, a.ID, "user-1", "user", "great read")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if c.Text != "great read" || c.UserID != "user-1" {
		t.Error("comment fields not preserved")
	}

	comments, err := svc.ListComments(ctx, a.ID, "user-1", "user")
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 1 {
		t.Errorf("comment count = %d, want 1", len(comments))
	}
}

func TestRateBounds(t *testing.T) {
	svc, repo, _ := newTestService()
	a := createArticle(t, svc, subscription.TierFree)
	ctx := context.Background()

	for _, score := range []int{0, -1, 6} {
		if err := svc.Rate(ctx, a.ID, "user-1", "user", score); !errors.Is(
			err,
			core.ErrInvalidInput,
		) {
			t.Errorf("score %d error = %v, want ErrInvalidInput", score, err)
		}
	}

	if err := svc.Rate(ctx, a.ID, "user-1", "user", 4); err != nil {
		t.Fatalf("Rate: %v", err)
	}

	// Re-rating overwrites rather than stacking.
	if err := svc.Rate(ctx, a.ID, "user-1", "user", 2); err != nil {
		t.Fatalf("re-Rate: %v", err)
	}
	if got := repo.ratings[a.ID]["user-1"]; got != 2 {
		t.Errorf("stored rating = %d, want 2", got)
	}
	if len(repo.ratings[a.ID]) != 1 {
		t.Errorf("rating rows = %d, want 1", len(repo.ratings[a.ID]))
	}
}

func TestListRejectsUnknownCategory(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.List(context.Background(), ListArticlesParams{
		Category: "Astrology",
	})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}
