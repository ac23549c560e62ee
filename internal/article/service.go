// AngelaMos | 2026
// service.go

package article

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/prasanth1122/coherencebackend/internal/core"
	"github.com/prasanth1122/coherencebackend/internal/subscription"
)

// AccessResolver decides, live, whether a user may read content gated
// at the given tier. Implemented by the subscription service.
type AccessResolver interface {
	Authorize(
		ctx context.Context,
		userID, role string,
		required subscription.Tier,
	) (bool, error)
}

type Service struct {
	repo   Repository
	access AccessResolver
	logger *slog.Logger
}

func NewService(
	repo Repository,
	access AccessResolver,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:   repo,
		access: access,
		logger: logger,
	}
}

// Get returns the article after checking the caller's standing against
// its access level. Authorized reads count as a view.
func (s *Service) Get(
	ctx context.Context,
	id, userID, role string,
) (*Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed, err := s.access.Authorize(ctx, userID, role, a.AccessLevel)
	if err != nil {
		return nil, fmt.Errorf("resolve article access: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf(
			"article requires %s access: %w",
			a.AccessLevel,
			core.ErrForbidden,
		)
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		// A lost view count never blocks the read.
		s.logger.WarnContext(ctx, "failed to increment article views",
			slog.String("article_id", id),
			slog.String("error", err.Error()),
		)
	} else {
		a.Views++
	}

	return a, nil
}

func (s *Service) List(
	ctx context.Context,
	params ListArticlesParams,
) ([]Article, int, error) {
	if params.Category != "" && !ValidCategory(params.Category) {
		return nil, 0, fmt.Errorf(
			"list articles: unknown category %q: %w",
			params.Category,
			core.ErrInvalidInput,
		)
	}

	params.Normalize()
	return s.repo.List(ctx, params)
}

func (s *Service) ListSubArticles(
	ctx context.Context,
	parentID string,
) ([]Article, error) {
	if _, err := s.repo.GetByID(ctx, parentID); err != nil {
		return nil, err
	}

	return s.repo.ListSubArticles(ctx, parentID)
}

func (s *Service) Create(
	ctx context.Context,
	req CreateArticleRequest,
) (*Article, error) {
	a := &Article{
		ID:               uuid.NewString(),
		Title:            req.Title,
		Category:         req.Category,
		Introduction:     req.Introduction,
		ValueProposition: req.ValueProposition,
		Author:           req.Author,
		AccessLevel:      subscription.TierFree,
		IsMonthlyEdition: req.IsMonthlyEdition,
	}

	if req.AccessLevel != "" {
		a.AccessLevel = subscription.Tier(req.AccessLevel)
	}

	// Monthly editions always file under General.
	if a.IsMonthlyEdition {
		a.Category = CategoryGeneral
	}

	if req.ParentArticleID != nil {
		parent, err := s.repo.GetByID(ctx, *req.ParentArticleID)
		if err != nil {
			return nil, fmt.Errorf(
				"parent article does not exist: %w",
				core.ErrInvalidInput,
			)
		}
		a.ParentArticleID = sql.NullString{String: parent.ID, Valid: true}
	}

	if req.Month != nil {
		a.Month = sql.NullInt32{Int32: int32(*req.Month), Valid: true}
	}
	if req.Year != nil {
		a.Year = sql.NullInt32{Int32: int32(*req.Year), Valid: true}
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateArticleRequest,
) (*Article, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Category != nil {
		a.Category = *req.Category
	}
	if req.Introduction != nil {
		a.Introduction = *req.Introduction
	}
	if req.ValueProposition != nil {
		a.ValueProposition = *req.ValueProposition
	}
	if req.Author != nil {
		a.Author = *req.Author
	}
	if req.AccessLevel != nil {
		a.AccessLevel = subscription.Tier(*req.AccessLevel)
	}

	if a.IsMonthlyEdition {
		a.Category = CategoryGeneral
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// AddComment requires read access to the article being commented on.
func (s *Service) AddComment(
	ctx context.Context,
	articleID, userID, role, text string,
) (*Comment, error) {
	if err := s.checkReadAccess(ctx, articleID, userID, role); err != nil {
		return nil, err
	}

	c := &Comment{
		ID:        uuid.NewString(),
		ArticleID: articleID,
		UserID:    userID,
		Text:      text,
	}

	if err := s.repo.AddComment(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) ListComments(
	ctx context.Context,
	articleID, userID, role string,
) ([]Comment, error) {
	if err := s.checkReadAccess(ctx, articleID, userID, role); err != nil {
		return nil, err
	}

	return s.repo.ListComments(ctx, articleID)
}

// Rate records the user's score for the article, replacing any earlier
// one, and requires read access.
func (s *Service) Rate(
	ctx context.Context,
	articleID, userID, role string,
	score int,
) error {
	if score < 1 || score > 5 {
		return fmt.Errorf(
			"rating must be between 1 and 5: %w",
			core.ErrInvalidInput,
		)
	}

	if err := s.checkReadAccess(ctx, articleID, userID, role); err != nil {
		return err
	}

	return s.repo.UpsertRating(ctx, &Rating{
		ArticleID: articleID,
		UserID:    userID,
		Rating:    score,
	})
}

func (s *Service) checkReadAccess(
	ctx context.Context,
	articleID, userID, role string,
) error {
	a, err := s.repo.GetByID(ctx, articleID)
	if err != nil {
		return err
	}

	allowed, err := s.access.Authorize(ctx, userID, role, a.AccessLevel)
	if err != nil {
		return fmt.Errorf("resolve article access: %w", err)
	}
	if !allowed {
		return fmt.Errorf(
			"article requires %s access: %w",
			a.AccessLevel,
			core.ErrForbidden,
		)
	}

	return nil
}
