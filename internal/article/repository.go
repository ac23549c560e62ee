// AngelaMos | 2026
// repository.go

package article

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/prasanth1122/coherencebackend/internal/core"
)

// articleSelect pulls the row plus the read-time aggregates.
const articleSelect = `
	SELECT
		a.id, a.title, a.category, a.introduction, a.value_proposition,
		a.author, a.access_level, a.is_monthly_edition, a.parent_article_id,
		a.month, a.year, a.views, a.created_at, a.updated_at,
		(SELECT COUNT(*) FROM articles s
			WHERE s.parent_article_id = a.id) AS sub_articles_count,
		(SELECT COUNT(*) FROM article_comments c
			WHERE c.article_id = a.id) AS comment_count,
		(SELECT COALESCE(AVG(r.rating), 0) FROM article_ratings r
			WHERE r.article_id = a.id) AS average_rating
	FROM articles a`

type Repository interface {
	Create(ctx context.Context, a *Article) error
	GetByID(ctx context.Context, id string) (*Article, error)
	// IncrementViews bumps the counter without re-reading the row.
	IncrementViews(ctx context.Context, id string) error
	List(ctx context.Context, params ListArticlesParams) ([]Article, int, error)
	ListSubArticles(ctx context.Context, parentID string) ([]Article, error)
	Update(ctx context.Context, a *Article) error
	// Delete removes the article, its comments and ratings, and its
	// sub-articles (with theirs) in one transaction. Sub-articles whose
	// parent was not a monthly edition keep existing with the parent
	// reference nulled instead.
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, articleID string) ([]Comment, error)
	// UpsertRating records one rating per user per article, overwriting
	// any earlier score.
	UpsertRating(ctx context.Context, r *Rating) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Article) error {
	query := `
		INSERT INTO articles
			(id, title, category, introduction, value_proposition, author,
			 access_level, is_monthly_edition, parent_article_id, month, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, a, query,
		a.ID,
		a.Title,
		a.Category,
		a.Introduction,
		a.ValueProposition,
		a.Author,
		a.AccessLevel,
		a.IsMonthlyEdition,
		a.ParentArticleID,
		a.Month,
		a.Year,
	)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Article, error) {
	query := articleSelect + ` WHERE a.id = $1`

	var a Article
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("article: %w", core.ErrNotFound)
		}
		return nil, fmt.Errorf("get article: %w", err)
	}

	return &a, nil
}

func (r *repository) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE articles SET views = views + 1 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("article: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListArticlesParams,
) ([]Article, int, error) {
	where := ""
	args := []any{}

	if params.Category != "" {
		where = ` WHERE a.category = $1`
		args = append(args, params.Category)
	}

	countQuery := `SELECT COUNT(*) FROM articles a` + where

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	query := fmt.Sprintf(
		"%s%s ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d",
		articleSelect,
		where,
		len(args)+1,
		len(args)+2,
	)
	args = append(args, params.PageSize, params.Offset())

	var articles []Article
	if err := r.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}

	return articles, total, nil
}

func (r *repository) ListSubArticles(
	ctx context.Context,
	parentID string,
) ([]Article, error) {
	query := articleSelect + `
		WHERE a.parent_article_id = $1
		ORDER BY a.created_at ASC`

	var articles []Article
	if err := r.db.SelectContext(ctx, &articles, query, parentID); err != nil {
		return nil, fmt.Errorf("list sub-articles: %w", err)
	}

	return articles, nil
}

func (r *repository) Update(ctx context.Context, a *Article) error {
	query := `
		UPDATE articles
		SET title = $2, category = $3, introduction = $4,
			value_proposition = $5, author = $6, access_level = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &a.UpdatedAt, query,
		a.ID,
		a.Title,
		a.Category,
		a.Introduction,
		a.ValueProposition,
		a.Author,
		a.AccessLevel,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("article: %w", core.ErrNotFound)
		}
		return fmt.Errorf("update article: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var isMonthly bool
		err := tx.GetContext(ctx, &isMonthly,
			`SELECT is_monthly_edition FROM articles WHERE id = $1`, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("article: %w", core.ErrNotFound)
			}
			return fmt.Errorf("load article: %w", err)
		}

		if isMonthly {
			// A monthly edition takes its sub-articles down with it.
			_, err = tx.ExecContext(ctx, `
				DELETE FROM article_comments WHERE article_id IN
					(SELECT id FROM articles WHERE parent_article_id = $1)`,
				id)
			if err != nil {
				return fmt.Errorf("delete sub-article comments: %w", err)
			}

			_, err = tx.ExecContext(ctx, `
				DELETE FROM article_ratings WHERE article_id IN
					(SELECT id FROM articles WHERE parent_article_id = $1)`,
				id)
			if err != nil {
				return fmt.Errorf("delete sub-article ratings: %w", err)
			}

			_, err = tx.ExecContext(ctx,
				`DELETE FROM articles WHERE parent_article_id = $1`, id)
			if err != nil {
				return fmt.Errorf("delete sub-articles: %w", err)
			}
		} else {
			_, err = tx.ExecContext(ctx, `
				UPDATE articles SET parent_article_id = NULL
				WHERE parent_article_id = $1`, id)
			if err != nil {
				return fmt.Errorf("detach sub-articles: %w", err)
			}
		}

		_, err = tx.ExecContext(ctx,
			`DELETE FROM article_comments WHERE article_id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`DELETE FROM article_ratings WHERE article_id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete ratings: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM articles WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete article: %w", err)
		}

		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("article: %w", core.ErrNotFound)
		}

		return nil
	})
}

func (r *repository) AddComment(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO article_comments (id, article_id, user_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &c.CreatedAt, query,
		c.ID,
		c.ArticleID,
		c.UserID,
		c.Text,
	)
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}

	return nil
}

func (r *repository) ListComments(
	ctx context.Context,
	articleID string,
) ([]Comment, error) {
	query := `
		SELECT id, article_id, user_id, text, created_at
		FROM article_comments
		WHERE article_id = $1
		ORDER BY created_at ASC`

	var comments []Comment
	if err := r.db.SelectContext(ctx, &comments, query, articleID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return comments, nil
}

func (r *repository) UpsertRating(ctx context.Context, rating *Rating) error {
	query := `
		INSERT INTO article_ratings (article_id, user_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (article_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating`

	_, err := r.db.ExecContext(ctx, query,
		rating.ArticleID,
		rating.UserID,
		rating.Rating,
	)
	if err != nil {
		return fmt.Errorf("rate article: %w", err)
	}

	return nil
}
