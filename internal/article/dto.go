// AngelaMos | 2026
// dto.go

package article

import (
	"time"

	"github.com/prasanth1122/coherencebackend/internal/subscription"
)

type CreateArticleRequest struct {
	Title            string  `json:"title"            validate:"required,max=300"`
	Category         string  `json:"category"         validate:"required,oneof=Nature Computers Economics General"`
	Introduction     string  `json:"introduction"     validate:"required"`
	ValueProposition string  `json:"valueProposition" validate:"required"`
	Author           string  `json:"author"           validate:"required,max=200"`
	AccessLevel      string  `json:"accessLevel"      validate:"omitempty,oneof=free basic premium institutional"`
	IsMonthlyEdition bool    `json:"isMonthlyEdition"`
	ParentArticleID  *string `json:"parentArticleId"  validate:"omitempty,uuid"`
	Month            *int    `json:"month"            validate:"omitempty,min=1,max=12"`
	Year             *int    `json:"year"             validate:"omitempty,min=2000,max=2200"`
}

type UpdateArticleRequest struct {
	Title            *string `json:"title"            validate:"omitempty,max=300"`
	Category         *string `json:"category"         validate:"omitempty,oneof=Nature Computers Economics General"`
	Introduction     *string `json:"introduction"     validate:"omitempty"`
	ValueProposition *string `json:"valueProposition" validate:"omitempty"`
	Author           *string `json:"author"           validate:"omitempty,max=200"`
	AccessLevel      *string `json:"accessLevel"      validate:"omitempty,oneof=free basic premium institutional"`
}

type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

type RateArticleRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

type ListArticlesParams struct {
	Category string
	Page     int
	PageSize int
}

func (p *ListArticlesParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *ListArticlesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type ContentResponse struct {
	Introduction     string `json:"introduction"`
	ValueProposition string `json:"valueProposition"`
}

type ArticleResponse struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Category         string            `json:"category"`
	Content          ContentResponse   `json:"content"`
	Author           string            `json:"author"`
	AccessLevel      subscription.Tier `json:"accessLevel"`
	IsMonthlyEdition bool              `json:"isMonthlyEdition"`
	ParentArticleID  *string           `json:"parentArticleId,omitempty"`
	SubArticlesCount int               `json:"subArticlesCount"`
	Month            *int              `json:"month,omitempty"`
	Year             *int              `json:"year,omitempty"`
	Views            int64             `json:"views"`
	CommentCount     int               `json:"commentCount"`
	AverageRating    float64           `json:"averageRating"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// ArticleSummary omits body content so listings never leak gated text.
type ArticleSummary struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Category         string            `json:"category"`
	Author           string            `json:"author"`
	AccessLevel      subscription.Tier `json:"accessLevel"`
	IsMonthlyEdition bool              `json:"isMonthlyEdition"`
	SubArticlesCount int               `json:"subArticlesCount"`
	Views            int64             `json:"views"`
	CommentCount     int               `json:"commentCount"`
	AverageRating    float64           `json:"averageRating"`
	CreatedAt        time.Time         `json:"createdAt"`
}

func ToArticleResponse(a *Article) *ArticleResponse {
	resp := &ArticleResponse{
		ID:       a.ID,
		Title:    a.Title,
		Category: a.Category,
		Content: ContentResponse{
			Introduction:     a.Introduction,
			ValueProposition: a.ValueProposition,
		},
		Author:           a.Author,
		AccessLevel:      a.AccessLevel,
		IsMonthlyEdition: a.IsMonthlyEdition,
		SubArticlesCount: a.SubArticlesCount,
		Views:            a.Views,
		CommentCount:     a.CommentCount,
		AverageRating:    a.AverageRating,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}

	if a.ParentArticleID.Valid {
		resp.ParentArticleID = &a.ParentArticleID.String
	}
	if a.Month.Valid {
		m := int(a.Month.Int32)
		resp.Month = &m
	}
	if a.Year.Valid {
		y := int(a.Year.Int32)
		resp.Year = &y
	}

	return resp
}

func ToArticleSummaryList(articles []Article) []ArticleSummary {
	summaries := make([]ArticleSummary, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		summaries = append(summaries, ArticleSummary{
			ID:               a.ID,
			Title:            a.Title,
			Category:         a.Category,
			Author:           a.Author,
			AccessLevel:      a.AccessLevel,
			IsMonthlyEdition: a.IsMonthlyEdition,
			SubArticlesCount: a.SubArticlesCount,
			Views:            a.Views,
			CommentCount:     a.CommentCount,
			AverageRating:    a.AverageRating,
			CreatedAt:        a.CreatedAt,
		})
	}
	return summaries
}
