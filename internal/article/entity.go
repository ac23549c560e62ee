// AngelaMos | 2026
// entity.go

package article

import (
	"database/sql"
	"time"

	"github.com/prasanth1122/coherencebackend/internal/subscription"
)

// Article categories.
const (
	CategoryNature    = "Nature"
	CategoryComputers = "Computers"
	CategoryEconomics = "Economics"
	CategoryGeneral   = "General"
)

var validCategories = map[string]bool{
	CategoryNature:    true,
	CategoryComputers: true,
	CategoryEconomics: true,
	CategoryGeneral:   true,
}

func ValidCategory(category string) bool {
	return validCategories[category]
}

type Article struct {
	ID               string            `db:"id"`
	Title            string            `db:"title"`
	Category         string            `db:"category"`
	Introduction     string            `db:"introduction"`
	ValueProposition string            `db:"value_proposition"`
	Author           string            `db:"author"`
	AccessLevel      subscription.Tier `db:"access_level"`
	IsMonthlyEdition bool              `db:"is_monthly_edition"`
	ParentArticleID  sql.NullString    `db:"parent_article_id"`
	Month            sql.NullInt32     `db:"month"`
	Year             sql.NullInt32     `db:"year"`
	Views            int64             `db:"views"`
	CreatedAt        time.Time         `db:"created_at"`
	UpdatedAt        time.Time         `db:"updated_at"`

	// Aggregates computed at read time, not stored columns.
	SubArticlesCount int     `db:"sub_articles_count"`
	CommentCount     int     `db:"comment_count"`
	AverageRating    float64 `db:"average_rating"`
}

type Comment struct {
	ID        string    `db:"id"         json:"id"`
	ArticleID string    `db:"article_id" json:"articleId"`
	UserID    string    `db:"user_id"    json:"userId"`
	Text      string    `db:"text"       json:"text"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Rating struct {
	ArticleID string `db:"article_id" json:"articleId"`
	UserID    string `db:"user_id"    json:"userId"`
	Rating    int    `db:"rating"     json:"rating"`
}
