// AngelaMos | 2026
// entity.go

package subscription

import (
	"time"
)

// Tier is an ordered access level. Higher tiers satisfy requirements
// for every tier below them.
type Tier string

const (
	TierFree          Tier = "free"
	TierBasic         Tier = "basic"
	TierPremium       Tier = "premium"
	TierInstitutional Tier = "institutional"
)

var tierRank = map[Tier]int{
	TierFree:          0,
	TierBasic:         1,
	TierPremium:       2,
	TierInstitutional: 3,
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

// Meets reports whether t grants access to content requiring the
// given tier. Unknown tiers never meet anything above free.
func (t Tier) Meets(required Tier) bool {
	return tierRank[t] >= tierRank[required]
}

// ResolveAccess decides whether a user with the given role and active
// tier may read content gated at the required tier. Admins bypass tier
// checks entirely, and free content is open to everyone.
func ResolveAccess(role string, current Tier, required Tier) bool {
	if required == TierFree || required == "" {
		return true
	}
	if role == "admin" {
		return true
	}
	return current.Meets(required)
}

// History entry statuses.
const (
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusRenewed   = "renewed"
	StatusReplaced  = "replaced"
	StatusCancelled = "cancelled"
)

type Record struct {
	ID        string    `db:"id"         json:"id"`
	UserID    string    `db:"user_id"    json:"userId"`
	Tier      Tier      `db:"tier"       json:"tier"`
	StartDate time.Time `db:"start_date" json:"startDate"`
	EndDate   time.Time `db:"end_date"   json:"endDate"`
	IsActive  bool      `db:"is_active"  json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Expired reports whether the record's paid window has lapsed,
// regardless of the is_active flag.
func (r *Record) Expired(now time.Time) bool {
	return r.EndDate.Before(now)
}

type HistoryEntry struct {
	ID             string    `db:"id"              json:"id"`
	SubscriptionID string    `db:"subscription_id" json:"subscriptionId"`
	UserID         string    `db:"user_id"         json:"userId"`
	Tier           Tier      `db:"tier"            json:"tier"`
	Status         string    `db:"status"          json:"status"`
	StartDate      time.Time `db:"start_date"      json:"startDate"`
	EndDate        time.Time `db:"end_date"        json:"endDate"`
	RecordedAt     time.Time `db:"recorded_at"     json:"recordedAt"`
}
