// AngelaMos | 2026
// dto.go

package subscription

import (
	"time"
)

type CreateSubscriptionRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Tier   string `json:"tier"   validate:"required,oneof=basic premium institutional"`
	Months int    `json:"months" validate:"required,min=1,max=36"`
}

type RenewSubscriptionRequest struct {
	Months int `json:"months" validate:"required,min=1,max=36"`
}

type SubscriptionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Tier      Tier      `json:"tier"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsActive  bool      `json:"isActive"`
}

// CurrentTierResponse is what an authenticated user sees for their
// own standing. Expired or missing subscriptions surface as free.
type CurrentTierResponse struct {
	Tier         Tier                  `json:"tier"`
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`
}

func ToSubscriptionResponse(r *Record) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		Tier:      r.Tier,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		IsActive:  r.IsActive,
	}
}

func ToHistoryResponseList(entries []HistoryEntry) []HistoryEntry {
	if entries == nil {
		return []HistoryEntry{}
	}
	return entries
}
