// AngelaMos | 2026
// entity_test.go

package subscription

import (
	"testing"
)

func TestTierMeets(t *testing.T) {
	tests := []struct {
		tier     Tier
		required Tier
		want     bool
	}{
		{TierFree, TierFree, true},
		{TierFree, TierBasic, false},
		{TierFree, TierPremium, false},
		{TierFree, TierInstitutional, false},
		{TierBasic, TierFree, true},
		{TierBasic, TierBasic, true},
		{TierBasic, TierPremium, false},
		{TierPremium, TierBasic, true},
		{TierPremium, TierPremium, true},
		{TierPremium, TierInstitutional, false},
		{TierInstitutional, TierFree, true},
		{TierInstitutional, TierInstitutional, true},
		{Tier("bogus"), TierBasic, false},
		{Tier("bogus"), TierFree, true},
	}

	for _, tt := range tests {
		if got := tt.tier.Meets(tt.required); got != tt.want {
			t.Errorf("%s.Meets(%s) = %v, want %v",
				tt.tier, tt.required, got, tt.want)
		}
	}
}

func TestResolveAccess(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		current  Tier
		required Tier
		want     bool
	}{
		{"free content open to everyone", "user", TierFree, TierFree, true},
		{"free content with no tier at all", "user", Tier(""), TierFree, true},
		{"empty required treated as free", "user", TierFree, Tier(""), true},
		{"basic user reads basic", "user", TierBasic, TierBasic, true},
		{"basic user blocked from premium", "user", TierBasic, TierPremium, false},
		{"premium covers basic", "user", TierPremium, TierBasic, true},
		{"institutional covers everything", "user", TierInstitutional, TierPremium, true},
		{"admin bypasses tier entirely", "admin", TierFree, TierInstitutional, true},
		{"admin with no subscription", "admin", Tier(""), TierPremium, true},
		{"free user blocked from basic", "user", TierFree, TierBasic, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAccess(tt.role, tt.current, tt.required)
			if got != tt.want {
				t.Errorf("ResolveAccess(%q, %s, %s) = %v, want %v",
					tt.role, tt.current, tt.required, got, tt.want)
			}
		})
	}
}

func TestTierValid(t *testing.T) {
	for _, tier := range []Tier{
		TierFree, TierBasic, TierPremium, TierInstitutional,
	} {
		if !tier.Valid() {
			t.Errorf("%s.Valid() = false", tier)
		}
	}
	if Tier("gold").Valid() {
		t.Error(`Tier("gold").Valid() = true`)
	}
}
