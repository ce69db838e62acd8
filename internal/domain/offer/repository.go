package offer

import (
	"context"
	"sort"
	"strings"
)

// Store persists special offers. It performs no business validation.
//
// All listing methods return offers ordered by start date descending, then
// station name ascending ignoring case, then id.
type Store interface {
	// Add inserts a new offer. Reusing a stored id fails with a conflict error.
	Add(ctx context.Context, o *SpecialOffer) error

	// All returns every offer.
	All(ctx context.Context) ([]*SpecialOffer, error)

	// FindByStation returns offers whose station name contains query, ignoring case.
	// An empty query matches every offer.
	FindByStation(ctx context.Context, query string) ([]*SpecialOffer, error)

	// FindByIDPrefix returns at most limit offers whose id starts with prefix (case-sensitive).
	// A limit <= 0 means no limit.
	FindByIDPrefix(ctx context.Context, prefix string, limit int) ([]*SpecialOffer, error)

	// DeleteByID removes the offer with exactly this id and reports whether one existed.
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// SortForListing orders offers the way every Store listing is ordered.
func SortForListing(offers []*SpecialOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		a, b := offers[i], offers[j]
		if !a.startDate.Equal(b.startDate) {
			return a.startDate.After(b.startDate)
		}
		an, bn := strings.ToLower(a.stationName), strings.ToLower(b.stationName)
		if an != bn {
			return an < bn
		}
		return a.id < b.id
	})
}
