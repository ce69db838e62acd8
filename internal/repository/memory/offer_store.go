// Package memory holds in-process implementations of the domain stores, used by
// tests and by the memory storage backend.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/group/ticketmachine/internal/domain"
	"github.com/group/ticketmachine/internal/domain/offer"
)

// OfferStore keeps offers in a slice guarded by a RWMutex.
type OfferStore struct {
	mu     sync.RWMutex
	offers []*offer.SpecialOffer
}

// NewOfferStore creates an empty OfferStore.
func NewOfferStore() *OfferStore {
	return &OfferStore{}
}

// Add appends an offer. An id that is already stored is a conflict.
func (s *OfferStore) Add(_ context.Context, o *offer.SpecialOffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.offers {
		if existing.ID() == o.ID() {
			return domain.NewConflictError(fmt.Sprintf("offer %s already exists", o.ID()))
		}
	}
	s.offers = append(s.offers, o)
	return nil
}

// All returns every offer in listing order.
func (s *OfferStore) All(_ context.Context) ([]*offer.SpecialOffer, error) {
	return s.filter(func(*offer.SpecialOffer) bool { return true }, 0), nil
}

// FindByStation returns offers whose station contains query, ignoring case.
func (s *OfferStore) FindByStation(_ context.Context, query string) ([]*offer.SpecialOffer, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	return s.filter(func(o *offer.SpecialOffer) bool {
		return strings.Contains(strings.ToLower(o.StationName()), q)
	}, 0), nil
}

// FindByIDPrefix returns offers whose id starts with prefix.
func (s *OfferStore) FindByIDPrefix(_ context.Context, prefix string, limit int) ([]*offer.SpecialOffer, error) {
	return s.filter(func(o *offer.SpecialOffer) bool {
		return strings.HasPrefix(o.ID(), prefix)
	}, limit), nil
}

// DeleteByID removes the offer with this exact id.
func (s *OfferStore) DeleteByID(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.offers {
		if o.ID() == id {
			s.offers = append(s.offers[:i], s.offers[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *OfferStore) filter(keep func(*offer.SpecialOffer) bool, limit int) []*offer.SpecialOffer {
	s.mu.RLock()
	out := make([]*offer.SpecialOffer, 0, len(s.offers))
	for _, o := range s.offers {
		if keep(o) {
			out = append(out, o)
		}
	}
	s.mu.RUnlock()

	offer.SortForListing(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
