package memory

import (
	"context"
	"sync"

	"github.com/group/ticketmachine/internal/domain/ticket"
)

// TicketHistory records purchases in memory.
type TicketHistory struct {
	mu        sync.RWMutex
	purchases []*ticket.Purchase
}

// NewTicketHistory creates an empty history.
func NewTicketHistory() *TicketHistory {
	return &TicketHistory{}
}

// Record appends a purchase.
func (h *TicketHistory) Record(_ context.Context, p *ticket.Purchase) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.purchases = append(h.purchases, p)
	return nil
}

// Recent returns up to limit purchases, newest first.
func (h *TicketHistory) Recent(_ context.Context, limit int) ([]*ticket.Purchase, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*ticket.Purchase, 0, len(h.purchases))
	for i := len(h.purchases) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, h.purchases[i])
	}
	return out, nil
}

// SalesByDestination sums purchases per destination.
func (h *TicketHistory) SalesByDestination(_ context.Context) (map[int64]ticket.Sales, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[int64]ticket.Sales)
	for _, p := range h.purchases {
		s := out[p.DestinationID]
		s.DestinationID = p.DestinationID
		s.Count++
		s.Takings = s.Takings.Add(p.Amount)
		out[p.DestinationID] = s
	}
	return out, nil
}
