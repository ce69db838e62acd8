package ticket

import (
	"context"

	"github.com/shopspring/decimal"
)

// Sales aggregates purchases for one destination.
type Sales struct {
	DestinationID int64
	Count         int64
	Takings       decimal.Decimal
}

// History is the append-only record of sold tickets.
type History interface {
	// Record appends a purchase.
	Record(ctx context.Context, p *Purchase) error

	// Recent returns the newest purchases first.
	Recent(ctx context.Context, limit int) ([]*Purchase, error)

	// SalesByDestination returns sale counts and takings keyed by destination.
	SalesByDestination(ctx context.Context) (map[int64]Sales, error)
}
