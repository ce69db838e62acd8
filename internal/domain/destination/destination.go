package destination

import (
	"context"

	"github.com/shopspring/decimal"
)

// Destination is a station reachable from the machine, with its base fares.
type Destination struct {
	ID          int64
	Name        string
	SinglePrice decimal.Decimal
	ReturnPrice decimal.Decimal
}

// Fare is the pair of base prices the pricing engine starts from.
type Fare struct {
	Station string
	Single  decimal.Decimal
	Return  decimal.Decimal
}

// Fare returns the destination's base fares.
func (d *Destination) Fare() Fare {
	return Fare{Station: d.Name, Single: d.SinglePrice, Return: d.ReturnPrice}
}

// Catalog is the read-only view of destinations.
type Catalog interface {
	FindByID(ctx context.Context, id int64) (*Destination, error)

	// ListAll returns destinations ordered by name, ignoring case.
	ListAll(ctx context.Context) ([]*Destination, error)
}

// StationNames lists the names of all destinations in the catalog.
func StationNames(ctx context.Context, c Catalog) ([]string, error) {
	all, err := c.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	return names, nil
}
