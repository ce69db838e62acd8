package ticket

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/group/ticketmachine/internal/domain"
)

// Type is the kind of ticket being priced or sold.
type Type string

const (
	TypeSingle Type = "SINGLE"
	TypeReturn Type = "RETURN"
)

// ParseType accepts "single"/"return" in any case.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeSingle:
		return TypeSingle, nil
	case TypeReturn:
		return TypeReturn, nil
	}
	return "", domain.NewValidationError("invalid ticket type: %q", s)
}

// DisplayName returns the label shown on tickets.
func (t Type) DisplayName() string {
	switch t {
	case TypeSingle:
		return "Single"
	case TypeReturn:
		return "Return"
	}
	return string(t)
}

// Purchase is a sold ticket as handed to the ticket history.
type Purchase struct {
	ID            uuid.UUID
	DestinationID int64
	Type          Type
	Amount        decimal.Decimal
	PurchasedAt   time.Time
}

// NewPurchase records a sale made now.
func NewPurchase(destinationID int64, t Type, amount decimal.Decimal, now time.Time) *Purchase {
	return &Purchase{
		ID:            uuid.New(),
		DestinationID: destinationID,
		Type:          t,
		Amount:        amount,
		PurchasedAt:   now.UTC(),
	}
}
