// Package pricing resolves the effective price of a ticket from its base fare and
// the special offers running at the destination station.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/group/ticketmachine/internal/domain"
	"github.com/group/ticketmachine/internal/domain/destination"
	"github.com/group/ticketmachine/internal/domain/offer"
	"github.com/group/ticketmachine/internal/domain/ticket"
)

// Quote is the price to charge and the offer that produced it, if any.
type Quote struct {
	Base       decimal.Decimal
	Amount     decimal.Decimal
	OfferID    string
	OfferLabel string
}

// HasOffer reports whether an offer lowered the price.
func (q Quote) HasOffer() bool { return q.OfferID != "" }

// Compute prices a ticket of type t for fare on day.
//
// Offers that are for another station, outside their validity window, or
// restricted to the other ticket type are ignored. Each remaining offer's rule is
// applied to the base fare and the lowest result wins; the first offer wins a tie.
// An offer only wins if it is strictly cheaper than the base fare.
func Compute(fare destination.Fare, t ticket.Type, offers []*offer.SpecialOffer, day time.Time) (Quote, error) {
	var base decimal.Decimal
	switch t {
	case ticket.TypeSingle:
		base = fare.Single
	case ticket.TypeReturn:
		base = fare.Return
	default:
		return Quote{}, domain.NewValidationError("invalid ticket type: %q", string(t))
	}

	q := Quote{Base: base, Amount: base}
	for _, o := range offers {
		if !o.ForStation(fare.Station) || !o.ValidOn(day) || !o.AppliesTo(t) {
			continue
		}
		if p := o.Rule().Apply(base).Round(2); p.LessThan(q.Amount) {
			q.Amount = p
			q.OfferID = o.ID()
			q.OfferLabel = o.Description()
		}
	}

	if q.Amount.IsNegative() {
		q.Amount = decimal.Zero
	}
	q.Amount = q.Amount.Round(2)
	return q, nil
}
