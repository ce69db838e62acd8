package offer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/group/ticketmachine/internal/domain"
	"github.com/group/ticketmachine/internal/domain/ticket"
)

// DateLayout is the ISO-8601 calendar date format used for storage and input.
const DateLayout = "2006-01-02"

// ShortIDLength is the number of leading id characters shown to admins.
const ShortIDLength = 8

// SpecialOffer is a station-scoped, date-bounded discount described in free text.
// Offers are immutable once created.
type SpecialOffer struct {
	id          string
	stationName string
	description string
	startDate   time.Time
	endDate     time.Time

	rule        DiscountRule
	restriction restriction
}

// NewSpecialOffer creates an offer with a fresh id. Dates are truncated to calendar days.
func NewSpecialOffer(stationName, description string, startDate, endDate time.Time) (*SpecialOffer, error) {
	stationName = strings.TrimSpace(stationName)
	description = strings.TrimSpace(description)
	if stationName == "" {
		return nil, domain.NewValidationError("station name is required")
	}
	if description == "" {
		return nil, domain.NewValidationError("description is required")
	}
	startDate, endDate = Day(startDate), Day(endDate)
	if endDate.Before(startDate) {
		return nil, domain.NewValidationError("end date must not be before start date")
	}
	return Reconstruct(uuid.NewString(), stationName, description, startDate, endDate), nil
}

// Reconstruct rebuilds an offer from persistence. The discount rule is parsed here,
// once per load.
func Reconstruct(id, stationName, description string, startDate, endDate time.Time) *SpecialOffer {
	return &SpecialOffer{
		id:          id,
		stationName: stationName,
		description: description,
		startDate:   Day(startDate),
		endDate:     Day(endDate),
		rule:        ParseDiscountRule(description),
		restriction: parseRestriction(description),
	}
}

// ValidOn reports whether day falls inside the inclusive validity window.
func (o *SpecialOffer) ValidOn(day time.Time) bool {
	d := Day(day)
	return !d.Before(o.startDate) && !d.After(o.endDate)
}

// AppliesTo reports whether the description allows the given ticket type.
func (o *SpecialOffer) AppliesTo(t ticket.Type) bool {
	return o.restriction.allows(t)
}

// ForStation reports whether the offer belongs to station, ignoring case.
func (o *SpecialOffer) ForStation(station string) bool {
	return strings.EqualFold(o.stationName, strings.TrimSpace(station))
}

// ShortID returns the display prefix of the id.
func (o *SpecialOffer) ShortID() string {
	return ShortID(o.id)
}

// ShortID returns the first ShortIDLength characters of id.
func ShortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}

// Getters.
func (o *SpecialOffer) ID() string           { return o.id }
func (o *SpecialOffer) StationName() string  { return o.stationName }
func (o *SpecialOffer) Description() string  { return o.description }
func (o *SpecialOffer) StartDate() time.Time { return o.startDate }
func (o *SpecialOffer) EndDate() time.Time   { return o.endDate }
func (o *SpecialOffer) Rule() DiscountRule   { return o.rule }

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.NewValidationError("invalid date %q (use YYYY-MM-DD)", s)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
