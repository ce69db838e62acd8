package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/group/ticketmachine/internal/domain"
	"github.com/group/ticketmachine/internal/domain/admin"
	"github.com/group/ticketmachine/internal/domain/destination"
	offerDomain "github.com/group/ticketmachine/internal/domain/offer"
)

// CreateOfferRequest holds data to create a special offer. Dates are YYYY-MM-DD.
type CreateOfferRequest struct {
	StationName string `json:"station_name" binding:"required"`
	Description string `json:"description" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
}

// OfferDTO is the API response representation of a special offer.
type OfferDTO struct {
	ID           string `json:"id"`
	ShortID      string `json:"short_id"`
	StationName  string `json:"station_name"`
	Description  string `json:"description"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DiscountRule string `json:"discount_rule"`
}

// OfferService handles special offer administration.
type OfferService struct {
	store   offerDomain.Store
	catalog destination.Catalog
	logger  *zap.Logger
	now     func() time.Time
}

// NewOfferService creates a new OfferService.
func NewOfferService(store offerDomain.Store, catalog destination.Catalog, logger *zap.Logger) *OfferService {
	return &OfferService{store: store, catalog: catalog, logger: logger, now: time.Now}
}

// AddOffer validates and stores a new offer for a known station.
func (s *OfferService) AddOffer(ctx context.Context, session admin.Session, req CreateOfferRequest) (*OfferDTO, error) {
	if err := s.requireAdmin(session); err != nil {
		return nil, err
	}

	station := strings.TrimSpace(req.StationName)
	known, err := s.isKnownStation(ctx, station)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, domain.NewValidationError("unknown station: %s", station)
	}

	start, err := offerDomain.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := offerDomain.ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	o, err := offerDomain.NewSpecialOffer(station, req.Description, start, end)
	if err != nil {
		return nil, err
	}
	if err := s.store.Add(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save offer: %w", err)
	}

	s.logger.Info("special offer created",
		zap.String("offer_id", o.ID()),
		zap.String("station", o.StationName()),
		zap.String("rule", o.Rule().Kind.String()),
		zap.String("by", session.Username),
	)
	return toOfferDTO(o), nil
}

// ListOffers returns every offer, newest start date first.
func (s *OfferService) ListOffers(ctx context.Context) ([]*OfferDTO, error) {
	offers, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return toOfferDTOs(offers), nil
}

// SearchByStation returns offers whose station name contains query.
func (s *OfferService) SearchByStation(ctx context.Context, query string) ([]*OfferDTO, error) {
	offers, err := s.store.FindByStation(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	return toOfferDTOs(offers), nil
}

// DeleteOffer removes the offer with exactly this id.
func (s *OfferService) DeleteOffer(ctx context.Context, session admin.Session, id string) (bool, error) {
	if err := s.requireAdmin(session); err != nil {
		return false, err
	}
	deleted, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete offer: %w", err)
	}
	if deleted {
		s.logger.Info("special offer deleted", zap.String("offer_id", id), zap.String("by", session.Username))
	}
	return deleted, nil
}

// DeleteByAnyIdentifier deletes at most one offer named by a full id or an id prefix.
//
// An exact id match is tried first. Otherwise the input must be the prefix of
// exactly one id; no match and several matches both return false and delete nothing.
func (s *OfferService) DeleteByAnyIdentifier(ctx context.Context, session admin.Session, input string) (bool, error) {
	if err := s.requireAdmin(session); err != nil {
		return false, err
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return false, nil
	}

	deleted, err := s.store.DeleteByID(ctx, input)
	if err != nil {
		return false, fmt.Errorf("failed to delete offer: %w", err)
	}
	if deleted {
		s.logger.Info("special offer deleted", zap.String("offer_id", input), zap.String("by", session.Username))
		return true, nil
	}

	matches, err := s.store.FindByIDPrefix(ctx, input, 2)
	if err != nil {
		return false, fmt.Errorf("failed to resolve offer id: %w", err)
	}
	if len(matches) != 1 {
		s.logger.Info("offer identifier not found or ambiguous",
			zap.String("input", input),
			zap.Int("matches", len(matches)),
		)
		return false, nil
	}

	id := matches[0].ID()
	deleted, err = s.store.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete offer: %w", err)
	}
	if deleted {
		s.logger.Info("special offer deleted",
			zap.String("offer_id", id),
			zap.String("short_id", input),
			zap.String("by", session.Username),
		)
	}
	return deleted, nil
}

func (s *OfferService) requireAdmin(session admin.Session) error {
	if !session.Valid(s.now()) {
		return domain.NewUnauthorizedError("admin session required")
	}
	return nil
}

func (s *OfferService) isKnownStation(ctx context.Context, station string) (bool, error) {
	if station == "" {
		return false, domain.NewValidationError("station name is required")
	}
	names, err := destination.StationNames(ctx, s.catalog)
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if strings.EqualFold(n, station) {
			return true, nil
		}
	}
	return false, nil
}

func toOfferDTO(o *offerDomain.SpecialOffer) *OfferDTO {
	return &OfferDTO{
		ID:           o.ID(),
		ShortID:      o.ShortID(),
		StationName:  o.StationName(),
		Description:  o.Description(),
		StartDate:    offerDomain.FormatDate(o.StartDate()),
		EndDate:      offerDomain.FormatDate(o.EndDate()),
		DiscountRule: o.Rule().Kind.String(),
	}
}

func toOfferDTOs(offers []*offerDomain.SpecialOffer) []*OfferDTO {
	dtos := make([]*OfferDTO, len(offers))
	for i, o := range offers {
		dtos[i] = toOfferDTO(o)
	}
	return dtos
}
