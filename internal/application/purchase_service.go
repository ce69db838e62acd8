package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/group/ticketmachine/internal/domain/card"
	"github.com/group/ticketmachine/internal/domain/destination"
	offerDomain "github.com/group/ticketmachine/internal/domain/offer"
	"github.com/group/ticketmachine/internal/domain/pricing"
	"github.com/group/ticketmachine/internal/domain/ticket"
)

// Purchase outcome messages shown to the customer.
const (
	MsgCardRequired      = "card number is required"
	MsgCardNotFound      = "card not found"
	MsgInsufficientFunds = "insufficient funds"
	MsgPaymentFailed     = "payment failed, try again"
	MsgPaymentSuccessful = "payment successful"
)

// QuoteRequest asks for the price of a ticket.
type QuoteRequest struct {
	DestinationID int64  `json:"destination_id" binding:"required"`
	TicketType    string `json:"ticket_type" binding:"required"`
}

// PurchaseRequest buys a ticket with a stored-value card.
type PurchaseRequest struct {
	DestinationID int64  `json:"destination_id" binding:"required"`
	TicketType    string `json:"ticket_type" binding:"required"`
	CardNumber    string `json:"card_number"`
}

// QuoteDTO is the API representation of a price quote.
type QuoteDTO struct {
	DestinationID int64           `json:"destination_id"`
	Station       string          `json:"station"`
	TicketType    string          `json:"ticket_type"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
	Amount        decimal.Decimal `json:"amount"`
	OfferID       string          `json:"offer_id,omitempty"`
	OfferLabel    string          `json:"offer_label,omitempty"`
}

// PurchaseResultDTO reports the outcome of a purchase attempt. Declined purchases
// are not errors: OK is false and Message says why.
type PurchaseResultDTO struct {
	OK               bool             `json:"ok"`
	Message          string           `json:"message"`
	Quote            *QuoteDTO        `json:"quote,omitempty"`
	PurchaseID       *uuid.UUID       `json:"purchase_id,omitempty"`
	AvailableBalance *decimal.Decimal `json:"available_balance,omitempty"`
}

// DestinationDTO is the API representation of a destination.
type DestinationDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	SinglePrice decimal.Decimal `json:"single_price"`
	ReturnPrice decimal.Decimal `json:"return_price"`
}

// PurchaseService prices tickets and charges stored-value cards for them.
type PurchaseService struct {
	catalog destination.Catalog
	offers  offerDomain.Store
	ledger  card.Ledger
	history ticket.History
	logger  *zap.Logger
	now     func() time.Time
}

// NewPurchaseService creates a new PurchaseService.
func NewPurchaseService(
	catalog destination.Catalog,
	offers offerDomain.Store,
	ledger card.Ledger,
	history ticket.History,
	logger *zap.Logger,
) *PurchaseService {
	return &PurchaseService{
		catalog: catalog,
		offers:  offers,
		ledger:  ledger,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// ListDestinations returns every destination with its base fares.
func (s *PurchaseService) ListDestinations(ctx context.Context) ([]DestinationDTO, error) {
	all, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]DestinationDTO, len(all))
	for i, d := range all {
		dtos[i] = DestinationDTO{ID: d.ID, Name: d.Name, SinglePrice: d.SinglePrice, ReturnPrice: d.ReturnPrice}
	}
	return dtos, nil
}

// Quote prices a ticket to a destination for today.
func (s *PurchaseService) Quote(ctx context.Context, req QuoteRequest) (*QuoteDTO, error) {
	t, err := ticket.ParseType(req.TicketType)
	if err != nil {
		return nil, err
	}
	d, q, err := s.quote(ctx, req.DestinationID, t)
	if err != nil {
		return nil, err
	}
	return toQuoteDTO(d, t, q), nil
}

// Purchase prices a ticket, debits the card and records the sale.
func (s *PurchaseService) Purchase(ctx context.Context, req PurchaseRequest) (*PurchaseResultDTO, error) {
	t, err := ticket.ParseType(req.TicketType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.CardNumber) == "" {
		return &PurchaseResultDTO{OK: false, Message: MsgCardRequired}, nil
	}
	number, ok := card.Normalize(req.CardNumber)
	if !ok {
		return &PurchaseResultDTO{OK: false, Message: MsgCardNotFound}, nil
	}

	d, q, err := s.quote(ctx, req.DestinationID, t)
	if err != nil {
		return nil, err
	}
	result := &PurchaseResultDTO{Quote: toQuoteDTO(d, t, q)}

	balance, found, err := s.ledger.Balance(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to read card balance: %w", err)
	}
	if !found {
		result.Message = MsgCardNotFound
		return result, nil
	}
	if balance.LessThan(q.Amount) {
		s.logger.Info("purchase declined: insufficient funds",
			zap.String("card", card.Mask(number)),
			zap.String("amount", q.Amount.StringFixed(2)),
		)
		result.Message = MsgInsufficientFunds
		result.AvailableBalance = &balance
		return result, nil
	}

	// A free ticket needs a valid card but there is nothing to debit.
	if q.Amount.IsPositive() {
		debited, err := s.ledger.Debit(ctx, number, q.Amount)
		if err != nil {
			s.logger.Error("card debit failed", zap.String("card", card.Mask(number)), zap.Error(err))
			return nil, fmt.Errorf("failed to debit card: %w", err)
		}
		if !debited {
			s.logger.Warn("card debit declined after balance check", zap.String("card", card.Mask(number)))
			result.Message = MsgPaymentFailed
			return result, nil
		}
	}

	p := ticket.NewPurchase(d.ID, t, q.Amount, s.now())
	if err := s.history.Record(ctx, p); err != nil {
		s.logger.Error("failed to record ticket purchase",
			zap.String("purchase_id", p.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("ticket purchased",
		zap.String("purchase_id", p.ID.String()),
		zap.String("station", d.Name),
		zap.String("ticket_type", string(t)),
		zap.String("amount", q.Amount.StringFixed(2)),
		zap.String("offer_id", q.OfferID),
		zap.String("card", card.Mask(number)),
	)

	result.OK = true
	result.Message = MsgPaymentSuccessful
	result.PurchaseID = &p.ID
	if remaining, found, err := s.ledger.Balance(ctx, number); err == nil && found {
		result.AvailableBalance = &remaining
	}
	return result, nil
}

func (s *PurchaseService) quote(ctx context.Context, destinationID int64, t ticket.Type) (*destination.Destination, pricing.Quote, error) {
	d, err := s.catalog.FindByID(ctx, destinationID)
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	offers, err := s.offers.FindByStation(ctx, d.Name)
	if err != nil {
		return nil, pricing.Quote{}, fmt.Errorf("failed to load offers: %w", err)
	}
	q, err := pricing.Compute(d.Fare(), t, offers, s.now())
	if err != nil {
		return nil, pricing.Quote{}, err
	}
	return d, q, nil
}

func toQuoteDTO(d *destination.Destination, t ticket.Type, q pricing.Quote) *QuoteDTO {
	return &QuoteDTO{
		DestinationID: d.ID,
		Station:       d.Name,
		TicketType:    string(t),
		BaseAmount:    q.Base,
		Amount:        q.Amount,
		OfferID:       q.OfferID,
		OfferLabel:    q.OfferLabel,
	}
}

// --- Admin methods ---

// TicketDTO is the API representation of a recorded purchase.
type TicketDTO struct {
	ID            uuid.UUID       `json:"id"`
	DestinationID int64           `json:"destination_id"`
	TicketType    string          `json:"ticket_type"`
	Amount        decimal.Decimal `json:"amount"`
	PurchasedAt   time.Time       `json:"purchased_at"`
}

// SalesDTO holds per-destination sales for the admin dashboard.
type SalesDTO struct {
	DestinationID int64           `json:"destination_id"`
	Name          string          `json:"name"`
	Count         int64           `json:"count"`
	Takings       decimal.Decimal `json:"takings"`
}

// RecentTickets returns the newest purchases (admin).
func (s *PurchaseService) RecentTickets(ctx context.Context, limit int) ([]TicketDTO, error) {
	purchases, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	dtos := make([]TicketDTO, len(purchases))
	for i, p := range purchases {
		dtos[i] = TicketDTO{
			ID:            p.ID,
			DestinationID: p.DestinationID,
			TicketType:    string(p.Type),
			Amount:        p.Amount,
			PurchasedAt:   p.PurchasedAt,
		}
	}
	return dtos, nil
}

// SalesByDestination returns sales and takings for every destination, including
// ones with no sales (admin).
func (s *PurchaseService) SalesByDestination(ctx context.Context) ([]SalesDTO, error) {
	destinations, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.history.SalesByDestination(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]SalesDTO, len(destinations))
	for i, d := range destinations {
		sd := sales[d.ID]
		dtos[i] = SalesDTO{DestinationID: d.ID, Name: d.Name, Count: sd.Count, Takings: sd.Takings}
	}
	return dtos, nil
}
