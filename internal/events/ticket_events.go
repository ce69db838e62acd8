package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/group/ticketmachine/internal/domain/ticket"
)

// Event metadata for ticket sales.
const (
	SourceTicketMachine = "ticketmachine"
	TicketPurchased     = "ticket.purchased"
)

// TicketPurchasedEvent is published after a card has been debited for a ticket.
type TicketPurchasedEvent struct {
	PurchaseID    uuid.UUID       `json:"purchase_id"`
	DestinationID int64           `json:"destination_id"`
	TicketType    string          `json:"ticket_type"`
	Amount        decimal.Decimal `json:"amount"`
	PurchasedAt   time.Time       `json:"purchased_at"`
}

// ToPurchase converts the event back into a purchase record.
func (e TicketPurchasedEvent) ToPurchase() *ticket.Purchase {
	return &ticket.Purchase{
		ID:            e.PurchaseID,
		DestinationID: e.DestinationID,
		Type:          ticket.Type(e.TicketType),
		Amount:        e.Amount,
		PurchasedAt:   e.PurchasedAt,
	}
}

// TicketPublisher is a ticket.History that records purchases by publishing them.
// Reads are served by the store the consumer writes into.
type TicketPublisher struct {
	producer *Producer
	topic    string
	reader   ticket.History
}

// NewTicketPublisher publishes to topic and reads from reader.
func NewTicketPublisher(producer *Producer, topic string, reader ticket.History) *TicketPublisher {
	return &TicketPublisher{producer: producer, topic: topic, reader: reader}
}

// Record publishes a TicketPurchasedEvent for p.
func (t *TicketPublisher) Record(ctx context.Context, p *ticket.Purchase) error {
	evt := TicketPurchasedEvent{
		PurchaseID:    p.ID,
		DestinationID: p.DestinationID,
		TicketType:    string(p.Type),
		Amount:        p.Amount,
		PurchasedAt:   p.PurchasedAt,
	}
	ce, err := NewCloudEvent(SourceTicketMachine, TicketPurchased, p.ID.String(), evt)
	if err != nil {
		return err
	}
	return t.producer.PublishEvent(ctx, t.topic, ce)
}

// Recent delegates to the backing store.
func (t *TicketPublisher) Recent(ctx context.Context, limit int) ([]*ticket.Purchase, error) {
	return t.reader.Recent(ctx, limit)
}

// SalesByDestination delegates to the backing store.
func (t *TicketPublisher) SalesByDestination(ctx context.Context) (map[int64]ticket.Sales, error) {
	return t.reader.SalesByDestination(ctx)
}
