package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/group/ticketmachine/internal/domain/ticket"
)

// TicketModel is the GORM persistence model for the tickets table.
type TicketModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	DestinationID int64           `gorm:"not null;index"`
	TicketType    string          `gorm:"type:varchar(10);not null"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PurchasedAt   time.Time       `gorm:"type:timestamptz;not null;index"`
}

// TableName specifies the table name for GORM.
func (TicketModel) TableName() string {
	return "tickets"
}

// TicketRepository is the GORM-based ticket history.
type TicketRepository struct {
	db *gorm.DB
}

// NewTicketRepository creates a new GORM-based ticket history.
func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Record persists a purchase. Recording the same purchase twice is a no-op, so
// redelivered events are harmless.
func (r *TicketRepository) Record(ctx context.Context, p *ticket.Purchase) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(toTicketModel(p)).Error
}

// Recent retrieves the newest purchases first.
func (r *TicketRepository) Recent(ctx context.Context, limit int) ([]*ticket.Purchase, error) {
	q := r.db.WithContext(ctx).Order("purchased_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var models []TicketModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	purchases := make([]*ticket.Purchase, len(models))
	for i := range models {
		purchases[i] = toTicketDomain(&models[i])
	}
	return purchases, nil
}

// SalesByDestination returns sale counts and takings per destination.
func (r *TicketRepository) SalesByDestination(ctx context.Context) (map[int64]ticket.Sales, error) {
	type salesRow struct {
		DestinationID int64
		Count         int64
		Takings       decimal.Decimal
	}
	var rows []salesRow
	if err := r.db.WithContext(ctx).Model(&TicketModel{}).
		Select("destination_id, count(*) AS count, COALESCE(SUM(amount), 0) AS takings").
		Group("destination_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[int64]ticket.Sales, len(rows))
	for _, row := range rows {
		out[row.DestinationID] = ticket.Sales{
			DestinationID: row.DestinationID,
			Count:         row.Count,
			Takings:       row.Takings,
		}
	}
	return out, nil
}

func toTicketModel(p *ticket.Purchase) *TicketModel {
	return &TicketModel{
		ID:            p.ID,
		DestinationID: p.DestinationID,
		TicketType:    string(p.Type),
		Amount:        p.Amount,
		PurchasedAt:   p.PurchasedAt,
	}
}

func toTicketDomain(m *TicketModel) *ticket.Purchase {
	return &ticket.Purchase{
		ID:            m.ID,
		DestinationID: m.DestinationID,
		Type:          ticket.Type(m.TicketType),
		Amount:        m.Amount,
		PurchasedAt:   m.PurchasedAt,
	}
}
