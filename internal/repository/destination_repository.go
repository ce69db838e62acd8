package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/group/ticketmachine/internal/domain"
	"github.com/group/ticketmachine/internal/domain/destination"
)

// DestinationModel is the GORM model for the destinations table.
type DestinationModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	Name        string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	SinglePrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ReturnPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

// TableName sets the table name.
func (DestinationModel) TableName() string { return "destinations" }

// GormDestinationCatalog is a read-only destination catalog backed by GORM.
type GormDestinationCatalog struct {
	db *gorm.DB
}

// NewGormDestinationCatalog creates a new GormDestinationCatalog.
func NewGormDestinationCatalog(db *gorm.DB) *GormDestinationCatalog {
	return &GormDestinationCatalog{db: db}
}

// FindByID returns a destination or a not-found domain error.
func (r *GormDestinationCatalog) FindByID(ctx context.Context, id int64) (*destination.Destination, error) {
	var model DestinationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("destination", strconv.FormatInt(id, 10))
		}
		return nil, err
	}
	return toDestinationDomain(&model), nil
}

// ListAll returns destinations ordered by name, ignoring case.
func (r *GormDestinationCatalog) ListAll(ctx context.Context) ([]*destination.Destination, error) {
	var models []DestinationModel
	if err := r.db.WithContext(ctx).Order("LOWER(name) ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*destination.Destination, len(models))
	for i := range models {
		out[i] = toDestinationDomain(&models[i])
	}
	return out, nil
}

func toDestinationDomain(m *DestinationModel) *destination.Destination {
	return &destination.Destination{
		ID:          m.ID,
		Name:        m.Name,
		SinglePrice: m.SinglePrice,
		ReturnPrice: m.ReturnPrice,
	}
}
