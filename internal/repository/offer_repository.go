package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/group/ticketmachine/internal/domain"
	offerDomain "github.com/group/ticketmachine/internal/domain/offer"
)

// OfferModel is the GORM model for the special_offers table. Dates are stored as
// ISO YYYY-MM-DD strings so they compare correctly as text.
type OfferModel struct {
	ID          string `gorm:"type:varchar(36);primaryKey"`
	StationName string `gorm:"type:varchar(100);not null;index"`
	Description string `gorm:"type:text;not null"`
	StartDate   string `gorm:"type:char(10);not null;index"`
	EndDate     string `gorm:"type:char(10);not null"`
}

// TableName sets the table name.
func (OfferModel) TableName() string { return "special_offers" }

const offerListingOrder = "start_date DESC, LOWER(station_name) ASC, id ASC"

// GormOfferStore implements offer.Store using GORM.
type GormOfferStore struct {
	db *gorm.DB
}

// NewGormOfferStore creates a new GormOfferStore.
func NewGormOfferStore(db *gorm.DB) *GormOfferStore {
	return &GormOfferStore{db: db}
}

// Add persists a new offer. An id that is already stored is a conflict.
func (r *GormOfferStore) Add(ctx context.Context, o *offerDomain.SpecialOffer) error {
	model := toOfferModel(o)
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError(fmt.Sprintf("offer %s already exists", o.ID()))
	}
	return nil
}

// All returns every offer in listing order.
func (r *GormOfferStore) All(ctx context.Context) ([]*offerDomain.SpecialOffer, error) {
	return r.find(r.db.WithContext(ctx), 0)
}

// FindByStation returns offers whose station name contains query, ignoring case.
func (r *GormOfferStore) FindByStation(ctx context.Context, query string) ([]*offerDomain.SpecialOffer, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(query))) + "%"
	return r.find(r.db.WithContext(ctx).Where(`LOWER(station_name) LIKE ? ESCAPE '\'`, pattern), 0)
}

// FindByIDPrefix returns offers whose id starts with prefix.
func (r *GormOfferStore) FindByIDPrefix(ctx context.Context, prefix string, limit int) ([]*offerDomain.SpecialOffer, error) {
	return r.find(r.db.WithContext(ctx).Where(`id LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%"), limit)
}

// DeleteByID removes the offer with exactly this id.
func (r *GormOfferStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&OfferModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormOfferStore) find(q *gorm.DB, limit int) ([]*offerDomain.SpecialOffer, error) {
	q = q.Order(offerListingOrder)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var models []OfferModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	offers := make([]*offerDomain.SpecialOffer, 0, len(models))
	for i := range models {
		o, err := toOfferDomain(&models[i])
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, nil
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func toOfferModel(o *offerDomain.SpecialOffer) OfferModel {
	return OfferModel{
		ID:          o.ID(),
		StationName: o.StationName(),
		Description: o.Description(),
		StartDate:   offerDomain.FormatDate(o.StartDate()),
		EndDate:     offerDomain.FormatDate(o.EndDate()),
	}
}

func toOfferDomain(m *OfferModel) (*offerDomain.SpecialOffer, error) {
	start, err := offerDomain.ParseDate(m.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := offerDomain.ParseDate(m.EndDate)
	if err != nil {
		return nil, err
	}
	return offerDomain.Reconstruct(m.ID, m.StationName, m.Description, start, end), nil
}
