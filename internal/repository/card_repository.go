package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/group/ticketmachine/internal/domain/card"
)

// CardModel is the GORM model for the cards table.
type CardModel struct {
	CardNumber string          `gorm:"type:varchar(16);primaryKey"`
	Credit     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
}

// TableName sets the table name.
func (CardModel) TableName() string { return "cards" }

var errDebitNotApplied = errors.New("debit update did not affect exactly one row")

// GormCardLedger implements card.Ledger using GORM. Debits lock the card row for
// the duration of their transaction.
type GormCardLedger struct {
	db *gorm.DB
}

// NewGormCardLedger creates a new GormCardLedger.
func NewGormCardLedger(db *gorm.DB) *GormCardLedger {
	return &GormCardLedger{db: db}
}

// Balance returns the stored credit for a card.
func (r *GormCardLedger) Balance(ctx context.Context, number string) (decimal.Decimal, bool, error) {
	n, ok := card.Normalize(number)
	if !ok {
		return decimal.Zero, false, nil
	}

	var model CardModel
	if err := r.db.WithContext(ctx).Where("card_number = ?", n).Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return model.Credit, true, nil
}

// Debit reads, checks and writes the balance inside one transaction holding a
// row lock. Any failure rolls the transaction back.
func (r *GormCardLedger) Debit(ctx context.Context, number string, amount decimal.Decimal) (bool, error) {
	if !amount.IsPositive() {
		return false, nil
	}
	n, ok := card.Normalize(number)
	if !ok {
		return false, nil
	}

	debited := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model CardModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("card_number = ?", n).
			Take(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if model.Credit.LessThan(amount) {
			return nil
		}

		result := tx.Model(&CardModel{}).
			Where("card_number = ?", n).
			Update("credit", model.Credit.Sub(amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return errDebitNotApplied
		}

		debited = true
		return nil
	})
	if errors.Is(err, errDebitNotApplied) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return debited, nil
}
