package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/group/ticketmachine/internal/domain/admin"
	"github.com/group/ticketmachine/internal/domain/card"
)

// Models lists every GORM model owned by this service, for auto-migration.
func Models() []any {
	return []any{
		&OfferModel{},
		&CardModel{},
		&TicketModel{},
		&DestinationModel{},
		&AdminUserModel{},
	}
}

// SeedData is the initial content written into empty tables.
type SeedData struct {
	Destinations []DestinationModel
	Cards        map[string]decimal.Decimal
	Admins       map[string]string // username -> plaintext password
}

// DefaultSeed mirrors the data the ticket machine ships with.
func DefaultSeed() SeedData {
	return SeedData{
		Destinations: []DestinationModel{
			{Name: "Leeds", SinglePrice: decimal.RequireFromString("2.80"), ReturnPrice: decimal.RequireFromString("5.60")},
			{Name: "London", SinglePrice: decimal.RequireFromString("28.00"), ReturnPrice: decimal.RequireFromString("56.00")},
			{Name: "Manchester", SinglePrice: decimal.RequireFromString("6.50"), ReturnPrice: decimal.RequireFromString("13.00")},
		},
		Cards: map[string]decimal.Decimal{
			"4242424242424242": decimal.RequireFromString("200.00"),
			"4000056655665556": decimal.RequireFromString("50.00"),
			"5555555555554444": decimal.RequireFromString("120.00"),
		},
		Admins: map[string]string{"admin": "admin123"},
	}
}

// Seed fills each table only when it is empty, preserving existing data.
func Seed(ctx context.Context, db *gorm.DB, data SeedData) error {
	db = db.WithContext(ctx)

	if empty, err := isEmpty(db, &DestinationModel{}); err != nil {
		return err
	} else if empty && len(data.Destinations) > 0 {
		if err := db.Create(&data.Destinations).Error; err != nil {
			return fmt.Errorf("seed destinations: %w", err)
		}
	}

	if empty, err := isEmpty(db, &CardModel{}); err != nil {
		return err
	} else if empty {
		for number, credit := range data.Cards {
			n, ok := card.Normalize(number)
			if !ok {
				continue
			}
			if err := db.Create(&CardModel{CardNumber: n, Credit: credit}).Error; err != nil {
				return fmt.Errorf("seed cards: %w", err)
			}
		}
	}

	if empty, err := isEmpty(db, &AdminUserModel{}); err != nil {
		return err
	} else if empty {
		for username, password := range data.Admins {
			model := AdminUserModel{Username: username, PasswordHash: admin.HashPassword(password)}
			if err := db.Create(&model).Error; err != nil {
				return fmt.Errorf("seed admin users: %w", err)
			}
		}
	}
	return nil
}

func isEmpty(db *gorm.DB, model any) (bool, error) {
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
