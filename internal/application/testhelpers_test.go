package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/group/ticketmachine/internal/domain/admin"
	"github.com/group/ticketmachine/internal/domain/destination"
	"github.com/group/ticketmachine/internal/domain/ticket"
	"github.com/group/ticketmachine/internal/repository/memory"
)

var fixedNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func testCatalog() *memory.DestinationCatalog {
	return memory.NewDestinationCatalog(
		&destination.Destination{ID: 1, Name: "Leeds", SinglePrice: decimal.RequireFromString("2.80"), ReturnPrice: decimal.RequireFromString("5.60")},
		&destination.Destination{ID: 2, Name: "London", SinglePrice: decimal.RequireFromString("28.00"), ReturnPrice: decimal.RequireFromString("56.00")},
		&destination.Destination{ID: 3, Name: "Manchester", SinglePrice: decimal.RequireFromString("6.50"), ReturnPrice: decimal.RequireFromString("13.00")},
	)
}

func adminSession() admin.Session {
	return admin.Session{Username: "admin", IssuedAt: fixedNow, ExpiresAt: fixedNow.Add(time.Hour)}
}

// MockHistory is a mock implementation of ticket.History for testing
type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Record(ctx context.Context, p *ticket.Purchase) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockHistory) Recent(ctx context.Context, limit int) ([]*ticket.Purchase, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ticket.Purchase), args.Error(1)
}

func (m *MockHistory) SalesByDestination(ctx context.Context) (map[int64]ticket.Sales, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]ticket.Sales), args.Error(1)
}

// MockLedger is a mock implementation of card.Ledger for testing
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Balance(ctx context.Context, number string) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, number)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

func (m *MockLedger) Debit(ctx context.Context, number string, amount decimal.Decimal) (bool, error) {
	args := m.Called(ctx, number, amount)
	return args.Bool(0), args.Error(1)
}
