package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/group/ticketmachine/internal/domain/card"
)

type account struct {
	mu      sync.Mutex
	balance decimal.Decimal
}

// CardLedger keeps balances in memory. Each card has its own lock, so debits
// against different cards never wait on each other.
type CardLedger struct {
	mu       sync.RWMutex
	accounts map[string]*account
}

// NewCardLedger creates a ledger seeded with balances keyed by card number.
// Numbers are normalized; ones that do not normalize are skipped.
func NewCardLedger(balances map[string]decimal.Decimal) *CardLedger {
	l := &CardLedger{accounts: make(map[string]*account, len(balances))}
	for number, balance := range balances {
		if n, ok := card.Normalize(number); ok {
			l.accounts[n] = &account{balance: balance}
		}
	}
	return l
}

// Balance returns the current balance of a card.
func (l *CardLedger) Balance(_ context.Context, number string) (decimal.Decimal, bool, error) {
	acc, ok := l.lookup(number)
	if !ok {
		return decimal.Zero, false, nil
	}
	acc.mu.Lock()
	defer acc.mu.Unlock()
	return acc.balance, true, nil
}

// Debit subtracts amount if the card exists and its balance covers it.
func (l *CardLedger) Debit(_ context.Context, number string, amount decimal.Decimal) (bool, error) {
	if !amount.IsPositive() {
		return false, nil
	}
	acc, ok := l.lookup(number)
	if !ok {
		return false, nil
	}
	acc.mu.Lock()
	defer acc.mu.Unlock()
	if acc.balance.LessThan(amount) {
		return false, nil
	}
	acc.balance = acc.balance.Sub(amount)
	return true, nil
}

func (l *CardLedger) lookup(number string) (*account, bool) {
	n, ok := card.Normalize(number)
	if !ok {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	acc, ok := l.accounts[n]
	return acc, ok
}
