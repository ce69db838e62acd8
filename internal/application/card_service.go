package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/group/ticketmachine/internal/domain"
	"github.com/group/ticketmachine/internal/domain/card"
)

// BalanceDTO reports a card's balance.
type BalanceDTO struct {
	Card    string          `json:"card"`
	Found   bool            `json:"found"`
	Balance decimal.Decimal `json:"balance"`
}

// CardService exposes read access to card balances.
type CardService struct {
	ledger card.Ledger
}

// NewCardService creates a new CardService.
func NewCardService(ledger card.Ledger) *CardService {
	return &CardService{ledger: ledger}
}

// Balance looks up a card. Unknown and malformed numbers both come back with Found false.
func (s *CardService) Balance(ctx context.Context, number string) (*BalanceDTO, error) {
	if strings.TrimSpace(number) == "" {
		return nil, domain.NewValidationError("card number is required")
	}
	n, _ := card.Normalize(number)
	balance, found, err := s.ledger.Balance(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to read card balance: %w", err)
	}
	return &BalanceDTO{Card: card.Mask(n), Found: found, Balance: balance}, nil
}
