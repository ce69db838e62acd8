package card

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// NumberLength is the only accepted card number length.
const NumberLength = 16

// Normalize trims a card number and strips spaces and hyphens. It reports false
// when the result is not exactly NumberLength digits; such numbers are treated as
// unknown cards everywhere.
func Normalize(raw string) (string, bool) {
	n := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	if len(n) != NumberLength {
		return n, false
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			return n, false
		}
	}
	return n, true
}

// Mask hides all but the last four digits, for logs.
func Mask(number string) string {
	if len(number) <= 4 {
		return strings.Repeat("*", len(number))
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}

// Ledger owns stored-value card balances. No other component writes a balance.
type Ledger interface {
	// Balance returns the balance of a card and whether the card exists.
	// Numbers failing Normalize are reported as absent.
	Balance(ctx context.Context, number string) (decimal.Decimal, bool, error)

	// Debit atomically subtracts amount when amount > 0 and the balance covers it.
	// It returns false, leaving the balance untouched, in every other case.
	// Errors are storage failures; the balance is unchanged when one is returned.
	Debit(ctx context.Context, number string, amount decimal.Decimal) (bool, error)
}
