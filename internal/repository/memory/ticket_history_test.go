package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/group/ticketmachine/internal/domain/ticket"
)

func TestTicketHistory(t *testing.T) {
	h := NewTicketHistory()
	ctx := context.Background()
	now := time.Now()

	first := ticket.NewPurchase(1, ticket.TypeSingle, decimal.RequireFromString("2.80"), now)
	second := ticket.NewPurchase(2, ticket.TypeReturn, decimal.RequireFromString("56.00"), now.Add(time.Minute))
	third := ticket.NewPurchase(1, ticket.TypeReturn, decimal.RequireFromString("5.60"), now.Add(2*time.Minute))
	for _, p := range []*ticket.Purchase{first, second, third} {
		require.NoError(t, h.Record(ctx, p))
	}

	recent, err := h.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, third.ID, recent[0].ID)
	assert.Equal(t, second.ID, recent[1].ID)

	sales, err := h.SalesByDestination(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sales[1].Count)
	assert.True(t, decimal.RequireFromString("8.40").Equal(sales[1].Takings))
	assert.Equal(t, int64(1), sales[2].Count)
}
