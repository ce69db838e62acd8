package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/group/ticketmachine/internal/domain"
	"github.com/group/ticketmachine/internal/domain/offer"
)

func day(s string) time.Time {
	t, err := time.Parse(offer.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ids(offers []*offer.SpecialOffer) []string {
	out := make([]string, len(offers))
	for i, o := range offers {
		out[i] = o.ID()
	}
	return out
}

func seededStore(t *testing.T) *OfferStore {
	t.Helper()
	s := NewOfferStore()
	ctx := context.Background()
	for _, o := range []*offer.SpecialOffer{
		offer.Reconstruct("c3", "manchester", "5% off", day("2026-01-01"), day("2026-01-31")),
		offer.Reconstruct("a1", "London", "10% off", day("2026-02-01"), day("2026-02-28")),
		offer.Reconstruct("b2", "Leeds", "£1 off", day("2026-02-01"), day("2026-02-28")),
		offer.Reconstruct("a0", "Leeds", "price=1", day("2026-02-01"), day("2026-02-28")),
	} {
		require.NoError(t, s.Add(ctx, o))
	}
	return s
}

func TestOfferStore_AllOrdering(t *testing.T) {
	s := seededStore(t)

	all, err := s.All(context.Background())
	require.NoError(t, err)
	// Newest start first, then station name ignoring case, then id.
	assert.Equal(t, []string{"a0", "b2", "a1", "c3"}, ids(all))
}

func TestOfferStore_FindByStation(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	found, err := s.FindByStation(ctx, "LEE")
	require.NoError(t, err)
	assert.Equal(t, []string{"a0", "b2"}, ids(found))

	found, err = s.FindByStation(ctx, "  chest ")
	require.NoError(t, err)
	assert.Equal(t, []string{"c3"}, ids(found))

	found, err = s.FindByStation(ctx, "")
	require.NoError(t, err)
	assert.Len(t, found, 4)

	found, err = s.FindByStation(ctx, "York")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestOfferStore_FindByIDPrefix(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	found, err := s.FindByIDPrefix(ctx, "a", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a0", "a1"}, ids(found))

	found, err = s.FindByIDPrefix(ctx, "a", 1)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	// Prefix matching is case-sensitive.
	found, err = s.FindByIDPrefix(ctx, "A", 0)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestOfferStore_DeleteByID(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	deleted, err := s.DeleteByID(ctx, "b2")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteByID(ctx, "b2")
	require.NoError(t, err)
	assert.False(t, deleted)

	// Only exact ids are deleted.
	deleted, err = s.DeleteByID(ctx, "a")
	require.NoError(t, err)
	assert.False(t, deleted)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a0", "a1", "c3"}, ids(all))
}

func TestOfferStore_AddThenFindByStation(t *testing.T) {
	s := NewOfferStore()
	ctx := context.Background()
	o, err := offer.NewSpecialOffer("Leeds", "price=1,50 single", day("2026-04-01"), day("2026-04-02"))
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, o))

	found, err := s.FindByStation(ctx, o.StationName())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, o.ID(), found[0].ID())
	assert.Equal(t, o.StationName(), found[0].StationName())
	assert.Equal(t, o.Description(), found[0].Description())
	assert.True(t, o.StartDate().Equal(found[0].StartDate()))
	assert.True(t, o.EndDate().Equal(found[0].EndDate()))
	assert.Equal(t, o.Rule(), found[0].Rule())
}

func TestOfferStore_AddDuplicateIDConflicts(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	err := s.Add(ctx, offer.Reconstruct("a1", "Leeds", "price=2", day("2026-05-01"), day("2026-05-02")))
	assert.ErrorIs(t, err, domain.ErrConflict)

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
