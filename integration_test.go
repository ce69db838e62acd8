//go:build integration

package main_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/group/ticketmachine/internal/application"
	"github.com/group/ticketmachine/internal/domain"
	"github.com/group/ticketmachine/internal/domain/admin"
	"github.com/group/ticketmachine/internal/domain/offer"
	"github.com/group/ticketmachine/internal/domain/ticket"
	"github.com/group/ticketmachine/internal/events"
	"github.com/group/ticketmachine/internal/repository"
)

// TestCardLedger_ConcurrentDebits verifies that concurrent debits against one
// card never overdraw it.
func TestCardLedger_ConcurrentDebits(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()

	const number = "1111222233334444"
	seedCard(t, infra.DB, number, "100.00")
	ledger := repository.NewGormCardLedger(infra.DB)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := ledger.Debit(context.Background(), number, decimal.RequireFromString("60.00"))
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes, "exactly one debit should succeed")
	balance, found, err := ledger.Balance(context.Background(), number)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, decimal.RequireFromString("40.00").Equal(balance), "balance = %s", balance)
}

// TestCardLedger_UnknownAndInsufficient verifies the declined debit paths.
func TestCardLedger_UnknownAndInsufficient(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()

	ledger := repository.NewGormCardLedger(infra.DB)
	ctx := context.Background()

	ok, err := ledger.Debit(ctx, "9999888877776666", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.False(t, ok)

	seedCard(t, infra.DB, "1234567890123456", "5.00")
	ok, err = ledger.Debit(ctx, "1234 5678 9012 3456", decimal.RequireFromString("5.01"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ledger.Debit(ctx, "1234-5678-9012-3456", decimal.RequireFromString("5.00"))
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestCardLedger_StorageFailureRollsBack verifies that a failed balance write
// surfaces the error and leaves the card exactly as it was.
func TestCardLedger_StorageFailureRollsBack(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()

	const number = "2222333344445555"
	seedCard(t, infra.DB, number, "80.00")
	ledger := repository.NewGormCardLedger(infra.DB)

	errWriteFailed := errors.New("write failed")
	require.NoError(t, infra.DB.Callback().Update().Before("gorm:update").
		Register("test:fail_card_update", func(tx *gorm.DB) {
			if tx.Statement.Table == (repository.CardModel{}).TableName() {
				_ = tx.AddError(errWriteFailed)
			}
		}))

	ok, err := ledger.Debit(context.Background(), number, decimal.RequireFromString("30.00"))
	assert.False(t, ok)
	require.Error(t, err)
	assert.ErrorIs(t, err, errWriteFailed)

	balance, found, err := ledger.Balance(context.Background(), number)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, decimal.RequireFromString("80.00").Equal(balance), "balance = %s", balance)

	// Once storage recovers the same debit goes through.
	require.NoError(t, infra.DB.Callback().Update().Remove("test:fail_card_update"))
	ok, err = ledger.Debit(context.Background(), number, decimal.RequireFromString("30.00"))
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestOfferStore_RoundTripAndResolve verifies persistence, listing order and
// prefix deletion against PostgreSQL.
func TestOfferStore_RoundTripAndResolve(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()

	ctx := context.Background()
	store := repository.NewGormOfferStore(infra.DB)
	catalog := repository.NewGormDestinationCatalog(infra.DB)
	svc := application.NewOfferService(store, catalog, testLogger())
	session := admin.Session{Username: "admin", IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}

	created, err := svc.AddOffer(ctx, session, application.CreateOfferRequest{
		StationName: "  London ",
		Description: "10% off return tickets",
		StartDate:   "2026-01-01",
		EndDate:     "2026-12-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "London", created.StationName)
	assert.Equal(t, "percent", created.DiscountRule)

	found, err := svc.SearchByStation(ctx, "lon")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, *created, *found[0])

	// A literal wildcard in the query must not match everything.
	found, err = svc.SearchByStation(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, found)

	stored, err := store.FindByIDPrefix(ctx, created.ShortID, 2)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, offer.RulePercent, stored[0].Rule().Kind)

	duplicate := offer.Reconstruct(created.ID, "Leeds", "price=1", time.Now(), time.Now())
	assert.ErrorIs(t, store.Add(ctx, duplicate), domain.ErrConflict)

	deleted, err := svc.DeleteByAnyIdentifier(ctx, session, created.ShortID)
	require.NoError(t, err)
	assert.True(t, deleted)

	all, err := svc.ListOffers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

// TestPurchase_EndToEnd verifies a purchase debits the card and lands in the
// ticket history.
func TestPurchase_EndToEnd(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()

	ctx := context.Background()
	catalog := repository.NewGormDestinationCatalog(infra.DB)
	ledger := repository.NewGormCardLedger(infra.DB)
	history := repository.NewTicketRepository(infra.DB)
	svc := application.NewPurchaseService(catalog, repository.NewGormOfferStore(infra.DB), ledger, history, testLogger())

	leeds := destinationID(t, infra.DB, "Leeds")
	result, err := svc.Purchase(ctx, application.PurchaseRequest{
		DestinationID: leeds,
		TicketType:    "single",
		CardNumber:    "4000 0566 5566 5556",
	})
	require.NoError(t, err)
	require.True(t, result.OK, result.Message)
	require.NotNil(t, result.PurchaseID)
	assert.True(t, decimal.RequireFromString("47.20").Equal(*result.AvailableBalance))

	model := waitForTicket(t, infra.DB, *result.PurchaseID, 5*time.Second)
	assert.Equal(t, leeds, model.DestinationID)
	assert.True(t, decimal.RequireFromString("2.80").Equal(model.Amount))

	sales, err := svc.SalesByDestination(ctx)
	require.NoError(t, err)
	for _, s := range sales {
		if s.DestinationID == leeds {
			assert.Equal(t, int64(1), s.Count)
		}
	}
}

// TestTicketEvents_PublishedAndConsumed verifies that a published purchase is
// consumed into the tickets table exactly once.
func TestTicketEvents_PublishedAndConsumed(t *testing.T) {
	infra := setupPostgres(t)
	defer infra.Cleanup()
	brokers, cleanupKafka := setupKafka(t)
	defer cleanupKafka()

	logger := testLogger()
	repo := repository.NewTicketRepository(infra.DB)
	producer := events.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()
	publisher := events.NewTicketPublisher(producer, testTicketTopic, repo)

	groupID := fmt.Sprintf("test-tickets-%s", uuid.New().String()[:8])
	consumer := events.NewTicketEventConsumer(brokers, groupID, testTicketTopic, repo, logger)
	defer func() { _ = consumer.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	p := ticket.NewPurchase(destinationID(t, infra.DB, "Manchester"), ticket.TypeReturn,
		decimal.RequireFromString("11.70"), time.Now())
	require.NoError(t, publisher.Record(context.Background(), p))
	// Redelivery of the same purchase is ignored.
	require.NoError(t, publisher.Record(context.Background(), p))

	model := waitForTicket(t, infra.DB, p.ID, 15*time.Second)
	assert.Equal(t, string(ticket.TypeReturn), model.TicketType)

	time.Sleep(2 * time.Second)
	var count int64
	infra.DB.Model(&repository.TicketModel{}).Where("id = ?", p.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	recent, err := publisher.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, p.ID, recent[0].ID)
}
