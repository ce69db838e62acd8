package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/group/ticketmachine/internal/application"
	"github.com/group/ticketmachine/internal/auth"
	"github.com/group/ticketmachine/internal/config"
	"github.com/group/ticketmachine/internal/database"
	"github.com/group/ticketmachine/internal/domain/admin"
	"github.com/group/ticketmachine/internal/domain/card"
	"github.com/group/ticketmachine/internal/domain/destination"
	"github.com/group/ticketmachine/internal/domain/offer"
	"github.com/group/ticketmachine/internal/domain/ticket"
	"github.com/group/ticketmachine/internal/events"
	"github.com/group/ticketmachine/internal/handler"
	"github.com/group/ticketmachine/internal/logger"
	"github.com/group/ticketmachine/internal/repository"
	"github.com/group/ticketmachine/internal/repository/memory"
)

// stores groups the storage implementations selected by STORAGE_BACKEND.
type stores struct {
	offers       offer.Store
	destinations destination.Catalog
	cards        card.Ledger
	history      ticket.History
	admins       admin.UserRepository
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, "ticketmachine")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting ticketmachine",
		zap.String("port", cfg.Port),
		zap.String("storage", cfg.StorageBackend),
		zap.String("history_sink", cfg.TicketHistorySink),
		zap.String("origin", cfg.OriginStation),
	)

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	var st stores
	switch cfg.StorageBackend {
	case config.StorageMemory:
		st = memoryStores()
		zapLogger.Warn("using in-memory storage, data is lost on restart")
	default:
		db, err := database.Connect(cfg.DBConfig.DSN(), zapLogger)
		if err != nil {
			zapLogger.Fatal("failed to connect to database", zap.Error(err))
		}

		// Run database migrations
		if err := database.AutoMigrate(db, repository.Models()...); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		if cfg.IsDevelopment() {
			if err := repository.Seed(context.Background(), db, repository.DefaultSeed()); err != nil {
				zapLogger.Fatal("failed to seed database", zap.Error(err))
			}
			zapLogger.Info("database seeded (development)")
		}

		ticketRepo := repository.NewTicketRepository(db)
		st = stores{
			offers:       repository.NewGormOfferStore(db),
			destinations: repository.NewGormDestinationCatalog(db),
			cards:        repository.NewGormCardLedger(db),
			history:      ticketRepo,
			admins:       repository.NewGormAdminUsers(db),
		}

		if cfg.TicketHistorySink == config.SinkKafka {
			producer := events.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
			defer producer.Close()
			st.history = events.NewTicketPublisher(producer, cfg.KafkaConfig.TicketTopic, ticketRepo)

			ticketConsumer := events.NewTicketEventConsumer(
				cfg.KafkaConfig.Brokers,
				cfg.KafkaConfig.GroupPrefix+"ticket-history",
				cfg.KafkaConfig.TicketTopic,
				ticketRepo,
				zapLogger,
			)
			defer ticketConsumer.Close()

			go func() {
				zapLogger.Info("starting ticket event consumer")
				if err := ticketConsumer.Start(consumerCtx); err != nil && consumerCtx.Err() == nil {
					zapLogger.Error("ticket event consumer failed", zap.Error(err))
				}
			}()
		}
	}

	// Initialize application services
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.TTL)
	services := handler.Services{
		Offers:    application.NewOfferService(st.offers, st.destinations, zapLogger),
		Purchases: application.NewPurchaseService(st.destinations, st.offers, st.cards, st.history, zapLogger),
		Cards:     application.NewCardService(st.cards),
		Auth:      application.NewAuthService(st.admins, jwtManager, zapLogger),
		Origin:    cfg.OriginStation,
	}

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(services, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down ticketmachine...")
	consumerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("ticketmachine stopped")
}

func memoryStores() stores {
	seed := repository.DefaultSeed()

	dests := make([]*destination.Destination, 0, len(seed.Destinations))
	for i, d := range seed.Destinations {
		dests = append(dests, &destination.Destination{
			ID:          int64(i + 1),
			Name:        d.Name,
			SinglePrice: d.SinglePrice,
			ReturnPrice: d.ReturnPrice,
		})
	}

	return stores{
		offers:       memory.NewOfferStore(),
		destinations: memory.NewDestinationCatalog(dests...),
		cards:        memory.NewCardLedger(seed.Cards),
		history:      memory.NewTicketHistory(),
		admins:       memory.NewAdminUsers(seed.Admins),
	}
}
