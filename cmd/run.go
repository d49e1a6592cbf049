package cmd

import (
	"context"
	"fmt"
	"time"

	"raspadinha/config"
	"raspadinha/database"
	"raspadinha/events"
	"raspadinha/gateway"
	"raspadinha/repository"
	"raspadinha/server"
	"raspadinha/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting raspadinha server...")

	// Load configuration
	cfg := config.Get()

	// Initialize tracing
	tp, err := initTracer(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	if tp != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("Error shutting down tracer")
			}
		}()
	}

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize event bus with logging subscribers
	eventBus := events.NewBus()
	subscribeLogging(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize payment gateway client
	wooviClient := gateway.NewClient(cfg.WooviAPIBase, cfg.WooviAppID)

	// Initialize services
	ledgerService := service.NewLedgerService(uowFactory)
	gameService := service.NewGameService(uowFactory, ledgerService)
	depositService := service.NewDepositService(uowFactory, ledgerService, wooviClient, eventBus)

	srv := server.New(cfg.ServiceName, gameService, depositService, ledgerService)

	log.WithFields(log.Fields{
		"addr":        cfg.ListenAddr,
		"environment": cfg.Environment,
	}).Info("Server initialized")

	return srv.Run(ctx, cfg.ListenAddr)
}

// subscribeLogging attaches structured logging to the domain events.
func subscribeLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, e events.Event) {
		ev := e.(events.BalanceChangeEvent)
		log.WithFields(log.Fields{
			"userId":          ev.UserID,
			"oldBalance":      ev.OldBalance,
			"newBalance":      ev.NewBalance,
			"changeAmount":    ev.ChangeAmount,
			"transactionType": ev.TransactionType,
			"simulated":       ev.Simulated,
		}).Info("Balance changed")
	})

	bus.Subscribe(events.EventTypePlayResolved, func(ctx context.Context, e events.Event) {
		ev := e.(events.PlayResolvedEvent)
		log.WithFields(log.Fields{
			"userId":      ev.UserID,
			"cardId":      ev.CardID,
			"won":         ev.Won,
			"prizeAmount": ev.PrizeAmount,
			"simulated":   ev.Simulated,
		}).Info("Play resolved")
	})

	bus.Subscribe(events.EventTypeDepositCompleted, func(ctx context.Context, e events.Event) {
		ev := e.(events.DepositCompletedEvent)
		log.WithFields(log.Fields{
			"userId":        ev.UserID,
			"depositId":     ev.DepositID,
			"correlationId": ev.CorrelationID,
			"amount":        ev.Amount,
		}).Info("Deposit completed")
	})

	bus.Subscribe(events.EventTypeDepositExpired, func(ctx context.Context, e events.Event) {
		ev := e.(events.DepositExpiredEvent)
		log.WithFields(log.Fields{
			"userId":        ev.UserID,
			"depositId":     ev.DepositID,
			"correlationId": ev.CorrelationID,
		}).Info("Deposit expired")
	})
}
