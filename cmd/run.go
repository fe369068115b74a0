package cmd

import (
	"context"
	"fmt"
	"time"

	"lottoledger/application"
	"lottoledger/config"
	"lottoledger/database"
	"lottoledger/domain/interfaces"
	"lottoledger/events"
	"lottoledger/infrastructure"
	"lottoledger/infrastructure/observability"
	"lottoledger/infrastructure/randomness"

	log "github.com/sirupsen/logrus"
)

// app holds the wired ledger and everything that must be closed afterwards
type app struct {
	ledger *application.Ledger
	db     *database.DB
	nats   *infrastructure.NATSClient
}

// newApp connects to the database and message bus and builds the ledger
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.WithError(err).Warn("Failed to initialize metrics, continuing without them")
	}

	log.Debug("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL(), cfg.PoolOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a := &app{db: db}

	var publisher interfaces.EventPublisher
	if cfg.NATSServers != "" {
		client := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := client.Connect(ctx); err != nil {
			db.Close()
			return nil, err
		}
		natsPublisher := infrastructure.NewNATSEventPublisher(client, infrastructure.NewEventSubjectMapper())
		if err := natsPublisher.EnsureEventStream(); err != nil {
			log.WithError(err).Warn("Failed to ensure event stream, events may be dropped")
		}
		a.nats = client
		publisher = natsPublisher
	} else {
		log.Debug("NATS_SERVERS not set, events stay in process")
		publisher = newAuditBus()
	}

	source, err := randomness.New(cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create randomness source: %w", err)
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, publisher)
	a.ledger = application.NewLedger(uowFactory, source)

	log.WithFields(log.Fields{
		"environment": cfg.Environment,
		"randomness":  source.Name(),
		"nats":        cfg.NATSServers != "",
	}).Debug("Ledger ready")
	return a, nil
}

// newAuditBus logs every committed event in process
func newAuditBus() *events.Bus {
	bus := events.NewBus()
	audit := func(ctx context.Context, event events.Event) {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"event":     event,
		}).Debug("Committed ledger event")
	}
	for _, eventType := range []events.EventType{
		events.EventTypeLotteryCreated,
		events.EventTypeTicketPurchased,
		events.EventTypeWinnerDrawn,
		events.EventTypePrizeClaimed,
		events.EventTypeBalanceChange,
	} {
		bus.Subscribe(eventType, audit)
	}
	return bus
}

// close releases connections and flushes metrics
func (a *app) close() {
	if a.nats != nil {
		if err := a.nats.Close(); err != nil {
			log.WithError(err).Warn("Error closing NATS connection")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error shutting down metrics")
	}

	if a.db != nil {
		a.db.Close()
	}
}
