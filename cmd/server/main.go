// Package main runs the DiamondPad ledger server: the HTTP API for launch
// registration, position tracking, reward claims and the bundler registry,
// plus Prometheus metrics and the websocket event feed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"diamondpad/internal/event"
	"diamondpad/internal/ledger"
	"diamondpad/internal/observability"
	"diamondpad/internal/storage"
	chstore "diamondpad/internal/storage/clickhouse"
	"diamondpad/internal/storage/memory"
	"diamondpad/internal/storage/migrations"
	pgstore "diamondpad/internal/storage/postgres"
)

// allStores holds all storage implementations.
type allStores struct {
	protocolStore storage.ProtocolStore
	launchStore   storage.LaunchStore
	positionStore storage.PositionStore
	bundlerStore  storage.BundlerStore
	eventStore    storage.EventStore
}

func main() {
	// Load .env if present; system env wins
	_ = godotenv.Load()

	listenAddr := flag.String("listen-addr", envOr("LISTEN_ADDR", ":8080"), "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	migrate := flag.Bool("migrate", false, "Apply embedded migrations before serving")
	authority := flag.String("authority", os.Getenv("PROTOCOL_AUTHORITY"), "Bootstrap the protocol with this authority if not yet initialized")
	logLevel := flag.String("log-level", envOr("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	logJSON := flag.Bool("log-json", false, "Log in JSON format")

	flag.Parse()

	log := newLogger(*logLevel, *logJSON)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		log.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, *migrate)
	if err != nil {
		log.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	broadcaster := event.NewBroadcaster(log)
	defer broadcaster.Close()

	svc := ledger.New(ledger.Options{
		ProtocolStore: stores.protocolStore,
		LaunchStore:   stores.launchStore,
		PositionStore: stores.positionStore,
		BundlerStore:  stores.bundlerStore,
		Notifier: event.NewMulti(
			event.NewArchiver(stores.eventStore),
			broadcaster,
		),
		Clock: ledger.SystemClock{},
		Log:   log,
	})

	if *authority != "" {
		if err := bootstrapProtocol(ctx, svc, *authority, log); err != nil {
			log.Fatalf("Failed to bootstrap protocol: %v", err)
		}
	}

	go touchUptimeMetric(ctx)

	api := newAPI(svc, stores.eventStore, broadcaster, log)

	srv := &http.Server{
		Addr:         *listenAddr,
		Handler:      api.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Infof("Received signal %v, shutting down", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("HTTP shutdown failed")
		}
		cancel()
	}()

	log.Infof("DiamondPad ledger listening on %s", *listenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server error: %v", err)
	}

	log.Info("Shutdown complete")
}

// createStores creates all required stores, optionally applying migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory, migrate bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			protocolStore: memory.NewProtocolStore(),
			launchStore:   memory.NewLaunchStore(),
			positionStore: memory.NewPositionStore(),
			bundlerStore:  memory.NewBundlerStore(),
			eventStore:    memory.NewEventStore(),
		}
		return stores, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
	}

	var chConn *chstore.Conn
	if migrate {
		chConn, err = migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	} else {
		chConn, err = chstore.NewConn(ctx, clickhouseDSN)
	}
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	stores := &allStores{
		protocolStore: pgstore.NewProtocolStore(pool),
		launchStore:   pgstore.NewLaunchStore(pool),
		positionStore: pgstore.NewPositionStore(pool),
		bundlerStore:  pgstore.NewBundlerStore(pool),

		// Event archive lives in ClickHouse
		eventStore: chstore.NewEventStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// bootstrapProtocol initializes the protocol record unless it already exists.
func bootstrapProtocol(ctx context.Context, svc *ledger.Service, authority string, log *logrus.Logger) error {
	_, err := svc.InitializeProtocol(ctx, authority)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			log.Info("Protocol already initialized, skipping bootstrap")
			return nil
		}
		return err
	}
	log.WithField("authority", authority).Info("Protocol bootstrapped")
	return nil
}

// newLogger builds the process logger.
func newLogger(level string, jsonFormat bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if jsonFormat {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// envOr returns the environment value for key, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// uptime tracking for /status
var startedAt = time.Now()

// touchUptimeMetric bumps the uptime counter once per minute.
func touchUptimeMetric(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			observability.DefaultMetrics.UptimeSeconds.Add(60)
		}
	}
}
