// Command migrate applies the embedded schema migrations to Postgres
// and ClickHouse. Both targets are optional; pass only the DSNs you need.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"diamondpad/internal/storage/migrations"
	"diamondpad/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	var (
		pgDSN   = flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "Postgres connection string")
		chDSN   = flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
		timeout = flag.Duration("timeout", 2*time.Minute, "overall migration timeout")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *pgDSN == "" && *chDSN == "" {
		log.Fatal("nothing to migrate: set -postgres-dsn and/or -clickhouse-dsn")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *pgDSN != "" {
		pool, err := postgres.NewPool(ctx, *pgDSN)
		if err != nil {
			log.WithError(err).Fatal("connect to postgres")
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			log.WithError(err).Fatal("postgres migrations failed")
		}
		pool.Close()
		log.Info("postgres migrations applied")
	}

	if *chDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *chDSN)
		if err != nil {
			log.WithError(err).Fatal("clickhouse migrations failed")
		}
		conn.Close()
		log.Info("clickhouse migrations applied")
	}
}
