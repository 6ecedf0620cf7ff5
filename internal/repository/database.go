package repository

import (
	"context"
	"errors"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Global error declarations.
var (
	ErrNoPrices    = errors.New("no prices found in datasource")
	ErrNoBenchmark = errors.New("benchmark index not found in datasource")
)

type priceQueries interface {
	DailyCloses(ctx context.Context, stockIDs []string, start, end string) ([]priceRow, error)
	DailyMarketValues(ctx context.Context, stockIDs []string, start, end string) ([]priceRow, error)
	BenchmarkCloses(ctx context.Context, indexID string, start, end string) ([]priceRow, error)
}

// Database holds the connection pool and query layer for daily price data.
type Database struct {
	queries priceQueries
	conn    *pgxpool.Pool
}

// NewDatabase creates a new Database instance and verifies connectivity.
func NewDatabase(dbURL string) (Database, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return Database{}, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	conn, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return Database{}, err
	}
	// Ensure the connection is established.
	if err := conn.Ping(context.Background()); err != nil {
		return Database{}, err
	}

	return Database{
		queries: &pgxQueries{conn: conn},
		conn:    conn,
	}, nil
}

// Close releases the connection pool.
func (db *Database) Close() {
	if db.conn != nil {
		db.conn.Close()
	}
}
