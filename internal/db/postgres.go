package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/KMashiane/engulf-trader/internal/candle"
)

const candleSchema = `
CREATE TABLE IF NOT EXISTS candles (
	symbol     TEXT             NOT NULL,
	timeframe  TEXT             NOT NULL,
	timestamp  TIMESTAMPTZ      NOT NULL,
	open       DOUBLE PRECISION NOT NULL,
	high       DOUBLE PRECISION NOT NULL,
	low        DOUBLE PRECISION NOT NULL,
	close      DOUBLE PRECISION NOT NULL,
	volume     DOUBLE PRECISION NOT NULL,
	source     TEXT             NOT NULL DEFAULT '',
	PRIMARY KEY (symbol, timeframe, timestamp)
);
CREATE INDEX IF NOT EXISTS idx_candles_symbol_tf_ts ON candles (symbol, timeframe, timestamp);
`

// Postgres is the candle cache backed by PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(connStr string, maxOpen, maxIdle int) (*Postgres, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if _, err := db.Exec(candleSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating candle schema: %w", err)
	}

	return &Postgres{db: db}, nil
}

// SaveCandles upserts candles in one transaction. Re-fetching a range must not
// duplicate rows, so conflicts update in place.
func (p *Postgres) SaveCandles(ctx context.Context, candles []candle.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candles (symbol, timeframe, timestamp, open, high, low, close, volume, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (symbol, timeframe, timestamp)
		DO UPDATE SET open = EXCLUDED.open, high = EXCLUDED.high, low = EXCLUDED.low,
			close = EXCLUDED.close, volume = EXCLUDED.volume, source = EXCLUDED.source`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.ExecContext(ctx, c.Symbol, c.Timeframe, c.Timestamp.UTC(),
			c.Open, c.High, c.Low, c.Close, c.Volume, c.Source); err != nil {
			return fmt.Errorf("inserting candle %s %s: %w", c.Symbol, c.Timestamp.Format(time.RFC3339), err)
		}
	}

	return tx.Commit()
}

// GetCandles returns candles in [start, end), ordered by timestamp.
func (p *Postgres) GetCandles(ctx context.Context, symbol, timeframe string, start, end time.Time) ([]candle.Candle, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT symbol, timeframe, timestamp, open, high, low, close, volume, source
		FROM candles
		WHERE symbol = $1 AND timeframe = $2 AND timestamp >= $3 AND timestamp < $4
		ORDER BY timestamp ASC`,
		symbol, timeframe, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("querying candles: %w", err)
	}
	defer rows.Close()

	var candles []candle.Candle
	for rows.Next() {
		var c candle.Candle
		if err := rows.Scan(&c.Symbol, &c.Timeframe, &c.Timestamp,
			&c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &c.Source); err != nil {
			return nil, fmt.Errorf("scanning candle row: %w", err)
		}
		c.Timestamp = c.Timestamp.UTC()
		candles = append(candles, c)
	}
	return candles, rows.Err()
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
