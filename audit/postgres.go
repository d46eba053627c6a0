// Package audit holds optional, best-effort observability sinks a replica
// can be configured to push to. Neither sink is ever on the two-phase
// commit critical path: a write failure here never changes a
// transaction's outcome, and a replica runs identically with both
// disabled.
package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"coffeeledger/configs"
	"coffeeledger/ledger"
)

// PostgresBalanceExporter periodically snapshots a Ledger into a
// client_balances table, overwriting the previous snapshot each round. It
// is a dashboard feed, not a recovery log.
type PostgresBalanceExporter struct {
	pool     *pgxpool.Pool
	ledger   *ledger.Ledger
	interval time.Duration
	done     chan struct{}
}

// NewPostgresBalanceExporter connects to connString and returns an exporter
// that has not yet started polling; call Run to start it.
func NewPostgresBalanceExporter(ctx context.Context, connString string, l *ledger.Ledger, interval time.Duration) (*PostgresBalanceExporter, error) {
	pool, err := pgxpool.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}
	_, err = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS client_balances (
		client_id INTEGER PRIMARY KEY,
		available BIGINT NOT NULL,
		locked BIGINT NOT NULL
	)`)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresBalanceExporter{pool: pool, ledger: l, interval: interval, done: make(chan struct{})}, nil
}

// Run exports a snapshot every interval until Stop is called. Intended to
// be launched with `go exporter.Run()`.
func (e *PostgresBalanceExporter) Run() {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-e.done:
			return
		case <-ticker.C:
			e.export()
		}
	}
}

func (e *PostgresBalanceExporter) export() {
	snap := e.ledger.Snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for id, entry := range snap {
		_, err := e.pool.Exec(ctx, `
			INSERT INTO client_balances (client_id, available, locked)
			VALUES ($1, $2, $3)
			ON CONFLICT (client_id) DO UPDATE SET available = $2, locked = $3`,
			id, entry.Available, entry.Locked)
		if err != nil {
			configs.Warn("audit: postgres export failed for client %d: %s", id, err.Error())
		}
	}
}

func (e *PostgresBalanceExporter) Stop() {
	close(e.done)
	e.pool.Close()
}
