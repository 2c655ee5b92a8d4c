package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"csvscope/domain/run"
	"csvscope/ports"
)

// runRepository implements the RunLedger interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run ledger backed by Postgres
func NewRunRepository(db *sqlx.DB) ports.RunLedger {
	return &runRepository{db: db}
}

// Connect opens a Postgres connection and prepares the ledger schema
func Connect(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		status TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		archive_name TEXT NOT NULL DEFAULT '',
		row_count INTEGER NOT NULL DEFAULT 0,
		column_count INTEGER NOT NULL DEFAULT 0,
		plot_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure analysis_runs schema: %w", err)
	}
	return nil
}

// Record inserts one run ledger entry
func (r *runRepository) Record(ctx context.Context, rec *run.Record) error {
	query := `INSERT INTO analysis_runs (
		id, label, fingerprint, status, output_dir, archive_name,
		row_count, column_count, plot_count, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Label, rec.Fingerprint, rec.Status, rec.OutputDir, rec.ArchiveName,
		rec.RowCount, rec.ColumnCount, rec.PlotCount, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record analysis run: %w", err)
	}
	return nil
}

// Recent returns the newest ledger entries, most recent first
func (r *runRepository) Recent(ctx context.Context, limit int) ([]run.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, label, fingerprint, status, output_dir, archive_name,
		row_count, column_count, plot_count, created_at
	FROM analysis_runs ORDER BY created_at DESC LIMIT $1`

	var records []run.Record
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	return records, nil
}
