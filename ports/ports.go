// Package ports declares the small interfaces the pipeline depends on,
// keeping rendering and persistence swappable behind the orchestrator.
package ports

import (
	"context"

	"csvscope/domain/run"
	"csvscope/domain/table"
)

// DistributionRenderer renders one distribution visual per eligible
// numeric column under outputDir and returns the artifact paths relative
// to it. Implementations must skip (not fail) columns that cannot be
// rendered and return an empty slice with a nil error when no column is
// eligible.
type DistributionRenderer interface {
	RenderDistributions(t table.Table, outputDir string) ([]string, error)
}

// RunLedger persists analysis-run records for later inspection
type RunLedger interface {
	Record(ctx context.Context, rec *run.Record) error
	Recent(ctx context.Context, limit int) ([]run.Record, error)
}

// TableReader produces a raw table from some ingestion source
type TableReader interface {
	ReadTable() (table.Table, error)
}
