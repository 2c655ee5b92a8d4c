// Package run defines the artifact layout and lifecycle records of a
// single analysis run. A run owns a dedicated output directory for its
// lifetime; the file and archive names here are the contract external
// consumers rely on.
package run

import (
	"fmt"
	"time"

	"csvscope/domain/core"
)

// Artifact file names inside a run's output directory
const (
	OriginalDataFile       = "original_data.csv"
	CleanedDataFile        = "cleaned_data.csv"
	NumericSummaryFile     = "numeric_summary.csv"
	CategoricalSummaryFile = "categorical_summary.csv"
	SummaryReportFile      = "summary_report.txt"
	PlotsDir               = "plots"
)

// Status records how a run ended
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusDegraded  Status = "degraded"
	StatusAborted   Status = "aborted"
)

// Label builds the unique run label used for the output directory and
// archive name. The timestamp keeps labels human-sortable; the random
// suffix guarantees uniqueness when two runs start within the same clock
// tick.
func Label(now time.Time) string {
	return fmt.Sprintf("%s_%s", now.Format("20060102_150405"), core.ShortSuffix())
}

// DirName returns the run's output directory name for a label
func DirName(label string) string {
	return "analysis_" + label
}

// ArchiveName returns the archive file name for a label
func ArchiveName(label string) string {
	return fmt.Sprintf("analysis_results_%s.zip", label)
}

// PlotFileName returns the image artifact name for a column
func PlotFileName(column string) string {
	return column + "_distribution.png"
}

// Result is what a completed (or degraded) run reports back to callers
type Result struct {
	RunID       core.RunID `json:"run_id"`
	Label       string     `json:"label"`
	OutputDir   string     `json:"output_dir"`
	PlotPaths   []string   `json:"plot_paths"`   // relative to OutputDir
	ArchiveName string     `json:"archive_name"` // empty when archiving degraded
}

// HasArchive reports whether the archive artifact was produced
func (r Result) HasArchive() bool { return r.ArchiveName != "" }

// Record is the persisted ledger entry for one run
type Record struct {
	ID          core.RunID       `db:"id" json:"id"`
	Label       string           `db:"label" json:"label"`
	Fingerprint core.Fingerprint `db:"fingerprint" json:"fingerprint"`
	Status      Status           `db:"status" json:"status"`
	OutputDir   string           `db:"output_dir" json:"output_dir"`
	ArchiveName string           `db:"archive_name" json:"archive_name"`
	RowCount    int              `db:"row_count" json:"row_count"`
	ColumnCount int              `db:"column_count" json:"column_count"`
	PlotCount   int              `db:"plot_count" json:"plot_count"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}
