package pipeline

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvscope/adapters/csvio"
	"csvscope/domain/core"
	"csvscope/domain/run"
	"csvscope/domain/table"
	"csvscope/internal/cleaning"
	"csvscope/internal/summarize"
	"csvscope/ports"
)

// stubRenderer writes one placeholder image per numeric column so the
// archive stage has plot artifacts to package
type stubRenderer struct{}

func (stubRenderer) RenderDistributions(t table.Table, outputDir string) ([]string, error) {
	plotsDir := filepath.Join(outputDir, run.PlotsDir)
	if err := os.MkdirAll(plotsDir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	for _, col := range t.Columns() {
		if col.Type != table.Numeric {
			continue
		}
		name := run.PlotFileName(col.Name)
		if err := os.WriteFile(filepath.Join(plotsDir, name), []byte("png"), 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, filepath.Join(run.PlotsDir, name))
	}
	return paths, nil
}

type failingRenderer struct{}

func (failingRenderer) RenderDistributions(table.Table, string) ([]string, error) {
	return nil, fmt.Errorf("renderer unavailable")
}

// memoryLedger records runs in memory
type memoryLedger struct {
	records []run.Record
}

func (m *memoryLedger) Record(_ context.Context, rec *run.Record) error {
	m.records = append(m.records, *rec)
	return nil
}

func (m *memoryLedger) Recent(_ context.Context, limit int) ([]run.Record, error) {
	return m.records, nil
}

func newOrchestrator(renderer ports.DistributionRenderer, ledger *memoryLedger) *Orchestrator {
	cleaner := cleaning.NewCleaner(cleaning.DefaultCoercionConfig())
	engine := summarize.NewEngine(nil)
	if ledger == nil {
		return New(cleaner, engine, renderer, nil, nil)
	}
	return New(cleaner, engine, renderer, ledger, nil)
}

func sampleTable(t *testing.T) table.Table {
	t.Helper()
	tbl, err := csvio.Decode([]byte("amount,city\n1,Oslo\n2,\n,Lima\n4,Oslo\n"))
	require.NoError(t, err)
	return tbl
}

func TestRunProducesFullArtifactSet(t *testing.T) {
	destRoot := t.TempDir()
	ledger := &memoryLedger{}
	o := newOrchestrator(stubRenderer{}, ledger)

	report, err := o.Run(context.Background(), sampleTable(t), destRoot)
	require.NoError(t, err)
	assert.False(t, report.Degraded())

	for _, name := range []string{
		run.OriginalDataFile,
		run.CleanedDataFile,
		run.NumericSummaryFile,
		run.CategoricalSummaryFile,
		run.SummaryReportFile,
	} {
		assert.FileExists(t, filepath.Join(report.Result.OutputDir, name))
	}
	assert.Equal(t, []string{filepath.Join("plots", "amount_distribution.png")}, report.Result.PlotPaths)

	require.True(t, report.Result.HasArchive())
	assert.FileExists(t, filepath.Join(destRoot, report.Result.ArchiveName))

	// Cleaned output has no remaining missing cells.
	cleanedBytes, err := os.ReadFile(filepath.Join(report.Result.OutputDir, run.CleanedDataFile))
	require.NoError(t, err)
	cleaned, err := csvio.Decode(cleanedBytes)
	require.NoError(t, err)
	assert.Equal(t, 0, cleaned.TotalMissing())

	require.Len(t, ledger.records, 1)
	rec := ledger.records[0]
	assert.Equal(t, run.StatusSucceeded, rec.Status)
	assert.Equal(t, 4, rec.RowCount)
	assert.Equal(t, 2, rec.ColumnCount)
	assert.Equal(t, 1, rec.PlotCount)
	assert.NotEmpty(t, rec.Fingerprint.String())
}

func TestRunArchiveContainsEveryArtifact(t *testing.T) {
	destRoot := t.TempDir()
	o := newOrchestrator(stubRenderer{}, nil)

	report, err := o.Run(context.Background(), sampleTable(t), destRoot)
	require.NoError(t, err)
	require.True(t, report.Result.HasArchive())

	zr, err := zip.OpenReader(filepath.Join(destRoot, report.Result.ArchiveName))
	require.NoError(t, err)
	defer zr.Close()

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{
		run.OriginalDataFile,
		run.CleanedDataFile,
		run.NumericSummaryFile,
		run.CategoricalSummaryFile,
		run.SummaryReportFile,
		"plots/amount_distribution.png",
	} {
		assert.True(t, names[want], "archive missing %s", want)
	}
}

func TestRunEmptyInputAbortsAndCleansUp(t *testing.T) {
	destRoot := t.TempDir()
	o := newOrchestrator(stubRenderer{}, nil)

	empty, err := table.New(nil)
	require.NoError(t, err)

	_, err = o.Run(context.Background(), empty, destRoot)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyInput)

	// Nothing survives an aborted run, not even the original data copy.
	entries, err := os.ReadDir(destRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunHeaderOnlyInputAborts(t *testing.T) {
	destRoot := t.TempDir()
	o := newOrchestrator(stubRenderer{}, nil)

	tbl, err := csvio.Decode([]byte("a,b\n"))
	require.NoError(t, err)

	_, err = o.Run(context.Background(), tbl, destRoot)
	assert.ErrorIs(t, err, core.ErrEmptyInput)

	entries, err := os.ReadDir(destRoot)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunPlotFailureDegradesWithoutAborting(t *testing.T) {
	destRoot := t.TempDir()
	ledger := &memoryLedger{}
	o := newOrchestrator(failingRenderer{}, ledger)

	report, err := o.Run(context.Background(), sampleTable(t), destRoot)
	require.NoError(t, err)

	assert.True(t, report.Degraded())
	assert.Empty(t, report.Result.PlotPaths)

	// Data artifacts and the archive still exist.
	assert.FileExists(t, filepath.Join(report.Result.OutputDir, run.CleanedDataFile))
	assert.True(t, report.Result.HasArchive())

	require.Len(t, ledger.records, 1)
	assert.Equal(t, run.StatusDegraded, ledger.records[0].Status)
}

func TestRunLabelsAreUnique(t *testing.T) {
	destRoot := t.TempDir()
	o := newOrchestrator(stubRenderer{}, nil)

	first, err := o.Run(context.Background(), sampleTable(t), destRoot)
	require.NoError(t, err)
	second, err := o.Run(context.Background(), sampleTable(t), destRoot)
	require.NoError(t, err)

	assert.NotEqual(t, first.Result.Label, second.Result.Label)
	assert.NotEqual(t, first.Result.OutputDir, second.Result.OutputDir)
}
