// Package pipeline sequences the analysis stages over one input table:
// cleaning, summarization, plot rendering, and archive packaging, with
// all-or-nothing cleanup when the run aborts.
package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"time"

	"csvscope/domain/core"
	"csvscope/domain/run"
	"csvscope/domain/summary"
	"csvscope/domain/table"
	"csvscope/internal"
	"csvscope/internal/cleaning"
	apperrors "csvscope/internal/errors"
	"csvscope/internal/summarize"
	"csvscope/ports"

	"csvscope/adapters/csvio"
)

// StageStatus is the explicit outcome of a non-critical stage; the
// orchestrator branches on these instead of suppressing errors.
type StageStatus string

const (
	StageOK       StageStatus = "ok"
	StageDegraded StageStatus = "degraded"
)

// StageOutcome records how one pipeline stage ended
type StageOutcome struct {
	Stage  string
	Status StageStatus
	Err    error
}

// Report is the full account of a run: the caller-facing result, the
// summary bundle when one was produced, and the per-stage outcomes.
type Report struct {
	Result  run.Result
	Summary *summary.Bundle
	Stages  []StageOutcome
}

// Degraded reports whether any non-critical stage fell back
func (r Report) Degraded() bool {
	for _, s := range r.Stages {
		if s.Status == StageDegraded {
			return true
		}
	}
	return false
}

// Orchestrator wires the pipeline stages together. The ledger is
// optional; a nil ledger disables run recording.
type Orchestrator struct {
	cleaner  *cleaning.Cleaner
	engine   *summarize.Engine
	renderer ports.DistributionRenderer
	ledger   ports.RunLedger
	logger   *internal.Logger
}

// New creates an orchestrator
func New(cleaner *cleaning.Cleaner, engine *summarize.Engine, renderer ports.DistributionRenderer, ledger ports.RunLedger, logger *internal.Logger) *Orchestrator {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Orchestrator{
		cleaner:  cleaner,
		engine:   engine,
		renderer: renderer,
		ledger:   ledger,
		logger:   logger,
	}
}

// Run executes the full pipeline for one raw table under destRoot. Only
// cleaning failures (and artifact persistence failures before cleaning
// completes) abort the run; on abort the entire output location and any
// partial archive are removed before the error is returned, so destRoot
// never retains a half-written analysis. Summary, plot, and archive
// failures degrade the artifact set without failing the run.
func (o *Orchestrator) Run(ctx context.Context, raw table.Table, destRoot string) (Report, error) {
	label := run.Label(time.Now())
	outputDir := filepath.Join(destRoot, run.DirName(label))
	archivePath := filepath.Join(destRoot, run.ArchiveName(label))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Report{}, apperrors.Wrap(err, "failed to allocate output location")
	}

	report := Report{Result: run.Result{
		RunID:     core.NewRunID(),
		Label:     label,
		OutputDir: outputDir,
	}}

	// Persist the original table verbatim; its encoded bytes double as
	// the run fingerprint.
	originalBytes, err := csvio.Encode(raw)
	if err != nil {
		return Report{}, o.abort(outputDir, archivePath, apperrors.Wrap(err, "failed to encode original data"))
	}
	fingerprint := core.NewFingerprint(originalBytes)
	if err := os.WriteFile(filepath.Join(outputDir, run.OriginalDataFile), originalBytes, 0o644); err != nil {
		return Report{}, o.abort(outputDir, archivePath, apperrors.Wrap(err, "failed to persist original data"))
	}

	cleaned, err := o.cleaner.Clean(raw)
	if err != nil {
		code := apperrors.CodeCleaningError
		if errors.Is(err, core.ErrEmptyInput) {
			code = apperrors.CodeEmptyInput
		}
		return Report{}, o.abort(outputDir, archivePath, apperrors.WithCode(code, err))
	}

	if err := csvio.WriteFile(cleaned, filepath.Join(outputDir, run.CleanedDataFile)); err != nil {
		return Report{}, o.abort(outputDir, archivePath, apperrors.Wrap(err, "failed to persist cleaned data"))
	}

	report.Stages = append(report.Stages, o.summarizeStage(cleaned, outputDir, &report))
	report.Stages = append(report.Stages, o.plotStage(cleaned, outputDir, &report))
	report.Stages = append(report.Stages, o.archiveStage(outputDir, archivePath, &report))

	o.recordRun(ctx, raw, fingerprint, report)
	return report, nil
}

func (o *Orchestrator) summarizeStage(cleaned table.Table, outputDir string, report *Report) StageOutcome {
	bundle, err := o.engine.Summarize(cleaned)
	if err != nil {
		o.logger.Warn("summary generation failed: %v", err)
		// The report file is part of the artifact contract even when the
		// summary degrades.
		note := "Data Analysis Summary\n" +
			"==================================================\n" +
			"Summary generation failed; artifacts reduced.\n"
		if werr := os.WriteFile(filepath.Join(outputDir, run.SummaryReportFile), []byte(note), 0o644); werr != nil {
			o.logger.Warn("failed to write summary report: %v", werr)
		}
		return StageOutcome{Stage: "summary", Status: StageDegraded, Err: apperrors.WithCode(apperrors.CodeSummaryDegraded, err)}
	}

	report.Summary = &bundle

	if bundle.HasNumeric() {
		if err := writeCSVRecords(filepath.Join(outputDir, run.NumericSummaryFile), bundle.NumericRecords()); err != nil {
			o.logger.Warn("failed to write numeric summary: %v", err)
		}
	}
	if bundle.HasCategorical() {
		if err := writeCSVRecords(filepath.Join(outputDir, run.CategoricalSummaryFile), bundle.CategoricalRecords()); err != nil {
			o.logger.Warn("failed to write categorical summary: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(outputDir, run.SummaryReportFile), []byte(bundle.Report()), 0o644); err != nil {
		o.logger.Warn("failed to write summary report: %v", err)
	}

	return StageOutcome{Stage: "summary", Status: StageOK}
}

func (o *Orchestrator) plotStage(cleaned table.Table, outputDir string, report *Report) StageOutcome {
	paths, err := o.renderer.RenderDistributions(cleaned, outputDir)
	if err != nil {
		o.logger.Warn("plot rendering failed: %v", err)
		return StageOutcome{Stage: "plots", Status: StageDegraded, Err: apperrors.WithCode(apperrors.CodePlotDegraded, err)}
	}
	report.Result.PlotPaths = paths
	return StageOutcome{Stage: "plots", Status: StageOK}
}

func (o *Orchestrator) archiveStage(outputDir, archivePath string, report *Report) StageOutcome {
	if err := writeArchive(outputDir, archivePath); err != nil {
		o.logger.Warn("archive creation failed: %v", err)
		os.Remove(archivePath)
		return StageOutcome{Stage: "archive", Status: StageDegraded, Err: apperrors.WithCode(apperrors.CodeArchiveDegraded, err)}
	}
	report.Result.ArchiveName = filepath.Base(archivePath)
	return StageOutcome{Stage: "archive", Status: StageOK}
}

func (o *Orchestrator) recordRun(ctx context.Context, raw table.Table, fingerprint core.Fingerprint, report Report) {
	if o.ledger == nil {
		return
	}
	status := run.StatusSucceeded
	if report.Degraded() {
		status = run.StatusDegraded
	}
	rec := &run.Record{
		ID:          report.Result.RunID,
		Label:       report.Result.Label,
		Fingerprint: fingerprint,
		Status:      status,
		OutputDir:   report.Result.OutputDir,
		ArchiveName: report.Result.ArchiveName,
		RowCount:    raw.NumRows(),
		ColumnCount: raw.NumCols(),
		PlotCount:   len(report.Result.PlotPaths),
		CreatedAt:   time.Now(),
	}
	if err := o.ledger.Record(ctx, rec); err != nil {
		o.logger.Warn("failed to record run in ledger: %v", err)
	}
}

// abort removes everything the run wrote before propagating the error
func (o *Orchestrator) abort(outputDir, archivePath string, err error) error {
	if rmErr := os.RemoveAll(outputDir); rmErr != nil {
		o.logger.Error("failed to clean up output location %s: %v", outputDir, rmErr)
	}
	if rmErr := os.Remove(archivePath); rmErr != nil && !os.IsNotExist(rmErr) {
		o.logger.Error("failed to clean up partial archive %s: %v", archivePath, rmErr)
	}
	return err
}

func writeCSVRecords(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return w.Error()
}
