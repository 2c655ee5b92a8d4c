package ui

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/google/uuid"

	"csvscope/adapters/csvio"
	"csvscope/adapters/excel"
	"csvscope/domain/core"
	"csvscope/domain/run"
	"csvscope/domain/table"
	apperrors "csvscope/internal/errors"
	"csvscope/internal/pipeline"
)

type indexPage struct {
	AllowedExtensions string
	MaxUploadMB       int64
	RecentRuns        []run.Record
}

type resultsPage struct {
	FileName    string
	Label       string
	Degraded    bool
	SummaryHTML template.HTML
	Artifacts   []artifactLink
	Plots       []artifactLink
	ArchiveURL  string
	Warnings    []string
}

type artifactLink struct {
	Name string
	URL  string
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{
		AllowedExtensions: strings.Join(a.config.Storage.AllowedExtensions, ", "),
		MaxUploadMB:       a.config.Storage.MaxUploadBytes / (1024 * 1024),
	}

	if a.ledger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		records, err := a.ledger.Recent(ctx, 10)
		if err != nil {
			a.logger.Warn("failed to list recent runs: %v", err)
		} else {
			page.RecentRuns = records
		}
	}

	a.renderTemplate(w, "index.html", page)
}

func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !a.runSlots.TryAcquire(1) {
		http.Error(w, "too many analyses in progress, try again shortly", http.StatusTooManyRequests)
		return
	}
	defer a.runSlots.Release(1)

	r.Body = http.MaxBytesReader(w, r.Body, a.config.Storage.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !a.config.Storage.AllowsExtension(ext) {
		http.Error(w, "unsupported file type; allowed: "+strings.Join(a.config.Storage.AllowedExtensions, ", "), http.StatusBadRequest)
		return
	}

	uploadPath, err := a.saveUpload(file, ext)
	if err != nil {
		a.logger.Error("failed to store upload: %v", err)
		http.Error(w, "failed to store upload", http.StatusInternalServerError)
		return
	}
	defer os.Remove(uploadPath)

	raw, err := a.ingest(uploadPath, ext)
	if err != nil {
		a.logger.Warn("ingestion failed for %s: %v", header.Filename, err)
		http.Error(w, userMessage(err), http.StatusBadRequest)
		return
	}

	report, err := a.orchestrator.Run(r.Context(), raw, a.config.Storage.OutputRoot)
	if err != nil {
		a.logger.Warn("analysis failed for %s: %v", header.Filename, err)
		status := http.StatusBadRequest
		if !apperrors.IsFatal(err) {
			status = http.StatusInternalServerError
		}
		http.Error(w, userMessage(err), status)
		return
	}

	a.renderTemplate(w, "results.html", a.resultsFor(header.Filename, report))
}

// handleDownload serves run artifacts from the output root. Images render
// inline so the results page can embed them; everything else downloads.
func (a *App) handleDownload(w http.ResponseWriter, r *http.Request) {
	rel := path.Clean(chi.URLParam(r, "*"))
	if rel == "." || strings.HasPrefix(rel, "..") {
		http.NotFound(w, r)
		return
	}

	full := filepath.Join(a.config.Storage.OutputRoot, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	if !strings.EqualFold(filepath.Ext(full), ".png") {
		w.Header().Set("Content-Disposition", "attachment; filename=\""+filepath.Base(full)+"\"")
	}
	http.ServeFile(w, r, full)
}

func (a *App) saveUpload(file io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(a.config.Storage.UploadRoot, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(a.config.Storage.UploadRoot, uuid.New().String()+ext)
	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		os.Remove(dest)
		return "", err
	}
	return dest, nil
}

func (a *App) ingest(path, ext string) (table.Table, error) {
	if ext == ".xlsx" {
		return excel.NewReader(path).ReadTable()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return table.Table{}, err
	}
	return csvio.Decode(data)
}

func (a *App) resultsFor(fileName string, report pipeline.Report) resultsPage {
	dirName := run.DirName(report.Result.Label)
	page := resultsPage{
		FileName: fileName,
		Label:    report.Result.Label,
		Degraded: report.Degraded(),
	}

	if report.Summary != nil {
		page.SummaryHTML = renderMarkdown(report.Summary.Markdown())
	}

	for _, name := range []string{run.OriginalDataFile, run.CleanedDataFile, run.NumericSummaryFile, run.CategoricalSummaryFile, run.SummaryReportFile} {
		if _, err := os.Stat(filepath.Join(report.Result.OutputDir, name)); err != nil {
			continue
		}
		page.Artifacts = append(page.Artifacts, artifactLink{
			Name: name,
			URL:  "/downloads/" + path.Join(dirName, name),
		})
	}

	for _, rel := range report.Result.PlotPaths {
		page.Plots = append(page.Plots, artifactLink{
			Name: path.Base(filepath.ToSlash(rel)),
			URL:  "/downloads/" + path.Join(dirName, filepath.ToSlash(rel)),
		})
	}

	if report.Result.HasArchive() {
		page.ArchiveURL = "/downloads/" + report.Result.ArchiveName
	}

	for _, stage := range report.Stages {
		if stage.Status == pipeline.StageDegraded {
			page.Warnings = append(page.Warnings, stage.Stage+" stage failed; its artifacts are missing")
		}
	}

	return page
}

// userMessage maps pipeline errors to messages safe to show uploaders
func userMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyInput):
		return "The uploaded file contains no data rows."
	case errors.Is(err, core.ErrDecode):
		return "The file could not be parsed. Check that it is a valid CSV."
	case os.IsPermission(err):
		return "The server could not write the analysis results."
	default:
		return "The analysis could not be completed. Check the file and try again."
	}
}

func renderMarkdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return template.HTML(markdown.ToHTML([]byte(src), p, renderer))
}
