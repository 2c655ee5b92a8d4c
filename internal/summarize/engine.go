// Package summarize computes per-column descriptive statistics and
// dataset-level aggregates for a cleaned table.
package summarize

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"csvscope/domain/core"
	"csvscope/domain/summary"
	"csvscope/domain/table"
	"csvscope/internal"
)

// Engine produces SummaryBundles from cleaned tables
type Engine struct {
	logger *internal.Logger
}

// NewEngine creates a summary engine
func NewEngine(logger *internal.Logger) *Engine {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Engine{logger: logger}
}

// Summarize computes the numeric and categorical column summaries plus
// dataset metrics. Fails with core.ErrEmptySummary when the table has no
// rows. A failure on one column skips that column and continues; column
// failures are never fatal to the pass.
func (e *Engine) Summarize(t table.Table) (summary.Bundle, error) {
	if t.NumRows() == 0 {
		return summary.Bundle{}, core.ErrEmptySummary
	}

	bundle := summary.Bundle{
		Numeric:     make(map[string]summary.NumericSummary),
		Categorical: make(map[string]summary.CategoricalSummary),
	}
	rows := t.NumRows()

	for _, col := range t.Columns() {
		switch col.Type {
		case table.Numeric:
			s, err := numericSummary(col, rows)
			if err != nil {
				e.logger.Warn("skipping numeric summary for column %q: %v", col.Name, err)
				continue
			}
			bundle.Numeric[col.Name] = s
			bundle.NumericOrder = append(bundle.NumericOrder, col.Name)
		case table.Categorical:
			bundle.Categorical[col.Name] = categoricalSummary(col, rows)
			bundle.CategoricalOrder = append(bundle.CategoricalOrder, col.Name)
		case table.Temporal:
			// temporal columns belong to neither summary table
		}
	}

	bundle.Dataset = datasetMetrics(t)
	return bundle, nil
}

func numericSummary(col table.Column, rows int) (summary.NumericSummary, error) {
	data := col.Floats()

	mean, err := stats.Mean(data)
	if err != nil {
		return summary.NumericSummary{}, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return summary.NumericSummary{}, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return summary.NumericSummary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return summary.NumericSummary{}, err
	}

	// Sample (unbiased) standard deviation; undefined below two points.
	std := 0.0
	if len(data) > 1 {
		if std, err = stats.StandardDeviationSample(data); err != nil {
			return summary.NumericSummary{}, err
		}
	}

	p25 := percentileOr(data, 25, median)
	p75 := percentileOr(data, 75, median)
	p95 := percentileOr(data, 95, median)

	missing := col.MissingCount()
	return summary.NumericSummary{
		Count:      len(data),
		Mean:       mean,
		Std:        std,
		Min:        min,
		P25:        p25,
		P50:        median,
		P75:        p75,
		P95:        p95,
		Max:        max,
		Median:     median,
		Missing:    missing,
		MissingPct: pct(missing, rows),
		Skew:       sampleSkewness(data),
		Kurtosis:   sampleExcessKurtosis(data),
	}, nil
}

func categoricalSummary(col table.Column, rows int) summary.CategoricalSummary {
	counts := make(map[string]int)
	for _, v := range col.Cells {
		if !v.IsMissing() {
			counts[v.Render()]++
		}
	}

	top, _ := modeOf(counts)
	missing := col.MissingCount()

	// Freq is the largest category count with missing treated as its own
	// category for the counting step; the mode itself is computed over
	// present values only.
	freq := missing
	for _, n := range counts {
		if n > freq {
			freq = n
		}
	}

	return summary.CategoricalSummary{
		Unique:     len(counts),
		Top:        top,
		Freq:       freq,
		Missing:    missing,
		MissingPct: pct(missing, rows),
	}
}

func datasetMetrics(t table.Table) summary.DatasetMetrics {
	rows, cols := t.NumRows(), t.NumCols()
	missing := t.TotalMissing()
	totalCells := rows * cols

	missingPct := 0.0
	if totalCells > 0 {
		missingPct = float64(missing) / float64(totalCells) * 100
	}

	return summary.DatasetMetrics{
		Rows:            rows,
		Cols:            cols,
		TotalMissing:    missing,
		TotalMissingPct: missingPct,
		MemoryMB:        float64(deepSizeBytes(t)) / (1024 * 1024),
	}
}

// deepSizeBytes approximates the in-memory footprint of the table: a
// fixed per-cell overhead plus string payload bytes
func deepSizeBytes(t table.Table) int {
	const cellOverhead = 48 // Value struct: kind header + float + string header + time
	size := 0
	for _, col := range t.Columns() {
		size += len(col.Name)
		for _, v := range col.Cells {
			size += cellOverhead
			if v.Kind() == table.KindString {
				size += len(v.Text())
			}
		}
	}
	return size
}

// modeOf picks the most frequent key, breaking ties toward the
// lexicographically smallest so the reported mode is stable
func modeOf(counts map[string]int) (string, bool) {
	if len(counts) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestCount := "", 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best, true
}

func percentileOr(data []float64, p float64, fallback float64) float64 {
	v, err := stats.Percentile(data, p)
	if err != nil {
		return fallback
	}
	return v
}

func pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// sampleSkewness computes the adjusted Fisher-Pearson coefficient of
// skewness (the standard unbiased sample estimator)
func sampleSkewness(data []float64) float64 {
	n := float64(len(data))
	if n < 3 {
		return 0
	}
	mean := 0.0
	for _, x := range data {
		mean += x
	}
	mean /= n

	var m2, m3 float64
	for _, x := range data {
		d := x - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}

	g1 := m3 / math.Pow(m2, 1.5)
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// sampleExcessKurtosis computes the unbiased sample excess kurtosis
func sampleExcessKurtosis(data []float64) float64 {
	n := float64(len(data))
	if n < 4 {
		return 0
	}
	mean := 0.0
	for _, x := range data {
		mean += x
	}
	mean /= n

	var m2, m4 float64
	for _, x := range data {
		d := x - mean
		m2 += d * d
		m4 += d * d * d * d
	}
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return 0
	}

	g2 := m4/(m2*m2) - 3
	return ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
}
