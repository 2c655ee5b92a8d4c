// Package plot renders per-column distribution visuals. Columns with few
// distinct values get an annotated count plot; continuous columns get a
// histogram with a smoothed density overlay and labeled mean/median
// markers.
package plot

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"csvscope/domain/run"
	"csvscope/domain/table"
	"csvscope/internal"
)

// Config holds the plot-selection heuristics. CountPlotMax and MaxBins
// are tunable parameters, not fundamental constants.
type Config struct {
	CountPlotMax int // distinct-value cutoff for the count-plot branch
	MaxBins      int // histogram bin ceiling
	Width        vg.Length
	Height       vg.Length
}

// DefaultConfig returns the standard plot heuristics
func DefaultConfig() Config {
	return Config{
		CountPlotMax: 10,
		MaxBins:      30,
		Width:        12 * vg.Inch,
		Height:       6 * vg.Inch,
	}
}

// Renderer selects and renders one distribution visual per numeric column
type Renderer struct {
	config Config
	logger *internal.Logger
}

// NewRenderer creates a renderer with the given config
func NewRenderer(config Config, logger *internal.Logger) *Renderer {
	if config.CountPlotMax == 0 {
		config.CountPlotMax = 10
	}
	if config.MaxBins == 0 {
		config.MaxBins = 30
	}
	if config.Width == 0 {
		config.Width = 12 * vg.Inch
	}
	if config.Height == 0 {
		config.Height = 6 * vg.Inch
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Renderer{config: config, logger: logger}
}

// RenderDistributions renders one image per numeric column with at least
// one present value, returning paths relative to outputDir. A failure on
// one column skips it and continues; zero eligible columns is a valid
// outcome reported as an empty slice with a nil error.
func (r *Renderer) RenderDistributions(t table.Table, outputDir string) ([]string, error) {
	plotsDir := filepath.Join(outputDir, run.PlotsDir)
	if err := os.MkdirAll(plotsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plots directory: %w", err)
	}

	var paths []string
	for _, col := range t.Columns() {
		if col.Type != table.Numeric {
			continue
		}
		data := col.Floats()
		if len(data) == 0 {
			r.logger.Debug("skipping plot for column %q: all values missing", col.Name)
			continue
		}

		name := run.PlotFileName(col.Name)
		if err := r.renderColumn(col.Name, data, filepath.Join(plotsDir, name)); err != nil {
			r.logger.Warn("failed to render plot for column %q: %v", col.Name, err)
			continue
		}
		paths = append(paths, filepath.Join(run.PlotsDir, name))
	}
	return paths, nil
}

func (r *Renderer) renderColumn(column string, data []float64, path string) error {
	distinct := distinctSorted(data)
	if len(distinct) <= r.config.CountPlotMax {
		return r.renderCountPlot(column, data, distinct, path)
	}
	return r.renderHistogram(column, data, len(distinct), path)
}

// renderCountPlot draws one bar per distinct value with its count
// annotated above the bar
func (r *Renderer) renderCountPlot(column string, data []float64, distinct []float64, path string) error {
	counts := make([]float64, len(distinct))
	index := make(map[float64]int, len(distinct))
	for i, v := range distinct {
		index[v] = i
	}
	for _, v := range data {
		counts[index[v]]++
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of distinct values in %s", column)
	p.X.Label.Text = column
	p.Y.Label.Text = "count"

	bars, err := plotter.NewBarChart(plotter.Values(counts), vg.Points(40))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff}
	bars.LineStyle.Width = 0
	p.Add(bars)

	maxCount := 0.0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	annotations := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(counts)),
		Labels: make([]string, len(counts)),
	}
	for i, c := range counts {
		annotations.XYs[i] = plotter.XY{X: float64(i), Y: c + maxCount*0.02}
		annotations.Labels[i] = fmt.Sprintf("%d", int(c))
	}
	labels, err := plotter.NewLabels(annotations)
	if err != nil {
		return err
	}
	p.Add(labels)

	names := make([]string, len(distinct))
	for i, v := range distinct {
		names[i] = table.NumericValue(v).Render()
	}
	p.NominalX(names...)
	p.Y.Min = 0
	p.Y.Max = maxCount * 1.1

	return p.Save(r.config.Width, r.config.Height, path)
}

// renderHistogram draws a frequency histogram with a Gaussian-kernel
// density overlay plus labeled vertical markers at the mean and median
func (r *Renderer) renderHistogram(column string, data []float64, distinct int, path string) error {
	bins := r.config.MaxBins
	if distinct < bins {
		bins = distinct
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Distribution of %s", column)
	p.X.Label.Text = column
	p.Y.Label.Text = "frequency"

	hist, err := plotter.NewHist(plotter.Values(data), bins)
	if err != nil {
		return err
	}
	hist.FillColor = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xb0}
	p.Add(hist)

	maxWeight := 0.0
	binWidth := 0.0
	for _, b := range hist.Bins {
		if b.Weight > maxWeight {
			maxWeight = b.Weight
		}
		binWidth = b.Max - b.Min
	}

	if kde := kdeOverlay(data, binWidth); kde != nil {
		line, err := plotter.NewLine(kde)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
		p.Add(line)
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return err
	}
	median, err := stats.Median(data)
	if err != nil {
		return err
	}

	top := maxWeight * 1.05
	meanLine, err := verticalMarker(mean, top, color.RGBA{R: 0xd0, G: 0x30, B: 0x30, A: 0xff}, true)
	if err != nil {
		return err
	}
	medianLine, err := verticalMarker(median, top, color.RGBA{R: 0x2f, G: 0x8f, B: 0x2f, A: 0xff}, false)
	if err != nil {
		return err
	}
	p.Add(meanLine, medianLine)
	p.Legend.Add(fmt.Sprintf("mean: %.2f", mean), meanLine)
	p.Legend.Add(fmt.Sprintf("median: %.2f", median), medianLine)
	p.Legend.Top = true

	return p.Save(r.config.Width, r.config.Height, path)
}

// kdeOverlay evaluates a Gaussian kernel density estimate across the data
// range, scaled to the histogram's count axis. Returns nil when the data
// has no spread (the KDE bandwidth would be zero).
func kdeOverlay(data []float64, binWidth float64) plotter.XYs {
	n := float64(len(data))
	sigma, err := stats.StandardDeviationSample(data)
	if err != nil || sigma == 0 || binWidth == 0 {
		return nil
	}

	// Silverman's rule of thumb bandwidth.
	h := 1.06 * sigma * math.Pow(n, -0.2)
	kernel := distuv.Normal{Mu: 0, Sigma: h}

	min, _ := stats.Min(data)
	max, _ := stats.Max(data)

	const gridPoints = 200
	step := (max - min) / (gridPoints - 1)
	pts := make(plotter.XYs, gridPoints)
	for i := 0; i < gridPoints; i++ {
		x := min + float64(i)*step
		density := 0.0
		for _, xi := range data {
			density += kernel.Prob(x - xi)
		}
		density /= n
		// Scale the density to the count axis the histogram uses.
		pts[i] = plotter.XY{X: x, Y: density * n * binWidth}
	}
	return pts
}

func verticalMarker(x, top float64, c color.Color, dashed bool) (*plotter.Line, error) {
	line, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: top}})
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(1)
	if dashed {
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	}
	return line, nil
}

func distinctSorted(data []float64) []float64 {
	seen := make(map[float64]struct{}, len(data))
	for _, v := range data {
		seen[v] = struct{}{}
	}
	out := make([]float64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}
