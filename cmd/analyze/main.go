// Command analyze runs the full pipeline once over a local file and
// prints where the artifacts landed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"csvscope/adapters/csvio"
	"csvscope/adapters/excel"
	"csvscope/adapters/plot"
	"csvscope/domain/table"
	"csvscope/internal"
	"csvscope/internal/cleaning"
	"csvscope/internal/pipeline"
	"csvscope/internal/summarize"
)

func main() {
	inputPath := flag.String("input", "", "path to a .csv or .xlsx file to analyze")
	outputRoot := flag.String("output", "results", "directory to place analysis output under")
	threshold := flag.Float64("numeric-threshold", 0.8, "fraction of non-missing cells that must parse as numbers")
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := readInput(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *inputPath, err)
	}

	logger := internal.NewDefaultLogger()
	coercion := cleaning.DefaultCoercionConfig()
	coercion.NumericThreshold = *threshold

	orchestrator := pipeline.New(
		cleaning.NewCleaner(coercion),
		summarize.NewEngine(logger),
		plot.NewRenderer(plot.DefaultConfig(), logger),
		nil,
		logger,
	)

	report, err := orchestrator.Run(context.Background(), raw, *outputRoot)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Printf("Results written to %s\n", report.Result.OutputDir)
	if report.Result.HasArchive() {
		fmt.Printf("Archive: %s\n", filepath.Join(*outputRoot, report.Result.ArchiveName))
	}
	for _, stage := range report.Stages {
		if stage.Status == pipeline.StageDegraded {
			fmt.Printf("Warning: %s stage failed: %v\n", stage.Stage, stage.Err)
		}
	}
	if report.Summary != nil {
		fmt.Println()
		fmt.Print(report.Summary.Report())
	}
}

func readInput(path string) (table.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return excel.NewReader(path).ReadTable()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return table.Table{}, err
	}
	return csvio.Decode(data)
}
