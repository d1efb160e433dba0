// Command contactscout runs the phone contact extraction pipeline over
// one input table and writes the report set under OutputBaseDir/RunID.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/fennelsoft/contactscout/internal/common"
	"github.com/fennelsoft/contactscout/internal/inputtable"
	"github.com/fennelsoft/contactscout/internal/normalizer"
	"github.com/fennelsoft/contactscout/internal/orchestrator"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (optional, defaults + env overrides apply otherwise)")
	inputPath := flag.String("input", "", "path to the input Excel workbook (overrides config)")
	outputDir := flag.String("output", "", "output base directory (overrides config)")
	rowRange := flag.String("rows", "", "row processing range, form a-b | a- | -b | a (overrides config)")
	dryRun := flag.Bool("dry-run", false, "load and normalize the input table without crawling or calling the LLM")
	flag.Parse()

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "contactscout: %v\n", err)
		os.Exit(1)
	}
	if *inputPath != "" {
		cfg.Input.ExcelFilePath = *inputPath
	}
	if *outputDir != "" {
		cfg.Output.BaseDir = *outputDir
	}
	if *rowRange != "" {
		cfg.Input.RowProcessingRange = *rowRange
	}

	logger := common.SetupLogger(cfg)
	common.InitLogger(logger)
	common.InstallCrashHandler(cfg.Output.BaseDir)
	defer common.Stop()

	startedAt := time.Now()
	runID := common.NewRunID(startedAt)
	common.PrintBanner(cfg, runID, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn().Msg("received shutdown signal, cancelling run")
		cancel()
	}()

	if *dryRun {
		runDryRun(ctx, cfg, logger)
		return
	}

	metrics, err := orchestrator.Run(ctx, cfg, logger, runID, startedAt)
	if err != nil {
		logger.Error().Err(err).Msg("run failed")
		common.PrintWarning(fmt.Sprintf("Run failed: %v", err), logger)
		os.Exit(1)
	}

	contactRows := 0
	for reason, count := range metrics.RowsByOutcome {
		if reason == "Contact_Successfully_Extracted" {
			contactRows = count
		}
	}
	common.PrintShutdownBanner(metrics.TotalInputRows, metrics.DomainsProcessed, contactRows, logger)
}

// runDryRun loads and normalizes the input table, reporting row counts
// and any rows that failed to canonicalize, without crawling or spending
// any LLM tokens. Added per the supplemented --dry-run operation: a fast
// sanity check over a new input file before a full paid run.
func runDryRun(ctx context.Context, cfg *common.Config, logger arbor.ILogger) {
	rowRange, err := inputtable.ParseRange(cfg.Input.RowProcessingRange)
	if err != nil {
		logger.Error().Err(err).Msg("dry run: invalid row processing range")
		os.Exit(1)
	}

	rows, err := inputtable.Load(cfg.Input.ExcelFilePath, "", rowRange, cfg.Input.ConsecutiveEmptyRowsToStop)
	if err != nil {
		logger.Error().Err(err).Msg("dry run: failed to load input table")
		os.Exit(1)
	}

	norm := normalizer.New(&net.Resolver{}, cfg.Crawler.URLProbingTlds, logger)
	invalid := 0
	for _, row := range rows {
		result := norm.Normalize(ctx, row.GivenURL)
		if result.Invalid {
			invalid++
			logger.Warn().Int("row", row.Identifier).Str("given_url", row.GivenURL).Str("reason", result.InvalidReason).Msg("dry run: row would fail to canonicalize")
		}
	}

	fmt.Printf("Dry run: %d rows loaded, %d would fail to canonicalize.\n", len(rows), invalid)
	common.PrintSuccess(fmt.Sprintf("Dry run complete: %d/%d rows canonicalize cleanly", len(rows)-invalid, len(rows)), logger)
}
