package common

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the run startup banner summarizing the input
// source and key configuration before Pass 1 begins.
func PrintBanner(config *Config, runID string, logger arbor.ILogger) {
	version := GetVersion()

	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(80)

	fmt.Printf("\n")
	b.PrintTopLine()
	b.PrintCenteredText("CONTACTSCOUT")
	b.PrintCenteredText("Phone Contact Extraction Pipeline")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", version, 20)
	b.PrintKeyValue("Run ID", runID, 20)
	b.PrintKeyValue("Input file", config.Input.ExcelFilePath, 20)
	b.PrintKeyValue("Output dir", config.Output.BaseDir, 20)
	b.PrintKeyValue("LLM model", config.LLM.ModelName, 20)
	b.PrintKeyValue("Max pages/domain", fmt.Sprintf("%d", config.Scraper.MaxPagesPerDomain), 20)
	b.PrintBottomLine()
	fmt.Printf("\n")

	logger.Info().
		Str("version", version).
		Str("run_id", runID).
		Str("input_file", config.Input.ExcelFilePath).
		Str("output_dir", config.Output.BaseDir).
		Str("llm_model", config.LLM.ModelName).
		Msg("Run started")
}

// PrintShutdownBanner displays the end-of-run banner with the final
// row/domain counts.
func PrintShutdownBanner(rowCount, domainCount, contactRowCount int, logger arbor.ILogger) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(48)

	b.PrintTopLine()
	b.PrintCenteredText("RUN COMPLETE")
	b.PrintKeyValue("Rows processed", fmt.Sprintf("%d", rowCount), 18)
	b.PrintKeyValue("Domains crawled", fmt.Sprintf("%d", domainCount), 18)
	b.PrintKeyValue("Contacts found", fmt.Sprintf("%d", contactRowCount), 18)
	b.PrintBottomLine()
	fmt.Println()

	logger.Info().
		Int("rows_processed", rowCount).
		Int("domains_crawled", domainCount).
		Int("contact_rows", contactRowCount).
		Msg("Run finished")
}

// PrintColorizedMessage prints a message to stdout in the given color.
// It does not log; PrintSuccess and PrintWarning log separately.
func PrintColorizedMessage(color, message string, logger arbor.ILogger) {
	fmt.Printf("%s%s%s\n", color, message, banner.ColorReset)
}

// PrintSuccess prints and logs a success message.
func PrintSuccess(message string, logger arbor.ILogger) {
	PrintColorizedMessage(banner.ColorGreen, fmt.Sprintf("✓ %s", message), logger)
	logger.Info().Str("type", "success").Msg(message)
}

// PrintWarning prints and logs a warning message.
func PrintWarning(message string, logger arbor.ILogger) {
	PrintColorizedMessage(banner.ColorYellow, fmt.Sprintf("⚠ %s", message), logger)
	logger.Warn().Str("type", "warning").Msg(message)
}
