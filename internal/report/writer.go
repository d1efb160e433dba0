package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

var failedRowsHeader = []string{
	"LogTimestamp", "InputRowIdentifier", "CompanyName", "GivenURL", "StageOfFailure",
	"ErrorReason", "ErrorDetailsJSON", "AssociatedPathfulCanonicalURL",
}

// WriteAll produces every C11 artifact under baseDir/runID/, creating the
// run directory if it does not already exist.
func WriteAll(baseDir string, runID string, workbook WorkbookData, failed []FailedRow, metrics RunMetrics) error {
	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("create run directory %s: %w", runDir, err)
	}

	if err := WriteWorkbook(filepath.Join(runDir, "Phone_Contact_Extraction_Report.xlsx"), workbook); err != nil {
		return err
	}
	if err := writeFailedRows(filepath.Join(runDir, "Failed_Rows.csv"), failed); err != nil {
		return err
	}
	if err := writeRunMetrics(runDir, metrics); err != nil {
		return err
	}
	return nil
}

func writeFailedRows(path string, rows []FailedRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(failedRowsHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.LogTimestamp, strconv.Itoa(r.InputRowIdentifier), r.CompanyName, r.GivenURL,
			r.StageOfFailure, r.ErrorReason, r.ErrorDetailsJSON, r.AssociatedPathfulCanonicalURL,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeRunMetrics(runDir string, metrics RunMetrics) error {
	jsonPath := filepath.Join(runDir, "Run_Metrics.json")
	data, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run metrics: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", jsonPath, err)
	}

	mdPath := filepath.Join(runDir, "Run_Metrics.md")
	if err := os.WriteFile(mdPath, []byte(renderMetricsMarkdown(metrics)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mdPath, err)
	}
	return nil
}

func renderMetricsMarkdown(m RunMetrics) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Run Metrics: %s\n\n", m.RunID)
	fmt.Fprintf(&b, "- Started: %s\n", m.StartedAt)
	fmt.Fprintf(&b, "- Finished: %s\n", m.FinishedAt)
	fmt.Fprintf(&b, "- Total input rows: %d\n", m.TotalInputRows)
	fmt.Fprintf(&b, "- Domains processed: %d\n", m.DomainsProcessed)
	fmt.Fprintf(&b, "- Pages scraped total: %d\n\n", m.PagesScrapedTotal)

	b.WriteString("## Rows by outcome\n\n")
	writeSortedCounts(&b, m.RowsByOutcome)

	b.WriteString("\n## Pages scraped by type\n\n")
	writeSortedCounts(&b, m.PagesScrapedByType)

	b.WriteString("\n## LLM usage\n\n")
	fmt.Fprintf(&b, "- LLM calls total: %d\n", m.LLMCallsTotal)
	fmt.Fprintf(&b, "- Prompt tokens: %d\n", m.PromptTokensTotal)
	fmt.Fprintf(&b, "- Completion tokens: %d\n", m.CompletionTokensTotal)
	fmt.Fprintf(&b, "- Total tokens: %d\n\n", m.TotalTokensTotal)

	b.WriteString("## Failures by stage\n\n")
	writeSortedCounts(&b, m.FailuresByStage)

	b.WriteString("\n## Attrition by fault category\n\n")
	writeSortedCounts(&b, m.AttritionByFaultCategory)

	return b.String()
}

func writeSortedCounts(b *strings.Builder, counts map[string]int) {
	if len(counts) == 0 {
		b.WriteString("(none)\n")
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "- %s: %d\n", k, counts[k])
	}
}

// NewRunTimestamp renders t the way Run_Metrics fields expect. Callers
// supply the time since this package never calls time.Now itself.
func NewRunTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
