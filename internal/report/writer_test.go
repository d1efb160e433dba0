package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteAll_CreatesAllArtifactsUnderRunDirectory(t *testing.T) {
	dir := t.TempDir()
	runID := "run-20260729-0001"

	workbook := WorkbookData{
		PipelineSummary: []PipelineSummaryRow{
			{InputRowID: 1, CompanyName: "Acme GmbH", GivenURL: "https://acme.de", ScrapingStatus: "Success", RunID: runID},
		},
		FinalContacts: []FinalContactsRow{
			{CompanyName: "Acme GmbH", GivenURL: "https://acme.de", PhoneNumber1: "+49301234567"},
		},
	}
	failed := []FailedRow{
		{LogTimestamp: "2026-07-29T10:00:00Z", InputRowIdentifier: 7, CompanyName: "Bad Co", StageOfFailure: "Fetch", ErrorReason: "dns"},
	}
	metrics := RunMetrics{
		RunID:          runID,
		TotalInputRows: 2,
		RowsByOutcome:  map[string]int{"Success": 1, "Failed": 1},
	}

	err := WriteAll(dir, runID, workbook, failed, metrics)
	require.NoError(t, err)

	runDir := filepath.Join(dir, runID)
	assert.FileExists(t, filepath.Join(runDir, "Phone_Contact_Extraction_Report.xlsx"))
	assert.FileExists(t, filepath.Join(runDir, "Failed_Rows.csv"))
	assert.FileExists(t, filepath.Join(runDir, "Run_Metrics.json"))
	assert.FileExists(t, filepath.Join(runDir, "Run_Metrics.md"))

	f, err := excelize.OpenFile(filepath.Join(runDir, "Phone_Contact_Extraction_Report.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Pipeline_Summary_Report")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme GmbH", rows[1][1])

	csvBytes, err := os.ReadFile(filepath.Join(runDir, "Failed_Rows.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(csvBytes), "Bad Co")
}

func TestRenderMetricsMarkdown_IncludesCountsSorted(t *testing.T) {
	md := renderMetricsMarkdown(RunMetrics{
		RunID:         "run-x",
		RowsByOutcome: map[string]int{"Zeta": 1, "Alpha": 2},
	})
	assert.Contains(t, md, "# Run Metrics: run-x")
	alphaIdx := indexOf(md, "Alpha: 2")
	zetaIdx := indexOf(md, "Zeta: 1")
	require.Greater(t, zetaIdx, alphaIdx)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
