package inputtable

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, cell := range row {
			col, _ := excelize.ColumnNumberToName(j + 1)
			f.SetCellValue("Sheet1", col+itoa(i+1), cell)
		}
	}
	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func itoa(i int) string {
	digits := "0123456789"
	if i == 0 {
		return "0"
	}
	var b []byte
	for i > 0 {
		b = append([]byte{digits[i%10]}, b...)
		i /= 10
	}
	return string(b)
}

func TestParseRange_AllForms(t *testing.T) {
	cases := map[string]Range{
		"":    {Start: 1, OpenEnded: true},
		"5":   {Start: 5, End: 5},
		"2-8": {Start: 2, End: 8},
		"3-":  {Start: 3, OpenEnded: true},
		"-6":  {Start: 1, End: 6},
	}
	for spec, want := range cases {
		got, err := ParseRange(spec)
		require.NoError(t, err, spec)
		assert.Equal(t, want, got, spec)
	}
}

func TestParseRange_InvalidFormReturnsError(t *testing.T) {
	_, err := ParseRange("-")
	assert.Error(t, err)
}

func TestLoad_ResolvesAliasedHeadersAndOptionalColumns(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Company", "Website", "Phone", "Notes", "Countries"},
		{"Acme GmbH", "https://acme.de", "+49 30 1234", "a note", "DE,AT"},
	})

	rows, err := Load(path, "", Range{Start: 1, OpenEnded: true}, 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme GmbH", rows[0].CompanyName)
	assert.Equal(t, "https://acme.de", rows[0].GivenURL)
	assert.Equal(t, []string{"DE", "AT"}, rows[0].TargetCountryCodes)
	assert.Equal(t, 1, rows[0].Identifier)
}

func TestLoad_StopsAfterConsecutiveEmptyRowsInOpenEndedRange(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"CompanyName", "GivenURL"},
		{"A", "https://a.com"},
		{"", ""},
		{"", ""},
		{"B", "https://b.com"},
	})

	rows, err := Load(path, "", Range{Start: 1, OpenEnded: true}, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].CompanyName)
}

func TestLoad_RestrictsToClosedRowRange(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"CompanyName", "GivenURL"},
		{"A", "https://a.com"},
		{"B", "https://b.com"},
		{"C", "https://c.com"},
	})

	rows, err := Load(path, "", Range{Start: 2, End: 2}, 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0].CompanyName)
}

func TestLoad_MissingRequiredColumnReturnsError(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Phone", "Notes"},
		{"+1", "x"},
	})

	_, err := Load(path, "", Range{Start: 1, OpenEnded: true}, 5)
	assert.Error(t, err)
}
