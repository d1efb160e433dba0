// Package inputtable implements C0: loading the input table from an Excel
// workbook per spec.md section 6, including column aliasing, the
// RowProcessingRange forms, and the consecutive-empty-rows stop heuristic
// for open-ended ranges.
package inputtable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fennelsoft/contactscout/internal/models"
)

// columnAliases maps a canonical column name to every header spelling
// accepted for it, matched case-insensitively with surrounding whitespace
// trimmed.
var columnAliases = map[string][]string{
	"CompanyName":        {"companyname", "company name", "company", "business name"},
	"GivenURL":           {"givenurl", "given url", "url", "website"},
	"GivenPhoneNumber":   {"givenphonenumber", "given phone number", "phone", "phone number"},
	"Description":        {"description", "notes"},
	"TargetCountryCodes": {"targetcountrycodes", "target country codes", "country codes", "countries"},
}

// Range is a parsed RowProcessingRange. A zero Start means "from the
// first data row"; OpenEnded means no End was given and the empty-row
// heuristic governs when reading stops.
type Range struct {
	Start     int
	End       int
	OpenEnded bool
}

// ParseRange parses the four RowProcessingRange forms: "a-b", "a-", "-b",
// "a", and the empty string (equivalent to "1-" with the heuristic
// governing the stop point).
func ParseRange(spec string) (Range, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Range{Start: 1, OpenEnded: true}, nil
	}

	if !strings.Contains(spec, "-") {
		n, err := strconv.Atoi(spec)
		if err != nil {
			return Range{}, fmt.Errorf("invalid row processing range %q: %w", spec, err)
		}
		return Range{Start: n, End: n}, nil
	}

	parts := strings.SplitN(spec, "-", 2)
	startStr, endStr := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	switch {
	case startStr == "" && endStr == "":
		return Range{}, fmt.Errorf("invalid row processing range %q", spec)
	case startStr == "":
		end, err := strconv.Atoi(endStr)
		if err != nil {
			return Range{}, fmt.Errorf("invalid row processing range %q: %w", spec, err)
		}
		return Range{Start: 1, End: end}, nil
	case endStr == "":
		start, err := strconv.Atoi(startStr)
		if err != nil {
			return Range{}, fmt.Errorf("invalid row processing range %q: %w", spec, err)
		}
		return Range{Start: start, OpenEnded: true}, nil
	default:
		start, err := strconv.Atoi(startStr)
		if err != nil {
			return Range{}, fmt.Errorf("invalid row processing range %q: %w", spec, err)
		}
		end, err := strconv.Atoi(endStr)
		if err != nil {
			return Range{}, fmt.Errorf("invalid row processing range %q: %w", spec, err)
		}
		return Range{Start: start, End: end}, nil
	}
}

func (r Range) includes(row int) bool {
	if row < r.Start {
		return false
	}
	if r.OpenEnded {
		return true
	}
	return row <= r.End
}

// Load reads the input table from an xlsx file. sheetName selects the
// worksheet to read ("" uses the workbook's first sheet), rowRange
// restricts which 1-indexed data rows are returned, and
// consecutiveEmptyRowsToStop bounds how many blank rows an open-ended
// range tolerates before reading stops.
func Load(path string, sheetName string, rowRange Range, consecutiveEmptyRowsToStop int) ([]models.InputRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open input workbook %s: %w", path, err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	colIdx, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var result []models.InputRow
	emptyStreak := 0

	for i := 1; i < len(rows); i++ {
		rowNumber := i // data row 1 is spreadsheet row 2, but input rows are numbered from 1 over data rows
		if !rowRange.OpenEnded && rowNumber > rowRange.End {
			break
		}
		if !rowRange.includes(rowNumber) {
			continue
		}

		cells := rows[i]
		if rowIsBlank(cells) {
			emptyStreak++
			if rowRange.OpenEnded && consecutiveEmptyRowsToStop > 0 && emptyStreak >= consecutiveEmptyRowsToStop {
				break
			}
			continue
		}
		emptyStreak = 0

		result = append(result, models.InputRow{
			Identifier:         rowNumber,
			CompanyName:        cellAt(cells, colIdx["CompanyName"]),
			GivenURL:           cellAt(cells, colIdx["GivenURL"]),
			GivenPhoneNumber:   cellAt(cells, colIdx["GivenPhoneNumber"]),
			Description:        cellAt(cells, colIdx["Description"]),
			TargetCountryCodes: splitCountryCodes(cellAt(cells, colIdx["TargetCountryCodes"])),
		})
	}

	return result, nil
}

func resolveColumns(header []string) (map[string]int, error) {
	idx := map[string]int{
		"CompanyName":        -1,
		"GivenURL":           -1,
		"GivenPhoneNumber":   -1,
		"Description":        -1,
		"TargetCountryCodes": -1,
	}

	for col, raw := range header {
		normalized := strings.ToLower(strings.TrimSpace(raw))
		for canonical, aliases := range columnAliases {
			for _, alias := range aliases {
				if normalized == alias {
					idx[canonical] = col
				}
			}
		}
	}

	if idx["CompanyName"] == -1 {
		return nil, fmt.Errorf("input table missing required CompanyName column")
	}
	if idx["GivenURL"] == -1 {
		return nil, fmt.Errorf("input table missing required GivenURL column")
	}

	return idx, nil
}

func cellAt(cells []string, col int) string {
	if col < 0 || col >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col])
}

func rowIsBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func splitCountryCodes(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	var codes []string
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}
