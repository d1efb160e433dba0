// Package regexextract implements C6: locating phone-like patterns in
// cleaned page text and emitting candidate items with bounded context
// snippets. The pattern set and cleanup helpers are grounded on
// leofalp-aigo's providers/tool/sitedataextractor/patterns.go
// (phonePattern, cleanPhoneNumber), generalized here from the source's
// Italian-centric VAT-false-positive guard to the international forms
// spec.md section 4.6 requires.
package regexextract

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/fennelsoft/contactscout/internal/models"
)

// phonePattern recognizes international and regional phone forms:
// spaced, hyphenated, dotted or parenthesized groups, with an optional
// "+NN" or "00NN" country prefix.
var phonePattern = regexp.MustCompile(`(?:(?:\+|00)\d{1,3}[\s\-.]?)?\(?\d{2,4}\)?[\s\-.]?\d{3,4}[\s\-.]?\d{3,4}`)

// vatLikePattern flags sequences that look like a VAT/tax identifier
// rather than a phone number (a long run of digits immediately preceded
// by a country-code-like letter pair, e.g. "DE123456789").
var vatLikePattern = regexp.MustCompile(`(?i)\b[A-Z]{2}\s?\d{8,12}\b`)

// ReadFileFunc allows tests to substitute the filesystem.
type ReadFileFunc func(path string) ([]byte, error)

// Extractor scans cleaned-text files for phone candidates.
type Extractor struct {
	SnippetChars                int
	MaxIdenticalNumbersPerPage  int
	readFile                    ReadFileFunc
}

func New(snippetChars, maxIdenticalPerPage int) *Extractor {
	return &Extractor{
		SnippetChars:               snippetChars,
		MaxIdenticalNumbersPerPage: maxIdenticalPerPage,
		readFile:                   os.ReadFile,
	}
}

// ExtractFromFile reads cleanedTextPath and returns candidate items in
// page order. A file-read failure surfaces as an error the caller records
// as Regex_Extraction_FileReadError and skips; it is not fatal to the run.
func (e *Extractor) ExtractFromFile(cleanedTextPath, sourcePathfulURL, companyName string, countryHints []string) ([]models.PhoneCandidateItem, error) {
	data, err := e.readFile(cleanedTextPath)
	if err != nil {
		return nil, fmt.Errorf("Regex_Extraction_FileReadError: %w", err)
	}
	return e.ExtractFromText(string(data), sourcePathfulURL, companyName, countryHints), nil
}

// ExtractFromText is the pure extraction step, split out from file IO so
// it can be unit-tested without touching the filesystem.
func (e *Extractor) ExtractFromText(text, sourcePathfulURL, companyName string, countryHints []string) []models.PhoneCandidateItem {
	half := e.SnippetChars / 2
	if half <= 0 {
		half = 150
	}
	maxIdentical := e.MaxIdenticalNumbersPerPage
	if maxIdentical <= 0 {
		maxIdentical = 3
	}

	seenCount := map[string]int{}
	var out []models.PhoneCandidateItem

	matches := phonePattern.FindAllStringIndex(text, -1)
	vatSpans := vatLikePattern.FindAllStringIndex(text, -1)
	for _, m := range matches {
		raw := text[m[0]:m[1]]
		inVAT := false
		for _, v := range vatSpans {
			if m[0] < v[1] && v[0] < m[1] {
				inVAT = true
				break
			}
		}
		if inVAT || isLikelyVATNotPhone(raw) {
			continue
		}
		digits := cleanPhoneNumber(raw)
		if !plausibleLength(digits) {
			continue
		}

		key := digits
		if seenCount[key] >= maxIdentical {
			continue
		}
		seenCount[key]++

		start := m[0] - half
		if start < 0 {
			start = 0
		}
		end := m[1] + half
		if end > len(text) {
			end = len(text)
		}
		snippet := normalizeWhitespace(text[start:end])

		out = append(out, models.PhoneCandidateItem{
			OriginalInputCompanyName: companyName,
			SourcePathfulURL:         sourcePathfulURL,
			ExtractedNumberString:    strings.TrimSpace(raw),
			ContextSnippet:           snippet,
			TargetCountryHints:       countryHints,
		})
	}

	return out
}

// isLikelyVATNotPhone rejects matches that are really a VAT/tax ID,
// grounded on the source's isLikelyVATNotPhone false-positive guard.
func isLikelyVATNotPhone(raw string) bool {
	return vatLikePattern.MatchString(raw)
}

// cleanPhoneNumber strips all non-digit characters while preserving a
// leading "+", matching the source's cleanPhoneNumber exactly.
func cleanPhoneNumber(phone string) string {
	cleaned := strings.TrimSpace(phone)
	if strings.HasPrefix(cleaned, "+") {
		return "+" + regexp.MustCompile(`[^\d]`).ReplaceAllString(cleaned[1:], "")
	}
	return regexp.MustCompile(`[^\d]`).ReplaceAllString(cleaned, "")
}

func plausibleLength(digits string) bool {
	n := len(strings.TrimPrefix(digits, "+"))
	return n >= 7 && n <= 15
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
