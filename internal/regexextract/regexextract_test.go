package regexextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromText_FindsIntlNumberWithSnippet(t *testing.T) {
	e := New(40, 3)
	text := "Reach our Berlin office at +49 30 12345678 during business hours."
	items := e.ExtractFromText(text, "https://example.com/contact", "ExampleCorp", nil)
	require.Len(t, items, 1)
	assert.Equal(t, "+49 30 12345678", items[0].ExtractedNumberString)
	assert.Contains(t, items[0].ContextSnippet, "Berlin")
}

func TestExtractFromText_DeduplicatesDownToMaxIdentical(t *testing.T) {
	e := New(20, 2)
	text := "+49 30 12345678 ... +49 30 12345678 ... +49 30 12345678"
	items := e.ExtractFromText(text, "https://example.com/contact", "ExampleCorp", nil)
	assert.Len(t, items, 2)
}

func TestExtractFromText_RejectsVATLikeSequence(t *testing.T) {
	e := New(40, 3)
	text := "VAT number DE123456789 registered in Germany."
	items := e.ExtractFromText(text, "https://example.com/imprint", "ExampleCorp", nil)
	assert.Len(t, items, 0)
}

func TestExtractFromFile_ReadErrorSurfacesAsRegexExtractionFileReadError(t *testing.T) {
	e := New(40, 3)
	e.readFile = func(path string) ([]byte, error) {
		return nil, assertFileErr{}
	}
	_, err := e.ExtractFromFile("missing.txt", "https://example.com/", "ExampleCorp", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Regex_Extraction_FileReadError")
}

type assertFileErr struct{}

func (assertFileErr) Error() string { return "no such file" }
