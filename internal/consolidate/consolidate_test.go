package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fennelsoft/contactscout/internal/models"
)

func TestConsolidate_DropsIneligibleTypesAndNonBusiness(t *testing.T) {
	outputs := []models.PhoneNumberLLMOutput{
		{NumberAsReturned: "+493012345678", Type: "Fax", Classification: "Primary"},
		{NumberAsReturned: "+493012345679", Type: "Main Line", Classification: "Non-Business"},
		{NumberAsReturned: "+493012345670", Type: "Main Line", Classification: "Primary"},
	}
	res := Consolidate(outputs, "DE")
	require.Len(t, res.Numbers, 1)
	assert.Equal(t, "+493012345670", res.Numbers[0].NormalizedE164Number)
}

func TestConsolidate_DedupesByE164AndMergesSources(t *testing.T) {
	outputs := []models.PhoneNumberLLMOutput{
		{NumberAsReturned: "+49 30 12345678", Type: "Main Line", Classification: "Primary", SourcePathfulURL: "https://a.com/", OriginalInputCompanyName: "A"},
		{NumberAsReturned: "+493012345678", Type: "Sales", Classification: "Secondary", SourcePathfulURL: "https://a.com/contact", OriginalInputCompanyName: "B"},
	}
	res := Consolidate(outputs, "DE")
	require.Len(t, res.Numbers, 1)
	assert.Equal(t, "Primary", res.Numbers[0].BestClassification)
	assert.Len(t, res.Numbers[0].Sources, 2)
}

func TestConsolidate_FilteredAllOutWhenInputNonEmptyButAllDropped(t *testing.T) {
	outputs := []models.PhoneNumberLLMOutput{
		{NumberAsReturned: "+493012345678", Type: "Fax", Classification: "Non-Business"},
	}
	res := Consolidate(outputs, "DE")
	assert.Len(t, res.Numbers, 0)
	assert.True(t, res.FilteredAllOut)
}

func TestConsolidate_AssociativeUnderUnion(t *testing.T) {
	a := []models.PhoneNumberLLMOutput{
		{NumberAsReturned: "+493012345678", Type: "Main Line", Classification: "Primary", SourcePathfulURL: "https://a.com/"},
	}
	b := []models.PhoneNumberLLMOutput{
		{NumberAsReturned: "+493012345679", Type: "Sales", Classification: "Secondary", SourcePathfulURL: "https://a.com/contact"},
	}
	merged := Consolidate(append(append([]models.PhoneNumberLLMOutput{}, a...), b...), "DE")
	direct := Consolidate(a, "DE")
	direct2 := Consolidate(b, "DE")
	assert.Len(t, merged.Numbers, len(direct.Numbers)+len(direct2.Numbers))
}

func TestToE164_UsesCountryHintFallback(t *testing.T) {
	e164, ok := ToE164("030 12345678", nil, "DE")
	require.True(t, ok)
	assert.Equal(t, "+493012345678", e164)
}

func TestToE164_PreservesExplicitPlusPrefix(t *testing.T) {
	e164, ok := ToE164("+1 (555) 123-4567", nil, "US")
	require.True(t, ok)
	assert.Equal(t, "+15551234567", e164)
}

func TestToE164_RejectsImplausibleLength(t *testing.T) {
	_, ok := ToE164("123", nil, "US")
	assert.False(t, ok)
}
