package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fennelsoft/contactscout/internal/models"
)

func TestUniqueBaseDomains_DedupsAndSortsSuccessfulDeterminations(t *testing.T) {
	mappings := map[int]models.CanonicalMapping{
		1: {BaseCanonical: "https://b.com", Determination: models.DeterminationOK},
		2: {BaseCanonical: "https://a.com", Determination: models.DeterminationOK},
		3: {BaseCanonical: "https://b.com", Determination: models.DeterminationOK},
		4: {Determination: models.DeterminationInvalidURL},
	}

	domains := uniqueBaseDomains(mappings)
	assert.Equal(t, []string{"https://a.com", "https://b.com"}, domains)
}

func TestTopEligible_SkipsIneligibleTypesAndCapsAtThree(t *testing.T) {
	numbers := []models.ConsolidatedNumber{
		{NormalizedE164Number: "+1", Sources: []models.ConsolidatedSource{{Type: "Fax", SourcePathfulURL: "u1"}}},
		{NormalizedE164Number: "+2", Sources: []models.ConsolidatedSource{{Type: "Main Line", SourcePathfulURL: "u2"}}},
		{NormalizedE164Number: "+3", Sources: []models.ConsolidatedSource{{Type: "Sales", SourcePathfulURL: "u3"}}},
		{NormalizedE164Number: "+4", Sources: []models.ConsolidatedSource{{Type: "Support", SourcePathfulURL: "u4"}}},
		{NormalizedE164Number: "+5", Sources: []models.ConsolidatedSource{{Type: "Info-Hotline", SourcePathfulURL: "u5"}}},
	}

	top := topEligible(numbers)
	assert.Len(t, top, 3)
	assert.Equal(t, "+2", top[0].NormalizedE164Number)
	assert.Equal(t, "+3", top[1].NormalizedE164Number)
	assert.Equal(t, "+4", top[2].NormalizedE164Number)
}

func TestFormatContactCell_AggregatesDistinctTypesAndCompaniesSorted(t *testing.T) {
	n := models.ConsolidatedNumber{
		NormalizedE164Number: "+493012345678",
		Sources: []models.ConsolidatedSource{
			{Type: "Sales", OriginalInputCompanyName: "Beta"},
			{Type: "Main Line", OriginalInputCompanyName: "Alpha"},
			{Type: "Sales", OriginalInputCompanyName: "Alpha"},
		},
	}
	assert.Equal(t, "+493012345678 (Main Line,Sales) [Alpha,Beta]", formatContactCell(n))
}

func TestDomainLabel_StripsSchemeWwwAndTLD(t *testing.T) {
	assert.Equal(t, "Example", domainLabel("https://www.example.com"))
	assert.Equal(t, "Acme", domainLabel("http://acme.de/"))
}

func TestBestSourceType_PicksHighestRankedType(t *testing.T) {
	n := models.ConsolidatedNumber{Sources: []models.ConsolidatedSource{
		{Type: "Unknown"},
		{Type: "Main Line"},
		{Type: "Sales"},
	}}
	assert.Equal(t, "Main Line", bestSourceType(n))
}

func TestTotalPages_SumsAllPageTypeCounts(t *testing.T) {
	counts := map[models.PageType]int{models.PageContact: 2, models.PageHomepage: 1}
	assert.Equal(t, 3, totalPages(counts))
}

func TestStatusesOf_FlattensMapValues(t *testing.T) {
	m := map[string]models.ScraperStatus{"a": models.StatusSuccess, "b": models.StatusErrorDNS}
	statuses := statusesOf(m)
	assert.ElementsMatch(t, []models.ScraperStatus{models.StatusSuccess, models.StatusErrorDNS}, statuses)
}
