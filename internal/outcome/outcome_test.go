package outcome

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fennelsoft/contactscout/internal/models"
)

func TestClassifyRow_InputInvalidWins(t *testing.T) {
	reason, fault := ClassifyRow(RowState{InputInvalid: true, ConsolidatedEligibleCount: 5})
	assert.Equal(t, ReasonInputURLInvalid, reason)
	assert.Equal(t, FaultInputDataIssue, fault)
}

func TestClassifyRow_AllNetworkErrors(t *testing.T) {
	reason, _ := ClassifyRow(RowState{
		PathfulStatuses: []models.ScraperStatus{models.StatusErrorDNS, models.StatusErrorNetwork},
	})
	assert.Equal(t, ReasonScrapingAllAttemptsFailedNetwork, reason)
}

func TestClassifyRow_NoRegexCandidates(t *testing.T) {
	reason, _ := ClassifyRow(RowState{
		AnyScrapedPage:         true,
		AnyRelevantPage:        true,
		RegexFoundAnyCandidate: false,
	})
	assert.Equal(t, ReasonCanonicalNoRegexCandidatesFound, reason)
}

func TestClassifyRow_ContactSuccessfullyExtracted(t *testing.T) {
	reason, fault := ClassifyRow(RowState{
		AnyScrapedPage:            true,
		AnyRelevantPage:           true,
		RegexFoundAnyCandidate:    true,
		RawLLMNumberCount:         2,
		ConsolidatedEligibleCount: 1,
	})
	assert.Equal(t, ReasonContactSuccessfullyExtracted, reason)
	assert.Equal(t, FaultNA, fault)
}

func TestClassifyRow_RawNumbersButNoneRelevant(t *testing.T) {
	reason, _ := ClassifyRow(RowState{
		AnyScrapedPage:            true,
		AnyRelevantPage:           true,
		RegexFoundAnyCandidate:    true,
		RawLLMNumberCount:         3,
		ConsolidatedEligibleCount: 0,
	})
	assert.Equal(t, ReasonLLMOutputNumbersFoundNoneRelevantAllAttempts, reason)
}

func TestClassifyRow_IsTotal(t *testing.T) {
	reason, _ := ClassifyRow(RowState{})
	assert.NotEmpty(t, reason)
}

func TestClassifyDomain_AppendsForDomainSuffix(t *testing.T) {
	reason, _ := ClassifyDomain(RowState{InputInvalid: true})
	assert.Equal(t, "Input_URL_Invalid_ForDomain", reason)
}
