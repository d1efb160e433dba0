// Package outcome implements C10: a pure function from recorded pipeline
// state to the final per-row and per-domain outcome reason and fault
// category, per spec.md section 4.10.
package outcome

import (
	"github.com/fennelsoft/contactscout/internal/models"
)

// RowState bundles every fact the row-outcome decision list in spec.md
// section 4.10 needs, checked in order, first match wins.
type RowState struct {
	InputInvalid               bool
	InputInvalidMaxRedirects    bool
	NoCanonicalDetermined       bool
	DuplicateOfSuccessfulBase   bool
	PathfulStatuses             []models.ScraperStatus
	AnyScrapedPage              bool
	AnyRelevantPage             bool
	RegexFoundAnyCandidate      bool
	LLMErrorEncounteredAllChunks bool
	RawLLMNumberCount           int
	ConsolidatedEligibleCount   int
}

const (
	ReasonInputURLInvalid                          = "Input_URL_Invalid"
	ReasonPipelineSkippedMaxRedirects               = "Pipeline_Skipped_MaxRedirects_ForInputURL"
	ReasonUnknownNoCanonicalURLDetermined           = "Unknown_NoCanonicalURLDetermined"
	ReasonCanonicalDuplicateSkippedProcessing       = "Canonical_Duplicate_SkippedProcessing"
	ReasonScrapingAllAttemptsFailedNetwork          = "Scraping_AllAttemptsFailed_Network"
	ReasonScrapingAllAttemptsFailedAccessDenied     = "Scraping_AllAttemptsFailed_AccessDenied"
	ReasonScrapingContentNotFoundAllAttempts        = "Scraping_ContentNotFound_AllAttempts"
	ReasonScrapingSuccessNoRelevantContentPagesFound = "Scraping_Success_NoRelevantContentPagesFound"
	ReasonCanonicalNoRegexCandidatesFound           = "Canonical_NoRegexCandidatesFound"
	ReasonLLMProcessingErrorAllAttempts             = "LLM_Processing_Error_AllAttempts"
	ReasonLLMOutputNoNumbersFoundAllAttempts        = "LLM_Output_NoNumbersFound_AllAttempts"
	ReasonLLMOutputNumbersFoundNoneRelevantAllAttempts = "LLM_Output_NumbersFound_NoneRelevant_AllAttempts"
	ReasonContactSuccessfullyExtracted              = "Contact_Successfully_Extracted"
	ReasonUnknownProcessingGapNoContact             = "Unknown_Processing_Gap_NoContact"
)

// ClassifyRow implements the 13-step, first-match-wins decision list.
// It is total: every RowState lands on exactly one reason (P9).
func ClassifyRow(s RowState) (reason string, faultCategory string) {
	switch {
	case s.InputInvalidMaxRedirects:
		reason = ReasonPipelineSkippedMaxRedirects
	case s.InputInvalid:
		reason = ReasonInputURLInvalid
	case s.NoCanonicalDetermined:
		reason = ReasonUnknownNoCanonicalURLDetermined
	case s.DuplicateOfSuccessfulBase:
		reason = ReasonCanonicalDuplicateSkippedProcessing
	case allStatusesIn(s.PathfulStatuses, models.NetworkErrorStatuses):
		reason = ReasonScrapingAllAttemptsFailedNetwork
	case allStatusesIn(s.PathfulStatuses, models.AccessDeniedStatuses):
		reason = ReasonScrapingAllAttemptsFailedAccessDenied
	case allStatusesIn(s.PathfulStatuses, models.ContentNotFoundStatuses):
		reason = ReasonScrapingContentNotFoundAllAttempts
	case s.AnyScrapedPage && !s.AnyRelevantPage:
		reason = ReasonScrapingSuccessNoRelevantContentPagesFound
	case !s.RegexFoundAnyCandidate:
		reason = ReasonCanonicalNoRegexCandidatesFound
	case s.LLMErrorEncounteredAllChunks:
		reason = ReasonLLMProcessingErrorAllAttempts
	case s.RawLLMNumberCount == 0:
		reason = ReasonLLMOutputNoNumbersFoundAllAttempts
	case s.RawLLMNumberCount > 0 && s.ConsolidatedEligibleCount == 0:
		reason = ReasonLLMOutputNumbersFoundNoneRelevantAllAttempts
	case s.ConsolidatedEligibleCount >= 1:
		reason = ReasonContactSuccessfullyExtracted
	default:
		reason = ReasonUnknownProcessingGapNoContact
	}
	return reason, faultCategoryFor(reason)
}

func allStatusesIn(statuses []models.ScraperStatus, set map[models.ScraperStatus]bool) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, s := range statuses {
		if !set[s] {
			return false
		}
	}
	return true
}

// domainReasonSuffix maps each row-level reason to its per-domain analog
// per spec.md section 4.10 ("an analogous list with _ForDomain suffixes").
var domainReasonSuffix = map[string]string{
	ReasonInputURLInvalid:                              "Input_URL_Invalid_ForDomain",
	ReasonPipelineSkippedMaxRedirects:                  "Pipeline_Skipped_MaxRedirects_ForDomain",
	ReasonUnknownNoCanonicalURLDetermined:              "Unknown_NoCanonicalURLDetermined_ForDomain",
	ReasonCanonicalDuplicateSkippedProcessing:          "Canonical_Duplicate_SkippedProcessing_ForDomain",
	ReasonScrapingAllAttemptsFailedNetwork:             "Scraping_AllAttemptsFailed_Network_ForDomain",
	ReasonScrapingAllAttemptsFailedAccessDenied:        "Scraping_AllAttemptsFailed_AccessDenied_ForDomain",
	ReasonScrapingContentNotFoundAllAttempts:           "Scraping_ContentNotFound_AllAttempts_ForDomain",
	ReasonScrapingSuccessNoRelevantContentPagesFound:   "Scraping_Success_NoRelevantContentPagesFound_ForDomain",
	ReasonCanonicalNoRegexCandidatesFound:              "Canonical_NoRegexCandidatesFound_ForDomain",
	ReasonLLMProcessingErrorAllAttempts:                "LLM_Processing_Error_AllAttempts_ForDomain",
	ReasonLLMOutputNoNumbersFoundAllAttempts:           "LLM_Output_NoNumbersFound_AllAttempts_ForDomain",
	ReasonLLMOutputNumbersFoundNoneRelevantAllAttempts: "LLM_Output_NumbersFound_NoneRelevant_AllAttempts_ForDomain",
	ReasonContactSuccessfullyExtracted:                 "Contact_Successfully_Extracted_ForDomain",
	ReasonUnknownProcessingGapNoContact:                "Unknown_Processing_Gap_NoContact_ForDomain",
}

// ClassifyDomain runs the same decision list (duplicate-skip never
// applies at the domain level) and returns the _ForDomain-suffixed
// reason plus fault category.
func ClassifyDomain(s RowState) (reason string, faultCategory string) {
	s.DuplicateOfSuccessfulBase = false
	rowReason, fault := ClassifyRow(s)
	if suffixed, ok := domainReasonSuffix[rowReason]; ok {
		return suffixed, fault
	}
	return rowReason + "_ForDomain", fault
}

const (
	FaultInputDataIssue              = "Input Data Issue"
	FaultWebsiteIssue                = "Website Issue"
	FaultPipelineLogicConfiguration  = "Pipeline Logic/Configuration"
	FaultLLMIssue                    = "LLM Issue"
	FaultPipelineError               = "Pipeline Error"
	FaultUnknown                     = "Unknown"
	FaultNA                          = "N/A"
)

func faultCategoryFor(reason string) string {
	switch reason {
	case ReasonInputURLInvalid:
		return FaultInputDataIssue
	case ReasonPipelineSkippedMaxRedirects:
		return FaultWebsiteIssue
	case ReasonUnknownNoCanonicalURLDetermined:
		return FaultInputDataIssue
	case ReasonCanonicalDuplicateSkippedProcessing:
		return FaultNA
	case ReasonScrapingAllAttemptsFailedNetwork, ReasonScrapingAllAttemptsFailedAccessDenied, ReasonScrapingContentNotFoundAllAttempts:
		return FaultWebsiteIssue
	case ReasonScrapingSuccessNoRelevantContentPagesFound:
		return FaultWebsiteIssue
	case ReasonCanonicalNoRegexCandidatesFound:
		return FaultWebsiteIssue
	case ReasonLLMProcessingErrorAllAttempts:
		return FaultLLMIssue
	case ReasonLLMOutputNoNumbersFoundAllAttempts, ReasonLLMOutputNumbersFoundNoneRelevantAllAttempts:
		return FaultLLMIssue
	case ReasonContactSuccessfullyExtracted:
		return FaultNA
	case ReasonUnknownProcessingGapNoContact:
		return FaultUnknown
	default:
		return FaultPipelineError
	}
}
