// Package report implements C11: writing the eight output documents
// enumerated in spec.md section 6 under {OutputBaseDir}/{RunID}/. The
// tabular reports share one xlsx workbook (xuri/excelize/v2), one sheet
// per report, matching the teacher's habit of a single artifact per run;
// Run_Metrics is a markdown document with a JSON companion (SPEC_FULL.md
// section C addition), and Failed_Rows is a standalone CSV.
package report

// PipelineSummaryRow is one row of the Pipeline_Summary_Report sheet.
type PipelineSummaryRow struct {
	InputRowID                 int
	CompanyName                string
	GivenURL                   string
	GivenPhoneNumber           string
	NormalizedGivenPhoneNumber string
	Description                string
	CanonicalEntryURL          string
	ScrapingStatus             string
	OriginalNumberStatus       string
	OverallVerificationStatus  string
	TopNumber1                 string
	TopType1                   string
	TopSourceURL1              string
	TopNumber2                 string
	TopType2                   string
	TopSourceURL2              string
	TopNumber3                 string
	TopType3                   string
	TopSourceURL3              string
	FinalRowOutcomeReason      string
	DeterminedFaultCategory    string
	TargetCountryCodes         string
	RunID                      string
}

// AllLLMExtractionRow is one row of the All_LLM_Extractions_Report sheet,
// one per raw LLM output item per input row that maps to the same base
// canonical.
type AllLLMExtractionRow struct {
	CompanyName        string
	Number             string
	LLMType            string
	LLMClassification  string
	LLMSourceURL       string
	ScrapingStatus     string
	TargetCountryCodes string
	RunID              string
}

// FinalContactsRow is one row of the Final_Contacts_Report sheet, one per
// base canonical domain.
type FinalContactsRow struct {
	CompanyName       string
	GivenURL          string
	CanonicalEntryURL string
	ScrapingStatus    string
	PhoneNumber1      string
	SourceURL1        string
	PhoneNumber2      string
	SourceURL2        string
	PhoneNumber3      string
	SourceURL3        string
}

// FinalProcessedContactsRow is one row of the Final_Processed_Contacts_Report
// sheet, one per eligible consolidated number per base canonical domain.
type FinalProcessedContactsRow struct {
	CompanyName  string
	URL          string
	Number       string
	NumberType   string
	NumberFoundAt string
}

// RowAttritionRow is one row of the Row_Attrition_Report sheet.
type RowAttritionRow struct {
	InputRowID                      int
	CompanyName                     string
	GivenURL                        string
	DerivedInputCanonicalURL        string
	FinalProcessedCanonicalDomain   string
	LinkToCanonicalDomainOutcome    string
	FinalRowOutcomeReason           string
	DeterminedFaultCategory         string
	RelevantCanonicalURLs           string
	LLMErrorDetailSummary           string
	InputCompanyNameTotalCount      int
	InputCanonicalURLTotalCount     int
	IsInputCompanyNameDuplicate     bool
	IsInputCanonicalURLDuplicate    bool
	IsInputRowConsideredDuplicate   bool
	TimestampOfDetermination        string
}

// CanonicalDomainSummaryRow is one row of the
// Canonical_Domain_Processing_Summary sheet.
type CanonicalDomainSummaryRow struct {
	CanonicalDomain                 string
	InputRowIDs                     string
	InputCompanyNames                string
	InputGivenURLs                   string
	PathfulURLsAttemptedList          string
	OverallScraperStatusForDomain     string
	TotalPagesScrapedForDomain         int
	ScrapedPagesDetailsAggregated      string
	RegexCandidatesFoundForAnyPathful bool
	LLMCallsMadeForDomain              bool
	LLMTotalRawNumbersExtracted        int
	LLMTotalConsolidatedNumbersFound   int
	LLMConsolidatedNumberTypesSummary  string
	LLMProcessingErrorEncounteredForDomain bool
	LLMErrorMessagesAggregated         string
	FinalDomainOutcomeReason            string
	PrimaryFaultCategoryForDomain        string
}

// FailedRow is one row of the Failed_Rows CSV.
type FailedRow struct {
	LogTimestamp                  string
	InputRowIdentifier            int
	CompanyName                   string
	GivenURL                      string
	StageOfFailure                string
	ErrorReason                   string
	ErrorDetailsJSON              string
	AssociatedPathfulCanonicalURL string
}

// RunMetrics backs both the markdown Run_Metrics document and its JSON
// companion (SPEC_FULL.md supplement).
type RunMetrics struct {
	RunID                     string
	StartedAt                 string
	FinishedAt                string
	TotalInputRows            int
	RowsByOutcome             map[string]int
	DomainsProcessed          int
	PagesScrapedTotal         int
	PagesScrapedByType        map[string]int
	LLMCallsTotal             int
	PromptTokensTotal         int
	CompletionTokensTotal     int
	TotalTokensTotal          int
	FailuresByStage           map[string]int
	AttritionByFaultCategory  map[string]int
}
