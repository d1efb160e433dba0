package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WorkbookData bundles the row sets for the six sheet-backed reports.
type WorkbookData struct {
	PipelineSummary        []PipelineSummaryRow
	AllLLMExtractions      []AllLLMExtractionRow
	FinalContacts          []FinalContactsRow
	FinalProcessedContacts []FinalProcessedContactsRow
	RowAttrition           []RowAttritionRow
	CanonicalDomainSummary []CanonicalDomainSummaryRow
}

var pipelineSummaryHeader = []string{
	"InputRowID", "CompanyName", "GivenURL", "GivenPhoneNumber", "NormalizedGivenPhoneNumber",
	"Description", "CanonicalEntryURL", "ScrapingStatus", "Original_Number_Status",
	"Overall_VerificationStatus", "Top_Number_1", "Top_Type_1", "Top_SourceURL_1",
	"Top_Number_2", "Top_Type_2", "Top_SourceURL_2", "Top_Number_3", "Top_Type_3",
	"Top_SourceURL_3", "Final_Row_Outcome_Reason", "Determined_Fault_Category",
	"TargetCountryCodes", "RunID",
}

var allLLMExtractionsHeader = []string{
	"CompanyName", "Number", "LLM_Type", "LLM_Classification", "LLM_Source_URL",
	"ScrapingStatus", "TargetCountryCodes", "RunID",
}

var finalContactsHeader = []string{
	"CompanyName", "GivenURL", "CanonicalEntryURL", "ScrapingStatus",
	"PhoneNumber_1", "SourceURL_1", "PhoneNumber_2", "SourceURL_2", "PhoneNumber_3", "SourceURL_3",
}

var finalProcessedContactsHeader = []string{
	"Company Name", "URL", "Number", "Number Type", "Number Found At",
}

var rowAttritionHeader = []string{
	"InputRowID", "CompanyName", "GivenURL", "Derived_Input_CanonicalURL",
	"Final_Processed_Canonical_Domain", "Link_To_Canonical_Domain_Outcome",
	"Final_Row_Outcome_Reason", "Determined_Fault_Category", "Relevant_Canonical_URLs",
	"LLM_Error_Detail_Summary", "Input_CompanyName_Total_Count", "Input_CanonicalURL_Total_Count",
	"Is_Input_CompanyName_Duplicate", "Is_Input_CanonicalURL_Duplicate",
	"Is_Input_Row_Considered_Duplicate", "Timestamp_Of_Determination",
}

var canonicalDomainSummaryHeader = []string{
	"Canonical_Domain", "Input_Row_IDs", "Input_CompanyNames", "Input_GivenURLs",
	"Pathful_URLs_Attempted_List", "Overall_Scraper_Status_For_Domain",
	"Total_Pages_Scraped_For_Domain", "Scraped_Pages_Details_Aggregated",
	"Regex_Candidates_Found_For_Any_Pathful", "LLM_Calls_Made_For_Domain",
	"LLM_Total_Raw_Numbers_Extracted", "LLM_Total_Consolidated_Numbers_Found",
	"LLM_Consolidated_Number_Types_Summary", "LLM_Processing_Error_Encountered_For_Domain",
	"LLM_Error_Messages_Aggregated", "Final_Domain_Outcome_Reason",
	"Primary_Fault_Category_For_Domain",
}

// WriteWorkbook builds the single xlsx file holding all six sheet-backed
// reports and saves it to path.
func WriteWorkbook(path string, data WorkbookData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, "Pipeline_Summary_Report", pipelineSummaryHeader, pipelineSummaryRows(data.PipelineSummary)); err != nil {
		return err
	}
	if err := writeSheet(f, "All_LLM_Extractions_Report", allLLMExtractionsHeader, allLLMExtractionRows(data.AllLLMExtractions)); err != nil {
		return err
	}
	if err := writeSheet(f, "Final_Contacts_Report", finalContactsHeader, finalContactsRows(data.FinalContacts)); err != nil {
		return err
	}
	if err := writeSheet(f, "Final_Processed_Contacts_Report", finalProcessedContactsHeader, finalProcessedContactsRows(data.FinalProcessedContacts)); err != nil {
		return err
	}
	if err := writeSheet(f, "Row_Attrition_Report", rowAttritionHeader, rowAttritionRows(data.RowAttrition)); err != nil {
		return err
	}
	if err := writeSheet(f, "Canonical_Domain_Processing_Summary", canonicalDomainSummaryHeader, canonicalDomainSummaryRows(data.CanonicalDomainSummary)); err != nil {
		return err
	}

	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, header []string, rows [][]interface{}) error {
	idx, err := f.NewSheet(name)
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	if name == "Pipeline_Summary_Report" {
		f.SetActiveSheet(idx)
	}
	return nil
}

func pipelineSummaryRows(rows []PipelineSummaryRow) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		out[i] = []interface{}{
			r.InputRowID, r.CompanyName, r.GivenURL, r.GivenPhoneNumber, r.NormalizedGivenPhoneNumber,
			r.Description, r.CanonicalEntryURL, r.ScrapingStatus, r.OriginalNumberStatus,
			r.OverallVerificationStatus, r.TopNumber1, r.TopType1, r.TopSourceURL1,
			r.TopNumber2, r.TopType2, r.TopSourceURL2, r.TopNumber3, r.TopType3,
			r.TopSourceURL3, r.FinalRowOutcomeReason, r.DeterminedFaultCategory,
			r.TargetCountryCodes, r.RunID,
		}
	}
	return out
}

func allLLMExtractionRows(rows []AllLLMExtractionRow) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		out[i] = []interface{}{r.CompanyName, r.Number, r.LLMType, r.LLMClassification, r.LLMSourceURL, r.ScrapingStatus, r.TargetCountryCodes, r.RunID}
	}
	return out
}

func finalContactsRows(rows []FinalContactsRow) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		out[i] = []interface{}{
			r.CompanyName, r.GivenURL, r.CanonicalEntryURL, r.ScrapingStatus,
			r.PhoneNumber1, r.SourceURL1, r.PhoneNumber2, r.SourceURL2, r.PhoneNumber3, r.SourceURL3,
		}
	}
	return out
}

func finalProcessedContactsRows(rows []FinalProcessedContactsRow) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		out[i] = []interface{}{r.CompanyName, r.URL, r.Number, r.NumberType, r.NumberFoundAt}
	}
	return out
}

func rowAttritionRows(rows []RowAttritionRow) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		out[i] = []interface{}{
			r.InputRowID, r.CompanyName, r.GivenURL, r.DerivedInputCanonicalURL,
			r.FinalProcessedCanonicalDomain, r.LinkToCanonicalDomainOutcome,
			r.FinalRowOutcomeReason, r.DeterminedFaultCategory, r.RelevantCanonicalURLs,
			r.LLMErrorDetailSummary, r.InputCompanyNameTotalCount, r.InputCanonicalURLTotalCount,
			r.IsInputCompanyNameDuplicate, r.IsInputCanonicalURLDuplicate,
			r.IsInputRowConsideredDuplicate, r.TimestampOfDetermination,
		}
	}
	return out
}

func canonicalDomainSummaryRows(rows []CanonicalDomainSummaryRow) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, r := range rows {
		out[i] = []interface{}{
			r.CanonicalDomain, r.InputRowIDs, r.InputCompanyNames, r.InputGivenURLs,
			r.PathfulURLsAttemptedList, r.OverallScraperStatusForDomain,
			r.TotalPagesScrapedForDomain, r.ScrapedPagesDetailsAggregated,
			r.RegexCandidatesFoundForAnyPathful, r.LLMCallsMadeForDomain,
			r.LLMTotalRawNumbersExtracted, r.LLMTotalConsolidatedNumbersFound,
			r.LLMConsolidatedNumberTypesSummary, r.LLMProcessingErrorEncounteredForDomain,
			r.LLMErrorMessagesAggregated, r.FinalDomainOutcomeReason, r.PrimaryFaultCategoryForDomain,
		}
	}
	return out
}
