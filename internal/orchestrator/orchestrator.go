// Package orchestrator implements C12: the two-pass driver described in
// spec.md section 4.12. Pass 1 walks the input table once, normalizes
// each row's URL, crawls and extracts per unique base canonical domain,
// and folds the results into a CanonicalDomainJourney. Pass 2 walks the
// input table again and composes the per-row report cells from the
// journeys Pass 1 built. Grounded on the teacher's worker-pool pattern
// (common.SafeGo-wrapped goroutines over a bounded semaphore) rather
// than any single teacher file, since the teacher has no two-pass
// pipeline of its own to imitate directly.
package orchestrator

import (
	"context"
	"fmt"
	"net"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/fennelsoft/contactscout/internal/common"
	"github.com/fennelsoft/contactscout/internal/consolidate"
	"github.com/fennelsoft/contactscout/internal/crawler"
	"github.com/fennelsoft/contactscout/internal/fetch"
	"github.com/fennelsoft/contactscout/internal/htmlclean"
	"github.com/fennelsoft/contactscout/internal/inputtable"
	"github.com/fennelsoft/contactscout/internal/interfaces"
	"github.com/fennelsoft/contactscout/internal/linkscore"
	"github.com/fennelsoft/contactscout/internal/llm"
	"github.com/fennelsoft/contactscout/internal/llmextract"
	"github.com/fennelsoft/contactscout/internal/models"
	"github.com/fennelsoft/contactscout/internal/normalizer"
	"github.com/fennelsoft/contactscout/internal/outcome"
	"github.com/fennelsoft/contactscout/internal/regexextract"
	"github.com/fennelsoft/contactscout/internal/report"
)

// Run executes the full pipeline for one input table and writes every
// report under cfg.Output.BaseDir/runID. It is the single entry point
// cmd/contactscout's main calls.
func Run(ctx context.Context, cfg *common.Config, logger arbor.ILogger, runID string, startedAt time.Time) (report.RunMetrics, error) {
	metrics := report.RunMetrics{
		RunID:                    runID,
		StartedAt:                report.NewRunTimestamp(startedAt),
		TotalInputRows:           0,
		RowsByOutcome:            map[string]int{},
		PagesScrapedByType:       map[string]int{},
		FailuresByStage:         map[string]int{},
		AttritionByFaultCategory: map[string]int{},
	}

	rowRange, err := inputtable.ParseRange(cfg.Input.RowProcessingRange)
	if err != nil {
		return metrics, fmt.Errorf("parse row processing range: %w", err)
	}

	rows, err := inputtable.Load(cfg.Input.ExcelFilePath, "", rowRange, cfg.Input.ConsecutiveEmptyRowsToStop)
	if err != nil {
		return metrics, fmt.Errorf("load input table: %w", err)
	}
	metrics.TotalInputRows = len(rows)

	p := newPipeline(cfg, logger, runID)
	defer p.close()

	mappings := make(map[int]models.CanonicalMapping, len(rows))
	for _, row := range rows {
		mappings[row.Identifier] = p.determineCanonical(ctx, row)
	}

	baseDomains := uniqueBaseDomains(mappings)
	p.crawlAndExtractAll(ctx, rows, mappings, baseDomains)

	var failed []report.FailedRow
	workbook := report.WorkbookData{}

	companyNameCounts := map[string]int{}
	for _, row := range rows {
		companyNameCounts[row.CompanyName]++
	}

	for _, row := range rows {
		p.composeRow(row, mappings[row.Identifier], &workbook, &metrics, &failed, companyNameCounts)
	}
	p.composeDomainSummaries(baseDomains, &workbook)

	for _, j := range p.journeys {
		metrics.PagesScrapedTotal += totalPages(j.PageTypeCounts)
		for pt, c := range j.PageTypeCounts {
			metrics.PagesScrapedByType[string(pt)] += c
		}
		metrics.PromptTokensTotal += j.PromptTokens
		metrics.CompletionTokensTotal += j.CompletionTokens
		metrics.TotalTokensTotal += j.TotalTokens
		if j.LLMCallMade {
			metrics.LLMCallsTotal++
		}
	}
	metrics.DomainsProcessed = len(p.journeys)
	metrics.FinishedAt = report.NewRunTimestamp(time.Now())

	if err := report.WriteAll(cfg.Output.BaseDir, runID, workbook, failed, metrics); err != nil {
		return metrics, fmt.Errorf("write reports: %w", err)
	}
	return metrics, nil
}

// pipeline bundles every collaborator and the shared Pass-1 state
// (journeys, guarded by journeysMu since worker goroutines write to
// different keys concurrently but Go maps are not safe for concurrent
// writes regardless).
type pipeline struct {
	cfg    *common.Config
	logger arbor.ILogger
	runID  string

	normalizer *normalizer.Normalizer
	robots     *fetch.RobotsCache
	fetcher    interfaces.Fetcher
	scorer     *linkscore.Scorer
	cleaner    *htmlclean.Writer
	regex      *regexextract.Extractor
	llmClient  interfaces.LlmClient

	journeysMu sync.Mutex
	journeys   map[string]*models.CanonicalDomainJourney

	rawOutputsMu sync.Mutex
	rawOutputs   map[string][]models.PhoneNumberLLMOutput
}

func newPipeline(cfg *common.Config, logger arbor.ILogger, runID string) *pipeline {
	resolver := &net.Resolver{}
	norm := normalizer.New(resolver, cfg.Crawler.URLProbingTlds, logger)

	var robots *fetch.RobotsCache
	if cfg.Scraper.RespectRobotsTxt {
		robots = fetch.NewRobotsCache(nil)
	}

	base := fetch.NewTwoTierFetcher(robots, cfg.Scraper.UserAgent)
	retrying := fetch.NewRetryingFetcher(base, cfg.Scraper.MaxRetries, cfg.Scraper.RetryDelaySeconds, logger)

	scorer := linkscore.New(linkscore.Rules{
		TargetKeywords:           cfg.Scraper.TargetLinkKeywords,
		CriticalPriorityKeywords: cfg.Scraper.CriticalPriorityKeywords,
		HighPriorityKeywords:     cfg.Scraper.HighPriorityKeywords,
		MaxKeywordPathSegments:   cfg.Scraper.MaxKeywordPathSegments,
		ExcludePathPatterns:      cfg.Scraper.ExcludeLinkPathPatterns,
	})

	cleanDir := filepath.Join(cfg.Output.BaseDir, runID, "cleaned_text")
	cleaner, err := htmlclean.New(cleanDir)
	if err != nil && logger != nil {
		logger.Warn().Str("dir", cleanDir).Err(err).Msg("cleaned text directory unavailable; pages will be extracted without persisted text")
	}

	return &pipeline{
		cfg:        cfg,
		logger:     logger,
		runID:      runID,
		normalizer: norm,
		robots:     robots,
		fetcher:    retrying,
		scorer:     scorer,
		cleaner:    cleaner,
		regex:      regexextract.New(cfg.Scraper.SnippetChars, cfg.LLM.MaxIdenticalNumbersPerPage),
		llmClient:  llm.NewDispatcher(&cfg.LLM, logger),
		journeys:   map[string]*models.CanonicalDomainJourney{},
		rawOutputs: map[string][]models.PhoneNumberLLMOutput{},
	}
}

func (p *pipeline) close() {}

func (p *pipeline) determineCanonical(ctx context.Context, row models.InputRow) models.CanonicalMapping {
	result := p.normalizer.Normalize(ctx, row.GivenURL)
	if result.Invalid {
		det := models.DeterminationInvalidURL
		switch result.InvalidReason {
		case "UnsupportedScheme":
			det = models.DeterminationUnsupportedScheme
		case "EmptyAfterCleaning":
			det = models.DeterminationEmptyAfterCleaning
		}
		return models.CanonicalMapping{Determination: det}
	}
	return models.CanonicalMapping{
		InitialPathfulCanonical: result.PathfulCanonical,
		BaseCanonical:           result.BaseCanonical,
		Determination:           models.DeterminationOK,
	}
}

func uniqueBaseDomains(mappings map[int]models.CanonicalMapping) []string {
	seen := map[string]bool{}
	var domains []string
	for _, m := range mappings {
		if m.Determination != models.DeterminationOK || seen[m.BaseCanonical] {
			continue
		}
		seen[m.BaseCanonical] = true
		domains = append(domains, m.BaseCanonical)
	}
	sort.Strings(domains)
	return domains
}

// crawlAndExtractAll runs Pass 1's per-domain work: crawl, regex extract,
// LLM extract, consolidate, each base canonical domain processed by at
// most cfg.Crawler.MaxConcurrentDomains concurrent workers, fetches
// within one domain are sequential (crawler.Site.Crawl's own loop).
func (p *pipeline) crawlAndExtractAll(ctx context.Context, rows []models.InputRow, mappings map[int]models.CanonicalMapping, baseDomains []string) {
	seedByBase := map[string]string{}
	for _, row := range rows {
		m := mappings[row.Identifier]
		if m.Determination != models.DeterminationOK {
			continue
		}
		if _, ok := seedByBase[m.BaseCanonical]; !ok {
			seedByBase[m.BaseCanonical] = m.InitialPathfulCanonical
		}
	}

	for _, row := range rows {
		m := mappings[row.Identifier]
		if m.Determination != models.DeterminationOK {
			continue
		}
		j := p.journeyFor(m.BaseCanonical)
		p.journeysMu.Lock()
		j.InputRowIDs[row.Identifier] = true
		j.InputCompanyNames[row.CompanyName] = true
		j.InputGivenURLs[row.GivenURL] = true
		p.journeysMu.Unlock()
	}

	maxConcurrent := p.cfg.Crawler.MaxConcurrentDomains
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for _, base := range baseDomains {
		seed := seedByBase[base]
		wg.Add(1)
		sem <- struct{}{}
		common.SafeGo(p.logger, "crawl-domain", func() {
			defer wg.Done()
			defer func() { <-sem }()
			p.processDomain(ctx, base, seed)
		})
	}
	wg.Wait()
}

func (p *pipeline) journeyFor(base string) *models.CanonicalDomainJourney {
	p.journeysMu.Lock()
	defer p.journeysMu.Unlock()
	j, ok := p.journeys[base]
	if !ok {
		j = models.NewCanonicalDomainJourney(base)
		p.journeys[base] = j
	}
	return j
}

func (p *pipeline) processDomain(ctx context.Context, base string, seed string) {
	limits := crawler.Limits{
		MaxPagesPerDomain:              p.cfg.Scraper.MaxPagesPerDomain,
		ScoreThresholdForLimitBypass:   p.cfg.Scraper.ScoreThresholdForLimitBypass,
		MaxHighPriorityPagesAfterLimit: p.cfg.Scraper.MaxHighPriorityPagesAfterLimit,
		MaxDepthInternalLinks:          p.cfg.Crawler.MaxDepthInternalLinks,
		MinScoreToQueue:                p.cfg.Scraper.MinScoreToQueue,
		EnableDNSErrorFallbacks:        p.cfg.Crawler.EnableDNSErrorFallbacks,
	}
	timeouts := interfaces.FetchTimeouts{
		PageTimeoutMs:        p.cfg.Scraper.PageTimeoutMs,
		NavigationTimeoutMs:  p.cfg.Scraper.NavigationTimeoutMs,
		NetworkIdleTimeoutMs: p.cfg.Scraper.NetworkIdleTimeoutMs,
	}

	site := crawler.NewSite(p.fetcher, p.scorer, timeouts, p.cfg.Scraper.UserAgent, limits, p.logger)
	if p.cleaner != nil {
		site.SetTextCleaner(p.cleaner)
	}

	result := site.Crawl(ctx, seed)

	j := p.journeyFor(base)

	p.journeysMu.Lock()
	for url, status := range result.PathfulStatuses {
		j.PathfulStatuses[url] = status
	}
	for _, page := range result.Pages {
		j.PageTypeCounts[page.PageType]++
	}
	p.journeysMu.Unlock()

	companyName := ""
	p.journeysMu.Lock()
	names := make([]string, 0, len(j.InputCompanyNames))
	for name := range j.InputCompanyNames {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		companyName = names[0]
	}
	countryHints := p.cfg.Consolidation.TargetCountryCodes
	p.journeysMu.Unlock()

	var domainCandidates []models.PhoneCandidateItem
	for _, page := range result.Pages {
		if page.CleanedTextLocation == "" {
			continue
		}
		items, err := p.regex.ExtractFromFile(page.CleanedTextLocation, page.SourcePathfulURL, companyName, countryHints)
		if err != nil {
			if p.logger != nil {
				p.logger.Warn().Str("url", page.SourcePathfulURL).Err(err).Msg("regex extraction failed")
			}
			continue
		}
		domainCandidates = append(domainCandidates, items...)
	}

	p.journeysMu.Lock()
	j.RegexFoundAnyCandidate = len(domainCandidates) > 0
	p.journeysMu.Unlock()

	if len(domainCandidates) == 0 {
		return
	}

	llmResult := llmextract.Extract(ctx, domainCandidates, p.llmClient, llmextract.Config{
		ChunkSize:            p.cfg.LLM.CandidateChunkSize,
		MaxChunksPerDomain:   p.cfg.LLM.MaxChunksPerURL,
		MaxRetriesOnMismatch: p.cfg.LLM.MaxRetriesOnNumberMismatch,
		Temperature:          p.cfg.LLM.Temperature,
		MaxTokens:            p.cfg.LLM.MaxTokens,
	})

	consolidated := consolidate.Consolidate(llmResult.Outputs, p.cfg.Consolidation.DefaultRegionCode)

	p.journeysMu.Lock()
	j.LLMCallMade = true
	j.LLMErrorEncountered = llmResult.LLMErrorEncounteredAll
	j.LLMErrorMessages = append(j.LLMErrorMessages, llmResult.ErrorMessages...)
	j.RawLLMNumberCount = len(llmResult.Outputs)
	j.PromptTokens += llmResult.Usage.PromptTokens
	j.CompletionTokens += llmResult.Usage.CompletionTokens
	j.TotalTokens += llmResult.Usage.TotalTokens
	j.ConsolidatedNumberCount = len(consolidated.Numbers)
	j.FilteredAllOut = consolidated.FilteredAllOut
	j.ConsolidatedNumbers = consolidated.Numbers
	for _, n := range consolidated.Numbers {
		j.ConsolidatedTypeCounts[bestSourceType(n)]++
	}
	p.journeysMu.Unlock()

	p.rawOutputsMu.Lock()
	p.rawOutputs[base] = append(p.rawOutputs[base], llmResult.Outputs...)
	p.rawOutputsMu.Unlock()
}

func bestSourceType(n models.ConsolidatedNumber) string {
	best := "Unknown"
	bestRank := -1
	for i, s := range n.Sources {
		r := models.TypeRank(s.Type)
		if i == 0 || r < bestRank {
			bestRank = r
			best = s.Type
		}
	}
	return best
}

// composeRow builds one Pipeline_Summary_Report row (and, when the row's
// domain produced eligible numbers, the corresponding report cells) plus
// a Row_Attrition_Report entry for any row that did not end in
// Contact_Successfully_Extracted and a Failed_Rows entry for
// invalid/undetermined rows.
func (p *pipeline) composeRow(row models.InputRow, mapping models.CanonicalMapping, workbook *report.WorkbookData, metrics *report.RunMetrics, failed *[]report.FailedRow, companyNameCounts map[string]int) {
	state := outcome.RowState{}

	switch mapping.Determination {
	case models.DeterminationInvalidURL, models.DeterminationUnsupportedScheme, models.DeterminationEmptyAfterCleaning:
		state.InputInvalid = true
	}

	var j *models.CanonicalDomainJourney
	if mapping.Determination == models.DeterminationOK {
		p.journeysMu.Lock()
		j = p.journeys[mapping.BaseCanonical]
		p.journeysMu.Unlock()
	}
	if j == nil && mapping.Determination == models.DeterminationOK {
		state.NoCanonicalDetermined = true
	}

	var scrapingStatus models.ScraperStatus
	var eligibleCount int
	if j != nil {
		p.journeysMu.Lock()
		statuses := make([]models.ScraperStatus, 0, len(j.PathfulStatuses))
		for _, s := range j.PathfulStatuses {
			statuses = append(statuses, s)
		}
		state.PathfulStatuses = statuses
		state.AnyScrapedPage = len(j.PageTypeCounts) > 0
		for pt, c := range j.PageTypeCounts {
			if models.RelevantPageType(pt) && c > 0 {
				state.AnyRelevantPage = true
			}
		}
		state.RegexFoundAnyCandidate = j.RegexFoundAnyCandidate
		state.LLMErrorEncounteredAllChunks = j.LLMErrorEncountered
		state.RawLLMNumberCount = j.RawLLMNumberCount
		for _, n := range j.ConsolidatedNumbers {
			if !models.IneligibleTypes[bestSourceType(n)] {
				eligibleCount++
			}
		}
		state.ConsolidatedEligibleCount = eligibleCount
		scrapingStatus = models.BestStatus(statuses)
		p.journeysMu.Unlock()
	}

	reason, fault := outcome.ClassifyRow(state)
	metrics.RowsByOutcome[reason]++
	metrics.AttritionByFaultCategory[fault]++

	normalizedPhone, _ := consolidate.ToE164(row.GivenPhoneNumber, row.TargetCountryCodes, p.cfg.Consolidation.DefaultRegionCode)

	pRow := report.PipelineSummaryRow{
		InputRowID:                 row.Identifier,
		CompanyName:                row.CompanyName,
		GivenURL:                   row.GivenURL,
		GivenPhoneNumber:           row.GivenPhoneNumber,
		NormalizedGivenPhoneNumber: normalizedPhone,
		Description:                row.Description,
		CanonicalEntryURL:          mapping.BaseCanonical,
		ScrapingStatus:             string(scrapingStatus),
		FinalRowOutcomeReason:      reason,
		DeterminedFaultCategory:    fault,
		TargetCountryCodes:         strings.Join(row.TargetCountryCodes, ","),
		RunID:                      p.runID,
	}
	if j != nil {
		top := topEligible(j.ConsolidatedNumbers)
		if len(top) > 0 {
			pRow.TopNumber1, pRow.TopType1, pRow.TopSourceURL1 = top[0].NormalizedE164Number, bestSourceType(top[0]), firstSourceURL(top[0])
		}
		if len(top) > 1 {
			pRow.TopNumber2, pRow.TopType2, pRow.TopSourceURL2 = top[1].NormalizedE164Number, bestSourceType(top[1]), firstSourceURL(top[1])
		}
		if len(top) > 2 {
			pRow.TopNumber3, pRow.TopType3, pRow.TopSourceURL3 = top[2].NormalizedE164Number, bestSourceType(top[2]), firstSourceURL(top[2])
		}
	}
	workbook.PipelineSummary = append(workbook.PipelineSummary, pRow)

	if mapping.Determination == models.DeterminationOK {
		p.rawOutputsMu.Lock()
		outputs := p.rawOutputs[mapping.BaseCanonical]
		p.rawOutputsMu.Unlock()
		for _, o := range outputs {
			workbook.AllLLMExtractions = append(workbook.AllLLMExtractions, report.AllLLMExtractionRow{
				CompanyName:        row.CompanyName,
				Number:             o.NumberAsReturned,
				LLMType:            o.Type,
				LLMClassification:  o.Classification,
				LLMSourceURL:       o.SourcePathfulURL,
				ScrapingStatus:     string(scrapingStatus),
				TargetCountryCodes: strings.Join(row.TargetCountryCodes, ","),
				RunID:              p.runID,
			})
		}
	}

	if reason != outcome.ReasonContactSuccessfullyExtracted {
		canonicalURLCount := 1
		domainReason := ""
		llmErrorSummary := ""
		var relevantURLs []string
		if j != nil {
			p.journeysMu.Lock()
			canonicalURLCount = len(j.InputRowIDs)
			domainReason, _ = outcome.ClassifyDomain(buildDomainState(j))
			llmErrorSummary = strings.Join(j.LLMErrorMessages, "; ")
			relevantURLs = sortedPathfulKeys(j.PathfulStatuses)
			p.journeysMu.Unlock()
		}
		companyCount := companyNameCounts[row.CompanyName]

		workbook.RowAttrition = append(workbook.RowAttrition, report.RowAttritionRow{
			InputRowID:                    row.Identifier,
			CompanyName:                   row.CompanyName,
			GivenURL:                      row.GivenURL,
			DerivedInputCanonicalURL:      mapping.InitialPathfulCanonical,
			FinalProcessedCanonicalDomain: mapping.BaseCanonical,
			LinkToCanonicalDomainOutcome:  domainReason,
			FinalRowOutcomeReason:         reason,
			DeterminedFaultCategory:       fault,
			RelevantCanonicalURLs:         strings.Join(relevantURLs, ","),
			LLMErrorDetailSummary:         llmErrorSummary,
			InputCompanyNameTotalCount:    companyCount,
			InputCanonicalURLTotalCount:   canonicalURLCount,
			IsInputCompanyNameDuplicate:   companyCount > 1,
			IsInputCanonicalURLDuplicate:  canonicalURLCount > 1,
			IsInputRowConsideredDuplicate: companyCount > 1 || canonicalURLCount > 1,
			TimestampOfDetermination:      report.NewRunTimestamp(time.Now()),
		})
	}

	if reason == outcome.ReasonInputURLInvalid || reason == outcome.ReasonUnknownNoCanonicalURLDetermined {
		metrics.FailuresByStage["Normalize"]++
		*failed = append(*failed, report.FailedRow{
			InputRowIdentifier: row.Identifier,
			CompanyName:        row.CompanyName,
			GivenURL:           row.GivenURL,
			StageOfFailure:     "Normalize",
			ErrorReason:        reason,
		})
	}
}

// topEligible returns up to the first three consolidated numbers whose
// best-ranked source type is not in models.IneligibleTypes, in the
// order Consolidate already sorted them (classification rank, then type
// rank) — the source of truth for both the Pipeline_Summary_Report
// Top_Number_k cells and the Final_Contacts_Report PhoneNumber_k cells.
func topEligible(numbers []models.ConsolidatedNumber) []models.ConsolidatedNumber {
	var out []models.ConsolidatedNumber
	for _, n := range numbers {
		if models.IneligibleTypes[bestSourceType(n)] {
			continue
		}
		out = append(out, n)
		if len(out) == 3 {
			break
		}
	}
	return out
}

func firstSourceURL(n models.ConsolidatedNumber) string {
	if len(n.Sources) == 0 {
		return ""
	}
	return n.Sources[0].SourcePathfulURL
}

// formatContactCell renders one Final_Contacts_Report PhoneNumber_k cell
// per spec.md section 6 item 3: "{E164} ({TypesCsv}) [{CompaniesCsv}]",
// aggregating the distinct types and sourcing company names across all
// of n's sources rather than just its best-ranked one.
func formatContactCell(n models.ConsolidatedNumber) string {
	typesSeen := map[string]bool{}
	var types []string
	companiesSeen := map[string]bool{}
	var companies []string
	for _, src := range n.Sources {
		if !typesSeen[src.Type] {
			typesSeen[src.Type] = true
			types = append(types, src.Type)
		}
		if src.OriginalInputCompanyName != "" && !companiesSeen[src.OriginalInputCompanyName] {
			companiesSeen[src.OriginalInputCompanyName] = true
			companies = append(companies, src.OriginalInputCompanyName)
		}
	}
	sort.Strings(types)
	sort.Strings(companies)
	return fmt.Sprintf("%s (%s) [%s]", n.NormalizedE164Number, strings.Join(types, ","), strings.Join(companies, ","))
}

// domainLabel derives the "domain label extracted from base canonical"
// Company Name cell for Final_Processed_Contacts_Report: the base
// canonical's host with scheme, leading "www.", and TLD stripped.
func domainLabel(base string) string {
	host := base
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host = strings.TrimSuffix(host, "/")
	host = strings.TrimPrefix(host, "www.")
	if i := strings.Index(host, "."); i >= 0 {
		host = host[:i]
	}
	if host == "" {
		return base
	}
	return strings.ToUpper(host[:1]) + host[1:]
}

func sortedPathfulKeys(m map[string]models.ScraperStatus) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// buildDomainState assembles the outcome.RowState for a domain journey,
// shared by composeRow (for Row_Attrition_Report's
// Link_To_Canonical_Domain_Outcome) and composeDomainSummaries.
func buildDomainState(j *models.CanonicalDomainJourney) outcome.RowState {
	state := outcome.RowState{PathfulStatuses: statusesOf(j.PathfulStatuses)}
	state.AnyScrapedPage = len(j.PageTypeCounts) > 0
	for pt, c := range j.PageTypeCounts {
		if models.RelevantPageType(pt) && c > 0 {
			state.AnyRelevantPage = true
		}
	}
	state.RegexFoundAnyCandidate = j.RegexFoundAnyCandidate
	state.LLMErrorEncounteredAllChunks = j.LLMErrorEncountered
	state.RawLLMNumberCount = j.RawLLMNumberCount
	for _, n := range j.ConsolidatedNumbers {
		if !models.IneligibleTypes[bestSourceType(n)] {
			state.ConsolidatedEligibleCount++
		}
	}
	return state
}

func (p *pipeline) composeDomainSummaries(baseDomains []string, workbook *report.WorkbookData) {
	for _, base := range baseDomains {
		p.journeysMu.Lock()
		j := p.journeys[base]
		p.journeysMu.Unlock()
		if j == nil {
			continue
		}

		reason, fault := outcome.ClassifyDomain(buildDomainState(j))

		var rowIDs []string
		for id := range j.InputRowIDs {
			rowIDs = append(rowIDs, strconv.Itoa(id))
		}
		sort.Strings(rowIDs)
		var companyNames []string
		for name := range j.InputCompanyNames {
			companyNames = append(companyNames, name)
		}
		sort.Strings(companyNames)
		var givenURLs []string
		for url := range j.InputGivenURLs {
			givenURLs = append(givenURLs, url)
		}
		sort.Strings(givenURLs)
		pathfuls := sortedPathfulKeys(j.PathfulStatuses)

		workbook.CanonicalDomainSummary = append(workbook.CanonicalDomainSummary, report.CanonicalDomainSummaryRow{
			CanonicalDomain:                        base,
			InputRowIDs:                             strings.Join(rowIDs, ","),
			InputCompanyNames:                       strings.Join(companyNames, ","),
			InputGivenURLs:                          strings.Join(givenURLs, ","),
			PathfulURLsAttemptedList:                strings.Join(pathfuls, ","),
			OverallScraperStatusForDomain:           string(models.BestStatus(statusesOf(j.PathfulStatuses))),
			TotalPagesScrapedForDomain:              totalPages(j.PageTypeCounts),
			RegexCandidatesFoundForAnyPathful:       j.RegexFoundAnyCandidate,
			LLMCallsMadeForDomain:                   j.LLMCallMade,
			LLMTotalRawNumbersExtracted:             j.RawLLMNumberCount,
			LLMTotalConsolidatedNumbersFound:        j.ConsolidatedNumberCount,
			LLMProcessingErrorEncounteredForDomain:  j.LLMErrorEncountered,
			LLMErrorMessagesAggregated:              strings.Join(j.LLMErrorMessages, "; "),
			FinalDomainOutcomeReason:                reason,
			PrimaryFaultCategoryForDomain:           fault,
		})

		if len(companyNames) > 0 {
			composed := topEligible(j.ConsolidatedNumbers)
			row := report.FinalContactsRow{
				CompanyName:       base + " - " + strings.Join(companyNames, " - "),
				GivenURL:          strings.Join(givenURLs, ", "),
				CanonicalEntryURL: base,
				ScrapingStatus:    string(models.BestStatus(statusesOf(j.PathfulStatuses))),
			}
			if len(composed) > 0 {
				row.PhoneNumber1, row.SourceURL1 = formatContactCell(composed[0]), firstSourceURL(composed[0])
			}
			if len(composed) > 1 {
				row.PhoneNumber2, row.SourceURL2 = formatContactCell(composed[1]), firstSourceURL(composed[1])
			}
			if len(composed) > 2 {
				row.PhoneNumber3, row.SourceURL3 = formatContactCell(composed[2]), firstSourceURL(composed[2])
			}
			workbook.FinalContacts = append(workbook.FinalContacts, row)
		}

		// One row per (base canonical domain, eligible consolidated number)
		// pair, per spec.md section 6 item 4 and P3 — sources are
		// aggregated into the number's best-ranked type, not fanned out.
		for _, n := range j.ConsolidatedNumbers {
			if models.IneligibleTypes[bestSourceType(n)] {
				continue
			}
			workbook.FinalProcessedContacts = append(workbook.FinalProcessedContacts, report.FinalProcessedContactsRow{
				CompanyName:   domainLabel(base),
				URL:           base,
				Number:        n.NormalizedE164Number,
				NumberType:    bestSourceType(n),
				NumberFoundAt: firstSourceURL(n),
			})
		}
	}
}

func statusesOf(m map[string]models.ScraperStatus) []models.ScraperStatus {
	out := make([]models.ScraperStatus, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	return out
}

func totalPages(counts map[models.PageType]int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
