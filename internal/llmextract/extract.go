// Package llmextract implements C7: turning regex-extracted phone
// candidates into classified PhoneNumberLLMOutput items via chunked LLM
// calls, with strict per-item identity enforcement and targeted
// mismatch retry per spec.md section 4.7.
package llmextract

import (
	"context"
	"fmt"
	"strings"

	"github.com/fennelsoft/contactscout/internal/interfaces"
	"github.com/fennelsoft/contactscout/internal/models"
)

const promptTemplate = `You are extracting business phone contacts from scraped web page snippets.
For each input item, return exactly one output object, in the same order, with fields:
{"number": "<the number field copied verbatim from the input>", "type": "<one of Main Line, Sales, Customer Service, Support, Info-Hotline, Fax, Mobile, Date, ID, Non-Priority-Country Contact, Unknown>", "classification": "<one of Primary, Secondary, Support, Low-Relevance, Non-Business>"}.
Return a JSON list of exactly %d objects and nothing else.

Input items:
%s`

// Config bundles the C7 tunables from common.LLMConfig.
type Config struct {
	ChunkSize             int
	MaxChunksPerDomain    int
	MaxRetriesOnMismatch  int
	Temperature           float64
	MaxTokens             int
}

// Result is the outcome of extracting over every chunk for one base
// canonical domain.
type Result struct {
	Outputs                []models.PhoneNumberLLMOutput
	LLMErrorEncounteredAll  bool
	ErrorMessages           []string
	Usage                   interfaces.TokenUsage
	ChunksAttempted         int
}

// Extract runs the full chunking/call/retry/substitution protocol over
// candidates for one base canonical domain.
func Extract(ctx context.Context, candidates []models.PhoneCandidateItem, client interfaces.LlmClient, cfg Config) Result {
	chunks := partition(candidates, cfg.ChunkSize)
	if len(chunks) > cfg.MaxChunksPerDomain {
		chunks = chunks[:cfg.MaxChunksPerDomain]
	}

	result := Result{}
	allErrored := len(chunks) > 0

	for _, chunk := range chunks {
		outputs, chunkErrored, errMsg, usage := processChunk(ctx, chunk, client, cfg)
		result.Outputs = append(result.Outputs, outputs...)
		result.Usage.PromptTokens += usage.PromptTokens
		result.Usage.CompletionTokens += usage.CompletionTokens
		result.Usage.TotalTokens += usage.TotalTokens
		result.ChunksAttempted++
		if errMsg != "" {
			result.ErrorMessages = append(result.ErrorMessages, errMsg)
		}
		if !chunkErrored {
			allErrored = false
		}
	}

	result.LLMErrorEncounteredAll = allErrored
	return result
}

// processChunk calls the model once, enforces identity, retries
// mismatches up to cfg.MaxRetriesOnMismatch times, and substitutes error
// items for whatever remains mismatched. chunkErrored is true only when
// the first call for the chunk fails outright (a transport error or an
// unparseable response), not for per-item or length mismatches.
func processChunk(ctx context.Context, chunk []models.PhoneCandidateItem, client interfaces.LlmClient, cfg Config) (outputs []models.PhoneNumberLLMOutput, chunkErrored bool, errMsg string, usage interfaces.TokenUsage) {
	matched := make([]*models.PhoneNumberLLMOutput, len(chunk))

	type pendingItem struct {
		chunkIndex int
		candidate  models.PhoneCandidateItem
	}
	pending := make([]pendingItem, len(chunk))
	for i, c := range chunk {
		pending[i] = pendingItem{chunkIndex: i, candidate: c}
	}

	for attempt := 0; attempt <= cfg.MaxRetriesOnMismatch && len(pending) > 0; attempt++ {
		candidatesOnly := make([]models.PhoneCandidateItem, len(pending))
		for i, p := range pending {
			candidatesOnly[i] = p.candidate
		}

		items, callUsage, err := callModel(ctx, candidatesOnly, client, cfg)
		usage.PromptTokens += callUsage.PromptTokens
		usage.CompletionTokens += callUsage.CompletionTokens
		usage.TotalTokens += callUsage.TotalTokens

		if err != nil {
			if attempt == 0 {
				chunkErrored = true
				errMsg = err.Error()
			}
			break
		}

		if len(items) != len(pending) {
			if attempt == 0 {
				errMsg = fmt.Sprintf("LLM returned %d items for %d candidates", len(items), len(pending))
			}
			if attempt == cfg.MaxRetriesOnMismatch {
				break
			}
			continue
		}

		var stillPending []pendingItem
		for i, item := range items {
			p := pending[i]
			if normalizeDigitsLoose(item.Number) != normalizeDigitsLoose(p.candidate.ExtractedNumberString) {
				stillPending = append(stillPending, p)
				continue
			}
			matched[p.chunkIndex] = &models.PhoneNumberLLMOutput{
				NumberAsReturned:         item.Number,
				Type:                     item.Type,
				Classification:           item.Classification,
				SourcePathfulURL:         p.candidate.SourcePathfulURL,
				OriginalInputCompanyName: p.candidate.OriginalInputCompanyName,
			}
		}
		pending = stillPending
	}

	for i, candidate := range chunk {
		if matched[i] != nil {
			outputs = append(outputs, *matched[i])
			continue
		}
		outputs = append(outputs, models.PhoneNumberLLMOutput{
			NumberAsReturned:         candidate.ExtractedNumberString,
			Type:                     "Error_PersistentMismatch",
			Classification:           "Non-Business",
			SourcePathfulURL:         candidate.SourcePathfulURL,
			OriginalInputCompanyName: candidate.OriginalInputCompanyName,
		})
	}

	return outputs, chunkErrored, errMsg, usage
}

func callModel(ctx context.Context, candidates []models.PhoneCandidateItem, client interfaces.LlmClient, cfg Config) ([]rawLLMItem, interfaces.TokenUsage, error) {
	prompt := renderPrompt(candidates)
	text, usage, err := client.Complete(ctx, prompt, cfg.Temperature, cfg.MaxTokens)
	if err != nil {
		return nil, usage, err
	}
	items, err := parseChunkResponse(text)
	return items, usage, err
}

func renderPrompt(candidates []models.PhoneCandidateItem) string {
	var b strings.Builder
	b.WriteString("[\n")
	for i, c := range candidates {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, `  {"number": %q, "context": %q}`, c.ExtractedNumberString, c.ContextSnippet)
	}
	b.WriteString("\n]")
	return fmt.Sprintf(promptTemplate, len(candidates), b.String())
}

func partition(candidates []models.PhoneCandidateItem, size int) [][]models.PhoneCandidateItem {
	if size <= 0 {
		size = len(candidates)
	}
	var chunks [][]models.PhoneCandidateItem
	for i := 0; i < len(candidates); i += size {
		end := i + size
		if end > len(candidates) {
			end = len(candidates)
		}
		chunks = append(chunks, candidates[i:end])
	}
	return chunks
}

func normalizeDigitsLoose(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
