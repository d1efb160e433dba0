// Package interfaces declares the narrow capability interfaces that
// stand between the orchestrator and its external collaborators (the
// browser engine, the language model, the report files), per spec.md
// section 9: "the scraper, LLM client, and report writer are behind
// narrow capability interfaces".
package interfaces

import (
	"context"

	"github.com/fennelsoft/contactscout/internal/models"
)

// FetchTimeouts bundles the three independently enforced timeouts for a
// single fetch attempt.
type FetchTimeouts struct {
	PageTimeoutMs        int
	NavigationTimeoutMs  int
	NetworkIdleTimeoutMs int
}

// FetchResult is the tagged result of one Fetcher.Fetch call.
type FetchResult struct {
	FinalLandedURL string
	HTML           string
	Status         models.ScraperStatus
}

// Fetcher renders a single URL through a headless browser (or an
// equivalent static-HTML path) and reports the landed URL, the HTML and
// a closed status enum. Implementations never panic; every failure mode
// is represented in Status.
type Fetcher interface {
	Fetch(ctx context.Context, url string, userAgent string, timeouts FetchTimeouts) FetchResult
}

// RobotsChecker answers whether a user agent may fetch a path on a host,
// per the cached robots.txt policy for that host.
type RobotsChecker interface {
	Allowed(ctx context.Context, host string, userAgent string, path string) (bool, error)
}

// TokenUsage accumulates prompt/completion/total token counts for one or
// more LLM calls.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// LlmClient issues one chat-style completion call and returns the raw
// text response plus token usage. llm.Dispatcher retries failed calls
// internally; internal/llmextract re-calls only for number mismatches.
type LlmClient interface {
	Complete(ctx context.Context, prompt string, temperature float64, maxTokens int) (text string, usage TokenUsage, err error)
}

// TableWriter emits one row to a tabular output sink (a sheet, a CSV
// file). Implementations buffer internally and flush on Close.
type TableWriter interface {
	WriteRow(row []string) error
	Close() error
}
