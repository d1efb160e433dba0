package crawler

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/fennelsoft/contactscout/internal/classifier"
	"github.com/fennelsoft/contactscout/internal/interfaces"
	"github.com/fennelsoft/contactscout/internal/linkscore"
	"github.com/fennelsoft/contactscout/internal/models"
	"github.com/fennelsoft/contactscout/internal/normalizer"
)

// Limits bundles the per-site budget knobs from common.ScraperConfig and
// common.CrawlerConfig that the crawl loop needs.
type Limits struct {
	MaxPagesPerDomain              int
	ScoreThresholdForLimitBypass   int
	MaxHighPriorityPagesAfterLimit int
	MaxDepthInternalLinks          int
	MinScoreToQueue                int
	EnableDNSErrorFallbacks        bool
}

// SiteResult is everything one crawl of a single input pathful URL
// produced, for the orchestrator to fold into the domain journey.
type SiteResult struct {
	Pages            []models.ScrapedPage
	PathfulStatuses  map[string]models.ScraperStatus
	OverallStatus    models.ScraperStatus
	SeedRetargetedTo string // non-empty if a DNS fallback retargeted the seed host
}

// TextCleaner persists a fetched page's HTML as cleaned text and returns
// where it landed, for ScrapedPage.CleanedTextLocation. Optional: a Site
// with no cleaner configured leaves CleanedTextLocation empty.
type TextCleaner interface {
	Write(pathfulURL string, html string) (string, error)
}

// Site drives the algorithm of spec.md section 4.4 for one seed URL.
type Site struct {
	fetcher     interfaces.Fetcher
	scorer      *linkscore.Scorer
	timeouts    interfaces.FetchTimeouts
	userAgent   string
	limits      Limits
	logger      arbor.ILogger
	textCleaner TextCleaner
}

func NewSite(fetcher interfaces.Fetcher, scorer *linkscore.Scorer, timeouts interfaces.FetchTimeouts, userAgent string, limits Limits, logger arbor.ILogger) *Site {
	return &Site{fetcher: fetcher, scorer: scorer, timeouts: timeouts, userAgent: userAgent, limits: limits, logger: logger}
}

// SetTextCleaner wires a TextCleaner into the site. Call before Crawl.
func (s *Site) SetTextCleaner(cleaner TextCleaner) {
	s.textCleaner = cleaner
}

// Crawl runs the full per-site loop for seed URL u0, including the
// DNS-error fallback chain for the seed itself.
func (s *Site) Crawl(ctx context.Context, u0 string) SiteResult {
	result := s.crawlSeed(ctx, u0)

	if result.OverallStatus == models.StatusErrorDNS && s.limits.EnableDNSErrorFallbacks {
		if fallback, ok := s.tryDNSFallbacks(ctx, u0); ok {
			return fallback
		}
	}

	return result
}

func (s *Site) tryDNSFallbacks(ctx context.Context, u0 string) (SiteResult, bool) {
	host, scheme, ok := hostAndScheme(u0)
	if !ok {
		return SiteResult{}, false
	}

	var candidates []string
	candidates = append(candidates, normalizer.HyphenSimplifyCandidates(host)...)
	if swapped, ok := normalizer.TLDSwapCandidate(host); ok {
		candidates = append(candidates, swapped)
	}

	for _, candidate := range candidates {
		retargeted := scheme + "://" + candidate + "/"
		result := s.crawlSeed(ctx, retargeted)
		if result.OverallStatus == models.StatusSuccess {
			result.SeedRetargetedTo = retargeted
			return result, true
		}
	}
	return SiteResult{}, false
}

func (s *Site) crawlSeed(ctx context.Context, u0 string) SiteResult {
	queue := NewPriorityQueue()
	defer queue.Close()

	queue.Push(&QueueItem{URL: u0, Depth: 0, Score: 100, AddedAt: time.Now()})

	pagesFetched := 0
	bypassPagesFetched := 0

	var pages []models.ScrapedPage
	statuses := map[string]models.ScraperStatus{}

	for queue.Len() > 0 {
		item, err := queue.Pop(ctx)
		if err != nil || item == nil {
			break
		}

		atLimit := pagesFetched >= s.limits.MaxPagesPerDomain
		bypassEligible := item.Score >= s.limits.ScoreThresholdForLimitBypass
		if atLimit && !bypassEligible {
			continue
		}
		bypassing := atLimit && bypassEligible
		if bypassing && bypassPagesFetched >= s.limits.MaxHighPriorityPagesAfterLimit {
			continue
		}

		fetchResult := s.fetcher.Fetch(ctx, item.URL, s.userAgent, s.timeouts)

		landed := fetchResult.FinalLandedURL
		if landed == "" {
			landed = item.URL
		}
		queue.MarkSeen(landed)
		statuses[item.URL] = fetchResult.Status

		if fetchResult.Status != models.StatusSuccess {
			continue
		}

		pageType := classifier.Classify(landed)
		var cleanedTextLocation string
		if s.textCleaner != nil {
			if loc, err := s.textCleaner.Write(landed, fetchResult.HTML); err == nil {
				cleanedTextLocation = loc
			} else if s.logger != nil {
				s.logger.Warn().Str("url", landed).Err(err).Msg("cleaned text write failed")
			}
		}
		pages = append(pages, models.ScrapedPage{
			SourcePathfulURL:      item.URL,
			FinalLandedPathfulURL: landed,
			CleanedTextLocation:   cleanedTextLocation,
			PageType:              pageType,
		})
		pagesFetched++
		if bypassing {
			bypassPagesFetched++
		}

		if item.Depth < s.limits.MaxDepthInternalLinks {
			links, err := s.scorer.ExtractAndScore(fetchResult.HTML, landed)
			if err == nil {
				for _, link := range links {
					if link.Score < s.limits.MinScoreToQueue {
						continue
					}
					if queue.Seen(link.URL) {
						continue
					}
					queue.Push(&QueueItem{URL: link.URL, Depth: item.Depth + 1, Score: link.Score, AddedAt: time.Now()})
				}
			}
		}
	}

	return SiteResult{
		Pages:           pages,
		PathfulStatuses: statuses,
		OverallStatus:   bestOverallStatus(statuses),
	}
}

func bestOverallStatus(statuses map[string]models.ScraperStatus) models.ScraperStatus {
	all := make([]models.ScraperStatus, 0, len(statuses))
	for _, s := range statuses {
		all = append(all, s)
	}
	return models.BestStatus(all)
}

func hostAndScheme(rawURL string) (host string, scheme string, ok bool) {
	pathful, base, valid := normalizer.CanonicalizeFetched(rawURL)
	_ = pathful
	if !valid {
		return "", "", false
	}
	for i := 0; i < len(base); i++ {
		if base[i] == ':' {
			scheme = base[:i]
			host = base[i+3:]
			return host, scheme, true
		}
	}
	return "", "", false
}
