package crawler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fennelsoft/contactscout/internal/interfaces"
	"github.com/fennelsoft/contactscout/internal/linkscore"
	"github.com/fennelsoft/contactscout/internal/models"
)

type fakeFetcher struct {
	byURL map[string]interfaces.FetchResult
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, userAgent string, timeouts interfaces.FetchTimeouts) interfaces.FetchResult {
	if r, ok := f.byURL[url]; ok {
		return r
	}
	return interfaces.FetchResult{Status: models.StatusErrorContentNotFound}
}

func testScorer() *linkscore.Scorer {
	return linkscore.New(linkscore.Rules{
		TargetKeywords:           []string{"contact"},
		CriticalPriorityKeywords: []string{"contact"},
		MaxKeywordPathSegments:   2,
	})
}

func TestSite_FollowsScoredLinksWithinDepth(t *testing.T) {
	fetcher := &fakeFetcher{byURL: map[string]interfaces.FetchResult{
		"https://example.com/": {
			FinalLandedURL: "https://example.com/",
			HTML:           `<a href="/contact">Contact us</a>`,
			Status:         models.StatusSuccess,
		},
		"https://example.com/contact": {
			FinalLandedURL: "https://example.com/contact",
			HTML:           `<html></html>`,
			Status:         models.StatusSuccess,
		},
	}}

	site := NewSite(fetcher, testScorer(), interfaces.FetchTimeouts{}, "ua", Limits{
		MaxPagesPerDomain:              20,
		MaxDepthInternalLinks:          2,
		MinScoreToQueue:                40,
		ScoreThresholdForLimitBypass:   1000,
		MaxHighPriorityPagesAfterLimit: 0,
	}, nil)

	result := site.Crawl(context.Background(), "https://example.com/")
	require.Len(t, result.Pages, 2)
	assert.Equal(t, models.StatusSuccess, result.OverallStatus)

	var sawContact bool
	for _, p := range result.Pages {
		if p.PageType == models.PageContact {
			sawContact = true
		}
	}
	assert.True(t, sawContact)
}

func TestSite_StopsAtMaxPagesUnlessBypassEligible(t *testing.T) {
	fetcher := &fakeFetcher{byURL: map[string]interfaces.FetchResult{
		"https://example.com/": {
			FinalLandedURL: "https://example.com/",
			HTML:           `<a href="/contact">Contact us</a>`,
			Status:         models.StatusSuccess,
		},
	}}

	site := NewSite(fetcher, testScorer(), interfaces.FetchTimeouts{}, "ua", Limits{
		MaxPagesPerDomain:              1,
		MaxDepthInternalLinks:          2,
		MinScoreToQueue:                40,
		ScoreThresholdForLimitBypass:   1000,
		MaxHighPriorityPagesAfterLimit: 0,
	}, nil)

	result := site.Crawl(context.Background(), "https://example.com/")
	assert.Len(t, result.Pages, 1)
}

func TestSite_RecordsFailureStatusAndContinues(t *testing.T) {
	fetcher := &fakeFetcher{byURL: map[string]interfaces.FetchResult{
		"https://example.com/": {Status: models.StatusErrorNetwork},
	}}

	site := NewSite(fetcher, testScorer(), interfaces.FetchTimeouts{}, "ua", Limits{
		MaxPagesPerDomain:     20,
		MaxDepthInternalLinks: 2,
		MinScoreToQueue:       40,
	}, nil)

	result := site.Crawl(context.Background(), "https://example.com/")
	assert.Empty(t, result.Pages)
	assert.Equal(t, models.StatusErrorNetwork, result.OverallStatus)
}
