package fetch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fennelsoft/contactscout/internal/interfaces"
	"github.com/fennelsoft/contactscout/internal/models"
)

type scriptedFetcher struct {
	results []interfaces.FetchResult
	calls   int
}

func (s *scriptedFetcher) Fetch(ctx context.Context, url string, userAgent string, timeouts interfaces.FetchTimeouts) interfaces.FetchResult {
	r := s.results[s.calls]
	s.calls++
	return r
}

func TestRetryingFetcher_RetriesOnNetworkErrorThenSucceeds(t *testing.T) {
	inner := &scriptedFetcher{results: []interfaces.FetchResult{
		{Status: models.StatusErrorNetwork},
		{Status: models.StatusSuccess, HTML: "<html></html>"},
	}}
	rf := NewRetryingFetcher(inner, 2, 0, nil)
	result := rf.Fetch(context.Background(), "https://example.com", "ua", interfaces.FetchTimeouts{})
	assert.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, 2, inner.calls)
}

func TestRetryingFetcher_DoesNotRetryNonTransientStatus(t *testing.T) {
	inner := &scriptedFetcher{results: []interfaces.FetchResult{
		{Status: models.StatusErrorRobotsDisallowed},
		{Status: models.StatusSuccess},
	}}
	rf := NewRetryingFetcher(inner, 2, 0, nil)
	result := rf.Fetch(context.Background(), "https://example.com", "ua", interfaces.FetchTimeouts{})
	assert.Equal(t, models.StatusErrorRobotsDisallowed, result.Status)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryingFetcher_GivesUpAfterMaxRetries(t *testing.T) {
	inner := &scriptedFetcher{results: []interfaces.FetchResult{
		{Status: models.StatusErrorTimeout},
		{Status: models.StatusErrorTimeout},
		{Status: models.StatusErrorTimeout},
	}}
	rf := NewRetryingFetcher(inner, 2, 0, nil)
	result := rf.Fetch(context.Background(), "https://example.com", "ua", interfaces.FetchTimeouts{})
	assert.Equal(t, models.StatusErrorTimeout, result.Status)
	assert.Equal(t, 3, inner.calls)
}
