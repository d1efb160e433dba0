// retry.go wraps a Fetcher with status-driven retry, grounded on the
// teacher's internal/services/crawler/retry.go RetryPolicy (simplified to
// the fixed-delay scheme spec.md section 4.2 calls for: up to MaxRetries
// retries after the first attempt, a flat RetryDelaySeconds backoff, retrying only on the
// transient status set).
package fetch

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/fennelsoft/contactscout/internal/interfaces"
	"github.com/fennelsoft/contactscout/internal/models"
)

// retryableStatuses is the set of outcomes worth a retry; RobotsDisallowed,
// InvalidURL and ContentNotFound are not (retrying changes nothing).
var retryableStatuses = map[models.ScraperStatus]bool{
	models.StatusErrorNetwork: true,
	models.StatusErrorDNS:     true,
	models.StatusErrorTimeout: true,
	models.StatusErrorGeneric: true,
}

// RetryingFetcher decorates an interfaces.Fetcher with the retry policy
// from spec.md section 4.2: up to MaxRetries additional attempts, each
// separated by a flat RetryDelaySeconds delay.
type RetryingFetcher struct {
	inner        interfaces.Fetcher
	maxRetries   int
	retryDelay   time.Duration
	logger       arbor.ILogger
}

func NewRetryingFetcher(inner interfaces.Fetcher, maxRetries int, retryDelaySeconds int, logger arbor.ILogger) *RetryingFetcher {
	return &RetryingFetcher{
		inner:      inner,
		maxRetries: maxRetries,
		retryDelay: time.Duration(retryDelaySeconds) * time.Second,
		logger:     logger,
	}
}

func (r *RetryingFetcher) Fetch(ctx context.Context, url string, userAgent string, timeouts interfaces.FetchTimeouts) interfaces.FetchResult {
	var result interfaces.FetchResult

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		result = r.inner.Fetch(ctx, url, userAgent, timeouts)

		if !retryableStatuses[result.Status] {
			return result
		}

		if attempt < r.maxRetries {
			if r.logger != nil {
				r.logger.Debug().
					Int("attempt", attempt+1).
					Str("status", string(result.Status)).
					Str("url", url).
					Msg("Retrying fetch after backoff")
			}
			select {
			case <-ctx.Done():
				return result
			case <-time.After(r.retryDelay):
			}
		}
	}

	return result
}
