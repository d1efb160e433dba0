// fetch.go implements the two-tier Fetcher: a colly-based static GET is
// attempted first (cheap, no browser startup cost); if it fails or its
// trimmed HTML is shorter than minStaticBodyLength, a chromedp headless
// render is used instead.
// Grounded on the teacher's scraper story (html_scraper.go driving a
// goquery-parsed static fetch, hybrid_scraper.go falling back to a real
// browser for JS-heavy pages) and on colly/chromedp's own documented
// collector/context patterns.
package fetch

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/gocolly/colly/v2"

	"github.com/fennelsoft/contactscout/internal/interfaces"
	"github.com/fennelsoft/contactscout/internal/models"
)

// minStaticBodyLength below which the static fetch is considered sparse
// and the chromedp fallback is tried, per SPEC_FULL.md section C2.
const minStaticBodyLength = 400

// TwoTierFetcher implements interfaces.Fetcher. It owns no long-lived
// browser instance; each Fetch call allocates and tears down its own
// chromedp context so that one domain's crashed renderer cannot affect
// another domain's concurrent worker.
type TwoTierFetcher struct {
	robots    *RobotsCache
	userAgent string
}

func NewTwoTierFetcher(robots *RobotsCache, userAgent string) *TwoTierFetcher {
	return &TwoTierFetcher{robots: robots, userAgent: userAgent}
}

func (f *TwoTierFetcher) Fetch(ctx context.Context, target string, userAgent string, timeouts interfaces.FetchTimeouts) interfaces.FetchResult {
	parsed, err := url.Parse(target)
	if err != nil {
		return interfaces.FetchResult{Status: models.StatusInvalidURL}
	}

	if f.robots != nil {
		allowed, _ := f.robots.Allowed(ctx, parsed.Host, userAgent, parsed.Path)
		if !allowed {
			return interfaces.FetchResult{Status: models.StatusErrorRobotsDisallowed}
		}
	}

	if landed, html, ok := f.fetchStatic(ctx, target, userAgent, timeouts); ok {
		if len(strings.TrimSpace(html)) >= minStaticBodyLength {
			return interfaces.FetchResult{FinalLandedURL: landed, HTML: html, Status: models.StatusSuccess}
		}
	}

	return f.fetchHeadless(ctx, target, userAgent, timeouts)
}

func (f *TwoTierFetcher) fetchStatic(ctx context.Context, target, userAgent string, timeouts interfaces.FetchTimeouts) (landedURL string, html string, ok bool) {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.MaxRedirects(10),
	)
	c.SetRequestTimeout(time.Duration(timeouts.PageTimeoutMs) * time.Millisecond)

	var body string
	var finalURL string
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
		finalURL = r.Request.URL.String()
	})

	if err := c.Visit(target); err != nil {
		return "", "", false
	}
	c.Wait()
	if finalURL == "" {
		return "", "", false
	}
	return finalURL, body, true
}

func (f *TwoTierFetcher) fetchHeadless(ctx context.Context, target, userAgent string, timeouts interfaces.FetchTimeouts) interfaces.FetchResult {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
		chromedp.Flag("headless", true),
	)...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	navCtx, cancelNav := context.WithTimeout(taskCtx, time.Duration(timeouts.NavigationTimeoutMs)*time.Millisecond)
	defer cancelNav()

	var html string
	var landed string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(target),
		chromedp.Sleep(time.Duration(timeouts.NetworkIdleTimeoutMs)*time.Millisecond),
		chromedp.Location(&landed),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err != nil {
		return interfaces.FetchResult{Status: classifyNavError(err)}
	}
	if landed == "" {
		landed = target
	}
	return interfaces.FetchResult{FinalLandedURL: landed, HTML: html, Status: models.StatusSuccess}
}

func classifyNavError(err error) models.ScraperStatus {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return models.StatusErrorDNS
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.StatusErrorTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.StatusErrorTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "net::err_name_not_resolved"):
		return models.StatusErrorDNS
	case strings.Contains(msg, "net::err_connection_refused"), strings.Contains(msg, "net::err_connection_reset"):
		return models.StatusErrorNetwork
	case strings.Contains(msg, "net::err_too_many_redirects"):
		return models.StatusErrorMaxRedirects
	case strings.Contains(msg, "403"), strings.Contains(msg, "forbidden"):
		return models.StatusErrorAccessDenied
	case strings.Contains(msg, "404"), strings.Contains(msg, "not found"):
		return models.StatusErrorContentNotFound
	default:
		return models.StatusErrorGeneric
	}
}
