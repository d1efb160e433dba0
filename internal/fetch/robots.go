// Package fetch implements C2: fetching a single URL through a headless
// browser (with a cheap static-HTML path attempted first) while honoring
// robots policy. Robots handling is grounded on ncecere-raito's
// internal/crawler/map.go fetchRobots helper (temoto/robotstxt fetch +
// parse); the fetch tiers are grounded on the teacher's two-stage
// html_scraper.go / hybrid_scraper.go story.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// RobotsCache fetches and caches robots.txt per host for the lifetime of
// one run, guarded by a per-host lock for the initial populate (read-mostly
// after first fetch), per spec.md section 5 "Shared resources".
type RobotsCache struct {
	client *http.Client
	scheme string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
	data  map[string]*robotstxt.RobotsData
}

// NewRobotsCache builds a cache that fetches robots.txt over https. Use
// NewRobotsCacheWithScheme in tests against a plain-http test server.
func NewRobotsCache(client *http.Client) *RobotsCache {
	return NewRobotsCacheWithScheme(client, "https")
}

func NewRobotsCacheWithScheme(client *http.Client, scheme string) *RobotsCache {
	if client == nil {
		client = http.DefaultClient
	}
	return &RobotsCache{
		client: client,
		scheme: scheme,
		locks:  map[string]*sync.Mutex{},
		data:   map[string]*robotstxt.RobotsData{},
	}
}

func (c *RobotsCache) hostLock(host string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[host]
	if !ok {
		l = &sync.Mutex{}
		c.locks[host] = l
	}
	return l
}

// Allowed satisfies interfaces.RobotsChecker: it reports whether
// userAgent may fetch path on host, fetching and caching robots.txt for
// that host on first use. A fetch failure is treated as "allowed"
// (absence of a robots.txt does not block crawling).
func (c *RobotsCache) Allowed(ctx context.Context, host string, userAgent string, path string) (bool, error) {
	base := &url.URL{Scheme: c.scheme, Host: host}

	lock := c.hostLock(host)
	lock.Lock()
	data, cached := c.data[host]
	if !cached {
		data, _ = c.fetchRobots(ctx, base, userAgent)
		c.mu.Lock()
		c.data[host] = data
		c.mu.Unlock()
	}
	lock.Unlock()

	if data == nil {
		return true, nil
	}
	group := data.FindGroup(userAgent)
	return group.Test(path), nil
}

func (c *RobotsCache) fetchRobots(ctx context.Context, base *url.URL, userAgent string) (*robotstxt.RobotsData, error) {
	robotsURL := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/robots.txt"}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return nil, err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return robotstxt.FromStatusAndBytes(resp.StatusCode, body)
}
