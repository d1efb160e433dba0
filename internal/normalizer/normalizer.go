// Package normalizer implements C1: canonicalizing a raw, possibly
// malformed input URL string into pathful and base canonical forms,
// probing TLDs via DNS when the host lacks one.
package normalizer

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
)

// Result is the outcome of normalizing one input URL.
type Result struct {
	PathfulCanonical string
	BaseCanonical    string
	Invalid          bool
	InvalidReason    string // "InvalidURL", "UnsupportedScheme", "EmptyAfterCleaning"
	TLDProbeWarning  bool
}

// Resolver looks up A records for a host. Satisfied by *net.Resolver in
// production and a fake in tests.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

var tldLabelPattern = regexp.MustCompile(`\.[a-zA-Z]{2,}$`)

// Normalizer canonicalizes raw input URLs per spec.md section 4.1.
type Normalizer struct {
	resolver Resolver
	tlds     []string
	logger   arbor.ILogger
}

func New(resolver Resolver, probingTlds []string, logger arbor.ILogger) *Normalizer {
	return &Normalizer{resolver: resolver, tlds: probingTlds, logger: logger}
}

// Normalize performs the full C1 algorithm.
func (n *Normalizer) Normalize(ctx context.Context, raw string) Result {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Result{Invalid: true, InvalidReason: "EmptyAfterCleaning"}
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return Result{Invalid: true, InvalidReason: "InvalidURL"}
	}

	host := strings.ToLower(strings.Join(strings.Fields(parsed.Hostname()), ""))
	if host == "" || host == "localhost" {
		return Result{Invalid: true, InvalidReason: "InvalidURL"}
	}
	if ip := net.ParseIP(host); ip != nil {
		return Result{Invalid: true, InvalidReason: "InvalidURL"}
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return Result{Invalid: true, InvalidReason: "UnsupportedScheme"}
	}

	tldWarning := false
	if !tldLabelPattern.MatchString(host) {
		resolved, warn := n.probeTLDs(ctx, host)
		host = resolved
		tldWarning = warn
	}
	if p := parsed.Port(); p != "" && !isDefaultPort(parsed.Scheme, p) {
		host = host + ":" + p
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	query := ""
	if parsed.RawQuery != "" {
		query = "?" + parsed.RawQuery
	}

	base := fmt.Sprintf("%s://%s", parsed.Scheme, host)
	pathful := fmt.Sprintf("%s%s%s", base, path, query)

	return Result{
		PathfulCanonical: pathful,
		BaseCanonical:    base,
		TLDProbeWarning:  tldWarning,
	}
}

// probeTLDs synthesizes host.tld for each configured TLD in order and
// returns on the first that resolves. On exhaustion the original host is
// returned with the warning flag set.
func (n *Normalizer) probeTLDs(ctx context.Context, host string) (string, bool) {
	for _, tld := range n.tlds {
		candidate := host + "." + strings.TrimPrefix(tld, ".")
		if n.resolves(ctx, candidate) {
			return candidate, false
		}
	}
	return host, true
}

func (n *Normalizer) resolves(ctx context.Context, host string) bool {
	if n.resolver == nil {
		return false
	}
	addrs, err := n.resolver.LookupHost(ctx, host)
	return err == nil && len(addrs) > 0
}

// CanonicalizeFetched produces the pathful canonical form for a URL that
// was already observed (e.g. the final landed URL after a redirect),
// applying the same lowercasing/default-port/trailing-slash rules as
// Normalize but without TLD probing or scheme rewriting.
func CanonicalizeFetched(rawURL string) (pathful string, base string, ok bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "", "", false
	}
	host := strings.ToLower(parsed.Hostname())
	if p := parsed.Port(); p != "" && !isDefaultPort(parsed.Scheme, p) {
		host = host + ":" + p
	}
	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	query := ""
	if parsed.RawQuery != "" {
		query = "?" + parsed.RawQuery
	}
	base = fmt.Sprintf("%s://%s", parsed.Scheme, host)
	pathful = fmt.Sprintf("%s%s%s", base, path, query)
	return pathful, base, true
}

func isDefaultPort(scheme, port string) bool {
	return (scheme == "http" && port == "80") || (scheme == "https" && port == "443")
}

// HyphenSimplifyCandidates implements the "drop the hyphen and everything
// before it" fallback (e.g. company-event.de -> event.de) per spec.md
// section 4.4. The tail after the last hyphen comes first. A head
// candidate (the text before the first hyphen plus everything from the
// host's first dot, e.g. a-b-c.de -> a.de) follows only when the host has
// more than one hyphen; a single-hyphen host yields the tail alone.
func HyphenSimplifyCandidates(host string) []string {
	idx := strings.LastIndex(host, "-")
	if idx < 0 {
		return nil
	}
	rest := host[idx+1:]
	if !strings.Contains(rest, ".") {
		return nil
	}
	candidates := []string{rest}
	firstDash := strings.Index(host, "-")
	if firstDash != idx {
		head := host[:firstDash] + host[strings.Index(host, "."):]
		if strings.Contains(head, ".") {
			candidates = append(candidates, head)
		}
	}
	return candidates
}

// TLDSwapCandidate implements the ".de -> .com" fallback for hosts ending
// in .de. crawler.Site applies it to the original seed host, after the
// HyphenSimplifyCandidates hosts have been tried.
func TLDSwapCandidate(host string) (string, bool) {
	if strings.HasSuffix(host, ".de") {
		return strings.TrimSuffix(host, ".de") + ".com", true
	}
	return "", false
}
