// Package linkscore implements C3: extracting same-host outbound links
// from fetched HTML and scoring them by the multi-tier keyword rules of
// spec.md section 4.3. Grounded on the teacher's goquery-based link
// extraction (internal/services/crawler/link_extractor.go) and its
// compiled include/exclude filtering (internal/services/crawler/filters.go).
package linkscore

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Rules is the frozen configuration a Scorer needs, threaded in from
// common.ScraperConfig.
type Rules struct {
	TargetKeywords          []string
	CriticalPriorityKeywords []string
	HighPriorityKeywords     []string
	MaxKeywordPathSegments   int
	ExcludePathPatterns      []string
}

// ScoredLink is one candidate outbound link with its computed score.
type ScoredLink struct {
	URL   string
	Score int
}

// Scorer extracts and scores same-host links from one page's HTML.
type Scorer struct {
	rules         Rules
	excludeRegexes []*regexp.Regexp
}

func New(rules Rules) *Scorer {
	s := &Scorer{rules: rules}
	for _, pat := range rules.ExcludePathPatterns {
		if re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(pat)); err == nil {
			s.excludeRegexes = append(s.excludeRegexes, re)
		}
	}
	return s
}

// ExtractAndScore parses html relative to baseURL (the page it came
// from), keeps only same-host links, scores each by the tiered rules and
// returns them sorted by descending score (ties: shorter URL, then
// lexicographic), matching spec.md section 4.3 step 4.
func (s *Scorer) ExtractAndScore(html string, baseURL string) ([]ScoredLink, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []ScoredLink

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "javascript:") {
			return
		}

		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		if resolved.Hostname() != base.Hostname() {
			return
		}
		resolved.Fragment = ""
		normalized := resolved.String()
		if seen[normalized] {
			return
		}
		seen[normalized] = true

		anchorText := strings.ToLower(strings.TrimSpace(sel.Text()))
		if s.isExcluded(resolved.Path) {
			return
		}

		score, ok := s.score(resolved.Path, href, anchorText)
		if !ok {
			return
		}
		out = append(out, ScoredLink{URL: normalized, Score: score})
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if len(out[i].URL) != len(out[j].URL) {
			return len(out[i].URL) < len(out[j].URL)
		}
		return out[i].URL < out[j].URL
	})

	return out, nil
}

func (s *Scorer) isExcluded(path string) bool {
	lower := strings.ToLower(path)
	for _, re := range s.excludeRegexes {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// score implements the tiered rules. Returns ok=false if the link fails
// the initial general-keyword gate (step 2).
func (s *Scorer) score(path, href, anchorText string) (int, bool) {
	lowerPath := strings.ToLower(path)
	lowerHref := strings.ToLower(href)

	passesGate := false
	for _, kw := range s.rules.TargetKeywords {
		if strings.Contains(anchorText, kw) || strings.Contains(lowerHref, kw) {
			passesGate = true
			break
		}
	}
	if !passesGate {
		return 0, false
	}

	segments := splitSegments(lowerPath)
	maxSeg := s.rules.MaxKeywordPathSegments
	if maxSeg <= 0 {
		maxSeg = 1
	}

	best := -1

	// T1 Critical / T2 High: exact path segment match.
	for i, seg := range segments {
		for _, kw := range s.rules.CriticalPriorityKeywords {
			if seg == kw {
				best = maxInt(best, applyPenalty(100, len(segments), maxSeg))
			}
		}
		for _, kw := range s.rules.HighPriorityKeywords {
			if seg == kw {
				best = maxInt(best, applyPenalty(90, len(segments), maxSeg))
			}
		}
		// T3 Early-in-path priority: any priority keyword at segment index i.
		for _, kw := range append(append([]string{}, s.rules.CriticalPriorityKeywords...), s.rules.HighPriorityKeywords...) {
			if seg == kw {
				score := 80 - 5*i - penaltyFor(len(segments), maxSeg)
				best = maxInt(best, score)
			}
		}
	}

	if best >= 0 {
		return best, true
	}

	// T4 Target-substring-in-segment.
	for _, seg := range segments {
		for _, kw := range s.rules.TargetKeywords {
			if strings.Contains(seg, kw) {
				return 50, true
			}
		}
	}

	// T5 Anchor-text-only.
	for _, kw := range s.rules.TargetKeywords {
		if strings.Contains(anchorText, kw) && !strings.Contains(lowerHref, kw) {
			return 40, true
		}
	}

	return 0, false
}

func splitSegments(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func penaltyFor(numSegments, maxSeg int) int {
	if numSegments <= maxSeg {
		return 0
	}
	return 5 * (numSegments - maxSeg)
}

func applyPenalty(base, numSegments, maxSeg int) int {
	return base - penaltyFor(numSegments, maxSeg)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
