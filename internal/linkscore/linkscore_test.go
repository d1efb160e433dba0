package linkscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() Rules {
	return Rules{
		TargetKeywords:           []string{"contact", "about"},
		CriticalPriorityKeywords: []string{"contact"},
		HighPriorityKeywords:     []string{"about"},
		MaxKeywordPathSegments:   2,
		ExcludePathPatterns:      []string{"/blog/"},
	}
}

func TestExtractAndScore_T1CriticalExactSegment(t *testing.T) {
	s := New(testRules())
	html := `<html><body><a href="/contact">Contact Us</a></body></html>`
	links, err := s.ExtractAndScore(html, "https://example.com/")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, 100, links[0].Score)
}

func TestExtractAndScore_ExcludesBlogPaths(t *testing.T) {
	s := New(testRules())
	html := `<html><body><a href="/blog/contact-recap">Contact recap</a></body></html>`
	links, err := s.ExtractAndScore(html, "https://example.com/")
	require.NoError(t, err)
	assert.Len(t, links, 0)
}

func TestExtractAndScore_RejectsCrossHostLinks(t *testing.T) {
	s := New(testRules())
	html := `<html><body><a href="https://other.com/contact">Contact</a></body></html>`
	links, err := s.ExtractAndScore(html, "https://example.com/")
	require.NoError(t, err)
	assert.Len(t, links, 0)
}

func TestExtractAndScore_T5AnchorTextOnly(t *testing.T) {
	s := New(testRules())
	html := `<html><body><a href="/page-42">Contact our team</a></body></html>`
	links, err := s.ExtractAndScore(html, "https://example.com/")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, 40, links[0].Score)
}

func TestExtractAndScore_GateRejectsLinksWithNoKeyword(t *testing.T) {
	s := New(testRules())
	html := `<html><body><a href="/products">Our Products</a></body></html>`
	links, err := s.ExtractAndScore(html, "https://example.com/")
	require.NoError(t, err)
	assert.Len(t, links, 0)
}

func TestExtractAndScore_TiesBreakByShorterURL(t *testing.T) {
	s := New(testRules())
	html := `<html><body>
		<a href="/x/about">About</a>
		<a href="/about">About</a>
	</body></html>`
	links, err := s.ExtractAndScore(html, "https://example.com/")
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, 90, links[1].Score)
	assert.Equal(t, links[1].Score, links[0].Score)
	assert.Equal(t, "https://example.com/about", links[0].URL)
}
