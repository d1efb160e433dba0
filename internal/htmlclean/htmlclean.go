// Package htmlclean implements the HTML-to-text step between C4 (fetch)
// and C6 (regex extraction): converting a fetched page's raw HTML to
// markdown and persisting it to disk, so ScrapedPage.CleanedTextLocation
// can be handed to the regex extractor without keeping every page body
// resident in memory. Grounded on the teacher's convertContentToMarkdown.
package htmlclean

import (
	"fmt"
	"os"
	"path/filepath"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// Writer converts HTML bodies to markdown and writes them under a
// per-run directory, one file per pathful URL.
type Writer struct {
	dir       string
	converter *md.Converter
}

// New creates a Writer that persists cleaned text under dir (created if
// absent). The markdown converter is built with an empty base URL, so
// relative links are not resolved against any page.
func New(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cleaned-text directory %s: %w", dir, err)
	}
	return &Writer{dir: dir, converter: md.NewConverter("", true, nil)}, nil
}

// Write converts html to markdown and writes it to a file named after a
// stable hash of pathfulURL, returning the file's path.
func (w *Writer) Write(pathfulURL string, html string) (string, error) {
	markdown, err := w.converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert %s to markdown: %w", pathfulURL, err)
	}

	path := filepath.Join(w.dir, fileNameFor(pathfulURL))
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("write cleaned text for %s: %w", pathfulURL, err)
	}
	return path, nil
}

func fileNameFor(pathfulURL string) string {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(pathfulURL); i++ {
		h ^= uint64(pathfulURL[i])
		h *= 1099511628211
	}
	return fmt.Sprintf("%016x.md", h)
}
