// Package classifier implements C5: a deterministic, pure classification
// of a scraped URL's path into a PageType.
package classifier

import (
	"net/url"
	"strings"

	"github.com/fennelsoft/contactscout/internal/models"
)

var (
	contactKeywords = []string{"contact", "kontakt", "contacto", "contatti"}
	imprintKeywords = []string{"impressum", "imprint"}
	legalKeywords   = []string{"legal", "privacy", "terms", "datenschutz"}
	generalKeywords = []string{"about", "about-us", "company", "team"}
)

// Classify assigns a PageType to finalLandedURL using ordered keyword
// lists; first match wins. An empty or "/"-only path is homepage.
func Classify(finalLandedURL string) models.PageType {
	parsed, err := url.Parse(finalLandedURL)
	if err != nil {
		return models.PageUnknown
	}
	path := strings.ToLower(parsed.Path)

	if path == "" || path == "/" {
		return models.PageHomepage
	}

	if matchesAny(path, contactKeywords) {
		return models.PageContact
	}
	if matchesAny(path, imprintKeywords) {
		return models.PageImprint
	}
	if matchesAny(path, legalKeywords) {
		return models.PageLegal
	}
	if matchesAny(path, generalKeywords) {
		return models.PageGeneral
	}
	return models.PageUnknown
}

func matchesAny(path string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}
