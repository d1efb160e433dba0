package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fennelsoft/contactscout/internal/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		url  string
		want models.PageType
	}{
		{"https://example.com/", models.PageHomepage},
		{"https://example.com", models.PageHomepage},
		{"https://example.com/contact", models.PageContact},
		{"https://example.com/de/kontakt", models.PageContact},
		{"https://example.com/impressum", models.PageImprint},
		{"https://example.com/privacy-policy", models.PageLegal},
		{"https://example.com/about-us", models.PageGeneral},
		{"https://example.com/products/widget", models.PageUnknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.url), c.url)
	}
}
