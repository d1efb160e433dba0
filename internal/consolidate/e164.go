package consolidate

import (
	"regexp"
	"strings"
)

// countryCallingCodes maps ISO 3166-1 alpha-2 region codes to their
// calling code, for the subset spec.md's TargetCountryCodes/DefaultRegionCode
// scenarios exercise. No phone-number-parsing library (libphonenumber or
// similar) appears anywhere in the retrieved example corpus, so E.164
// normalization here is a deliberately narrow regex/stdlib implementation
// (documented in DESIGN.md) rather than a full numbering-plan parser.
var countryCallingCodes = map[string]string{
	"US": "1", "CA": "1", "GB": "44", "DE": "49", "FR": "33", "ES": "34",
	"IT": "39", "NL": "31", "BE": "32", "CH": "41", "AT": "43", "AU": "61",
	"NZ": "64", "IE": "353", "PT": "351", "SE": "46", "NO": "47", "DK": "45",
	"FI": "358", "PL": "48",
}

var nonDigitPattern = regexp.MustCompile(`[^\d]`)

// ToE164 normalizes a raw number string to E.164 using the candidate's
// country hints in order, falling back to defaultRegion. Returns ok=false
// if the digits cannot plausibly be assigned a country code.
func ToE164(raw string, countryHints []string, defaultRegion string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	hasPlus := strings.HasPrefix(trimmed, "+")
	digits := nonDigitPattern.ReplaceAllString(trimmed, "")
	if digits == "" {
		return "", false
	}

	if hasPlus {
		if len(digits) < 8 || len(digits) > 15 {
			return "", false
		}
		return "+" + digits, true
	}

	if strings.HasPrefix(digits, "00") {
		digits = digits[2:]
		if len(digits) < 8 || len(digits) > 15 {
			return "", false
		}
		return "+" + digits, true
	}

	hints := append(append([]string{}, countryHints...), defaultRegion)
	for _, region := range hints {
		code, ok := countryCallingCodes[strings.ToUpper(region)]
		if !ok {
			continue
		}
		national := strings.TrimPrefix(digits, "0")
		candidate := code + national
		if len(candidate) >= 8 && len(candidate) <= 15 {
			return "+" + candidate, true
		}
	}

	return "", false
}
