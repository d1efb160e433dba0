// Package consolidate implements C8: deduplicating raw LLM phone outputs
// for one base canonical domain into a sorted, deduplicated set of
// ConsolidatedNumber entries.
package consolidate

import (
	"sort"

	"github.com/fennelsoft/contactscout/internal/models"
)

// Result is the output of consolidating one base canonical domain's raw
// LLM outputs.
type Result struct {
	Numbers        []models.ConsolidatedNumber
	FilteredAllOut bool
}

// Consolidate implements spec.md section 4.8 steps 1-5. It is a pure
// function of its inputs (P7: idempotent; deterministic sort order), and
// is associative under union per R2: consolidating the full union of
// per-pathful outputs yields the same result as consolidating each
// pathful's outputs and merging those partial results (the dedup-by-key
// and best-classification-by-priority steps commute with union).
func Consolidate(outputs []models.PhoneNumberLLMOutput, defaultRegion string) Result {
	type accum struct {
		bestClassification string
		sources            map[sourceKey]*models.ConsolidatedSource
	}

	byNumber := map[string]*accum{}
	order := []string{}

	anyInput := len(outputs) > 0

	for _, o := range outputs {
		if models.IneligibleTypes[o.Type] || o.Classification == "Non-Business" {
			continue
		}
		e164, ok := ToE164(o.NumberAsReturned, nil, defaultRegion)
		if !ok {
			continue
		}

		a, exists := byNumber[e164]
		if !exists {
			a = &accum{bestClassification: o.Classification, sources: map[sourceKey]*models.ConsolidatedSource{}}
			byNumber[e164] = a
			order = append(order, e164)
		}

		if betterClassification(o.Classification, a.bestClassification) {
			a.bestClassification = o.Classification
		}

		key := sourceKey{url: o.SourcePathfulURL, company: o.OriginalInputCompanyName}
		src, ok := a.sources[key]
		if !ok {
			src = &models.ConsolidatedSource{
				SourcePathfulURL:         o.SourcePathfulURL,
				Type:                     o.Type,
				OriginalInputCompanyName: o.OriginalInputCompanyName,
				RawOccurrenceCount:       0,
			}
			a.sources[key] = src
		}
		src.RawOccurrenceCount++
		if betterType(o.Type, src.Type) {
			src.Type = o.Type
		}
	}

	var numbers []models.ConsolidatedNumber
	for _, e164 := range order {
		a := byNumber[e164]
		var sources []models.ConsolidatedSource
		for _, s := range a.sources {
			sources = append(sources, *s)
		}
		sort.Slice(sources, func(i, j int) bool {
			if sources[i].SourcePathfulURL != sources[j].SourcePathfulURL {
				return sources[i].SourcePathfulURL < sources[j].SourcePathfulURL
			}
			return sources[i].OriginalInputCompanyName < sources[j].OriginalInputCompanyName
		})
		numbers = append(numbers, models.ConsolidatedNumber{
			NormalizedE164Number: e164,
			BestClassification:   a.bestClassification,
			Sources:              sources,
		})
	}

	sort.SliceStable(numbers, func(i, j int) bool {
		ri, rj := models.ClassificationRank(numbers[i].BestClassification), models.ClassificationRank(numbers[j].BestClassification)
		if ri != rj {
			return ri < rj
		}
		ti, tj := bestTypeRank(numbers[i]), bestTypeRank(numbers[j])
		return ti < tj
	})

	return Result{
		Numbers:        numbers,
		FilteredAllOut: anyInput && len(numbers) == 0,
	}
}

type sourceKey struct {
	url     string
	company string
}

func betterClassification(candidate, current string) bool {
	return models.ClassificationRank(candidate) < models.ClassificationRank(current)
}

func betterType(candidate, current string) bool {
	return models.TypeRank(candidate) < models.TypeRank(current)
}

func bestTypeRank(n models.ConsolidatedNumber) int {
	best := -1
	for i, s := range n.Sources {
		r := models.TypeRank(s.Type)
		if i == 0 || r < best {
			best = r
		}
	}
	return best
}
