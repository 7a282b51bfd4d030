package search

import (
	"sort"
	"strconv"
	"strings"

	domsearch "github.com/sampalegis/legisdex/internal/domain/search"
	"github.com/sampalegis/legisdex/internal/text"
)

// rank computes the term metrics of every candidate, drops candidates that
// fail the quoted-phrase test, and orders the survivors with one stable sort:
// lexical matches before semantic ones, then term coverage, then recency.
func rank(candidates []domsearch.Candidate, terms, phrases []string) []domsearch.RankedResult {
	ranked := make([]domsearch.RankedResult, 0, len(candidates))
	for _, c := range candidates {
		if !containsAllPhrases(c, phrases) {
			continue
		}
		unique, total := termMetrics(c, terms)
		ranked = append(ranked, domsearch.RankedResult{
			Candidate:            c,
			UniqueTermHits:       unique,
			TotalTermOccurrences: total,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Provenance != b.Provenance {
			return a.Provenance == domsearch.ProvenanceExact
		}
		if a.UniqueTermHits != b.UniqueTermHits {
			return a.UniqueTermHits > b.UniqueTermHits
		}
		if a.TotalTermOccurrences != b.TotalTermOccurrences {
			return a.TotalTermOccurrences > b.TotalTermOccurrences
		}
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Number > b.Number
	})

	return ranked
}

// termMetrics counts, over the candidate's summary and keywords, how many
// distinct terms appear and how many times all terms appear in total.
func termMetrics(c domsearch.Candidate, terms []string) (unique, total int) {
	if len(terms) == 0 {
		return 0, 0
	}
	haystack := text.Normalize(c.Summary + " " + strings.ReplaceAll(c.Keywords, "|", " "))
	for _, term := range terms {
		n := text.CountOccurrences(haystack, term)
		if n == 0 {
			continue
		}
		unique++
		total += n
	}
	return unique, total
}

// containsAllPhrases requires every quoted phrase to appear somewhere in the
// candidate's fields. Text fields are compared normalized; the numeric fields
// keep their literal digits.
func containsAllPhrases(c domsearch.Candidate, phrases []string) bool {
	if len(phrases) == 0 {
		return true
	}
	haystack := text.Normalize(c.Summary+" "+strings.ReplaceAll(c.Keywords, "|", " ")+" "+c.Author+" "+string(c.Type)) +
		" " + strconv.Itoa(c.Year) + " " + strconv.Itoa(c.Number)
	for _, phrase := range phrases {
		needle := text.CollapseSpaces(text.Normalize(phrase))
		if needle == "" {
			continue
		}
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
