package search

import (
	"strings"

	domsearch "github.com/sampalegis/legisdex/internal/domain/search"
	"github.com/sampalegis/legisdex/internal/text"
)

// paginate slices the ranked set into the requested page and decorates each
// entry with its portal links. Pages are zero-based.
func paginate(ranked []domsearch.RankedResult, page, size int, links LinkBuilder) (results []domsearch.Result, total int, hasMore bool) {
	total = len(ranked)

	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return decorate(ranked[start:end], links), total, end < total
}

// decorate renders ranked entries into response results with portal links.
func decorate(ranked []domsearch.RankedResult, links LinkBuilder) []domsearch.Result {
	results := make([]domsearch.Result, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, domsearch.Result{
			Candidate: r.Candidate,
			Links:     links.Build(r.Proposal),
		})
	}
	return results
}

// highlightTerms lists the words of the raw query worth highlighting in the
// UI: every multi-rune non-stopword token plus each quoted phrase,
// deduplicated, in first-occurrence order.
func highlightTerms(raw string, phrases []string, stop map[string]struct{}) []string {
	terms := []string{}
	seen := make(map[string]struct{})
	add := func(term string) {
		if len([]rune(term)) <= 1 {
			return
		}
		if _, filler := stop[term]; filler {
			return
		}
		if _, dup := seen[term]; dup {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	normalized := text.CollapseSpaces(text.Normalize(strings.ReplaceAll(raw, `"`, " ")))
	for _, tok := range strings.Fields(normalized) {
		add(tok)
	}
	for _, phrase := range phrases {
		add(text.CollapseSpaces(text.Normalize(phrase)))
	}
	return terms
}
