package search

import "github.com/sampalegis/legisdex/internal/domain/proposal"

// Provenance marks which retrieval pass produced a candidate.
type Provenance string

const (
	// ProvenanceExact marks a lexical substring match.
	ProvenanceExact Provenance = "exact"
	// ProvenanceSemantic marks a vector-similarity match.
	ProvenanceSemantic Provenance = "semantic"
)

// Candidate is a retrieved proposal tagged with its provenance.
type Candidate struct {
	proposal.Proposal
	Provenance Provenance
}

// RankedResult is a candidate with its ranking metrics, computed once per
// request and never mutated afterwards.
type RankedResult struct {
	Candidate
	// UniqueTermHits counts distinct query terms found in the candidate's
	// summary+keywords text.
	UniqueTermHits int
	// TotalTermOccurrences sums all occurrence counts of every query term in
	// that same text.
	TotalTermOccurrences int
}

// Result is one response entry: a ranked candidate plus portal links.
type Result struct {
	Candidate
	Links proposal.Links
}

// Response is the full search response.
type Response struct {
	Results        []Result
	AppliedFilters map[string][]string
	Page           int
	PageSize       int
	TotalCount     int
	HasMore        bool
	HighlightTerms []string
}

// Empty returns a successful-shaped empty response for the given page
// geometry. Collaborator failures collapse to this.
func Empty(page, size int) Response {
	return Response{
		Results:        []Result{},
		AppliedFilters: map[string][]string{},
		Page:           page,
		PageSize:       size,
		HighlightTerms: []string{},
	}
}
