package search

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sampalegis/legisdex/internal/domain/proposal"
)

// Filter is the structured interpretation of a free-form query, immutable
// after construction. The zero value is an empty filter.
//
// Invariant: SemanticText never contains the spans consumed into the
// type/number/year/author fields, and every author corresponds to a catalog
// entry at extraction time.
type Filter struct {
	typ          proposal.Type // empty when absent
	number       int           // 0 when absent
	years        map[int]struct{}
	authors      map[string]struct{}
	exactPhrases []string
	semanticText string
}

// NewFilter builds an immutable filter. Years and authors are copied.
func NewFilter(
	typ proposal.Type, number int,
	years []int, authors []string,
	exactPhrases []string, semanticText string,
) Filter {
	f := Filter{
		typ:          typ,
		number:       number,
		years:        make(map[int]struct{}, len(years)),
		authors:      make(map[string]struct{}, len(authors)),
		exactPhrases: append([]string(nil), exactPhrases...),
		semanticText: semanticText,
	}
	for _, y := range years {
		f.years[y] = struct{}{}
	}
	for _, a := range authors {
		f.authors[a] = struct{}{}
	}
	return f
}

// Type returns the proposal type, or "" when none was extracted.
func (f Filter) Type() proposal.Type { return f.typ }

// Number returns the proposal number, or 0 when none was extracted.
func (f Filter) Number() int { return f.number }

// Years returns the extracted years, ascending.
func (f Filter) Years() []int {
	years := make([]int, 0, len(f.years))
	for y := range f.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// HasYear reports whether y was extracted.
func (f Filter) HasYear(y int) bool {
	_, ok := f.years[y]
	return ok
}

// Authors returns the matched author display names, sorted.
func (f Filter) Authors() []string {
	authors := make([]string, 0, len(f.authors))
	for a := range f.authors {
		authors = append(authors, a)
	}
	sort.Strings(authors)
	return authors
}

// ExactPhrases returns the quoted spans in first-occurrence order.
func (f Filter) ExactPhrases() []string {
	return append([]string(nil), f.exactPhrases...)
}

// SemanticText returns the whitespace-normalized leftover query text.
func (f Filter) SemanticText() string { return f.semanticText }

// IsStructuredEmpty reports whether no structured field was extracted.
func (f Filter) IsStructuredEmpty() bool {
	return f.typ == "" && f.number == 0 && len(f.years) == 0 && len(f.authors) == 0
}

// AppliedFacets renders the non-empty structured fields keyed by facet name.
// Author values have parenthesized party suffixes stripped for display.
func (f Filter) AppliedFacets() map[string][]string {
	applied := make(map[string][]string)
	if authors := f.Authors(); len(authors) > 0 {
		display := make([]string, len(authors))
		for i, a := range authors {
			display[i] = strings.NewReplacer("(", "", ")", "").Replace(a)
		}
		applied[FacetAuthor] = display
	}
	if years := f.Years(); len(years) > 0 {
		vals := make([]string, len(years))
		for i, y := range years {
			vals[i] = strconv.Itoa(y)
		}
		applied[FacetYear] = vals
	}
	if f.typ != "" {
		applied[FacetType] = []string{string(f.typ)}
	}
	if f.number != 0 {
		applied[FacetNumber] = []string{strconv.Itoa(f.number)}
	}
	return applied
}
