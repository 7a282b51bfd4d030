// Package search holds the ephemeral per-request value types of the query
// interpretation and ranking pipeline.
package search

// Facet names shown to the user. Excluded-filter keys and applied-filter keys
// use exactly these values.
const (
	FacetAuthor = "Autor"
	FacetYear   = "Ano"
	FacetType   = "Tipo"
	FacetNumber = "Número"
)

// Query is one search request. Owned exclusively by the request that created
// it; never shared across requests.
type Query struct {
	Raw      string
	Page     int
	PageSize int
	// Excluded maps a facet name to the values the user toggled off.
	Excluded map[string][]string
}
