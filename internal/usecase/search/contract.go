package search

import (
	"context"

	"github.com/sampalegis/legisdex/internal/domain"
	"github.com/sampalegis/legisdex/internal/domain/proposal"
	domsearch "github.com/sampalegis/legisdex/internal/domain/search"
)

// Datastore defines the storage contract for the retrieval passes.
type Datastore interface {
	// FilterIDs returns the IDs of every proposal satisfying the structured
	// part of the filter, unordered.
	FilterIDs(ctx context.Context, f domsearch.Filter) ([]int, error)

	// ExactMatch returns the candidates among ids whose text contains any of
	// the given terms, ordered by year and number descending. A nil ids
	// slice means the whole corpus.
	ExactMatch(ctx context.Context, ids []int, terms []string) ([]domsearch.Candidate, error)

	// VectorMatch returns up to limit candidates nearest to vector, restricted
	// to ids when non-nil and never returning any of excluded.
	VectorMatch(ctx context.Context, vector []float32, ids, excluded []int, limit int) ([]domsearch.Candidate, error)

	// ByIDs pages through the given IDs ordered by year and number descending.
	ByIDs(ctx context.Context, ids []int, offset, limit int) ([]domsearch.Candidate, error)

	// DistinctAuthors lists every distinct author string in the corpus.
	DistinctAuthors(ctx context.Context) ([]string, error)
}

// Embedder vectorizes the residual semantic text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Extractor decomposes a raw query into a structured filter.
type Extractor interface {
	Extract(raw string) domsearch.Filter
}

// LinkBuilder renders the official portal links of a proposal.
type LinkBuilder interface {
	Build(p proposal.Proposal) proposal.Links
}
