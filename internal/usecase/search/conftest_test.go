package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sampalegis/legisdex/internal/domain"
	"github.com/sampalegis/legisdex/internal/domain/proposal"
	domsearch "github.com/sampalegis/legisdex/internal/domain/search"
)

// --- Mocks ---

type mockStore struct {
	filterIDs     []int
	filterErr     error
	exactResults  []domsearch.Candidate
	exactErr      error
	vectorResults []domsearch.Candidate
	vectorErr     error
	byIDsResults  []domsearch.Candidate
	byIDsErr      error
	authors       []string

	filterCalled bool
	exactCalled  bool
	vectorCalled bool
	byIDsCalled  bool

	lastExactTerms  []string
	lastVectorIDs   []int
	lastVectorSkip  []int
	lastVectorLimit int
	lastByIDsOffset int
	lastByIDsLimit  int
}

func (m *mockStore) FilterIDs(_ context.Context, _ domsearch.Filter) ([]int, error) {
	m.filterCalled = true
	return m.filterIDs, m.filterErr
}

func (m *mockStore) ExactMatch(_ context.Context, _ []int, terms []string) ([]domsearch.Candidate, error) {
	m.exactCalled = true
	m.lastExactTerms = terms
	return m.exactResults, m.exactErr
}

func (m *mockStore) VectorMatch(_ context.Context, _ []float32, ids, excluded []int, limit int) ([]domsearch.Candidate, error) {
	m.vectorCalled = true
	m.lastVectorIDs = ids
	m.lastVectorSkip = excluded
	m.lastVectorLimit = limit
	return m.vectorResults, m.vectorErr
}

func (m *mockStore) ByIDs(_ context.Context, _ []int, offset, limit int) ([]domsearch.Candidate, error) {
	m.byIDsCalled = true
	m.lastByIDsOffset = offset
	m.lastByIDsLimit = limit
	return m.byIDsResults, m.byIDsErr
}

func (m *mockStore) DistinctAuthors(_ context.Context) ([]string, error) {
	return m.authors, nil
}

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 3}, nil
}

// stubExtractor returns a fixed filter regardless of the query.
type stubExtractor struct {
	filter domsearch.Filter
}

func (s stubExtractor) Extract(_ string) domsearch.Filter { return s.filter }

// stubLinks renders predictable links so tests can assert decoration.
type stubLinks struct{}

func (stubLinks) Build(p proposal.Proposal) proposal.Links {
	return proposal.Links{
		SPLegis: fmt.Sprintf("splegis/%d", p.ID),
		Portal:  fmt.Sprintf("portal/%d", p.ID),
		PDF:     fmt.Sprintf("pdf/%d", p.ID),
	}
}

// --- Fixtures ---

func mkCand(id, year, number int, summary, keywords string, prov domsearch.Provenance) domsearch.Candidate {
	return domsearch.Candidate{
		Proposal: proposal.Proposal{
			ID:       id,
			Type:     proposal.TypePL,
			Number:   number,
			Year:     year,
			Author:   "Ver. JORGE HATO (PSD)",
			Summary:  summary,
			Keywords: keywords,
		},
		Provenance: prov,
	}
}

func semanticFilter(textual string) domsearch.Filter {
	return domsearch.NewFilter("", 0, nil, nil, nil, textual)
}

func newTestService(store *mockStore, embed *mockEmbedder, filter domsearch.Filter) *Service {
	return New(store, embed, stubExtractor{filter: filter}, stubLinks{}, zap.NewNop(), 0)
}
