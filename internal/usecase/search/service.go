// Package search orchestrates the hybrid retrieval pipeline: structured
// filtering, lexical exact matching, vector search over the residue, ranking
// and pagination.
package search

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domsearch "github.com/sampalegis/legisdex/internal/domain/search"
	"github.com/sampalegis/legisdex/internal/extract"
	"github.com/sampalegis/legisdex/internal/metrics"
	"github.com/sampalegis/legisdex/internal/text"
)

// DefaultMaxResults caps the merged candidate set of one request.
const DefaultMaxResults = 1000

// DefaultPageSize is used when the request does not name one.
const DefaultPageSize = 20

// errPassFailed is a sentinel for an already-logged retrieval pass failure.
var errPassFailed = errors.New("retrieval pass failed")

// Service executes search requests end to end. Any collaborator failure is
// contained here: callers always get a well-formed response.
type Service struct {
	store      Datastore
	embed      Embedder
	extractor  Extractor
	links      LinkBuilder
	logger     *zap.Logger
	maxResults int
	stopwords  map[string]struct{}
}

// New creates a search service. maxResults <= 0 selects the default cap.
func New(store Datastore, embed Embedder, extractor Extractor, links LinkBuilder, logger *zap.Logger, maxResults int) *Service {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	s := &Service{
		store:      store,
		embed:      embed,
		extractor:  extractor,
		links:      links,
		logger:     logger,
		maxResults: maxResults,
	}
	return s.WithHighlightStopwords(extract.DefaultSemanticStopwords)
}

// WithHighlightStopwords replaces the filler-word list dropped from the
// highlight term set.
func (s *Service) WithHighlightStopwords(words []string) *Service {
	s.stopwords = make(map[string]struct{}, len(words))
	for _, w := range words {
		s.stopwords[w] = struct{}{}
	}
	return s
}

// Search runs the full pipeline for one query and returns the requested page.
func (s *Service) Search(ctx context.Context, q domsearch.Query) domsearch.Response {
	page, size := normalizePage(q)

	filter := s.interpret(q)
	ret, ok := s.retrieve(ctx, filter, page, size, nil)
	if !ok {
		return domsearch.Empty(page, size)
	}
	return s.respond(q, filter, ret, page, size)
}

// StagedHandler receives intermediate result pages during a staged search.
// The exact stage is skipped when the lexical pass finds nothing.
type StagedHandler func(stage string, resp domsearch.Response)

// SearchStaged runs the same pipeline but delivers the lexical page as soon
// as it is ready, then the complete merged page. Used by the streaming
// transport.
func (s *Service) SearchStaged(ctx context.Context, q domsearch.Query, emit StagedHandler) {
	page, size := normalizePage(q)

	filter := s.interpret(q)
	onExact := func(exact []domsearch.RankedResult) {
		if len(exact) == 0 {
			return
		}
		emit("exact", s.respond(q, filter, retrieval{ranked: exact}, page, size))
	}

	ret, ok := s.retrieve(ctx, filter, page, size, onExact)
	if !ok {
		emit("complete", domsearch.Empty(page, size))
		return
	}
	emit("complete", s.respond(q, filter, ret, page, size))
}

func (s *Service) interpret(q domsearch.Query) domsearch.Filter {
	filter := s.extractor.Extract(q.Raw)
	return extract.ApplyExclusions(filter, q.Excluded)
}

// retrieval is the outcome of the retrieval passes. When paged is set, ranked
// already holds only the requested page and total carries the full filtered
// count; otherwise ranked is the whole candidate set awaiting pagination.
type retrieval struct {
	ranked []domsearch.RankedResult
	paged  bool
	total  int
}

// retrieve runs the structured, exact and semantic passes and returns the
// ranked candidate set. onExact, when non-nil, is called with the ranked
// lexical candidates as soon as that pass completes. ok is false when a
// collaborator failed.
func (s *Service) retrieve(ctx context.Context, filter domsearch.Filter, page, size int, onExact func([]domsearch.RankedResult)) (retrieval, bool) {
	structured := !filter.IsStructuredEmpty()
	semantic := strings.TrimSpace(filter.SemanticText())
	phrases := filter.ExactPhrases()

	if !structured && semantic == "" && len(phrases) == 0 {
		return retrieval{}, false
	}

	var ids []int
	if structured {
		var err error
		ids, err = s.store.FilterIDs(ctx, filter)
		if err != nil {
			s.logger.Error("structured filter pass failed", zap.Error(err))
			return retrieval{}, false
		}
		if len(ids) == 0 {
			return retrieval{ranked: []domsearch.RankedResult{}}, true
		}
	}

	// Pure structured browse: nothing left to match lexically or
	// semantically, so page through the filtered set in the store. The
	// filtered identifier count is the true total.
	if semantic == "" && len(phrases) == 0 {
		candidates, err := s.store.ByIDs(ctx, ids, page*size, size)
		if err != nil {
			s.logger.Error("structured browse failed", zap.Error(err))
			return retrieval{}, false
		}
		metrics.SearchCandidatesTotal.WithLabelValues("structured").Add(float64(len(candidates)))
		return retrieval{ranked: rank(candidates, nil, nil), paged: true, total: len(ids)}, true
	}

	terms := queryTerms(filter)

	embedText := semantic
	if embedText == "" {
		embedText = strings.Join(phrases, " ")
	}

	// The embedding round-trip overlaps the lexical pass; the vector pass
	// needs the exact IDs and runs after both.
	var exact []domsearch.Candidate
	var vector []float32

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matched, ok := s.exactPass(gctx, ids, terms)
		if !ok {
			return errPassFailed
		}
		exact = matched
		if onExact != nil {
			onExact(rank(exact, terms, phrases))
		}
		return nil
	})
	g.Go(func() error {
		res, err := s.embed.Embed(gctx, embedText)
		if err != nil {
			s.logger.Error("query embedding failed", zap.Error(err))
			return errPassFailed
		}
		vector = res.Embedding
		return nil
	})
	if err := g.Wait(); err != nil {
		return retrieval{}, false
	}

	candidates := exact
	if remaining := s.maxResults - len(exact); remaining > 0 {
		excluded := make([]int, 0, len(exact))
		for _, c := range exact {
			excluded = append(excluded, c.ID)
		}
		near, err := s.store.VectorMatch(ctx, vector, ids, excluded, remaining)
		if err != nil {
			s.logger.Error("vector pass failed", zap.Error(err))
			return retrieval{}, false
		}
		candidates = append(candidates, near...)
		metrics.SearchCandidatesTotal.WithLabelValues("semantic").Add(float64(len(near)))
	}
	metrics.SearchCandidatesTotal.WithLabelValues("exact").Add(float64(len(exact)))

	return retrieval{ranked: rank(candidates, terms, phrases)}, true
}

// exactPass asks the datastore for lexical matches and re-validates each
// candidate locally, since the store probe is a broad LIKE over concatenated
// columns.
func (s *Service) exactPass(ctx context.Context, ids []int, terms []string) ([]domsearch.Candidate, bool) {
	if len(terms) == 0 {
		return nil, true
	}

	matched, err := s.store.ExactMatch(ctx, ids, terms)
	if err != nil {
		s.logger.Error("exact pass failed", zap.Error(err))
		return nil, false
	}

	kept := matched[:0]
	for _, c := range matched {
		if matchesAnyTerm(c, terms) {
			c.Provenance = domsearch.ProvenanceExact
			kept = append(kept, c)
		}
	}
	if len(kept) > s.maxResults {
		kept = kept[:s.maxResults]
	}
	return kept, true
}

// queryTerms derives the lexical probe terms: semantic-text tokens, whole
// normalized phrases, and each phrase's own tokens, deduplicated. Single-rune
// tokens are noise.
func queryTerms(filter domsearch.Filter) []string {
	var terms []string
	seen := make(map[string]struct{})
	add := func(term string) {
		if len([]rune(term)) <= 1 {
			return
		}
		if _, dup := seen[term]; dup {
			return
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	for _, tok := range strings.Fields(filter.SemanticText()) {
		add(tok)
	}
	for _, phrase := range filter.ExactPhrases() {
		norm := text.CollapseSpaces(text.Normalize(phrase))
		add(norm)
		for _, tok := range strings.Fields(norm) {
			add(tok)
		}
	}
	return terms
}

// matchesAnyTerm re-checks a candidate against the probe terms over its
// summary, keywords and author.
func matchesAnyTerm(c domsearch.Candidate, terms []string) bool {
	haystack := text.Normalize(c.Summary + " " + strings.ReplaceAll(c.Keywords, "|", " ") + " " + c.Author)
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

// respond pages (when needed) and decorates the retrieved set.
func (s *Service) respond(q domsearch.Query, filter domsearch.Filter, ret retrieval, page, size int) domsearch.Response {
	var results []domsearch.Result
	var total int
	var hasMore bool
	if ret.paged {
		results = decorate(ret.ranked, s.links)
		total = ret.total
		hasMore = (page+1)*size < total
	} else {
		results, total, hasMore = paginate(ret.ranked, page, size, s.links)
	}
	return domsearch.Response{
		Results:        results,
		AppliedFilters: filter.AppliedFacets(),
		Page:           page,
		PageSize:       size,
		TotalCount:     total,
		HasMore:        hasMore,
		HighlightTerms: highlightTerms(q.Raw, filter.ExactPhrases(), s.stopwords),
	}
}

func normalizePage(q domsearch.Query) (page, size int) {
	page, size = q.Page, q.PageSize
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return page, size
}
