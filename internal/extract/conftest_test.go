package extract

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sampalegis/legisdex/internal/lexicon"
)

type stubAuthorSource struct {
	authors []string
}

func (s *stubAuthorSource) DistinctAuthors(_ context.Context) ([]string, error) {
	return s.authors, nil
}

var testAuthors = []string{
	"Ver. RICARDO TEIXEIRA (UNIÃO)",
	"Ver. RICARDO NUNES (MDB)",
	"Executivo - RICARDO NUNES (MDB)",
	"Ver. ANA CAROLINA OLIVEIRA (PSOL)",
	"Ver. DANILO DO POSTO DE SAÚDE (PODE)",
	"Ver. JORGE HATO (PSD)",
	"Ver. EDUARDO HATO (PODE)",
}

// newTestExtractor builds an extractor over a fixed catalog with the clock
// pinned to mid-2025.
func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	cat := lexicon.Build(context.Background(), &stubAuthorSource{authors: testAuthors}, zap.NewNop())
	return New(cat, WithClock(func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	}))
}

func yearsOf(t *testing.T, e *Extractor, query string) []int {
	t.Helper()
	return e.Extract(query).Years()
}
