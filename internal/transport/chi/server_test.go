package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sampalegis/legisdex/internal/domain"
	"github.com/sampalegis/legisdex/internal/domain/proposal"
	domsearch "github.com/sampalegis/legisdex/internal/domain/search"
	searchuc "github.com/sampalegis/legisdex/internal/usecase/search"
)

type mockSearcher struct {
	lastQuery domsearch.Query
	response  domsearch.Response
	stages    []struct {
		name string
		resp domsearch.Response
	}
	searchCalled bool
	stagedCalled bool
}

func (m *mockSearcher) Search(_ context.Context, q domsearch.Query) domsearch.Response {
	m.searchCalled = true
	m.lastQuery = q
	return m.response
}

func (m *mockSearcher) SearchStaged(_ context.Context, q domsearch.Query, emit searchuc.StagedHandler) {
	m.stagedCalled = true
	m.lastQuery = q
	for _, st := range m.stages {
		emit(st.name, st.resp)
	}
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

type mockHealthChecker struct {
	err error
}

func (m *mockHealthChecker) HealthCheck(context.Context) error { return m.err }

func sampleResponse() domsearch.Response {
	return domsearch.Response{
		Results: []domsearch.Result{
			{
				Candidate: domsearch.Candidate{
					Proposal: proposal.Proposal{
						ID:       42,
						Type:     proposal.TypePL,
						Number:   680,
						Year:     2025,
						Author:   "Ver. JORGE HATO (PSD)",
						Summary:  "Coleta seletiva de lixo",
						Keywords: "lixo | coleta",
					},
					Provenance: domsearch.ProvenanceExact,
				},
				Links: proposal.Links{SPLegis: "sp/42", Portal: "portal/42", PDF: "pdf/42"},
			},
		},
		AppliedFilters: map[string][]string{domsearch.FacetType: {"PL"}},
		Page:           0,
		PageSize:       20,
		TotalCount:     1,
		HasMore:        false,
		HighlightTerms: []string{"coleta", "lixo"},
	}
}

func newTestRouter(searcher Searcher, db Pinger, emb *mockHealthChecker) *chirouter.Mux {
	var hc domain.HealthChecker
	if emb != nil {
		hc = emb
	}
	srv := NewServer(searcher, db, hc, zap.NewNop(), Config{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		StreamTimeout:   time.Second,
	})
	r := chirouter.NewRouter()
	srv.Routes(r)
	return r
}

func TestHandleSearch(t *testing.T) {
	searcher := &mockSearcher{response: sampleResponse()}
	r := newTestRouter(searcher, &mockPinger{}, nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/search?q=coleta+de+lixo", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var dto responseDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.Stage != "complete" {
		t.Errorf("stage = %q, want complete", dto.Stage)
	}
	if len(dto.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(dto.Results))
	}
	got := dto.Results[0]
	if got.ID != 42 || got.Type != "PL" || got.Number != 680 || got.Year != 2025 {
		t.Errorf("result = %+v", got)
	}
	if got.Provenance != "exact" {
		t.Errorf("resultType = %q, want exact", got.Provenance)
	}
	if got.Links.SPLegis != "sp/42" || got.Links.PDF != "pdf/42" {
		t.Errorf("links = %+v", got.Links)
	}
	if searcher.lastQuery.Raw != "coleta de lixo" {
		t.Errorf("raw query = %q", searcher.lastQuery.Raw)
	}
	if searcher.lastQuery.PageSize != 20 {
		t.Errorf("default page size = %d, want 20", searcher.lastQuery.PageSize)
	}
}

func TestHandleSearchParams(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		check      func(t *testing.T, q domsearch.Query)
	}{
		{
			name:       "empty q is not an error",
			target:     "/api/search",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, q domsearch.Query) {
				if q.Raw != "" {
					t.Errorf("raw query = %q, want empty", q.Raw)
				}
			},
		},
		{
			name:       "invalid page",
			target:     "/api/search?q=lixo&page=abc",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative page",
			target:     "/api/search?q=lixo&page=-1",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero size",
			target:     "/api/search?q=lixo&size=0",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed excludedFilters",
			target:     "/api/search?q=lixo&excludedFilters=not-json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "size clamped to max",
			target:     "/api/search?q=lixo&size=500",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, q domsearch.Query) {
				if q.PageSize != 100 {
					t.Errorf("page size = %d, want 100", q.PageSize)
				}
			},
		},
		{
			name:       "page and size pass through",
			target:     "/api/search?q=lixo&page=3&size=10",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, q domsearch.Query) {
				if q.Page != 3 || q.PageSize != 10 {
					t.Errorf("page/size = %d/%d, want 3/10", q.Page, q.PageSize)
				}
			},
		},
		{
			name:       "excluded filters decoded",
			target:     `/api/search?q=lixo&excludedFilters=` + `%7B%22Autor%22%3A%5B%22Ver.%20JORGE%20HATO%20(PSD)%22%5D%7D`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, q domsearch.Query) {
				got := q.Excluded["Autor"]
				if len(got) != 1 || got[0] != "Ver. JORGE HATO (PSD)" {
					t.Errorf("excluded authors = %v", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &mockSearcher{response: domsearch.Empty(0, 20)}
			r := newTestRouter(searcher, &mockPinger{}, nil)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantStatus == http.StatusBadRequest {
				if searcher.searchCalled {
					t.Error("search ran despite invalid params")
				}
				return
			}
			if tt.check != nil {
				tt.check(t, searcher.lastQuery)
			}
		})
	}
}

func TestHandleSearchStream(t *testing.T) {
	exact := sampleResponse()
	complete := sampleResponse()
	complete.TotalCount = 2

	searcher := &mockSearcher{}
	searcher.stages = []struct {
		name string
		resp domsearch.Response
	}{
		{"exact", exact},
		{"complete", complete},
	}
	r := newTestRouter(searcher, &mockPinger{}, nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/search/stream?q=coleta", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	if !rr.Flushed {
		t.Error("response was never flushed")
	}

	body := rr.Body.String()
	exactIdx := strings.Index(body, "event: exact\n")
	completeIdx := strings.Index(body, "event: complete\n")
	if exactIdx < 0 || completeIdx < 0 {
		t.Fatalf("missing events in body:\n%s", body)
	}
	if exactIdx > completeIdx {
		t.Error("exact event delivered after complete")
	}

	// Each event's data line carries a full response page.
	for _, frame := range strings.Split(strings.TrimSpace(body), "\n\n") {
		lines := strings.SplitN(frame, "\n", 2)
		if len(lines) != 2 || !strings.HasPrefix(lines[1], "data: ") {
			t.Fatalf("malformed frame %q", frame)
		}
		var dto responseDTO
		if err := json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &dto); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		if dto.Stage == "complete" && dto.TotalCount != 2 {
			t.Errorf("complete totalCount = %d, want 2", dto.TotalCount)
		}
	}
}

func TestHandleSearchStreamEmptyQuery(t *testing.T) {
	// An empty query is not an error: the stream still opens and delivers
	// the empty-shaped complete event.
	searcher := &mockSearcher{}
	searcher.stages = []struct {
		name string
		resp domsearch.Response
	}{
		{"complete", domsearch.Empty(0, 20)},
	}
	r := newTestRouter(searcher, &mockPinger{}, nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/search/stream", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !searcher.stagedCalled {
		t.Fatal("staged search did not run")
	}
	body := rr.Body.String()
	if !strings.Contains(body, "event: complete\n") {
		t.Errorf("missing complete event:\n%s", body)
	}
	if strings.Contains(body, "event: exact\n") {
		t.Errorf("unexpected exact event for an empty query:\n%s", body)
	}
}

func TestHandleSearchStreamBadRequest(t *testing.T) {
	searcher := &mockSearcher{}
	r := newTestRouter(searcher, &mockPinger{}, nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/search/stream?q=lixo&page=abc", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if searcher.stagedCalled {
		t.Error("staged search ran despite invalid params")
	}
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name       string
		dbErr      error
		embErr     error
		wantStatus int
		wantState  string
	}{
		{"all healthy", nil, nil, http.StatusOK, "ok"},
		{"database down", errors.New("conn refused"), nil, http.StatusServiceUnavailable, "unavailable"},
		{"embedding degraded", nil, errors.New("provider 503"), http.StatusOK, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&mockSearcher{}, &mockPinger{err: tt.dbErr}, &mockHealthChecker{err: tt.embErr})

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			var payload struct {
				Status     string `json:"status"`
				Components map[string]struct {
					Status string `json:"status"`
				} `json:"components"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode health: %v", err)
			}
			if payload.Status != tt.wantState {
				t.Errorf("status = %q, want %q", payload.Status, tt.wantState)
			}
			if tt.embErr != nil && payload.Components["embedding"].Status != "degraded" {
				t.Errorf("embedding status = %q, want degraded", payload.Components["embedding"].Status)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(&mockSearcher{}, &mockPinger{}, nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}
