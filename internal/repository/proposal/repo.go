// Package proposal implements the proposal datastore over Postgres with
// pgvector for the semantic pass.
package proposal

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	domprop "github.com/sampalegis/legisdex/internal/domain/proposal"
	domsearch "github.com/sampalegis/legisdex/internal/domain/search"
	"github.com/sampalegis/legisdex/internal/text"
)

// querier is the subset of pgxpool.Pool the repository needs.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository reads proposals from the "proposals" table. The table carries a
// search_text column (normalized summary+keywords+author) for the lexical
// pass and an embedding vector for the semantic pass.
type Repository struct {
	db querier
}

// New creates a proposal repository over the given pool.
func New(db querier) *Repository {
	return &Repository{db: db}
}

const candidateColumns = "id, type, number, year, author, summary, keywords"

// FilterIDs returns the IDs of every proposal matching the structured facets
// of the filter.
func (r *Repository) FilterIDs(ctx context.Context, f domsearch.Filter) ([]int, error) {
	where, args := structuredWhere(f)
	if where == "" {
		return nil, nil
	}

	rows, err := r.db.Query(ctx, "SELECT id FROM proposals WHERE "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query filter ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan filter id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate filter ids: %w", err)
	}
	return ids, nil
}

// ExactMatch returns the candidates whose search text contains any probe
// term, newest first. A nil ids slice searches the whole corpus.
func (r *Repository) ExactMatch(ctx context.Context, ids []int, terms []string) ([]domsearch.Candidate, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	patterns := make([]string, len(terms))
	for i, term := range terms {
		patterns[i] = "%" + term + "%"
	}

	query := "SELECT " + candidateColumns + " FROM proposals WHERE search_text LIKE ANY($1)"
	args := []any{patterns}
	if ids != nil {
		query += " AND id = ANY($2)"
		args = append(args, ids)
	}
	query += " ORDER BY year DESC, number DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query exact match: %w", err)
	}
	return scanCandidates(rows, domsearch.ProvenanceExact)
}

// VectorMatch returns the limit nearest candidates by cosine distance,
// restricted to ids when non-nil and skipping the excluded set.
func (r *Repository) VectorMatch(ctx context.Context, vector []float32, ids, excluded []int, limit int) ([]domsearch.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := "SELECT " + candidateColumns + " FROM proposals WHERE embedding IS NOT NULL"
	args := []any{pgvector.NewVector(vector)}
	if ids != nil {
		args = append(args, ids)
		query += fmt.Sprintf(" AND id = ANY($%d)", len(args))
	}
	if len(excluded) > 0 {
		args = append(args, excluded)
		query += fmt.Sprintf(" AND NOT (id = ANY($%d))", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY embedding <=> $1 LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vector match: %w", err)
	}
	return scanCandidates(rows, domsearch.ProvenanceSemantic)
}

// ByIDs pages through the given proposals, newest first.
func (r *Repository) ByIDs(ctx context.Context, ids []int, offset, limit int) ([]domsearch.Candidate, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(ctx,
		"SELECT "+candidateColumns+" FROM proposals WHERE id = ANY($1)"+
			" ORDER BY year DESC, number DESC OFFSET $2 LIMIT $3",
		ids, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("query by ids: %w", err)
	}
	return scanCandidates(rows, "")
}

// DistinctAuthors lists every distinct author string, used to build the
// author catalog at startup.
func (r *Repository) DistinctAuthors(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		"SELECT DISTINCT author FROM proposals WHERE author IS NOT NULL AND author <> '' ORDER BY author")
	if err != nil {
		return nil, fmt.Errorf("query distinct authors: %w", err)
	}
	defer rows.Close()

	var authors []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate authors: %w", err)
	}
	return authors, nil
}

// structuredWhere renders the facet conditions. Author values are matched as
// substrings of the normalized author column, so both full names and
// "(party)" forms work.
func structuredWhere(f domsearch.Filter) (string, []any) {
	var conds []string
	var args []any

	if f.Type() != "" {
		args = append(args, string(f.Type()))
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Number() != 0 {
		args = append(args, f.Number())
		conds = append(conds, fmt.Sprintf("number = $%d", len(args)))
	}
	if years := f.Years(); len(years) > 0 {
		args = append(args, years)
		conds = append(conds, fmt.Sprintf("year = ANY($%d)", len(args)))
	}
	if authors := f.Authors(); len(authors) > 0 {
		var ors []string
		for _, author := range authors {
			args = append(args, "%"+text.Normalize(author)+"%")
			ors = append(ors, fmt.Sprintf("author_search LIKE $%d", len(args)))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	return strings.Join(conds, " AND "), args
}

func scanCandidates(rows pgx.Rows, prov domsearch.Provenance) ([]domsearch.Candidate, error) {
	defer rows.Close()

	var out []domsearch.Candidate
	for rows.Next() {
		var c domsearch.Candidate
		var typ string
		if err := rows.Scan(&c.ID, &typ, &c.Number, &c.Year, &c.Author, &c.Summary, &c.Keywords); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.Type = domprop.Type(typ)
		c.Provenance = prov
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}

// SearchText renders the normalized lexical probe column for one proposal,
// shared by the ingest tooling and the tests.
func SearchText(p domprop.Proposal) string {
	return text.Normalize(p.Summary + " " +
		strings.ReplaceAll(p.Keywords, "|", " ") + " " + p.Author + " " +
		strconv.Itoa(p.Number) + " " + strconv.Itoa(p.Year))
}
