// Package lexicon holds the process-wide reference data for author and party
// extraction: the set of known author display names and the party codes
// derived from their parenthesized suffixes.
package lexicon

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// AuthorSource lists the distinct author strings known to the datastore.
type AuthorSource interface {
	DistinctAuthors(ctx context.Context) ([]string, error)
}

var (
	partyPattern  = regexp.MustCompile(`\((.*?)\)`)
	partySuffix   = regexp.MustCompile(`\s*\(.*\)`)
	titlePrefixes = []string{"Ver. ", "Executivo - ", "Dr. "}
)

// Catalog is built once at startup and read-only afterwards; safe for
// unlimited concurrent readers. A fresh process restart is the only refresh
// mechanism.
type Catalog struct {
	authors []string
	parties []string
}

// Build fetches the distinct author list and derives the party set. Fails
// soft: on a datastore error the catalog is left empty so author and party
// extraction degrades to "no match" instead of failing the process.
func Build(ctx context.Context, src AuthorSource, logger *zap.Logger) *Catalog {
	authors, err := src.DistinctAuthors(ctx)
	if err != nil {
		logger.Warn("author catalog unavailable, extraction degrades to no-match", zap.Error(err))
		return &Catalog{}
	}

	seen := make(map[string]struct{})
	var parties []string
	for _, author := range authors {
		m := partyPattern.FindStringSubmatch(author)
		if m == nil {
			continue
		}
		party := strings.ToLower(m[1])
		if _, dup := seen[party]; dup || party == "" {
			continue
		}
		seen[party] = struct{}{}
		parties = append(parties, party)
	}

	logger.Info("author catalog built",
		zap.Int("authors", len(authors)),
		zap.Int("parties", len(parties)),
	)
	return &Catalog{authors: authors, parties: parties}
}

// Authors returns the raw "Name (PARTY)" strings.
func (c *Catalog) Authors() []string { return c.authors }

// Parties returns the lowercased party codes.
func (c *Catalog) Parties() []string { return c.parties }

// CleanName strips the parenthesized party suffix from an author string.
func CleanName(author string) string {
	return strings.TrimSpace(partySuffix.ReplaceAllString(author, ""))
}

// StripTitle removes a leading honorific or mandate prefix ("Ver. ",
// "Executivo - ", "Dr. ") from a cleaned author name.
func StripTitle(name string) string {
	for _, prefix := range titlePrefixes {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(name, prefix))
		}
	}
	return strings.TrimSpace(name)
}
