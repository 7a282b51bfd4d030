// Package extract decomposes a free-form Portuguese query into structured
// filters (type, number, years, authors, quoted phrases) and a residual
// semantic text. Stages run in a fixed order and each consumes the span it
// matched, so later stages never re-match already-extracted text.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sampalegis/legisdex/internal/domain/proposal"
	"github.com/sampalegis/legisdex/internal/domain/search"
	"github.com/sampalegis/legisdex/internal/lexicon"
	"github.com/sampalegis/legisdex/internal/text"
)

const (
	yearFloor = 1990
	numberMin = 1
	numberMax = 1500
)

var (
	quotedPhrase = regexp.MustCompile(`"([^"]*)"`)
	looseHyphen  = regexp.MustCompile(`\s-\s`)

	// Four surface forms of a year range; bounds are always 4 digits.
	yearRange = regexp.MustCompile(
		`(?:entre(?: os anos(?: de)?)? (\d{4}) e (\d{4})` +
			`|de (\d{4}) a (\d{4})` +
			`|(\d{4}) a (\d{4})` +
			`|(\d{4})-(\d{4}))`)

	// Standalone years 1990-2029; validity is checked separately.
	standaloneYear = regexp.MustCompile(`\b((?:199|20[0-2])\d)\b`)
	recentYears    = regexp.MustCompile(`ultimos (\d+) anos`)
	standaloneNum  = regexp.MustCompile(`\b(\d{1,4})\b`)

	combinedTypeNum *regexp.Regexp
	standaloneType  *regexp.Regexp
)

func init() {
	aliases := make([]string, 0, len(typeAliases))
	for alias := range typeAliases {
		aliases = append(aliases, regexp.QuoteMeta(alias))
	}
	// Longest first so "projetos de lei" wins over "pl".
	sort.Slice(aliases, func(i, j int) bool { return len(aliases[i]) > len(aliases[j]) })
	alt := strings.Join(aliases, "|")

	combinedTypeNum = regexp.MustCompile(
		`\b(` + alt + `)\s*(\d{1,4})(?:\s*/\s*(\d{4})|\s+(\d{4})|\s*-\s*(\d{4}))?\b`)
	standaloneType = regexp.MustCompile(`\b(` + alt + `)\b`)
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithThematicTerms replaces the default thematic-term dictionary.
func WithThematicTerms(terms []string) Option {
	return func(e *Extractor) { e.thematic = toSet(terms) }
}

// WithSemanticStopwords replaces the default residual-text stopword list.
func WithSemanticStopwords(words []string) Option {
	return func(e *Extractor) { e.stopwords = toSet(words) }
}

// WithClock overrides the time source used for "últimos N anos" expansion
// and year validity bounds.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// Extractor runs the rule pipeline against a read-only author catalog.
type Extractor struct {
	catalog   *lexicon.Catalog
	thematic  map[string]struct{}
	stopwords map[string]struct{}
	now       func() time.Time
}

// New creates an extractor over the given catalog.
func New(catalog *lexicon.Catalog, opts ...Option) *Extractor {
	e := &Extractor{
		catalog:   catalog,
		thematic:  toSet(DefaultThematicTerms),
		stopwords: toSet(DefaultSemanticStopwords),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract decomposes raw into a structured filter. Pure: no state is kept
// between calls beyond the catalog.
func (e *Extractor) Extract(raw string) search.Filter {
	trimmed := strings.TrimSpace(raw)
	if len([]rune(trimmed)) <= 1 {
		return search.NewFilter("", 0, nil, nil, nil, trimmed)
	}

	phrases, work := extractPhrases(raw)

	// A lone hyphen is a separator; dropping it early keeps author names
	// containing " - " intact.
	work = looseHyphen.ReplaceAllString(work, " ")
	work = text.CollapseSpaces(text.Normalize(work))

	typ, number, years, work := e.extractTypeNumberYear(work)
	if typ == "" {
		typ, work = extractType(work)
	}
	if len(years) == 0 {
		years, work = extractYearRange(work)
	}
	if len(years) == 0 {
		years, work = e.extractYears(work)
	}
	if number == 0 {
		number, work = extractNumber(work)
	}

	var authors []string
	var partyAuthors []string
	partyAuthors, work = e.extractParties(work)
	authors, work = e.extractAuthors(work)
	authors = append(partyAuthors, authors...)

	semantic := e.stripStopwords(work)

	return search.NewFilter(typ, number, years, authors, phrases, semantic)
}

// extractPhrases collects quoted spans and strips only the quote characters,
// keeping the content available for the structural stages.
func extractPhrases(raw string) ([]string, string) {
	var phrases []string
	for _, m := range quotedPhrase.FindAllStringSubmatch(raw, -1) {
		phrase := strings.TrimSpace(m[1])
		if phrase != "" {
			phrases = append(phrases, phrase)
		}
	}
	return phrases, strings.ReplaceAll(raw, `"`, "")
}

// extractTypeNumberYear matches a type alias immediately followed by a
// number and an optional year suffix ("/2025", " 2025" or "-2025"),
// consuming all three in one shot. Takes precedence over the standalone
// stages so the number is not re-captured as an unrelated proposal number.
func (e *Extractor) extractTypeNumberYear(work string) (proposal.Type, int, []int, string) {
	m := combinedTypeNum.FindStringSubmatchIndex(work)
	if m == nil {
		return "", 0, nil, work
	}

	alias := work[m[2]:m[3]]
	number, _ := strconv.Atoi(work[m[4]:m[5]])
	if number < numberMin || number > numberMax {
		return "", 0, nil, work
	}

	var years []int
	for _, g := range []int{3, 4, 5} {
		if m[2*g] < 0 {
			continue
		}
		year, _ := strconv.Atoi(work[m[2*g] : m[2*g+1]])
		if year >= yearFloor && year <= e.yearCeil() {
			years = append(years, year)
		}
		break
	}

	work = text.CollapseSpaces(work[:m[0]] + " " + work[m[1]:])
	return typeAliases[alias], number, years, work
}

func extractType(work string) (proposal.Type, string) {
	m := standaloneType.FindStringSubmatchIndex(work)
	if m == nil {
		return "", work
	}
	alias := work[m[2]:m[3]]
	work = text.CollapseSpaces(work[:m[0]] + " " + work[m[1]:])
	return typeAliases[alias], work
}

// extractYearRange expands "entre 2015 e 2018", "de 2015 a 2018",
// "2015 a 2018" and "2015-2018" into every year of the closed interval.
func extractYearRange(work string) ([]int, string) {
	m := yearRange.FindStringSubmatchIndex(work)
	if m == nil {
		return nil, work
	}

	var lo, hi int
	for _, g := range []int{1, 3, 5, 7} {
		if m[2*g] < 0 {
			continue
		}
		lo, _ = strconv.Atoi(work[m[2*g] : m[2*g+1]])
		hi, _ = strconv.Atoi(work[m[2*(g+1)] : m[2*(g+1)+1]])
		break
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	years := make([]int, 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		years = append(years, y)
	}

	work = text.CollapseSpaces(work[:m[0]] + " " + work[m[1]:])
	return years, work
}

// historicalYearCeil is the lowest acceptable validity ceiling; the real
// ceiling tracks the wall clock plus one year for early-filed proposals.
// Values outside [yearFloor, ceil] are noise, not errors.
const historicalYearCeil = 2025

func (e *Extractor) yearCeil() int {
	if now := e.now().Year() + 1; now > historicalYearCeil {
		return now
	}
	return historicalYearCeil
}

// extractYears collects every standalone 4-digit year token, plus the
// "últimos N anos" form expanded back from the current year.
func (e *Extractor) extractYears(work string) ([]int, string) {
	var years []int
	ceil := e.yearCeil()

	for _, m := range standaloneYear.FindAllStringSubmatch(work, -1) {
		year, _ := strconv.Atoi(m[1])
		if year < yearFloor || year > ceil {
			continue
		}
		years = append(years, year)
		work = text.RemoveWord(work, m[1])
	}

	if m := recentYears.FindStringSubmatch(work); m != nil {
		n, _ := strconv.Atoi(m[1])
		current := e.now().Year()
		for i := 0; i < n; i++ {
			years = append(years, current-i)
		}
		work = text.CollapseSpaces(recentYears.ReplaceAllString(work, " "))
	}

	return years, work
}

// extractNumber takes the first whole-number token in the proposal-number
// range; later occurrences stay in the semantic text.
func extractNumber(work string) (int, string) {
	for _, m := range standaloneNum.FindAllStringSubmatchIndex(work, -1) {
		num, _ := strconv.Atoi(work[m[2]:m[3]])
		if num < numberMin || num > numberMax {
			continue
		}
		work = text.CollapseSpaces(work[:m[0]] + " " + work[m[1]:])
		return num, work
	}
	return 0, work
}

// extractParties matches every known party code as a standalone word and
// records it in the author set in its canonical "(code)" form.
func (e *Extractor) extractParties(work string) ([]string, string) {
	var matched []string
	for _, party := range e.catalog.Parties() {
		norm := text.Normalize(party)
		if !text.ContainsWord(work, norm) {
			continue
		}
		matched = append(matched, "("+party+")")
		work = text.RemoveWord(work, norm)
	}
	return matched, work
}

// extractAuthors resolves author mentions in two phases: exact multi-word
// full names first, individual name tokens only when no full name matched.
func (e *Extractor) extractAuthors(work string) ([]string, string) {
	authors, work, found := e.matchFullNames(work)
	if found {
		return authors, work
	}
	return e.matchNameTokens(work)
}

// matchFullNames collects every catalog author whose title-stripped name
// appears whole in the query, so co-referring entries ("Ver. X" and
// "Executivo - X") all match. Matched name tokens are removed afterwards.
func (e *Extractor) matchFullNames(work string) ([]string, string, bool) {
	var matched []string
	added := make(map[string]struct{})
	removeTokens := make(map[string]struct{})

	for _, author := range e.catalog.Authors() {
		clean := lexicon.CleanName(author)
		base := text.Normalize(lexicon.StripTitle(clean))
		if !strings.Contains(base, " ") {
			continue
		}
		if work != base && !text.ContainsWord(work, base) {
			continue
		}
		if _, dup := added[clean]; dup {
			continue
		}
		added[clean] = struct{}{}
		matched = append(matched, clean)
		for _, tok := range strings.Fields(base) {
			removeTokens[tok] = struct{}{}
		}
	}

	if len(matched) == 0 {
		return nil, work, false
	}
	for tok := range removeTokens {
		work = text.RemoveWord(work, tok)
	}
	return matched, work, true
}

// matchNameTokens matches the first usable token of each catalog author
// against the query. Tokens are skipped when too short, connective, or when
// they are thematic terms present in the query (a topic word is not a
// surname). Removal is deferred so two authors sharing a surname both match.
func (e *Extractor) matchNameTokens(work string) ([]string, string) {
	var matched []string
	added := make(map[string]struct{})
	removeTokens := make(map[string]struct{})

	for _, author := range e.catalog.Authors() {
		clean := lexicon.CleanName(author)
		if _, dup := added[clean]; dup {
			continue
		}
		for _, tok := range strings.Fields(text.Normalize(clean)) {
			if len([]rune(tok)) <= 2 {
				continue
			}
			if _, stop := nameStopwords[tok]; stop {
				continue
			}
			if _, thematic := e.thematic[tok]; thematic && text.ContainsWord(work, tok) {
				continue
			}
			if !text.ContainsWord(work, tok) {
				continue
			}
			added[clean] = struct{}{}
			matched = append(matched, clean)
			removeTokens[tok] = struct{}{}
			break
		}
	}

	for tok := range removeTokens {
		work = text.RemoveWord(work, tok)
	}
	return matched, work
}

// stripStopwords drops filler words and collapses whitespace into the final
// semantic text.
func (e *Extractor) stripStopwords(work string) string {
	fields := strings.Fields(work)
	kept := fields[:0]
	for _, f := range fields {
		if _, stop := e.stopwords[f]; stop {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
