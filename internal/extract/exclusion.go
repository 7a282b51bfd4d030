package extract

import (
	"strconv"
	"strings"

	"github.com/sampalegis/legisdex/internal/domain/search"
	"github.com/sampalegis/legisdex/internal/text"
)

// ApplyExclusions removes user-excluded facet values from the filter and
// reinjects a representative token of each removed value into the semantic
// text, so the excluded facet still influences ranking instead of vanishing.
// Returns a new filter; the input is not mutated.
func ApplyExclusions(f search.Filter, excluded map[string][]string) search.Filter {
	if len(excluded) == 0 {
		return f
	}

	var appended []string

	authors := f.Authors()
	if dropped := excludedSet(excluded, search.FacetAuthor); len(dropped) > 0 {
		kept := authors[:0]
		for _, author := range authors {
			// Party entries are stored as "(code)" but displayed bare, so
			// both spellings count as a match.
			display := strings.NewReplacer("(", "", ")", "").Replace(author)
			_, drop := dropped[author]
			if !drop {
				_, drop = dropped[display]
			}
			if !drop {
				kept = append(kept, author)
				continue
			}
			// Keep the most recognizable part of the name in play: the
			// final token is the surname for "Ver. Nome Sobrenome" entries.
			parts := strings.Fields(display)
			if last := strings.ToLower(parts[len(parts)-1]); len([]rune(last)) > 3 {
				appended = append(appended, last)
			}
		}
		authors = kept
	}

	years := f.Years()
	if dropped := excludedSet(excluded, search.FacetYear); len(dropped) > 0 {
		kept := years[:0]
		for _, year := range years {
			if _, drop := dropped[strconv.Itoa(year)]; !drop {
				kept = append(kept, year)
				continue
			}
			appended = append(appended, strconv.Itoa(year))
		}
		years = kept
	}

	typ := f.Type()
	if dropped := excludedSet(excluded, search.FacetType); typ != "" {
		if _, drop := dropped[string(typ)]; drop {
			appended = append(appended, strings.ToLower(string(typ)))
			typ = ""
		}
	}

	number := f.Number()
	if dropped := excludedSet(excluded, search.FacetNumber); number != 0 {
		if _, drop := dropped[strconv.Itoa(number)]; drop {
			appended = append(appended, strconv.Itoa(number))
			number = 0
		}
	}

	semantic := f.SemanticText()
	if len(appended) > 0 {
		semantic = text.CollapseSpaces(semantic + " " + strings.Join(appended, " "))
	}

	return search.NewFilter(typ, number, years, authors, f.ExactPhrases(), semantic)
}

func excludedSet(excluded map[string][]string, facet string) map[string]struct{} {
	values := excluded[facet]
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
