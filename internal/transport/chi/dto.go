package chi

import domsearch "github.com/sampalegis/legisdex/internal/domain/search"

type linksDTO struct {
	SPLegis string `json:"splegis"`
	Portal  string `json:"portal"`
	PDF     string `json:"pdf"`
}

type resultDTO struct {
	ID         int      `json:"id"`
	Type       string   `json:"type"`
	Number     int      `json:"number"`
	Year       int      `json:"year"`
	Author     string   `json:"author"`
	Summary    string   `json:"summary"`
	Keywords   string   `json:"keywords"`
	Provenance string   `json:"resultType"`
	Links      linksDTO `json:"links"`
}

type responseDTO struct {
	Stage          string              `json:"stage"`
	Results        []resultDTO         `json:"results"`
	AppliedFilters map[string][]string `json:"appliedFilters"`
	Page           int                 `json:"page"`
	PageSize       int                 `json:"pageSize"`
	TotalCount     int                 `json:"totalCount"`
	HasMore        bool                `json:"hasMore"`
	HighlightTerms []string            `json:"highlightTerms"`
}

func toResponseDTO(resp domsearch.Response, stage string) responseDTO {
	results := make([]resultDTO, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, resultDTO{
			ID:         r.ID,
			Type:       string(r.Type),
			Number:     r.Number,
			Year:       r.Year,
			Author:     r.Author,
			Summary:    r.Summary,
			Keywords:   r.Keywords,
			Provenance: string(r.Provenance),
			Links: linksDTO{
				SPLegis: r.Links.SPLegis,
				Portal:  r.Links.Portal,
				PDF:     r.Links.PDF,
			},
		})
	}
	return responseDTO{
		Stage:          stage,
		Results:        results,
		AppliedFilters: resp.AppliedFilters,
		Page:           resp.Page,
		PageSize:       resp.PageSize,
		TotalCount:     resp.TotalCount,
		HasMore:        resp.HasMore,
		HighlightTerms: resp.HighlightTerms,
	}
}
