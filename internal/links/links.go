// Package links renders the official portal URLs of a proposal.
package links

import (
	"fmt"

	"github.com/sampalegis/legisdex/internal/domain/proposal"
)

// splegisTypeCode maps a proposal type to the SPLegis matter code.
var splegisTypeCode = map[proposal.Type]int{
	proposal.TypePL:  1,
	proposal.TypePDL: 2,
	proposal.TypePLO: 3,
	proposal.TypePR:  4,
}

// Builder renders links against configurable portal bases.
type Builder struct {
	splegisBase string
	portalBase  string
	pdfBase     string
}

// New creates a link builder. Bases carry no trailing slash.
func New(splegisBase, portalBase, pdfBase string) *Builder {
	return &Builder{
		splegisBase: splegisBase,
		portalBase:  portalBase,
		pdfBase:     pdfBase,
	}
}

// Build renders the three portal links of one proposal.
func (b *Builder) Build(p proposal.Proposal) proposal.Links {
	return proposal.Links{
		SPLegis: b.splegis(p),
		Portal:  b.portal(p),
		PDF:     b.pdf(p),
	}
}

func (b *Builder) splegis(p proposal.Proposal) string {
	return fmt.Sprintf(
		"%s/Pesquisa/DetailsDetalhado?COD_MTRA_LEGL=%d&COD_PCSS_CMSP=%d&ANO_PCSS_CMSP=%d",
		b.splegisBase, splegisTypeCode[p.Type], p.Number, p.Year)
}

func (b *Builder) portal(p proposal.Proposal) string {
	// Number and year are concatenated without a separator in the portal's
	// legacy search expression.
	return fmt.Sprintf(
		"%s/cgi-bin/wxis.bin/iah/scripts/?IsisScript=iah.xis&lang=pt&format=detalhado.pft&base=proje&form=A&nextAction=search&indexSearch=^nTw^lTodos%%20os%%20campos&exprSearch=P=%s%d%d",
		b.portalBase, p.Type, p.Number, p.Year)
}

func (b *Builder) pdf(p proposal.Proposal) string {
	return fmt.Sprintf("%s/%s%04d-%d.pdf", b.pdfBase, p.Type, p.Number, p.Year)
}
