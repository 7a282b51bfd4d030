package extract

import "github.com/sampalegis/legisdex/internal/domain/proposal"

// typeAliases maps every accepted surface form (normalized, lowercase) to its
// proposal type code. Long forms and plurals included.
var typeAliases = map[string]proposal.Type{
	"pl":               proposal.TypePL,
	"pls":              proposal.TypePL,
	"projeto de lei":   proposal.TypePL,
	"projetos de lei":  proposal.TypePL,
	"pdl":              proposal.TypePDL,
	"pdls":             proposal.TypePDL,
	"projeto de decreto legislativo":  proposal.TypePDL,
	"projetos de decreto legislativo": proposal.TypePDL,
	"plo":                             proposal.TypePLO,
	"plos":                            proposal.TypePLO,
	"projeto de lei organica":         proposal.TypePLO,
	"projetos de lei organica":        proposal.TypePLO,
	"pr":                              proposal.TypePR,
	"prs":                             proposal.TypePR,
	"projeto de resolucao":            proposal.TypePR,
	"projetos de resolucao":           proposal.TypePR,
}

// nameStopwords are connective particles ignored when matching author name
// tokens.
var nameStopwords = map[string]struct{}{
	"de": {}, "da": {}, "do": {}, "dos": {}, "das": {},
}

// DefaultSemanticStopwords is the filler-word list stripped from the residual
// semantic text. Normalized forms. Overridable via configuration.
var DefaultSemanticStopwords = []string{
	"de", "do", "da", "dos", "das", "em", "no", "na", "nos", "nas",
	"para", "pelo", "pela", "pelos", "pelas",
	"a", "o", "as", "os", "e", "com",
	"quais", "que", "qual", "quem", "quando", "onde",
	"projeto", "projetos", "apresentado", "apresentados",
	"sobre", "referente", "relativo", "acerca",
	"ou", "ao", "aos", "entre", "ate",
	"tipo", "numero", "lei", "decreto",
	"muito", "muitos", "pouco", "poucos",
}

// DefaultThematicTerms is the curated list of legislative topic words that
// must not be mistaken for an author's surname when present in the query.
// Heuristic and inherently incomplete; overridable via configuration.
var DefaultThematicTerms = []string{
	"saude", "educacao", "mulher", "trabalho", "ambiente", "cultura",
	"transporte", "direitos", "idoso", "crianca", "adolescente", "familia",
	"habitacao", "moradia", "urbanismo", "seguranca", "comercio", "empresarial",
	"desenvolvimento", "orcamento", "financas", "social", "promocao", "inclusao",
	"assistencia", "politica", "publica", "servico", "verde", "azul", "esporte",
	"juventude", "cidadania", "consumidor", "defesa", "justica", "diversidade",
	"igualdade", "racial", "genero", "acessibilidade", "mobilidade", "transparencia",
	"participacao", "popular", "tecnologia", "inovacao", "economia", "planejamento",
	"emergencia", "urgencia", "posto", "hospital", "acidente", "animal", "pet",
	"comunidade",

	// committee vocabulary
	"comissao", "comissoes", "urbana", "metropolitana", "meio", "extraordinaria",
	"relacoes", "internacionais", "administracao", "transito", "atividade",
	"economica", "constituicao", "legislacao", "participativa", "legislativa",
	"legais", "legal", "fiscalizacao", "investigacao", "processante", "parlamentar",
	"inquerito", "sustentabilidade", "tributos", "gestao", "patrimonio",
	"infancia", "fomento", "direito", "humanos",
}
