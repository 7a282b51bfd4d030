// Package proposal holds the legislative proposal record shared by the
// search pipeline and the persistence layer.
package proposal

import "fmt"

// Type is the proposal type code used by the city council.
type Type string

const (
	// TypePL is a projeto de lei (ordinary bill).
	TypePL Type = "PL"
	// TypePDL is a projeto de decreto legislativo.
	TypePDL Type = "PDL"
	// TypePLO is a projeto de lei orgânica.
	TypePLO Type = "PLO"
	// TypePR is a projeto de resolução.
	TypePR Type = "PR"
)

// ParseType validates a type code.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypePL, TypePDL, TypePLO, TypePR:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown proposal type %q", s)
	}
}

// Proposal is a legislative bill record.
type Proposal struct {
	ID       int
	Type     Type
	Number   int
	Year     int
	Author   string
	Summary  string
	Keywords string
}

// Links points at the official portals for one proposal.
type Links struct {
	SPLegis string
	Portal  string
	PDF     string
}
