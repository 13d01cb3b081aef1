package gate

import (
	"fmt"
	"strings"

	"mindprint/internal/catalog"
	"mindprint/internal/profile"
)

// #region record
// Record holds the session's hard constraints, populated from dealbreaker
// answers outside the probabilistic model. Zero values mean "unconstrained".
type Record struct {
	OS              string  `json:"os,omitempty"`
	MaxScreenInches float64 `json:"max_screen_inches,omitempty"`
	MaxPriceUSD     float64 `json:"max_price_usd,omitempty"`
}

// Merge folds one option's dealbreaker effect into the record, returning the
// merged copy. Later answers win on conflicting constraints.
func (r Record) Merge(effect *catalog.DealbreakerEffect) Record {
	if effect == nil {
		return r
	}
	if effect.OS != "" {
		r.OS = effect.OS
	}
	if effect.MaxScreenInches > 0 {
		r.MaxScreenInches = effect.MaxScreenInches
	}
	if effect.MaxPriceUSD > 0 {
		r.MaxPriceUSD = effect.MaxPriceUSD
	}
	return r
}

// #endregion record

// #region veto
// VetoType enumerates hard constraint categories.
type VetoType string

const (
	VetoOS     VetoType = "os_mismatch"
	VetoSize   VetoType = "size_exceeded"
	VetoBudget VetoType = "budget_exceeded"
)

// Veto names one violated hard constraint.
type Veto struct {
	Type   VetoType
	Reason string
}

// #endregion veto

// #region decision
// Decision is the outcome of checking one candidate against the record.
// Factor multiplies the candidate's pre-filter score: 0 on any veto, else 1.
// A violating candidate keeps its breakdown but drops out of meaningful
// ranking.
type Decision struct {
	Factor float64
	Vetoes []Veto
}

// Evaluate checks every hard constraint. All violations are reported, not
// just the first, so the explanation payload can name each one.
func (r Record) Evaluate(c profile.Candidate) Decision {
	var vetoes []Veto

	if r.OS != "" && !strings.EqualFold(r.OS, c.OS) {
		vetoes = append(vetoes, Veto{
			Type:   VetoOS,
			Reason: fmt.Sprintf("requires %s, candidate runs %s", r.OS, c.OS),
		})
	}
	if r.MaxScreenInches > 0 && c.ScreenInches > r.MaxScreenInches {
		vetoes = append(vetoes, Veto{
			Type:   VetoSize,
			Reason: fmt.Sprintf("screen %.1f\" exceeds cap %.1f\"", c.ScreenInches, r.MaxScreenInches),
		})
	}
	if r.MaxPriceUSD > 0 && c.PriceUSD > r.MaxPriceUSD {
		vetoes = append(vetoes, Veto{
			Type:   VetoBudget,
			Reason: fmt.Sprintf("price $%.0f exceeds cap $%.0f", c.PriceUSD, r.MaxPriceUSD),
		})
	}

	if len(vetoes) > 0 {
		return Decision{Factor: 0, Vetoes: vetoes}
	}
	return Decision{Factor: 1}
}

// #endregion decision
