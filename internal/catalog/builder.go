package catalog

import (
	"fmt"

	"mindprint/internal/belief"
	"mindprint/internal/update"
)

// #region specs
// OptionSpec is the sparse, human-authored form of an option. Impact maps
// trait names to target means; anything unmentioned stays at the neutral 0.5.
// ImpactByIndex accepts raw indices for machine-generated catalogs; indices
// outside [0, 28) are skipped rather than faulting.
type OptionSpec struct {
	ID            string             `yaml:"id"`
	Label         string             `yaml:"label"`
	Impact        map[string]float64 `yaml:"impact"`
	ImpactByIndex map[int]float64    `yaml:"impact_by_index"`
	Sigma         float64            `yaml:"sigma"` // 0 = category default
	Dealbreaker   *DealbreakerEffect `yaml:"dealbreaker"`
}

// QuestionSpec is the sparse form of a question.
type QuestionSpec struct {
	ID       string       `yaml:"id"`
	Text     string       `yaml:"text"`
	Category Category     `yaml:"category"`
	Options  []OptionSpec `yaml:"options"`
}

// #endregion specs

// #region builder
// Builder accumulates question specs and compiles them into an immutable,
// validated Catalog. All validation happens at build time so a malformed
// catalog is rejected at load, not mid-session.
type Builder struct {
	specs []QuestionSpec
}

// NewBuilder returns an empty catalog builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a question spec. Returns the builder for chaining.
func (b *Builder) Add(spec QuestionSpec) *Builder {
	b.specs = append(b.specs, spec)
	return b
}

// Build compiles and validates the catalog.
func (b *Builder) Build() (*Catalog, error) {
	cat := &Catalog{
		questions: make([]Question, 0, len(b.specs)),
		byID:      make(map[string]int, len(b.specs)),
	}

	for _, spec := range b.specs {
		if spec.ID == "" {
			return nil, fmt.Errorf("question with empty id")
		}
		if _, dup := cat.byID[spec.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", spec.ID)
		}
		if !spec.Category.valid() {
			return nil, fmt.Errorf("question %q: unknown category %q", spec.ID, spec.Category)
		}
		if n := len(spec.Options); n < 2 || n > 5 {
			return nil, fmt.Errorf("question %q: %d options, want 2-5", spec.ID, n)
		}

		q := Question{
			ID:       spec.ID,
			Text:     spec.Text,
			Category: spec.Category,
			Options:  make([]Option, 0, len(spec.Options)),
		}

		seen := make(map[string]bool, len(spec.Options))
		for _, os := range spec.Options {
			if os.ID == "" {
				return nil, fmt.Errorf("question %q: option with empty id", spec.ID)
			}
			if seen[os.ID] {
				return nil, fmt.Errorf("question %q: duplicate option id %q", spec.ID, os.ID)
			}
			seen[os.ID] = true

			opt, err := compileOption(spec, os)
			if err != nil {
				return nil, err
			}
			q.Options = append(q.Options, opt)
		}

		cat.byID[spec.ID] = len(cat.questions)
		cat.questions = append(cat.questions, q)
	}

	return cat, nil
}

// #endregion builder

// #region compile-option
func compileOption(q QuestionSpec, spec OptionSpec) (Option, error) {
	sigma := spec.Sigma
	if sigma == 0 {
		sigma = q.Category.Sigma()
	}
	if sigma < belief.MinSigma || sigma > belief.MaxSigma {
		return Option{}, fmt.Errorf("question %q option %q: sigma %f out of [%f, %f]",
			q.ID, spec.ID, sigma, belief.MinSigma, belief.MaxSigma)
	}

	ev := update.Evidence{Sigma: sigma}
	for i := range ev.TargetMu {
		ev.TargetMu[i] = belief.NeutralMu
	}
	for name, v := range spec.Impact {
		idx, ok := belief.TraitIndex(name)
		if !ok {
			return Option{}, fmt.Errorf("question %q option %q: unknown trait %q", q.ID, spec.ID, name)
		}
		if v < 0 || v > 1 {
			return Option{}, fmt.Errorf("question %q option %q: trait %q target %f out of [0,1]", q.ID, spec.ID, name, v)
		}
		ev.TargetMu[idx] = v
	}
	for idx, v := range spec.ImpactByIndex {
		if idx < 0 || idx >= belief.Dim {
			continue // out-of-range machine input, skipped
		}
		if v < 0 || v > 1 {
			return Option{}, fmt.Errorf("question %q option %q: trait %d target %f out of [0,1]", q.ID, spec.ID, idx, v)
		}
		ev.TargetMu[idx] = v
	}

	return Option{
		ID:          spec.ID,
		Label:       spec.Label,
		Evidence:    ev,
		HasEvidence: q.Category != CategoryDealbreaker,
		Dealbreaker: spec.Dealbreaker,
	}, nil
}

// #endregion compile-option
