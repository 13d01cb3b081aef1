package replay

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"mindprint/internal/gate"
)

// #region fixture-types
// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string          `json:"description"`
	Answers     []FixtureAnswer `json:"answers"`
	Expect      FixtureExpect   `json:"expect"`
}

// FixtureAnswer mirrors Answer with JSON tags.
type FixtureAnswer struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

// FixtureExpect captures the assertions checked after a replay run. Zero
// values mean "not checked", except MinConfidence which always applies.
type FixtureExpect struct {
	MinConfidence    float64      `json:"min_confidence"`
	MaxConfidence    float64      `json:"max_confidence"`
	PrimaryArchetype string       `json:"primary_archetype"`
	Dealbreakers     *gate.Record `json:"dealbreakers"`
	SelectorDone     *bool        `json:"selector_done"`
}

// #endregion fixture-types

// #region fixture-loader
// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.Answers) == 0 {
		return nil, fmt.Errorf("fixture %s has no answers", path)
	}
	return &f, nil
}

// ToAnswers converts the fixture's answer list to the domain form.
func (f *Fixture) ToAnswers() []Answer {
	answers := make([]Answer, len(f.Answers))
	for i, a := range f.Answers {
		answers[i] = Answer{QuestionID: a.QuestionID, OptionID: a.OptionID}
	}
	return answers
}

// #endregion fixture-loader

// #region fixture-check
// Check compares a replay outcome against the fixture's expectations and
// returns one message per mismatch. Empty means the fixture passed.
func (f *Fixture) Check(results []StepResult, summary Summary) []string {
	var mismatches []string

	if summary.EvalFailures > 0 {
		mismatches = append(mismatches, fmt.Sprintf("%d steps failed eval", summary.EvalFailures))
	}
	if summary.FinalConfidence < f.Expect.MinConfidence {
		mismatches = append(mismatches, fmt.Sprintf("final confidence %.4f below %.4f",
			summary.FinalConfidence, f.Expect.MinConfidence))
	}
	if f.Expect.MaxConfidence > 0 && summary.FinalConfidence > f.Expect.MaxConfidence {
		mismatches = append(mismatches, fmt.Sprintf("final confidence %.4f above %.4f",
			summary.FinalConfidence, f.Expect.MaxConfidence))
	}
	if f.Expect.PrimaryArchetype != "" && summary.PrimaryArchetype != f.Expect.PrimaryArchetype {
		mismatches = append(mismatches, fmt.Sprintf("primary archetype %q, want %q",
			summary.PrimaryArchetype, f.Expect.PrimaryArchetype))
	}
	if f.Expect.Dealbreakers != nil && summary.Dealbreakers != *f.Expect.Dealbreakers {
		mismatches = append(mismatches, fmt.Sprintf("dealbreakers %+v, want %+v",
			summary.Dealbreakers, *f.Expect.Dealbreakers))
	}
	if f.Expect.SelectorDone != nil && summary.SelectorDone != *f.Expect.SelectorDone {
		mismatches = append(mismatches, fmt.Sprintf("selector done = %v, want %v",
			summary.SelectorDone, *f.Expect.SelectorDone))
	}

	return mismatches
}

// #endregion fixture-check
