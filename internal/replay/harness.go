// Package replay re-runs recorded answer sequences through the full belief
// pipeline in memory, validating each step with the eval harness. It backs
// the replay command and regression fixtures.
package replay

import (
	"fmt"

	"mindprint/internal/belief"
	"mindprint/internal/catalog"
	"mindprint/internal/eval"
	"mindprint/internal/gate"
	"mindprint/internal/projection"
	"mindprint/internal/selector"
	"mindprint/internal/update"
)

// archetypeTemperature matches the engine's projection sharpening.
const archetypeTemperature = 0.1

// #region types
// Answer is one recorded question/option pair.
type Answer struct {
	QuestionID string
	OptionID   string
}

// Action labels what a replayed step did to the belief.
const (
	ActionApply       = "apply"
	ActionDealbreaker = "dealbreaker"
	ActionEvalFail    = "eval_fail"
)

// ReplayConfig bundles the selector and eval configs for a replay run.
type ReplayConfig struct {
	Selector selector.Config
	Eval     eval.EvalConfig
}

// DefaultReplayConfig returns the production tuning for both stages.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		Selector: selector.DefaultConfig(),
		Eval:     eval.DefaultEvalConfig(),
	}
}

// StepResult captures the outcome of one replayed answer.
type StepResult struct {
	Step       int
	QuestionID string
	OptionID   string
	Action     string
	Entropy    float64
	Confidence float64
	Metrics    update.Metrics
	Eval       eval.EvalResult
}

// Summary aggregates a replay run.
type Summary struct {
	TotalSteps       int
	EvidenceSteps    int
	DealbreakerSteps int
	EvalFailures     int
	FinalBelief      belief.Belief
	FinalConfidence  float64
	PrimaryArchetype string
	Dealbreakers     gate.Record
	SelectorDone     bool
	SelectorReason   string
}

// #endregion types

// #region replay
// Replay folds each recorded answer into a fresh neutral belief, running the
// eval harness after every step. The selector is consulted once at the end to
// report whether the recorded session would have stopped.
func Replay(cat *catalog.Catalog, answers []Answer, cfg ReplayConfig) ([]StepResult, Summary, error) {
	b := belief.Neutral()
	var record gate.Record
	answered := make(map[string]string, len(answers))
	harness := eval.NewEvalHarness(cfg.Eval)

	results := make([]StepResult, 0, len(answers))
	summary := Summary{TotalSteps: len(answers)}

	for i, a := range answers {
		q, ok := cat.Question(a.QuestionID)
		if !ok {
			return nil, Summary{}, fmt.Errorf("step %d: question %q: %w", i+1, a.QuestionID, catalog.ErrQuestionNotFound)
		}
		opt, ok := q.Option(a.OptionID)
		if !ok {
			return nil, Summary{}, fmt.Errorf("step %d: question %q option %q: %w", i+1, a.QuestionID, a.OptionID, catalog.ErrOptionNotFound)
		}

		res := StepResult{Step: i + 1, QuestionID: a.QuestionID, OptionID: a.OptionID}

		if opt.HasEvidence {
			r := update.Apply(b, opt.Evidence)
			b = r.Posterior
			res.Metrics = r.Metrics
			res.Action = ActionApply
			summary.EvidenceSteps++
		} else {
			res.Action = ActionDealbreaker
			summary.DealbreakerSteps++
		}
		if opt.Dealbreaker != nil {
			record = record.Merge(opt.Dealbreaker)
		}
		answered[a.QuestionID] = a.OptionID

		res.Entropy = b.Entropy()
		res.Confidence = b.Confidence()
		res.Eval = harness.Run(b, projection.ProjectArchetypes(b, archetypeTemperature))
		if !res.Eval.Passed {
			res.Action = ActionEvalFail
			summary.EvalFailures++
		}

		results = append(results, res)
	}

	sel := selector.Select(cat, b, answered, cfg.Selector)
	summary.FinalBelief = b
	summary.FinalConfidence = b.Confidence()
	summary.PrimaryArchetype = projection.ProjectArchetypes(b, archetypeTemperature).PrimaryName()
	summary.Dealbreakers = record
	summary.SelectorDone = sel.Done()
	summary.SelectorReason = sel.Reason

	return results, summary, nil
}

// #endregion replay
