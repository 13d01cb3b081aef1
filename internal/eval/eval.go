// Package eval validates belief snapshots and projections against the
// invariants the math is supposed to preserve. It runs after updates in the
// replay harness and the simulate command.
package eval

import (
	"fmt"

	"mindprint/internal/belief"
	"mindprint/internal/projection"
)

// #region eval-harness
// EvalHarness runs lightweight validation on a belief and its projection.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run checks the belief bounds, the confidence range, and the archetype
// distribution. Returns pass/fail with per-check metrics.
func (h *EvalHarness) Run(b belief.Belief, p projection.Projection) EvalResult {
	var metrics []EvalMetric
	passed := true
	var failReasons []string

	fail := func(format string, args ...interface{}) {
		passed = false
		failReasons = append(failReasons, fmt.Sprintf(format, args...))
	}

	// 1. Mean bounds across all traits
	minMu, maxMu := bounds(b.Mu)
	muPass := minMu >= h.config.MinMu && maxMu <= h.config.MaxMu
	metrics = append(metrics, EvalMetric{Name: "mu_min", Value: minMu, Pass: muPass})
	metrics = append(metrics, EvalMetric{Name: "mu_max", Value: maxMu, Pass: muPass})
	if !muPass {
		fail("mu range [%.4f, %.4f] outside [%.1f, %.1f]", minMu, maxMu, h.config.MinMu, h.config.MaxMu)
	}

	// 2. Spread bounds across all traits
	minSigma, maxSigma := bounds(b.Sigma)
	sigmaPass := minSigma >= h.config.MinSigma && maxSigma <= h.config.MaxSigma
	metrics = append(metrics, EvalMetric{Name: "sigma_min", Value: minSigma, Pass: sigmaPass})
	metrics = append(metrics, EvalMetric{Name: "sigma_max", Value: maxSigma, Pass: sigmaPass})
	if !sigmaPass {
		fail("sigma range [%.4f, %.4f] outside [%.4f, %.4f]", minSigma, maxSigma, h.config.MinSigma, h.config.MaxSigma)
	}

	// 3. Confidence stays in [0, 1]
	conf := b.Confidence()
	confPass := conf >= 0 && conf <= 1
	metrics = append(metrics, EvalMetric{Name: "confidence", Value: conf, Pass: confPass})
	if !confPass {
		fail("confidence %.4f outside [0, 1]", conf)
	}

	// 4. Archetype distribution sums to 1 with non-negative entries
	var probSum float64
	probsPass := true
	for _, v := range p.Probs {
		if v < 0 || v > 1 {
			probsPass = false
		}
		probSum += v
	}
	if diff := probSum - 1; diff > h.config.ProbSumSlop || diff < -h.config.ProbSumSlop {
		probsPass = false
	}
	metrics = append(metrics, EvalMetric{Name: "archetype_prob_sum", Value: probSum, Pass: probsPass})
	if !probsPass {
		fail("archetype distribution invalid, sum %.6f", probSum)
	}

	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return EvalResult{Passed: passed, Metrics: metrics, Reason: reason}
}

// #endregion eval-harness

// #region helpers
func bounds(v [belief.Dim]float64) (min, max float64) {
	min, max = v[0], v[0]
	for _, x := range v[1:] {
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	return min, max
}

// #endregion helpers
