package eval

import "mindprint/internal/belief"

// #region eval-config
// EvalConfig holds bounds for post-update validation.
type EvalConfig struct {
	MinMu       float64 // lowest legal trait mean
	MaxMu       float64 // highest legal trait mean
	MinSigma    float64 // lowest legal trait spread
	MaxSigma    float64 // highest legal trait spread
	ProbSumSlop float64 // tolerance for archetype probabilities summing to 1
}

// DefaultEvalConfig returns the belief-space bounds.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MinMu:       0,
		MaxMu:       1,
		MinSigma:    belief.MinSigma,
		MaxSigma:    belief.MaxSigma,
		ProbSumSlop: 1e-9,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name  string
	Value float64
	Pass  bool
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of post-update validation.
type EvalResult struct {
	Passed  bool
	Metrics []EvalMetric
	Reason  string
}

// #endregion eval-result
