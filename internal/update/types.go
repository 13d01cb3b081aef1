package update

import "mindprint/internal/belief"

// #region evidence
// Evidence is the likelihood one chosen option contributes: a full 28-length
// target mean vector and a single scalar spread. The spread comes from the
// question's category (discriminators are noisier than tie-breakers).
type Evidence struct {
	TargetMu [belief.Dim]float64
	Sigma    float64
}

// #endregion evidence

// #region metrics
// Metrics captures telemetry from one belief update.
type Metrics struct {
	MeanShift     float64 // sum of |postMu - priorMu| across traits
	SigmaDrop     float64 // sum of (priorSigma - postSigma) across traits
	EntropyBefore float64
	EntropyAfter  float64
}

// #endregion metrics

// #region result
// Result bundles everything returned by Apply().
type Result struct {
	Posterior belief.Belief
	Metrics   Metrics
}

// #endregion result
