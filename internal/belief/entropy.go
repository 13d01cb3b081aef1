package belief

import "math"

// #region entropy
// traitEntropy is the differential entropy of a 1-D Gaussian with the given
// standard deviation: 0.5 * ln(2·pi·e·sigma^2).
func traitEntropy(sigma float64) float64 {
	return 0.5 * math.Log(2*math.Pi*math.E*sigma*sigma)
}

// Entropy returns the mean per-trait differential entropy of the belief.
func (b Belief) Entropy() float64 {
	var sum float64
	for _, s := range b.Sigma {
		sum += traitEntropy(s)
	}
	return sum / Dim
}

// #endregion entropy

// #region confidence
// Confidence rescales the belief's entropy linearly between the neutral
// baseline (all sigma at MaxSigma) and the fully-certain floor (all sigma at
// MinSigma), clamped to [0, 1]. It rises monotonically with certainty, which
// makes it usable both as a stopping criterion and as a user-facing
// percentage.
func (b Belief) Confidence() float64 {
	neutral := traitEntropy(MaxSigma)
	floor := traitEntropy(MinSigma)
	span := neutral - floor
	if span <= 0 {
		return 0
	}
	c := (neutral - b.Entropy()) / span
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// #endregion confidence
