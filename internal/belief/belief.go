package belief

// #region constants
const (
	// Dim is the number of latent preference traits.
	Dim = 28

	// MinSigma is the floor on per-trait standard deviation. Sigma must never
	// reach zero or the conjugate update becomes undefined.
	MinSigma = 0.03

	// MaxSigma is the ceiling on per-trait standard deviation. A fresh session
	// starts here: maximum uncertainty.
	MaxSigma = 0.5

	// NeutralMu is the prior mean for every trait before any evidence.
	NeutralMu = 0.5
)

// #endregion constants

// #region belief
// Belief is the 28-dimensional Gaussian estimate of a user's latent
// preferences: a mean and a standard deviation per trait. Values are updated
// immutably (every answer produces a new Belief, never a mutation) so a
// session's belief history can be replayed and audited.
type Belief struct {
	Mu    [Dim]float64
	Sigma [Dim]float64
}

// Neutral returns the maximum-uncertainty prior: mu=0.5, sigma=0.5 everywhere.
func Neutral() Belief {
	var b Belief
	for i := range b.Mu {
		b.Mu[i] = NeutralMu
		b.Sigma[i] = MaxSigma
	}
	return b
}

// #endregion belief

// #region clamps
// ClampMu restricts a trait mean to [0, 1].
func ClampMu(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampSigma restricts a trait standard deviation to [MinSigma, MaxSigma].
func ClampSigma(v float64) float64 {
	if v < MinSigma {
		return MinSigma
	}
	if v > MaxSigma {
		return MaxSigma
	}
	return v
}

// #endregion clamps
