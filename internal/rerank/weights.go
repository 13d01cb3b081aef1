package rerank

import "fmt"

// #region weights
// Weights is the externally calibrated scoring configuration. An offline
// feedback-calibration job rewrites these from observed regret and ratings;
// the engine only ever reads the current values.
type Weights struct {
	Version string  `koanf:"version" json:"version"`
	Psych   float64 `koanf:"psych" json:"psych"`
	Mag     float64 `koanf:"mag" json:"mag"`
	Sat     float64 `koanf:"sat" json:"sat"`
	Arch    float64 `koanf:"arch" json:"arch"`
	Regret  float64 `koanf:"regret" json:"regret"`
}

// DefaultWeights returns the shipped calibration baseline.
func DefaultWeights() Weights {
	return Weights{
		Version: "baseline-1",
		Psych:   0.35,
		Mag:     0.25,
		Sat:     0.20,
		Arch:    0.20,
		Regret:  0.15,
	}
}

// Validate rejects weight sets the scorer cannot use.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"psych": w.Psych, "mag": w.Mag, "sat": w.Sat, "arch": w.Arch, "regret": w.Regret,
	} {
		if v < 0 {
			return fmt.Errorf("rerank weight %q is negative: %f", name, v)
		}
	}
	if w.Psych+w.Mag+w.Sat+w.Arch == 0 {
		return fmt.Errorf("rerank weights sum to zero")
	}
	return nil
}

// #endregion weights
