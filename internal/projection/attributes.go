package projection

import (
	"fmt"

	"mindprint/internal/belief"
	"mindprint/internal/profile"
)

// #region attribute-weights
// MinAttributeUncertainty floors the reported per-attribute uncertainty so a
// weighted average over clamped sigmas never claims false certainty.
const MinAttributeUncertainty = 0.05

// attributeWeights declares, per attribute axis, which traits feed it and how
// strongly. Unlike archetype rows these are not normalized in the source;
// the synthesizer divides by the row sum.
var attributeWeights = map[string]map[string]float64{
	"camera": {
		"camera_quality":    1.0,
		"night_photography": 0.8,
		"video_recording":   0.7,
		"selfie_priority":   0.5,
		"zoom_reach":        0.5,
	},
	"battery": {
		"battery_life":   1.0,
		"charging_speed": 0.6,
	},
	"performance": {
		"sustained_performance": 1.0,
		"gaming_intensity":      0.8,
		"app_multitasking":      0.6,
		"thermal_tolerance":     0.5,
		"refresh_rate":          0.4,
	},
	"display": {
		"display_brightness":  1.0,
		"refresh_rate":        0.7,
		"screen_size_comfort": 0.6,
	},
	"portability": {
		"one_hand_use":        1.0,
		"software_simplicity": 0.3,
	},
	"reliability": {
		"durability":       1.0,
		"water_resistance": 0.7,
		"update_longevity": 0.7,
		"build_premium":    0.4,
	},
	"value": {
		"price_sensitivity": 1.0,
		"resale_value":      0.6,
	},
}

var attributeMatrix = func() map[string][belief.Dim]float64 {
	m, err := buildAttributeMatrix(attributeWeights)
	if err != nil {
		panic(err)
	}
	return m
}()

func buildAttributeMatrix(weights map[string]map[string]float64) (map[string][belief.Dim]float64, error) {
	m := make(map[string][belief.Dim]float64, len(profile.AttributeNames))
	for _, name := range profile.AttributeNames {
		row, ok := weights[name]
		if !ok {
			return nil, fmt.Errorf("attribute %q has no weight row", name)
		}
		var dense [belief.Dim]float64
		for trait, w := range row {
			idx, ok := belief.TraitIndex(trait)
			if !ok {
				return nil, fmt.Errorf("attribute %q: unknown trait %q", name, trait)
			}
			if w < 0 {
				return nil, fmt.Errorf("attribute %q: negative weight for %q", name, trait)
			}
			dense[idx] = w
		}
		m[name] = dense
	}
	return m, nil
}

// #endregion attribute-weights

// #region synthesize
// AttributeTarget is one synthesized 0-10 attribute goal with its uncertainty.
type AttributeTarget struct {
	Name        string
	Target      float64 // 0-10
	Uncertainty float64 // weighted belief sigma, floored
}

// SynthesizeAttributes bridges the 28-dim latent space to the 7 attribute
// axes the reranker scores against: per attribute, a weight-normalized
// average of belief means rescaled to 0-10, plus the matching weighted
// average of sigmas as an uncertainty figure.
func SynthesizeAttributes(b belief.Belief) []AttributeTarget {
	const weightSumEpsilon = 1e-9

	targets := make([]AttributeTarget, 0, len(profile.AttributeNames))
	for _, name := range profile.AttributeNames {
		row := attributeMatrix[name]

		var weightSum, muSum, sigmaSum float64
		for i := 0; i < belief.Dim; i++ {
			w := row[i]
			if w == 0 {
				continue
			}
			weightSum += w
			muSum += w * b.Mu[i]
			sigmaSum += w * b.Sigma[i]
		}
		if weightSum < weightSumEpsilon {
			weightSum = weightSumEpsilon
		}

		uncertainty := sigmaSum / weightSum
		if uncertainty < MinAttributeUncertainty {
			uncertainty = MinAttributeUncertainty
		}

		targets = append(targets, AttributeTarget{
			Name:        name,
			Target:      10 * (muSum / weightSum),
			Uncertainty: uncertainty,
		})
	}
	return targets
}

// #endregion synthesize
