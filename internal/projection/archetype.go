package projection

import (
	"fmt"
	"math"

	"mindprint/internal/belief"
)

// #region archetypes
// ArchetypeNames lists the persona clusters a belief projects onto, in the
// order candidate archetype signatures are indexed.
var ArchetypeNames = []string{
	"creator",
	"power_user",
	"minimalist",
	"gamer",
	"road_warrior",
	"value_hunter",
}

// archetypeWeights declares each archetype's trait emphasis sparsely, by
// trait name. Rows are normalized to sum to 1 at package load.
var archetypeWeights = map[string]map[string]float64{
	"creator": {
		"camera_quality":    1.0,
		"night_photography": 0.9,
		"video_recording":   0.9,
		"zoom_reach":        0.5,
		"display_brightness": 0.4,
		"storage_hunger":    0.4,
		"audio_quality":     0.3,
	},
	"power_user": {
		"sustained_performance": 1.0,
		"app_multitasking":      0.8,
		"refresh_rate":          0.6,
		"thermal_tolerance":     0.6,
		"customization":         0.5,
		"storage_hunger":        0.4,
	},
	"minimalist": {
		"software_simplicity": 1.0,
		"one_hand_use":        0.8,
		"update_longevity":    0.5,
		"privacy_sensitivity": 0.4,
		"ecosystem_lockin":    0.3,
	},
	"gamer": {
		"gaming_intensity":      1.0,
		"refresh_rate":          0.8,
		"thermal_tolerance":     0.8,
		"sustained_performance": 0.7,
		"display_brightness":    0.4,
		"audio_quality":         0.4,
	},
	"road_warrior": {
		"battery_life":      1.0,
		"charging_speed":    0.8,
		"durability":        0.7,
		"water_resistance":  0.5,
		"screen_size_comfort": 0.3,
	},
	"value_hunter": {
		"price_sensitivity": 1.0,
		"resale_value":      0.6,
		"update_longevity":  0.5,
		"durability":        0.4,
	},
}

// archetypeMatrix holds the dense row-normalized weight matrix, one row per
// archetype in ArchetypeNames order.
var archetypeMatrix = func() [][belief.Dim]float64 {
	m, err := buildArchetypeMatrix(archetypeWeights)
	if err != nil {
		panic(err)
	}
	return m
}()

func buildArchetypeMatrix(weights map[string]map[string]float64) ([][belief.Dim]float64, error) {
	m := make([][belief.Dim]float64, len(ArchetypeNames))
	for ai, name := range ArchetypeNames {
		row, ok := weights[name]
		if !ok {
			return nil, fmt.Errorf("archetype %q has no weight row", name)
		}
		var sum float64
		for trait, w := range row {
			idx, ok := belief.TraitIndex(trait)
			if !ok {
				return nil, fmt.Errorf("archetype %q: unknown trait %q", name, trait)
			}
			if w < 0 {
				return nil, fmt.Errorf("archetype %q: negative weight for %q", name, trait)
			}
			m[ai][idx] = w
			sum += w
		}
		if sum <= 0 {
			return nil, fmt.Errorf("archetype %q: zero weight sum", name)
		}
		for i := range m[ai] {
			m[ai][i] /= sum
		}
	}
	return m, nil
}

// #endregion archetypes

// #region project
// Projection is the archetype distribution derived from a belief.
type Projection struct {
	Probs   []float64 // one per ArchetypeNames entry, sums to 1
	Primary int       // arg-max index into ArchetypeNames
}

// PrimaryName returns the name of the most likely archetype.
func (p Projection) PrimaryName() string {
	return ArchetypeNames[p.Primary]
}

// ProjectArchetypes maps the belief mean onto the archetype set: one logit
// per archetype from the normalized weight row, then a temperature softmax.
// Equal logits yield the uniform distribution, never a division by zero.
func ProjectArchetypes(b belief.Belief, temperature float64) Projection {
	logits := make([]float64, len(archetypeMatrix))
	for ai := range archetypeMatrix {
		var dot float64
		for i := 0; i < belief.Dim; i++ {
			dot += archetypeMatrix[ai][i] * b.Mu[i]
		}
		logits[ai] = dot
	}
	probs := softmax(logits, temperature)

	primary := 0
	for i, p := range probs {
		if p > probs[primary] {
			primary = i
		}
	}
	return Projection{Probs: probs, Primary: primary}
}

// #endregion project

// #region softmax
const softmaxEpsilon = 1e-9

// softmax converts logits to a probability distribution. The max-logit shift
// keeps the exponentials finite; the epsilon floor on the denominator keeps a
// degenerate input from producing NaN, falling back to uniform instead.
func softmax(logits []float64, temperature float64) []float64 {
	probs := make([]float64, len(logits))
	if len(logits) == 0 {
		return probs
	}
	if temperature <= 0 {
		temperature = 1
	}

	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}

	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp((l - maxLogit) / temperature)
		sum += probs[i]
	}
	if sum < softmaxEpsilon {
		uniform := 1 / float64(len(logits))
		for i := range probs {
			probs[i] = uniform
		}
		return probs
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// #endregion softmax
