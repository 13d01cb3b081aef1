package selector

import (
	"fmt"
	"math"

	"mindprint/internal/belief"
	"mindprint/internal/catalog"
	"mindprint/internal/update"
)

// #region select
// Select runs the three-phase next-question policy:
//  1. Forced phase: the first discriminators are asked in catalog order to
//     guarantee a baseline signal before adaptive selection starts.
//  2. Dealbreaker phase: once enough questions are answered, unanswered
//     dealbreaker questions are forced next (they carry no trait evidence but
//     populate the hard-filter record).
//  3. Adaptive phase: remaining questions are scored by expected information
//     gain minus a fatigue penalty; the highest score wins, ties by catalog
//     order.
//
// Select is a pure function of (catalog, belief, answered set) with no hidden
// randomness; the same inputs always pick the same question.
func Select(cat *catalog.Catalog, b belief.Belief, answered map[string]string, cfg Config) Selection {
	n := len(answered)

	if n >= cfg.MaxQuestions {
		return Selection{Phase: PhaseComplete, Reason: fmt.Sprintf("hard maximum of %d questions reached", cfg.MaxQuestions)}
	}
	if conf := b.Confidence(); n >= cfg.SoftMinQuestions && conf > cfg.ConfidenceTarget {
		return Selection{Phase: PhaseComplete, Reason: fmt.Sprintf("confidence %.3f above target %.2f after %d questions", conf, cfg.ConfidenceTarget, n)}
	}

	if q, ok := nextForced(cat, answered, cfg); ok {
		return Selection{QuestionID: q, Phase: PhaseForced, Reason: "forced baseline discriminator"}
	}
	if n >= cfg.DealbreakerAfter {
		if q, ok := nextUnanswered(cat, answered, catalog.CategoryDealbreaker); ok {
			return Selection{QuestionID: q, Phase: PhaseDealbreaker, Reason: "collecting hard constraints"}
		}
	}

	best, score, gain, ok := bestAdaptive(cat, b, answered, cfg)
	if !ok {
		return Selection{Phase: PhaseComplete, Reason: "question pool exhausted"}
	}
	return Selection{
		QuestionID: best,
		Phase:      PhaseAdaptive,
		Score:      score,
		Gain:       gain,
		Reason:     fmt.Sprintf("expected gain %.4f, score %.4f after fatigue", gain, score),
	}
}

// #endregion select

// #region forced
// nextForced returns the next discriminator while fewer than
// ForcedDiscriminators answers exist, in catalog order.
func nextForced(cat *catalog.Catalog, answered map[string]string, cfg Config) (string, bool) {
	if len(answered) >= cfg.ForcedDiscriminators {
		return "", false
	}
	return nextUnanswered(cat, answered, catalog.CategoryDiscriminator)
}

// nextUnanswered returns the first unanswered question of a category in
// catalog order.
func nextUnanswered(cat *catalog.Catalog, answered map[string]string, category catalog.Category) (string, bool) {
	for _, q := range cat.Questions() {
		if q.Category != category {
			continue
		}
		if _, done := answered[q.ID]; done {
			continue
		}
		return q.ID, true
	}
	return "", false
}

// #endregion forced

// #region adaptive
// bestAdaptive scores every eligible unanswered question and returns the
// winner. Dealbreakers are excluded (they carry no evidence, their gain is
// zero by construction) and tie-breakers stay gated until enough answers
// exist to make them meaningful.
func bestAdaptive(cat *catalog.Catalog, b belief.Belief, answered map[string]string, cfg Config) (id string, score, gain float64, ok bool) {
	n := len(answered)
	priorEntropy := b.Entropy()
	fatigue := fatiguePenalty(n, cfg)

	for _, q := range cat.Questions() {
		if _, done := answered[q.ID]; done {
			continue
		}
		if q.Category == catalog.CategoryDealbreaker {
			continue
		}
		if q.Category == catalog.CategoryTieBreaker && n < cfg.TieBreakerAfter {
			continue
		}

		g := expectedGain(b, q, priorEntropy, cfg.ChoiceTemperature)
		s := g - fatigue
		if !ok || s > score {
			id, score, gain, ok = q.ID, s, g, true
		}
	}
	return id, score, gain, ok
}

// expectedGain approximates how much a question is expected to shrink the
// belief's entropy: estimate each option's selection probability from the
// distance between the belief mean and the option's target, simulate the
// posterior for each option, and take prior entropy minus the
// probability-weighted expected posterior entropy.
func expectedGain(b belief.Belief, q catalog.Question, priorEntropy, temperature float64) float64 {
	probs := choiceProbabilities(b, q, temperature)

	var expectedPosterior float64
	for i, opt := range q.Options {
		posterior := update.Apply(b, opt.Evidence).Posterior
		expectedPosterior += probs[i] * posterior.Entropy()
	}
	return priorEntropy - expectedPosterior
}

// choiceProbabilities is a softmax over the negative squared distance between
// the belief mean and each option's target mean.
func choiceProbabilities(b belief.Belief, q catalog.Question, temperature float64) []float64 {
	if temperature <= 0 {
		temperature = 1
	}
	logits := make([]float64, len(q.Options))
	for i, opt := range q.Options {
		var distSq float64
		for t := 0; t < belief.Dim; t++ {
			d := b.Mu[t] - opt.Evidence.TargetMu[t]
			distSq += d * d
		}
		logits[i] = -distSq / temperature
	}

	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(l - maxLogit)
		sum += probs[i]
	}
	if sum < 1e-9 {
		uniform := 1 / float64(len(probs))
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

// fatiguePenalty grows superlinearly with session length, so marginal
// questions stop being worth asking as the session drags on.
func fatiguePenalty(n int, cfg Config) float64 {
	if cfg.MaxQuestions <= 0 {
		return 0
	}
	return cfg.FatigueWeight * math.Pow(float64(n)/float64(cfg.MaxQuestions), cfg.FatigueExponent)
}

// #endregion adaptive
