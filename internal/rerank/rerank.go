package rerank

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"mindprint/internal/gate"
	"mindprint/internal/profile"
	"mindprint/internal/projection"
	"mindprint/internal/retrieval"
)

// #region types
// Components is the per-candidate score breakdown, kept for transparency and
// the explanation payload.
type Components struct {
	Psych             float64 `json:"psych"`
	Mag               float64 `json:"mag"`
	Satisfaction      float64 `json:"satisfaction"`
	Arch              float64 `json:"arch"`
	Regret            float64 `json:"regret"`
	DealbreakerFactor float64 `json:"dealbreaker_factor"`
}

// Result is one ranked candidate with its final score and explanation.
type Result struct {
	CandidateID string     `json:"candidate_id"`
	Name        string     `json:"name"`
	FinalScore  float64    `json:"final_score"`
	Components  Components `json:"components"`
	Explanation string     `json:"explanation"`
}

// Input bundles everything the reranker scores against.
type Input struct {
	Matches     []retrieval.Match
	Targets     []projection.AttributeTarget
	Archetypes  projection.Projection
	Dealbreaker gate.Record
	Weights     Weights
}

// #endregion types

// #region constants
// satisfactionTargetFloor guards the partial-credit division against a
// near-zero user target.
const satisfactionTargetFloor = 0.1

// maxAttributeDistance is the largest possible euclidean distance in the
// 7-attribute 0-10 space.
var maxAttributeDistance = math.Sqrt(float64(len(profile.AttributeNames)) * 100)

// #endregion constants

// #region rerank
// Rerank scores every retrieved candidate on five components, combines them
// under the calibrated weights, applies the dealbreaker factor, and returns
// the results sorted by final score descending (ties by candidate id).
//
//	final = (Wp*psych + Wm*mag + Ws*sat + Wa*arch) * dealbreakerFactor - Wr*regret
func Rerank(in Input) []Result {
	results := make([]Result, 0, len(in.Matches))
	for _, m := range in.Matches {
		results = append(results, scoreCandidate(m, in))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].CandidateID < results[j].CandidateID
	})
	return results
}

func scoreCandidate(m retrieval.Match, in Input) Result {
	c := m.Candidate
	comps := Components{
		Psych:             m.Similarity,
		Mag:               magnitudeScore(in.Targets, c),
		Satisfaction:      satisfactionScore(in.Targets, c),
		Arch:              archAlignment(in.Archetypes, c),
		Regret:            c.Regret,
		DealbreakerFactor: in.Dealbreaker.Evaluate(c).Factor,
	}

	w := in.Weights
	final := (w.Psych*comps.Psych + w.Mag*comps.Mag + w.Sat*comps.Satisfaction + w.Arch*comps.Arch) *
		comps.DealbreakerFactor
	final -= w.Regret * comps.Regret

	return Result{
		CandidateID: c.ID,
		Name:        c.Name,
		FinalScore:  final,
		Components:  comps,
		Explanation: explain(comps, in.Dealbreaker, c),
	}
}

// #endregion rerank

// #region components
// magnitudeScore measures closeness in the 0-10 attribute space:
// 1 - dist/maxDist, never negative.
func magnitudeScore(targets []projection.AttributeTarget, c profile.Candidate) float64 {
	var sumSq float64
	for _, at := range targets {
		d := at.Target - c.Attributes[at.Name]
		sumSq += d * d
	}
	score := 1 - math.Sqrt(sumSq)/maxAttributeDistance
	if score < 0 {
		return 0
	}
	return score
}

// satisfactionScore averages per-attribute credit: full credit when the
// candidate meets the target, proportional partial credit below it.
func satisfactionScore(targets []projection.AttributeTarget, c profile.Candidate) float64 {
	if len(targets) == 0 {
		return 0
	}
	var sum float64
	for _, at := range targets {
		target := at.Target
		if target < satisfactionTargetFloor {
			target = satisfactionTargetFloor
		}
		score := c.Attributes[at.Name]
		if score >= target {
			sum += 1
			continue
		}
		credit := score / target
		if credit < 0 {
			credit = 0
		}
		sum += credit
	}
	return sum / float64(len(targets))
}

// archAlignment compares the session's archetype distribution with the
// candidate's archetype signature; 0 when the candidate carries none.
func archAlignment(p projection.Projection, c profile.Candidate) float64 {
	if len(c.ArchetypeSignature) != len(p.Probs) {
		return 0
	}
	sim := retrieval.Cosine(p.Probs, c.ArchetypeSignature)
	if sim < 0 {
		return 0
	}
	return sim
}

// #endregion components

// #region explain
func explain(comps Components, rec gate.Record, c profile.Candidate) string {
	if comps.DealbreakerFactor == 0 {
		reasons := make([]string, 0, 3)
		for _, v := range rec.Evaluate(c).Vetoes {
			reasons = append(reasons, v.Reason)
		}
		return fmt.Sprintf("excluded by dealbreaker: %s", strings.Join(reasons, "; "))
	}
	return fmt.Sprintf("trait fit %.2f, attribute fit %.2f, meets %.0f%% of targets, persona fit %.2f",
		comps.Psych, comps.Mag, comps.Satisfaction*100, comps.Arch)
}

// #endregion explain
