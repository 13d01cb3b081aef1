package retrieval

import (
	"math"
	"sort"

	"mindprint/internal/belief"
	"mindprint/internal/profile"
)

// #region config
// Config holds limits for candidate retrieval.
type Config struct {
	TopK int `koanf:"top_k"` // max candidates passed to the reranker
}

// DefaultConfig returns the standard retrieval limits.
func DefaultConfig() Config {
	return Config{TopK: 256}
}

// #endregion config

// #region match
// Match pairs a candidate with its similarity to the user vector.
type Match struct {
	Candidate  profile.Candidate
	Similarity float64
}

// #endregion match

// #region retrieve
// Retrieve scores every candidate's latent signature against the belief mean
// by cosine similarity and returns the top-k, descending. Ties break by
// candidate id so retrieval is deterministic. The scan is read-only over the
// catalog and safe to run concurrently across sessions.
func Retrieve(userVec [belief.Dim]float64, candidates []profile.Candidate, cfg Config) []Match {
	if len(candidates) == 0 {
		return nil
	}

	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		matches[i] = Match{
			Candidate:  c,
			Similarity: Cosine(userVec[:], c.Signature[:]),
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Candidate.ID < matches[j].Candidate.ID
	})

	if cfg.TopK > 0 && len(matches) > cfg.TopK {
		matches = matches[:cfg.TopK]
	}
	return matches
}

// #endregion retrieve

// #region cosine
// Cosine computes cosine similarity in [-1, 1]. A zero vector is left
// unnormalized (its norm contributes 1 to the denominator) so the result is
// defined without NaN.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denom := 1.0
	if normA > 0 {
		denom *= math.Sqrt(normA)
	}
	if normB > 0 {
		denom *= math.Sqrt(normB)
	}
	sim := dot / denom

	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}

// #endregion cosine
