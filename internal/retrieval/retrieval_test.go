package retrieval

import (
	"math"
	"testing"

	"mindprint/internal/belief"
	"mindprint/internal/profile"
)

func candidateWith(id string, fill float64) profile.Candidate {
	c := profile.Candidate{ID: id}
	for i := range c.Signature {
		c.Signature[i] = fill
	}
	return c
}

func TestCosineSelfSimilarityIsOne(t *testing.T) {
	v := []float64{0.3, 0.7, 0.1, 0.9}
	if sim := Cosine(v, v); math.Abs(sim-1) > 1e-12 {
		t.Fatalf("self similarity = %f, want 1", sim)
	}
}

func TestCosineBounds(t *testing.T) {
	a := []float64{1, 0}
	b := []float64{-1, 0}
	if sim := Cosine(a, b); math.Abs(sim+1) > 1e-12 {
		t.Fatalf("opposite similarity = %f, want -1", sim)
	}
}

func TestCosineZeroVectorIsFinite(t *testing.T) {
	zero := []float64{0, 0, 0}
	other := []float64{0.5, 0.5, 0.5}
	sim := Cosine(zero, other)
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		t.Fatalf("zero-vector similarity not finite: %f", sim)
	}
	if sim != 0 {
		t.Fatalf("zero-vector similarity = %f, want 0", sim)
	}
}

func TestCosineMismatchedLengths(t *testing.T) {
	if sim := Cosine([]float64{1}, []float64{1, 2}); sim != 0 {
		t.Fatalf("mismatched lengths similarity = %f, want 0", sim)
	}
}

func TestRetrieveOrdersBySimilarity(t *testing.T) {
	var user [belief.Dim]float64
	for i := range user {
		user[i] = 0.9
	}

	cands := []profile.Candidate{
		candidateWith("low", 0.1),
		candidateWith("high", 0.9),
		candidateWith("mid", 0.5),
	}
	// Perturb so similarities differ (constant vectors are all parallel).
	cands[0].Signature[0] = 0.9
	cands[2].Signature[0] = 0.0

	matches := Retrieve(user, cands, Config{TopK: 3})
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Similarity > matches[i-1].Similarity {
			t.Fatalf("matches not descending at %d: %f > %f", i, matches[i].Similarity, matches[i-1].Similarity)
		}
	}
	if matches[0].Candidate.ID != "high" {
		t.Fatalf("best match = %s, want high", matches[0].Candidate.ID)
	}
}

func TestRetrieveTopKTruncates(t *testing.T) {
	var user [belief.Dim]float64
	cands := []profile.Candidate{
		candidateWith("a", 0.2),
		candidateWith("b", 0.4),
		candidateWith("c", 0.6),
	}
	matches := Retrieve(user, cands, Config{TopK: 2})
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
}

func TestRetrieveEmptyPoolIsTerminalNotError(t *testing.T) {
	var user [belief.Dim]float64
	if matches := Retrieve(user, nil, DefaultConfig()); matches != nil {
		t.Fatalf("expected nil matches for empty pool, got %v", matches)
	}
}

func TestRetrieveDeterministicTieBreak(t *testing.T) {
	var user [belief.Dim]float64
	for i := range user {
		user[i] = 0.5
	}
	// Identical signatures: tie broken by id.
	cands := []profile.Candidate{candidateWith("zeta", 0.5), candidateWith("alpha", 0.5)}

	m1 := Retrieve(user, cands, DefaultConfig())
	m2 := Retrieve(user, cands, DefaultConfig())
	if m1[0].Candidate.ID != "alpha" || m2[0].Candidate.ID != "alpha" {
		t.Fatalf("tie break not deterministic: %s vs %s", m1[0].Candidate.ID, m2[0].Candidate.ID)
	}
}
