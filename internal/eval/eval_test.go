package eval

import (
	"strings"
	"testing"

	"mindprint/internal/belief"
	"mindprint/internal/projection"
)

func TestRunPassesOnNeutralBelief(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	b := belief.Neutral()
	res := h.Run(b, projection.ProjectArchetypes(b, 0.1))

	if !res.Passed {
		t.Fatalf("neutral belief failed eval: %s", res.Reason)
	}
	if res.Reason != "all checks passed" {
		t.Fatalf("reason = %q", res.Reason)
	}
	for _, m := range res.Metrics {
		if !m.Pass {
			t.Fatalf("metric %s failed on neutral belief", m.Name)
		}
	}
}

func TestRunFailsOnMuOutOfRange(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	b := belief.Neutral()
	b.Mu[3] = 1.4
	res := h.Run(b, projection.ProjectArchetypes(b, 0.1))

	if res.Passed {
		t.Fatal("out-of-range mu passed eval")
	}
	if !strings.Contains(res.Reason, "mu range") {
		t.Fatalf("reason = %q, want mu range failure", res.Reason)
	}
}

func TestRunFailsOnSigmaOutOfRange(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	b := belief.Neutral()
	b.Sigma[0] = 0.001
	res := h.Run(b, projection.ProjectArchetypes(b, 0.1))

	if res.Passed {
		t.Fatal("out-of-range sigma passed eval")
	}
}

func TestRunFailsOnBadDistribution(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	b := belief.Neutral()
	p := projection.Projection{Probs: []float64{0.5, 0.3}, Primary: 0}
	res := h.Run(b, p)

	if res.Passed {
		t.Fatal("non-normalized distribution passed eval")
	}
	if !strings.Contains(res.Reason, "archetype distribution") {
		t.Fatalf("reason = %q", res.Reason)
	}
}

func TestRunReportsMultipleFailures(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	b := belief.Neutral()
	b.Mu[0] = -2
	b.Sigma[0] = 9
	res := h.Run(b, projection.ProjectArchetypes(b, 0.1))

	if res.Passed {
		t.Fatal("broken belief passed eval")
	}
	if !strings.Contains(res.Reason, "checks:") {
		t.Fatalf("reason = %q, want multi-failure summary", res.Reason)
	}
}
