package update

import (
	"testing"

	"mindprint/internal/belief"
)

func neutralEvidence(sigma float64) Evidence {
	ev := Evidence{Sigma: sigma}
	for i := range ev.TargetMu {
		ev.TargetMu[i] = belief.NeutralMu
	}
	return ev
}

func TestApplyPullsTowardTarget(t *testing.T) {
	prior := belief.Neutral()
	ev := neutralEvidence(0.06)
	ev.TargetMu[0] = 0.9

	result := Apply(prior, ev)

	if result.Posterior.Mu[0] <= 0.5 {
		t.Fatalf("mu[0] = %f, want > 0.5", result.Posterior.Mu[0])
	}
	if result.Posterior.Sigma[0] >= 0.5 {
		t.Fatalf("sigma[0] = %f, want < 0.5", result.Posterior.Sigma[0])
	}
}

func TestApplySharpensEveryTrait(t *testing.T) {
	prior := belief.Neutral()
	result := Apply(prior, neutralEvidence(0.06))

	// Evidence sigma below the prior sigma must strictly shrink every trait's
	// uncertainty, touched or not.
	for i := 0; i < belief.Dim; i++ {
		if result.Posterior.Sigma[i] >= prior.Sigma[i] {
			t.Fatalf("sigma[%d] did not decrease: %f -> %f", i, prior.Sigma[i], result.Posterior.Sigma[i])
		}
	}
}

func TestApplyUnmentionedTraitsRegressToNeutral(t *testing.T) {
	prior := belief.Neutral()
	prior.Mu[5] = 0.9 // established leaning
	prior.Sigma[5] = 0.2

	result := Apply(prior, neutralEvidence(0.06))

	if result.Posterior.Mu[5] >= prior.Mu[5] {
		t.Fatalf("mu[5] should regress toward 0.5: %f -> %f", prior.Mu[5], result.Posterior.Mu[5])
	}
	if result.Posterior.Mu[5] <= belief.NeutralMu {
		t.Fatalf("mu[5] overshot neutral: %f", result.Posterior.Mu[5])
	}
}

func TestApplyBoundsHoldUnderRepeatedUpdates(t *testing.T) {
	b := belief.Neutral()
	ev := neutralEvidence(0.03)
	for i := range ev.TargetMu {
		ev.TargetMu[i] = 1.0
	}

	for n := 0; n < 50; n++ {
		result := Apply(b, ev)
		b = result.Posterior
		for i := 0; i < belief.Dim; i++ {
			if b.Mu[i] < 0 || b.Mu[i] > 1 {
				t.Fatalf("mu[%d] = %f out of [0,1] after %d updates", i, b.Mu[i], n+1)
			}
			if b.Sigma[i] < belief.MinSigma || b.Sigma[i] > belief.MaxSigma {
				t.Fatalf("sigma[%d] = %f out of bounds after %d updates", i, b.Sigma[i], n+1)
			}
		}
	}
}

func TestApplyZeroEvidenceSigmaIsGuarded(t *testing.T) {
	prior := belief.Neutral()
	ev := neutralEvidence(0) // malformed: would divide by zero unguarded

	result := Apply(prior, ev)

	for i := 0; i < belief.Dim; i++ {
		if result.Posterior.Sigma[i] < belief.MinSigma {
			t.Fatalf("sigma[%d] = %f below floor", i, result.Posterior.Sigma[i])
		}
	}
}

func TestApplyDeterministic(t *testing.T) {
	prior := belief.Neutral()
	ev := neutralEvidence(0.04)
	ev.TargetMu[3] = 0.8

	r1 := Apply(prior, ev)
	r2 := Apply(prior, ev)

	if r1.Posterior != r2.Posterior {
		t.Fatal("non-deterministic posterior")
	}
}

func TestApplyEntropyDrops(t *testing.T) {
	result := Apply(belief.Neutral(), neutralEvidence(0.06))
	if result.Metrics.EntropyAfter >= result.Metrics.EntropyBefore {
		t.Fatalf("entropy did not drop: %f -> %f", result.Metrics.EntropyBefore, result.Metrics.EntropyAfter)
	}
}

func TestTenConsistentAnswersExceedHalfConfidence(t *testing.T) {
	b := belief.Neutral()
	ev := neutralEvidence(0.06)
	ev.TargetMu[0] = 0.9

	for n := 0; n < 10; n++ {
		b = Apply(b, ev).Posterior
	}
	if c := b.Confidence(); c <= 0.5 {
		t.Fatalf("confidence after 10 low-sigma answers = %f, want > 0.5", c)
	}
}
