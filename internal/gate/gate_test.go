package gate

import (
	"testing"

	"mindprint/internal/catalog"
	"mindprint/internal/profile"
)

func TestEmptyRecordPassesEverything(t *testing.T) {
	d := Record{}.Evaluate(profile.Candidate{ID: "x", OS: "android", ScreenInches: 6.9, PriceUSD: 1500})
	if d.Factor != 1 {
		t.Fatalf("factor = %f, want 1", d.Factor)
	}
	if len(d.Vetoes) != 0 {
		t.Fatalf("unexpected vetoes: %v", d.Vetoes)
	}
}

func TestOSVetoZerosFactor(t *testing.T) {
	rec := Record{OS: "ios"}
	d := rec.Evaluate(profile.Candidate{ID: "x", OS: "android"})
	if d.Factor != 0 {
		t.Fatalf("factor = %f, want 0", d.Factor)
	}
	if len(d.Vetoes) != 1 || d.Vetoes[0].Type != VetoOS {
		t.Fatalf("expected single os veto, got %v", d.Vetoes)
	}
}

func TestOSMatchIsCaseInsensitive(t *testing.T) {
	rec := Record{OS: "iOS"}
	if d := rec.Evaluate(profile.Candidate{ID: "x", OS: "ios"}); d.Factor != 1 {
		t.Fatalf("case-insensitive OS match failed: %v", d.Vetoes)
	}
}

func TestAllViolationsReported(t *testing.T) {
	rec := Record{OS: "ios", MaxScreenInches: 6.2, MaxPriceUSD: 800}
	d := rec.Evaluate(profile.Candidate{ID: "x", OS: "android", ScreenInches: 6.9, PriceUSD: 1299})
	if d.Factor != 0 {
		t.Fatalf("factor = %f, want 0", d.Factor)
	}
	if len(d.Vetoes) != 3 {
		t.Fatalf("expected 3 vetoes, got %d: %v", len(d.Vetoes), d.Vetoes)
	}
}

func TestMergeLaterAnswersWin(t *testing.T) {
	rec := Record{}
	rec = rec.Merge(&catalog.DealbreakerEffect{OS: "android"})
	rec = rec.Merge(&catalog.DealbreakerEffect{MaxPriceUSD: 800})
	rec = rec.Merge(&catalog.DealbreakerEffect{OS: "ios"})

	if rec.OS != "ios" {
		t.Fatalf("os = %q, want ios", rec.OS)
	}
	if rec.MaxPriceUSD != 800 {
		t.Fatalf("price cap = %f, want 800", rec.MaxPriceUSD)
	}
}

func TestMergeNilEffectIsNoOp(t *testing.T) {
	rec := Record{OS: "ios"}
	if got := rec.Merge(nil); got != rec {
		t.Fatalf("nil merge changed record: %+v", got)
	}
}
