package catalog

import (
	"testing"

	"mindprint/internal/belief"
)

func twoOptions() []OptionSpec {
	return []OptionSpec{
		{ID: "a", Impact: map[string]float64{"camera_quality": 0.9}},
		{ID: "b", Impact: map[string]float64{"camera_quality": 0.1}},
	}
}

func TestBuildCompilesDenseEvidence(t *testing.T) {
	cat, err := NewBuilder().Add(QuestionSpec{
		ID:       "q1",
		Category: CategoryDiscriminator,
		Options:  twoOptions(),
	}).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	q, ok := cat.Question("q1")
	if !ok {
		t.Fatal("question q1 missing")
	}
	opt, ok := q.Option("a")
	if !ok {
		t.Fatal("option a missing")
	}
	if !opt.HasEvidence {
		t.Fatal("discriminator option should carry evidence")
	}
	if opt.Evidence.Sigma != CategoryDiscriminator.Sigma() {
		t.Fatalf("sigma = %f, want category default %f", opt.Evidence.Sigma, CategoryDiscriminator.Sigma())
	}

	idx, _ := belief.TraitIndex("camera_quality")
	if opt.Evidence.TargetMu[idx] != 0.9 {
		t.Fatalf("named trait target = %f, want 0.9", opt.Evidence.TargetMu[idx])
	}
	for i := 0; i < belief.Dim; i++ {
		if i == idx {
			continue
		}
		if opt.Evidence.TargetMu[i] != belief.NeutralMu {
			t.Fatalf("unmentioned trait %d = %f, want neutral", i, opt.Evidence.TargetMu[i])
		}
	}
}

func TestBuildRejectsUnknownTrait(t *testing.T) {
	_, err := NewBuilder().Add(QuestionSpec{
		ID:       "q1",
		Category: CategoryClarifier,
		Options: []OptionSpec{
			{ID: "a", Impact: map[string]float64{"flux_capacity": 0.9}},
			{ID: "b"},
		},
	}).Build()
	if err == nil {
		t.Fatal("expected error for unknown trait name")
	}
}

func TestBuildSkipsOutOfRangeIndices(t *testing.T) {
	cat, err := NewBuilder().Add(QuestionSpec{
		ID:       "q1",
		Category: CategoryClarifier,
		Options: []OptionSpec{
			{ID: "a", ImpactByIndex: map[int]float64{2: 0.8, -1: 0.9, 99: 0.9}},
			{ID: "b"},
		},
	}).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	q, _ := cat.Question("q1")
	opt, _ := q.Option("a")
	if opt.Evidence.TargetMu[2] != 0.8 {
		t.Fatalf("in-range index not applied: %f", opt.Evidence.TargetMu[2])
	}
}

func TestBuildRejectsOptionCounts(t *testing.T) {
	_, err := NewBuilder().Add(QuestionSpec{
		ID:       "q1",
		Category: CategoryClarifier,
		Options:  []OptionSpec{{ID: "only"}},
	}).Build()
	if err == nil {
		t.Fatal("expected error for single-option question")
	}
}

func TestBuildRejectsDuplicateQuestionID(t *testing.T) {
	b := NewBuilder()
	b.Add(QuestionSpec{ID: "q1", Category: CategoryClarifier, Options: twoOptions()})
	b.Add(QuestionSpec{ID: "q1", Category: CategoryClarifier, Options: twoOptions()})
	if _, err := b.Build(); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestBuildRejectsBadCategory(t *testing.T) {
	_, err := NewBuilder().Add(QuestionSpec{
		ID: "q1", Category: "vibes", Options: twoOptions(),
	}).Build()
	if err == nil {
		t.Fatal("expected unknown category error")
	}
}

func TestDealbreakerOptionsCarryNoEvidence(t *testing.T) {
	cat, err := NewBuilder().Add(QuestionSpec{
		ID:       "q_os",
		Category: CategoryDealbreaker,
		Options: []OptionSpec{
			{ID: "ios", Dealbreaker: &DealbreakerEffect{OS: "ios"}},
			{ID: "any"},
		},
	}).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	q, _ := cat.Question("q_os")
	opt, _ := q.Option("ios")
	if opt.HasEvidence {
		t.Fatal("dealbreaker option must not carry trait evidence")
	}
	if opt.Dealbreaker == nil || opt.Dealbreaker.OS != "ios" {
		t.Fatal("dealbreaker effect lost in compilation")
	}
}

func TestLoadTestdataCatalog(t *testing.T) {
	cat, err := Load("testdata/questions.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cat.Len() != 11 {
		t.Fatalf("loaded %d questions, want 11", cat.Len())
	}

	var disc, deal, tie int
	for _, q := range cat.Questions() {
		switch q.Category {
		case CategoryDiscriminator:
			disc++
		case CategoryDealbreaker:
			deal++
		case CategoryTieBreaker:
			tie++
		}
	}
	if disc != 3 || deal != 3 || tie != 2 {
		t.Fatalf("category counts disc=%d deal=%d tie=%d", disc, deal, tie)
	}
}

func TestParseRejectsEmptyCatalog(t *testing.T) {
	if _, err := Parse([]byte("questions: []")); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}
