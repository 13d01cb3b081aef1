package engine

import (
	"errors"
	"testing"

	"mindprint/internal/catalog"
	"mindprint/internal/profile"
	"mindprint/internal/session"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	b := catalog.NewBuilder()
	b.Add(catalog.QuestionSpec{
		ID:       "q_camera",
		Text:     "What do you photograph most?",
		Category: catalog.CategoryDiscriminator,
		Options: []catalog.OptionSpec{
			{ID: "people", Label: "People", Impact: map[string]float64{"camera_quality": 0.9, "selfie_priority": 0.8}},
			{ID: "nothing", Label: "Rarely use the camera", Impact: map[string]float64{"camera_quality": 0.1}},
		},
	})
	b.Add(catalog.QuestionSpec{
		ID:       "q_battery",
		Text:     "How often do you charge?",
		Category: catalog.CategoryDiscriminator,
		Options: []catalog.OptionSpec{
			{ID: "daily", Label: "Daily", Impact: map[string]float64{"battery_life": 0.5}},
			{ID: "rarely", Label: "As rarely as possible", Impact: map[string]float64{"battery_life": 0.95}},
		},
	})
	b.Add(catalog.QuestionSpec{
		ID:       "q_os",
		Text:     "Which platform?",
		Category: catalog.CategoryDealbreaker,
		Options: []catalog.OptionSpec{
			{ID: "ios", Label: "iOS only", Dealbreaker: &catalog.DealbreakerEffect{OS: "ios"}},
			{ID: "any", Label: "No preference"},
		},
	})
	cat, err := b.Build()
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func testCandidate(id, os string, camera float64) profile.Candidate {
	c := profile.Candidate{
		ID:           id,
		Name:         id,
		OS:           os,
		ScreenInches: 6.1,
		PriceUSD:     799,
		Attributes:   map[string]float64{},
		ArchetypeSignature: []float64{
			0.3, 0.2, 0.1, 0.1, 0.2, 0.1,
		},
		Regret: 0.2,
	}
	for _, name := range profile.AttributeNames {
		c.Attributes[name] = 5
	}
	c.Attributes["camera"] = camera * 10
	for i := range c.Signature {
		c.Signature[i] = 0.5
	}
	c.Signature[0] = camera
	return c
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Options{
		Catalog: testCatalog(t),
		Candidates: []profile.Candidate{
			testCandidate("shutter-one", "ios", 0.9),
			testCandidate("basic-a", "android", 0.4),
		},
		Store: session.NewMemoryStore(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewRejectsMissingInputs(t *testing.T) {
	cat := testCatalog(t)
	cands := []profile.Candidate{testCandidate("c", "ios", 0.5)}

	if _, err := New(Options{Candidates: cands, Store: session.NewMemoryStore()}); err == nil {
		t.Fatal("missing catalog accepted")
	}
	if _, err := New(Options{Catalog: cat, Store: session.NewMemoryStore()}); err == nil {
		t.Fatal("missing candidates accepted")
	}
	if _, err := New(Options{Catalog: cat, Candidates: cands}); err == nil {
		t.Fatal("missing store accepted")
	}
}

func TestInitSession(t *testing.T) {
	e := testEngine(t)

	st, err := e.InitSession("")
	if err != nil {
		t.Fatalf("InitSession: %v", err)
	}
	if st.ID == "" || st.VersionID == "" {
		t.Fatal("expected generated ids")
	}
	if st.Step != 0 {
		t.Fatalf("step = %d, want 0", st.Step)
	}

	if _, err := e.InitSession(st.ID); !errors.Is(err, ErrSessionExists) {
		t.Fatalf("duplicate init = %v, want ErrSessionExists", err)
	}
}

func TestNextQuestionStartsForced(t *testing.T) {
	e := testEngine(t)
	st, err := e.InitSession("")
	if err != nil {
		t.Fatalf("InitSession: %v", err)
	}

	next, err := e.NextQuestion(st.ID)
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if next.Done {
		t.Fatalf("fresh session done: %s", next.Reason)
	}
	if next.Question.ID != "q_camera" {
		t.Fatalf("first question = %q, want q_camera", next.Question.ID)
	}
}

func TestNextQuestionUnknownSession(t *testing.T) {
	e := testEngine(t)
	if _, err := e.NextQuestion("ghost"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestProcessAnswerUpdatesBelief(t *testing.T) {
	e := testEngine(t)
	st, _ := e.InitSession("")

	res, err := e.ProcessAnswer(st.ID, "q_camera", "people")
	if err != nil {
		t.Fatalf("ProcessAnswer: %v", err)
	}
	if res.Step != 1 {
		t.Fatalf("step = %d, want 1", res.Step)
	}
	if res.Confidence <= 0 {
		t.Fatalf("confidence = %f, want > 0 after evidence", res.Confidence)
	}
	if res.Metrics.SigmaDrop <= 0 {
		t.Fatalf("sigma drop = %f, want > 0", res.Metrics.SigmaDrop)
	}

	if _, err := e.ProcessAnswer(st.ID, "q_camera", "people"); !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("repeat answer = %v, want ErrAlreadyAnswered", err)
	}
}

func TestProcessAnswerErrors(t *testing.T) {
	e := testEngine(t)
	st, _ := e.InitSession("")

	if _, err := e.ProcessAnswer(st.ID, "q_ghost", "x"); !errors.Is(err, catalog.ErrQuestionNotFound) {
		t.Fatalf("unknown question = %v", err)
	}
	if _, err := e.ProcessAnswer(st.ID, "q_camera", "x"); !errors.Is(err, catalog.ErrOptionNotFound) {
		t.Fatalf("unknown option = %v", err)
	}
}

func TestDealbreakerAnswerLeavesBeliefUntouched(t *testing.T) {
	e := testEngine(t)
	st, _ := e.InitSession("")

	res, err := e.ProcessAnswer(st.ID, "q_os", "ios")
	if err != nil {
		t.Fatalf("ProcessAnswer: %v", err)
	}
	if res.Confidence != 0 {
		t.Fatalf("confidence = %f, want 0 with no evidence", res.Confidence)
	}
	if res.Metrics.SigmaDrop != 0 {
		t.Fatalf("sigma drop = %f, want 0", res.Metrics.SigmaDrop)
	}

	dec, err := e.DealbreakerDecision(st.ID, "basic-a")
	if err != nil {
		t.Fatalf("DealbreakerDecision: %v", err)
	}
	if dec.Factor != 0 {
		t.Fatal("android candidate survived an ios constraint")
	}
}

func TestFinishSessionRanksAndFilters(t *testing.T) {
	e := testEngine(t)
	st, _ := e.InitSession("")

	steps := []struct{ q, o string }{
		{"q_camera", "people"},
		{"q_battery", "daily"},
		{"q_os", "ios"},
	}
	for _, s := range steps {
		if _, err := e.ProcessAnswer(st.ID, s.q, s.o); err != nil {
			t.Fatalf("ProcessAnswer %s: %v", s.q, err)
		}
	}

	rec, err := e.FinishSession(st.ID)
	if err != nil {
		t.Fatalf("FinishSession: %v", err)
	}
	if rec.Step != 3 {
		t.Fatalf("step = %d, want 3", rec.Step)
	}
	if len(rec.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(rec.Results))
	}
	if rec.Results[0].CandidateID != "shutter-one" {
		t.Fatalf("top result = %q, want the ios camera phone", rec.Results[0].CandidateID)
	}
	if rec.Results[1].FinalScore > 0 {
		t.Fatalf("vetoed candidate score = %f, want <= 0", rec.Results[1].FinalScore)
	}
	if len(rec.Attributes) != len(profile.AttributeNames) {
		t.Fatalf("attributes = %d, want %d", len(rec.Attributes), len(profile.AttributeNames))
	}
	var sum float64
	for _, p := range rec.Archetypes.Probs {
		sum += p
	}
	if diff := sum - 1; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("archetype probs sum to %f", sum)
	}
}

func TestFinishIsRepeatable(t *testing.T) {
	e := testEngine(t)
	st, _ := e.InitSession("")
	if _, err := e.ProcessAnswer(st.ID, "q_camera", "people"); err != nil {
		t.Fatalf("ProcessAnswer: %v", err)
	}

	first, err := e.FinishSession(st.ID)
	if err != nil {
		t.Fatalf("FinishSession: %v", err)
	}
	second, err := e.FinishSession(st.ID)
	if err != nil {
		t.Fatalf("FinishSession again: %v", err)
	}
	if first.Results[0].FinalScore != second.Results[0].FinalScore {
		t.Fatal("finish is not deterministic")
	}
}
