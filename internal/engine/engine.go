// Package engine coordinates one session's full lifecycle: init, adaptive
// question/answer steps, and the final recommendation.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mindprint/internal/catalog"
	"mindprint/internal/gate"
	"mindprint/internal/logging"
	"mindprint/internal/profile"
	"mindprint/internal/projection"
	"mindprint/internal/rerank"
	"mindprint/internal/retrieval"
	"mindprint/internal/selector"
	"mindprint/internal/session"
	"mindprint/internal/update"
)

// archetypeTemperature sharpens the archetype softmax relative to the raw
// logit spread, which is small after row normalization.
const archetypeTemperature = 0.1

// #region engine
// Options configures an Engine. Catalog, Candidates and Store are required;
// zero-valued tuning sections fall back to defaults. Auditor may be nil.
type Options struct {
	Catalog    *catalog.Catalog
	Candidates []profile.Candidate
	Store      session.Store
	Auditor    *logging.Auditor
	Selector   selector.Config
	Retrieval  retrieval.Config
	Weights    rerank.Weights
}

// Engine is safe for concurrent use: all shared inputs are immutable and all
// per-session state flows through the store.
type Engine struct {
	catalog    *catalog.Catalog
	candidates []profile.Candidate
	store      session.Store
	auditor    *logging.Auditor
	selCfg     selector.Config
	retCfg     retrieval.Config
	weights    rerank.Weights
	log        zerolog.Logger
}

// New validates the options and builds an engine.
func New(opts Options) (*Engine, error) {
	if opts.Catalog == nil || opts.Catalog.Len() == 0 {
		return nil, fmt.Errorf("engine requires a non-empty catalog")
	}
	if len(opts.Candidates) == 0 {
		return nil, fmt.Errorf("engine requires at least one candidate")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("engine requires a session store")
	}
	if opts.Selector.MaxQuestions == 0 {
		opts.Selector = selector.DefaultConfig()
	}
	if opts.Retrieval.TopK == 0 {
		opts.Retrieval = retrieval.DefaultConfig()
	}
	if opts.Weights.Version == "" {
		opts.Weights = rerank.DefaultWeights()
	}
	if err := opts.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}

	return &Engine{
		catalog:    opts.Catalog,
		candidates: opts.Candidates,
		store:      opts.Store,
		auditor:    opts.Auditor,
		selCfg:     opts.Selector,
		retCfg:     opts.Retrieval,
		weights:    opts.Weights,
		log:        logging.Component("engine"),
	}, nil
}

// #endregion engine

// #region init
// InitSession creates a session at step zero. An empty id gets a fresh UUID;
// a caller-supplied id must not collide with a live session.
func (e *Engine) InitSession(id string) (session.State, error) {
	if id == "" {
		id = uuid.New().String()
	} else if _, err := e.store.Get(id); err == nil {
		return session.State{}, fmt.Errorf("session %q: %w", id, ErrSessionExists)
	}

	st := session.New(id, uuid.New().String(), time.Now().UTC())
	if err := e.store.Put(st); err != nil {
		return session.State{}, fmt.Errorf("store session: %w", err)
	}

	e.log.Info().Str("session", id).Msg("session started")
	return st, nil
}

// #endregion init

// #region next
// NextQuestion runs the selection policy against the session's current
// belief.
func (e *Engine) NextQuestion(sessionID string) (NextResult, error) {
	st, err := e.store.Get(sessionID)
	if err != nil {
		return NextResult{}, fmt.Errorf("load session %q: %w", sessionID, err)
	}

	sel := selector.Select(e.catalog, st.Belief, st.Answers, e.selCfg)
	res := NextResult{
		SessionID:  sessionID,
		Step:       st.Step,
		Done:       sel.Done(),
		Phase:      sel.Phase,
		Reason:     sel.Reason,
		Confidence: st.Belief.Confidence(),
	}
	if !sel.Done() {
		q, ok := e.catalog.Question(sel.QuestionID)
		if !ok {
			return NextResult{}, fmt.Errorf("selected question %q: %w", sel.QuestionID, catalog.ErrQuestionNotFound)
		}
		res.Question = q
	}
	return res, nil
}

// #endregion next

// #region answer
// ProcessAnswer folds one answer into the session: trait evidence updates the
// belief, dealbreaker effects extend the hard-filter record, and a new
// versioned snapshot becomes the session's active state. The prior snapshot
// is never mutated.
func (e *Engine) ProcessAnswer(sessionID, questionID, optionID string) (AnswerResult, error) {
	st, err := e.store.Get(sessionID)
	if err != nil {
		return AnswerResult{}, fmt.Errorf("load session %q: %w", sessionID, err)
	}

	q, ok := e.catalog.Question(questionID)
	if !ok {
		return AnswerResult{}, fmt.Errorf("question %q: %w", questionID, catalog.ErrQuestionNotFound)
	}
	opt, ok := q.Option(optionID)
	if !ok {
		return AnswerResult{}, fmt.Errorf("question %q option %q: %w", questionID, optionID, catalog.ErrOptionNotFound)
	}
	if st.Answered(questionID) {
		return AnswerResult{}, fmt.Errorf("question %q: %w", questionID, ErrAlreadyAnswered)
	}

	next := st
	next.ParentID = st.VersionID
	next.VersionID = uuid.New().String()
	next.Step = st.Step + 1
	next.UpdatedAt = time.Now().UTC()

	next.Answers = make(map[string]string, len(st.Answers)+1)
	for k, v := range st.Answers {
		next.Answers[k] = v
	}
	next.Answers[questionID] = optionID

	var metrics update.Metrics
	if opt.HasEvidence {
		r := update.Apply(st.Belief, opt.Evidence)
		next.Belief = r.Posterior
		metrics = r.Metrics
	}
	if opt.Dealbreaker != nil {
		next.Dealbreakers = st.Dealbreakers.Merge(opt.Dealbreaker)
	}

	if err := e.store.Put(next); err != nil {
		return AnswerResult{}, fmt.Errorf("store session: %w", err)
	}

	entropy := next.Belief.Entropy()
	confidence := next.Belief.Confidence()
	e.audit(logging.AuditEntry{
		SessionID:  sessionID,
		VersionID:  next.VersionID,
		Step:       next.Step,
		QuestionID: questionID,
		OptionID:   optionID,
		Phase:      string(q.Category),
		Entropy:    entropy,
		Confidence: confidence,
	})

	e.log.Debug().
		Str("session", sessionID).
		Str("question", questionID).
		Str("option", optionID).
		Int("step", next.Step).
		Float64("confidence", confidence).
		Msg("answer processed")

	return AnswerResult{
		SessionID:  sessionID,
		VersionID:  next.VersionID,
		Step:       next.Step,
		Metrics:    metrics,
		Entropy:    entropy,
		Confidence: confidence,
	}, nil
}

// #endregion answer

// #region finish
// FinishSession projects the belief, retrieves candidates, and reranks them
// under the session's dealbreaker record. It does not close the session;
// callers may keep answering and finish again.
func (e *Engine) FinishSession(sessionID string) (Recommendation, error) {
	st, err := e.store.Get(sessionID)
	if err != nil {
		return Recommendation{}, fmt.Errorf("load session %q: %w", sessionID, err)
	}

	archetypes := projection.ProjectArchetypes(st.Belief, archetypeTemperature)
	attributes := projection.SynthesizeAttributes(st.Belief)
	matches := retrieval.Retrieve(st.Belief.Mu, e.candidates, e.retCfg)
	results := rerank.Rerank(rerank.Input{
		Matches:     matches,
		Targets:     attributes,
		Archetypes:  archetypes,
		Dealbreaker: st.Dealbreakers,
		Weights:     e.weights,
	})

	e.log.Info().
		Str("session", sessionID).
		Int("answers", len(st.Answers)).
		Str("archetype", archetypes.PrimaryName()).
		Int("results", len(results)).
		Msg("session finished")

	return Recommendation{
		SessionID:  sessionID,
		Step:       st.Step,
		Confidence: st.Belief.Confidence(),
		Archetypes: archetypes,
		Attributes: attributes,
		Results:    results,
	}, nil
}

// #endregion finish

// #region helpers
// DealbreakerDecision evaluates a single candidate against a session's
// recorded constraints. Used by the inspect surface.
func (e *Engine) DealbreakerDecision(sessionID, candidateID string) (gate.Decision, error) {
	st, err := e.store.Get(sessionID)
	if err != nil {
		return gate.Decision{}, fmt.Errorf("load session %q: %w", sessionID, err)
	}
	for _, c := range e.candidates {
		if c.ID == candidateID {
			return st.Dealbreakers.Evaluate(c), nil
		}
	}
	return gate.Decision{}, fmt.Errorf("candidate %q not found", candidateID)
}

func (e *Engine) audit(entry logging.AuditEntry) {
	if e.auditor == nil {
		return
	}
	if err := e.auditor.Record(entry); err != nil {
		e.log.Warn().Err(err).Str("session", entry.SessionID).Msg("audit write failed")
	}
}

// #endregion helpers
