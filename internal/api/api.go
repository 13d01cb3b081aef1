// Package api exposes the session lifecycle over HTTP.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"mindprint/internal/catalog"
	"mindprint/internal/engine"
	"mindprint/internal/logging"
	"mindprint/internal/projection"
	"mindprint/internal/rerank"
	"mindprint/internal/session"
)

// #region server
// Server wraps the engine behind the HTTP surface.
type Server struct {
	engine *engine.Engine
	log    zerolog.Logger
}

// NewServer builds the API server around an engine.
func NewServer(e *engine.Engine) *Server {
	return &Server{engine: e, log: logging.Component("api")}
}

// Router assembles the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/{sessionID}/next", s.handleNextQuestion)
		r.Post("/{sessionID}/answers", s.handleAnswer)
		r.Post("/{sessionID}/finish", s.handleFinish)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// #endregion server

// #region payloads
type createSessionRequest struct {
	SessionID string `json:"session_id"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	VersionID string `json:"version_id"`
	Step      int    `json:"step"`
}

type optionPayload struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type nextResponse struct {
	SessionID  string          `json:"session_id"`
	Step       int             `json:"step"`
	Done       bool            `json:"done"`
	Phase      string          `json:"phase"`
	Reason     string          `json:"reason"`
	Confidence float64         `json:"confidence"`
	QuestionID string          `json:"question_id,omitempty"`
	Text       string          `json:"text,omitempty"`
	Options    []optionPayload `json:"options,omitempty"`
}

type answerRequest struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

type answerResponse struct {
	SessionID  string  `json:"session_id"`
	VersionID  string  `json:"version_id"`
	Step       int     `json:"step"`
	Entropy    float64 `json:"entropy"`
	Confidence float64 `json:"confidence"`
	MeanShift  float64 `json:"mean_shift"`
	SigmaDrop  float64 `json:"sigma_drop"`
}

type finishResponse struct {
	SessionID  string             `json:"session_id"`
	Step       int                `json:"step"`
	Confidence float64            `json:"confidence"`
	Archetype  string             `json:"archetype"`
	Archetypes map[string]float64 `json:"archetypes"`
	Attributes map[string]float64 `json:"attributes"`
	Results    []rerank.Result    `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// #endregion payloads

// #region handlers
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
			return
		}
	}

	st, err := s.engine.InitSession(req.SessionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: st.ID, VersionID: st.VersionID, Step: st.Step})
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	res, err := s.engine.NextQuestion(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := nextResponse{
		SessionID:  res.SessionID,
		Step:       res.Step,
		Done:       res.Done,
		Phase:      string(res.Phase),
		Reason:     res.Reason,
		Confidence: res.Confidence,
	}
	if !res.Done {
		resp.QuestionID = res.Question.ID
		resp.Text = res.Question.Text
		for _, o := range res.Question.Options {
			resp.Options = append(resp.Options, optionPayload{ID: o.ID, Label: o.Label})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}
	if req.QuestionID == "" || req.OptionID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "question_id and option_id are required"})
		return
	}

	res, err := s.engine.ProcessAnswer(chi.URLParam(r, "sessionID"), req.QuestionID, req.OptionID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answerResponse{
		SessionID:  res.SessionID,
		VersionID:  res.VersionID,
		Step:       res.Step,
		Entropy:    res.Entropy,
		Confidence: res.Confidence,
		MeanShift:  res.Metrics.MeanShift,
		SigmaDrop:  res.Metrics.SigmaDrop,
	})
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	rec, err := s.engine.FinishSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	archetypes := make(map[string]float64, len(rec.Archetypes.Probs))
	for i, p := range rec.Archetypes.Probs {
		archetypes[projection.ArchetypeNames[i]] = p
	}
	attributes := make(map[string]float64, len(rec.Attributes))
	for _, a := range rec.Attributes {
		attributes[a.Name] = a.Target
	}

	writeJSON(w, http.StatusOK, finishResponse{
		SessionID:  rec.SessionID,
		Step:       rec.Step,
		Confidence: rec.Confidence,
		Archetype:  rec.Archetypes.PrimaryName(),
		Archetypes: archetypes,
		Attributes: attributes,
		Results:    rec.Results,
	})
}

// #endregion handlers

// #region errors
// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrQuestionNotFound), errors.Is(err, catalog.ErrOptionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrSessionExists), errors.Is(err, engine.ErrAlreadyAnswered):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// #endregion errors
