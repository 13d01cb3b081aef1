package engine

import (
	"errors"

	"mindprint/internal/catalog"
	"mindprint/internal/projection"
	"mindprint/internal/rerank"
	"mindprint/internal/selector"
	"mindprint/internal/update"
)

var (
	// ErrSessionExists is returned when InitSession is asked to reuse an id.
	ErrSessionExists = errors.New("session already exists")
	// ErrAlreadyAnswered is returned when a question is answered twice.
	ErrAlreadyAnswered = errors.New("question already answered")
)

// NextResult is the selector's decision for a session, with the full question
// when one was picked.
type NextResult struct {
	SessionID  string
	Step       int
	Done       bool
	Phase      selector.Phase
	Reason     string
	Question   catalog.Question
	Confidence float64
}

// AnswerResult reports the belief movement caused by one processed answer.
type AnswerResult struct {
	SessionID  string
	VersionID  string
	Step       int
	Metrics    update.Metrics
	Entropy    float64
	Confidence float64
}

// Recommendation is the session's final output: the ranked candidates plus
// the projections they were ranked against.
type Recommendation struct {
	SessionID  string
	Step       int
	Confidence float64
	Archetypes projection.Projection
	Attributes []projection.AttributeTarget
	Results    []rerank.Result
}
