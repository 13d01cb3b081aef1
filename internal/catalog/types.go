package catalog

import (
	"errors"

	"mindprint/internal/update"
)

// #region errors
var (
	ErrQuestionNotFound = errors.New("question not found in catalog")
	ErrOptionNotFound   = errors.New("option not found in question")
)

// #endregion errors

// #region category
// Category tags a question's role in the session.
type Category string

const (
	CategoryDiscriminator Category = "discriminator"
	CategoryClarifier     Category = "clarifier"
	CategoryDealbreaker   Category = "dealbreaker"
	CategoryTieBreaker    Category = "tie_breaker"
)

// Sigma returns the category's default likelihood spread. Discriminators ask
// broad early questions and carry the most noise; tie-breakers are asked late
// and pin traits down tightly. Dealbreakers keep a nominal spread but never
// contribute trait evidence.
func (c Category) Sigma() float64 {
	switch c {
	case CategoryDiscriminator:
		return 0.06
	case CategoryClarifier:
		return 0.04
	case CategoryTieBreaker:
		return 0.03
	case CategoryDealbreaker:
		return 0.06
	}
	return 0
}

func (c Category) valid() bool {
	switch c {
	case CategoryDiscriminator, CategoryClarifier, CategoryDealbreaker, CategoryTieBreaker:
		return true
	}
	return false
}

// #endregion category

// #region dealbreaker-effect
// DealbreakerEffect is the hard constraint an option writes into the session's
// dealbreaker record. Zero values mean "no constraint from this option".
type DealbreakerEffect struct {
	OS              string  `yaml:"os" json:"os"`
	MaxScreenInches float64 `yaml:"max_screen_inches" json:"max_screen_inches"`
	MaxPriceUSD     float64 `yaml:"max_price_usd" json:"max_price_usd"`
}

// #endregion dealbreaker-effect

// #region option
// Option is one compiled answer choice. Its evidence vector is dense: traits
// the catalog file never mentioned default to the neutral 0.5 with the
// option's own sigma.
type Option struct {
	ID          string
	Label       string
	Evidence    update.Evidence
	HasEvidence bool // false for dealbreaker options, which carry no trait evidence
	Dealbreaker *DealbreakerEffect
}

// #endregion option

// #region question
// Question is one compiled catalog entry with 2-5 options.
type Question struct {
	ID       string
	Text     string
	Category Category
	Options  []Option
}

// Option looks up an option by id.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// #endregion question

// #region catalog
// Catalog is the immutable compiled question set. It is built once via a
// Builder, validated at build time, and passed whole into every session; the
// engine never mutates it.
type Catalog struct {
	questions []Question
	byID      map[string]int
}

// Question looks up a question by id.
func (c *Catalog) Question(id string) (Question, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Questions returns all questions in catalog order. Callers must not mutate
// the returned slice.
func (c *Catalog) Questions() []Question {
	return c.questions
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// #endregion catalog
