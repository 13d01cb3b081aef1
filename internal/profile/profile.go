package profile

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"mindprint/internal/belief"
)

// #region attributes
// AttributeNames lists the 7 human-facing attribute axes every candidate is
// scored on (0-10 scale). The attribute synthesizer produces user targets on
// the same axes.
var AttributeNames = []string{
	"camera",
	"battery",
	"performance",
	"display",
	"portability",
	"reliability",
	"value",
}

// #endregion attributes

// #region candidate
// Candidate is one phone profile: a latent signature in the same 28-dim space
// as the belief mean (computed by the offline enrichment pipeline), named
// attribute scores, and optional ranking extras. Candidates are read-only;
// the engine never mutates the catalog.
type Candidate struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	OS           string              `json:"os"`
	ScreenInches float64             `json:"screen_inches"`
	PriceUSD     float64             `json:"price_usd"`
	Signature    [belief.Dim]float64 `json:"signature"`
	Attributes   map[string]float64  `json:"attributes"`

	// ArchetypeSignature aligns the candidate with the archetype set. May be
	// absent, in which case the reranker's arch component scores 0.
	ArchetypeSignature []float64 `json:"archetype_signature,omitempty"`

	// Regret is an externally supplied sentiment-derived penalty in [0, 1].
	Regret float64 `json:"regret"`
}

// Validate checks a candidate against its documented ranges.
func (c Candidate) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("candidate with empty id")
	}
	for name, score := range c.Attributes {
		if score < 0 || score > 10 {
			return fmt.Errorf("candidate %q: attribute %q score %f out of [0,10]", c.ID, name, score)
		}
	}
	if c.Regret < 0 || c.Regret > 1 {
		return fmt.Errorf("candidate %q: regret %f out of [0,1]", c.ID, c.Regret)
	}
	return nil
}

// #endregion candidate

// #region load
// File is the JSON document shape for a candidate catalog.
type File struct {
	Candidates []Candidate `json:"candidates"`
}

// Parse decodes and validates a candidate catalog from JSON bytes.
func Parse(data []byte) ([]Candidate, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse candidates: %w", err)
	}
	seen := make(map[string]bool, len(f.Candidates))
	for _, c := range f.Candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate candidate id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return f.Candidates, nil
}

// Load reads and validates a candidate catalog from a JSON file.
func Load(path string) ([]Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidates %s: %w", path, err)
	}
	cands, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("candidates %s: %w", path, err)
	}
	return cands, nil
}

// #endregion load
