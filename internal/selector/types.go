package selector

// Phase labels why a particular question (or stop) was chosen.
type Phase string

const (
	PhaseForced      Phase = "forced"
	PhaseDealbreaker Phase = "dealbreaker"
	PhaseAdaptive    Phase = "adaptive"
	PhaseComplete    Phase = "complete"
)

// Selection is the policy's decision for one step. When Phase is
// PhaseComplete, QuestionID is empty and the session should move to results.
type Selection struct {
	QuestionID string
	Phase      Phase
	Score      float64
	Gain       float64
	Reason     string
}

// Done reports whether the session should stop asking questions.
func (s Selection) Done() bool { return s.Phase == PhaseComplete }

// Config tunes the selection policy.
type Config struct {
	ForcedDiscriminators int     `koanf:"forced_discriminators"`
	DealbreakerAfter     int     `koanf:"dealbreaker_after"`
	TieBreakerAfter      int     `koanf:"tie_breaker_after"`
	SoftMinQuestions     int     `koanf:"soft_min_questions"`
	ConfidenceTarget     float64 `koanf:"confidence_target"`
	MaxQuestions         int     `koanf:"max_questions"`
	ChoiceTemperature    float64 `koanf:"choice_temperature"`
	FatigueWeight        float64 `koanf:"fatigue_weight"`
	FatigueExponent      float64 `koanf:"fatigue_exponent"`
}

// DefaultConfig returns the tuning used in production.
func DefaultConfig() Config {
	return Config{
		ForcedDiscriminators: 3,
		DealbreakerAfter:     5,
		TieBreakerAfter:      6,
		SoftMinQuestions:     6,
		ConfidenceTarget:     0.85,
		MaxQuestions:         12,
		ChoiceTemperature:    0.25,
		FatigueWeight:        0.05,
		FatigueExponent:      1.8,
	}
}
