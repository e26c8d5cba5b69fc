package chat

import "github.com/sandevgo/lingbot/internal/core"

// Gate decides whether a classification is trustworthy enough to dispatch.
// Below the threshold (or with no intent at all) the turn gets a fallback
// utterance instead, while the original intent and score stay visible in the
// response for diagnostics.
type Gate struct {
	threshold float64
	fallbacks []string
	picker    Picker
}

func NewGate(threshold float64, fallbacks []string, picker Picker) *Gate {
	return &Gate{
		threshold: threshold,
		fallbacks: fallbacks,
		picker:    picker,
	}
}

// Admit reports whether the result passes through to the dispatcher
// unchanged.
func (g *Gate) Admit(result core.Classification) bool {
	if result.Intent == "" || result.Intent == "None" {
		return false
	}
	return result.Score >= g.threshold
}

// Fallback returns one utterance from the fallback pool.
func (g *Gate) Fallback() string {
	return g.fallbacks[g.picker.Pick(len(g.fallbacks))]
}
