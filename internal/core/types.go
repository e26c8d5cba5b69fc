package core

import "time"

const (
	BotName          = "LingBot"
	BotUserAgent     = "LingBot/0.1"
	BotRepositoryURL = "https://github.com/sandevgo/lingbot"
	BotVersion       = "0.1.0"
)

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// IntroductionIntent is the synthetic intent assigned when a self-introduction
// pattern matches before the classifier runs.
const IntroductionIntent = "user.introduction"

// EntityMatch is a typed span the engine extracted from an utterance.
// Option carries the canonical value for dictionary matches; SourceText is the
// exact substring that matched. At least one of the two is always set.
type EntityMatch struct {
	Type       string `json:"entity"`
	Option     string `json:"option,omitempty"`
	SourceText string `json:"sourceText"`
}

// Resolved returns the display value of the match: the canonical option when
// present, the matched text otherwise.
func (e EntityMatch) Resolved() string {
	if e.Option != "" {
		return e.Option
	}
	return e.SourceText
}

// Classification is the engine's verdict for a single utterance. Intent may be
// empty or "None" when nothing matched. Score is in [0,1].
type Classification struct {
	Intent   string        `json:"intent"`
	Score    float64       `json:"score"`
	Entities []EntityMatch `json:"entities,omitempty"`
}

// Turn is one message of a conversation, either side.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
