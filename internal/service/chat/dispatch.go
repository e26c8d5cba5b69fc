package chat

import (
	"errors"
	"fmt"

	"github.com/sandevgo/lingbot/internal/catalog"
	"github.com/sandevgo/lingbot/internal/core"
)

// ErrNoAnswer reports an intent the classifier can reach but nobody
// registered an answer or handler for. The orchestrator recovers with a
// fallback; it is a catalog inconsistency, not a user-facing failure.
var ErrNoAnswer = errors.New("no answer for intent")

// HandlerFunc computes the final answer for a classification, bypassing
// template rendering entirely. Returning false declines the result, sending
// the turn down the static-answer path instead.
type HandlerFunc func(result core.Classification) (string, bool)

// Dispatcher maps an intent to either a registered custom handler or the
// intent's static answer templates. The mapping is resolved once at startup.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	answers  map[string][]string
	picker   Picker
}

func NewDispatcher(cat *catalog.Catalog, picker Picker) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		answers:  make(map[string][]string, len(cat.Intents)),
		picker:   picker,
	}
	for name := range cat.Intents {
		d.answers[name] = cat.AnswersFor(name)
	}

	d.Register("people_info", peopleHandler)
	d.Register("product_info", productHandler)

	return d
}

// Register installs a custom handler for an intent, replacing any previous
// one.
func (d *Dispatcher) Register(intent string, h HandlerFunc) {
	d.handlers[intent] = h
}

// Dispatch turns a gated classification into the final answer string.
func (d *Dispatcher) Dispatch(result core.Classification) (string, error) {
	if h, ok := d.handlers[result.Intent]; ok {
		if answer, ok := h(result); ok {
			return answer, nil
		}
	}

	answers := d.answers[result.Intent]
	if len(answers) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoAnswer, result.Intent)
	}

	answer := answers[d.picker.Pick(len(answers))]
	return RenderTemplate(answer, result.Entities), nil
}

// firstEntity returns the first entity of the given type, preserving the
// engine's ordering.
func firstEntity(result core.Classification, entityType string) (core.EntityMatch, bool) {
	for _, e := range result.Entities {
		if e.Type == entityType {
			return e, true
		}
	}
	return core.EntityMatch{}, false
}

func peopleHandler(result core.Classification) (string, bool) {
	person, ok := firstEntity(result, "people")
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s是Gay", person.Resolved()), true
}

func productHandler(result core.Classification) (string, bool) {
	product, ok := firstEntity(result, "product")
	if !ok {
		return "", false
	}
	return fmt.Sprintf("關於%s，我們有多種型號可供選擇。您有特定需求嗎？", product.Resolved()), true
}
