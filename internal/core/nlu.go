package core

import "context"

// Classifier is the boundary to the natural-language engine. Implementations
// may call out over the network, so Classify takes a context and may block.
// The session's accumulated entity context is passed as a hint; engines are
// free to ignore it.
type Classifier interface {
	Classify(ctx context.Context, utterance string, contextHint map[string]string) (Classification, error)
}
