package core

import "context"

// TranscriptRepository archives conversation turns durably. Live session state
// stays in memory; the archive only exists for inspection after restarts.
type TranscriptRepository interface {
	AddTurn(ctx context.Context, sessionID string, turn Turn) error
	GetTurns(ctx context.Context, sessionID string, limit int) ([]Turn, error)
}
