package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/lingbot/internal/core"
	"github.com/sandevgo/lingbot/pkg/log"
)

// TranscriptsRepo archives conversation turns. Unlike the in-memory session
// history it is unbounded and survives restarts.
type TranscriptsRepo struct {
	db *sql.DB
}

func NewTranscriptsRepo(db *sql.DB) *TranscriptsRepo {
	return &TranscriptsRepo{db: db}
}

func (r *TranscriptsRepo) AddTurn(ctx context.Context, sessionID string, turn core.Turn) error {
	query := `INSERT INTO transcripts (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, sessionID, turn.Role, turn.Content, turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

func (r *TranscriptsRepo) GetTurns(ctx context.Context, sessionID string, limit int) ([]core.Turn, error) {
	// Fetch the LAST 'limit' turns by ordering DESC
	query := `SELECT role, content, created_at FROM transcripts WHERE session_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var turn core.Turn
		if err := rows.Scan(&turn.Role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse back to chronological order (oldest -> newest).
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(turns)).Msg("loaded archived turns")
	return turns, nil
}
