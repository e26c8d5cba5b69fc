package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandevgo/lingbot/internal/core"
)

func newTestRepo(t *testing.T) *TranscriptsRepo {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTranscriptsRepo(db)
}

func TestTranscripts_AddAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	turns := []core.Turn{
		{Role: core.RoleUser, Content: "你好", CreatedAt: time.Now().Add(-2 * time.Minute)},
		{Role: core.RoleBot, Content: "你好！有什麼我可以幫助你的嗎？", CreatedAt: time.Now().Add(-time.Minute)},
		{Role: core.RoleUser, Content: "我想了解手機", CreatedAt: time.Now()},
	}
	for _, turn := range turns {
		if err := repo.AddTurn(ctx, "s1", turn); err != nil {
			t.Fatalf("AddTurn: %v", err)
		}
	}
	if err := repo.AddTurn(ctx, "other", core.Turn{Role: core.RoleUser, Content: "嗨", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("AddTurn: %v", err)
	}

	got, err := repo.GetTurns(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("GetTurns: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(got))
	}
	for i, turn := range got {
		if turn.Content != turns[i].Content {
			t.Errorf("turn %d content = %q, want %q", i, turn.Content, turns[i].Content)
		}
	}
}

func TestTranscripts_LimitReturnsMostRecent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		turn := core.Turn{Role: core.RoleUser, Content: string(rune('a' + i)), CreatedAt: time.Now()}
		if err := repo.AddTurn(ctx, "s1", turn); err != nil {
			t.Fatalf("AddTurn: %v", err)
		}
	}

	got, err := repo.GetTurns(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("GetTurns: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(got))
	}
	if got[0].Content != "d" || got[1].Content != "e" {
		t.Errorf("expected most recent turns in order, got %q %q", got[0].Content, got[1].Content)
	}
}

func TestTranscripts_EmptySession(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.GetTurns(context.Background(), "missing", 10)
	if err != nil {
		t.Fatalf("GetTurns: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no turns, got %d", len(got))
	}
}
