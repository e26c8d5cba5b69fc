package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/lingbot/internal/catalog"
	"github.com/sandevgo/lingbot/internal/core"
	"github.com/sandevgo/lingbot/internal/service/session"
	"github.com/sandevgo/lingbot/pkg/log"
)

// DefaultSessionID keys the conversation when the caller does not supply a
// session of their own.
const DefaultSessionID = "default"

// ErrEmptyMessage reports a request without message content. No session
// state is touched in that case.
var ErrEmptyMessage = errors.New("missing message")

// Reply is the outcome of one conversational turn, shaped for the API
// response. Intent and Score always reflect the engine's verdict, even when
// the answer is a fallback.
type Reply struct {
	Answer    string             `json:"answer"`
	Intent    string             `json:"intent"`
	Score     float64            `json:"score"`
	SessionID string             `json:"sessionId"`
	Entities  []core.EntityMatch `json:"entities,omitempty"`
}

// Service runs the per-message pipeline: introduction override, engine
// classification, confidence gating, dispatch, session bookkeeping.
type Service struct {
	classifier  core.Classifier
	intro       *IntroExtractor
	gate        *Gate
	dispatcher  *Dispatcher
	sessions    *session.Store
	transcripts core.TranscriptRepository
}

func NewService(
	cfg core.ChatConfig,
	cat *catalog.Catalog,
	classifier core.Classifier,
	sessions *session.Store,
	transcripts core.TranscriptRepository,
	picker Picker,
) *Service {
	return &Service{
		classifier:  classifier,
		intro:       NewIntroExtractor(picker),
		gate:        NewGate(cfg.GetScoreThreshold(), cat.Fallbacks, picker),
		dispatcher:  NewDispatcher(cat, picker),
		sessions:    sessions,
		transcripts: transcripts,
	}
}

// Sessions exposes the session store for read-only transport needs (the
// history endpoint).
func (s *Service) Sessions() *session.Store {
	return s.sessions
}

// Chat processes one inbound message against a session and produces the
// final reply. Turns against the same session are serialized; different
// sessions proceed concurrently.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (Reply, error) {
	logger := log.FromCtx(ctx)

	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrEmptyMessage
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	release := s.sessions.Acquire(sessionID)
	defer release()

	// The user's message is part of the history no matter how the rest of
	// the turn goes.
	s.recordTurn(ctx, sessionID, core.RoleUser, message)

	result, answer, admitted, err := s.compose(ctx, sessionID, message)
	if err != nil {
		return Reply{}, err
	}

	// Entities from a gated classification are reported in the reply but
	// never accrue into the session context.
	if admitted {
		s.sessions.MergeContext(sessionID, result.Entities)
	}
	s.recordTurn(ctx, sessionID, core.RoleBot, answer)

	logger.Debug().
		Str("session", sessionID).
		Str("intent", result.Intent).
		Float64("score", result.Score).
		Msg("turn complete")

	return Reply{
		Answer:    answer,
		Intent:    result.Intent,
		Score:     result.Score,
		SessionID: sessionID,
		Entities:  result.Entities,
	}, nil
}

// compose yields the classification, the final answer and whether the
// classification passed the confidence gate.
func (s *Service) compose(ctx context.Context, sessionID, message string) (core.Classification, string, bool, error) {
	logger := log.FromCtx(ctx)

	// Self-introduction is a hard override: full confidence, no gate.
	if intro, ok := s.intro.Match(message); ok {
		logger.Debug().Str("name", intro.Name).Msg("introduction matched")
		return intro.Result, intro.Answer, true, nil
	}

	result, err := s.classifier.Classify(ctx, message, s.sessions.Context(sessionID))
	if err != nil {
		// The user turn stays recorded with no bot answer, so the next
		// request still sees a consistent history.
		logger.Error().Err(err).Str("session", sessionID).Msg("classification failed")
		return core.Classification{}, "", false, fmt.Errorf("classify: %w", err)
	}

	if !s.gate.Admit(result) {
		logger.Debug().
			Str("intent", result.Intent).
			Float64("score", result.Score).
			Msg("confidence gate fired")
		return result, s.gate.Fallback(), false, nil
	}

	answer, err := s.dispatcher.Dispatch(result)
	if err != nil {
		if errors.Is(err, ErrNoAnswer) {
			// Catalog inconsistency: the engine knows an intent nobody
			// wrote answers for. Recover with a fallback.
			logger.Warn().Str("intent", result.Intent).Msg("intent has no registered answer")
			return result, s.gate.Fallback(), true, nil
		}
		return core.Classification{}, "", false, err
	}

	return result, answer, true, nil
}

// recordTurn appends to the in-memory session and mirrors the turn into the
// durable transcript archive. Archive failures are logged, never fatal to
// the turn.
func (s *Service) recordTurn(ctx context.Context, sessionID, role, content string) {
	turn := s.sessions.AppendTurn(sessionID, role, content)

	if s.transcripts == nil {
		return
	}
	if err := s.transcripts.AddTurn(ctx, sessionID, turn); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session", sessionID).Msg("failed to archive turn")
	}
}
