package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sandevgo/lingbot/internal/core"
	"github.com/sandevgo/lingbot/pkg/retry"
)

// RemoteEngine calls an external NLU service over HTTP. The service is
// expected to expose POST /classify accepting {utterance, language, context}
// and returning {intent, score, entities}.
type RemoteEngine struct {
	client   *http.Client
	baseURL  string
	language string
	retrier  *retry.Retrier
}

type classifyRequest struct {
	Utterance string            `json:"utterance"`
	Language  string            `json:"language"`
	Context   map[string]string `json:"context,omitempty"`
}

func NewRemoteEngine(baseURL, language string) *RemoteEngine {
	return &RemoteEngine{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:  baseURL,
		language: language,
		retrier:  retry.NewDefaultRetrier(),
	}
}

func (r *RemoteEngine) Classify(ctx context.Context, utterance string, contextHint map[string]string) (core.Classification, error) {
	payload, err := json.Marshal(classifyRequest{
		Utterance: utterance,
		Language:  r.language,
		Context:   contextHint,
	})
	if err != nil {
		return core.Classification{}, fmt.Errorf("marshal classify request: %w", err)
	}

	var result core.Classification
	err = r.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/classify", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", core.BotUserAgent)

		resp, err := r.client.Do(req)
		if err != nil {
			return fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("nlu service returned %d: %s", resp.StatusCode, body)
		}

		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decode classify response: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Classification{}, err
	}

	return result, nil
}
