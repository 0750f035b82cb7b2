package gemini

import (
	"context"
	"errors"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
	"github.com/sshenoy/profile-assistant/internal/infrastructure/resilience"
)

// ResilientClient decorates Client with bounded retries and per-operation
// circuit breaking. Quota errors fail fast so the chat layer can degrade to
// its fallback answer; other failures are treated as transport blips and
// retried.
type ResilientClient struct {
	client   *Client
	executor *resilience.Executor
}

func NewResilientClient(client *Client, executor *resilience.Executor) *ResilientClient {
	return &ResilientClient{client: client, executor: executor}
}

func classifyGeminiError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{}
	}
	if domain.IsKind(err, domain.ErrInvalidInput) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
	}
	return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
}

func (r *ResilientClient) GenerateFromPrompt(ctx context.Context, prompt string) (string, error) {
	var out string
	err := r.executor.Execute(ctx, "gemini.generate", func(ctx context.Context) error {
		var innerErr error
		out, innerErr = r.client.GenerateFromPrompt(ctx, prompt)
		return innerErr
	}, classifyGeminiError)
	return out, err
}

func (r *ResilientClient) GenerateJSONFromPrompt(ctx context.Context, prompt string) (string, error) {
	var out string
	err := r.executor.Execute(ctx, "gemini.generate_json", func(ctx context.Context) error {
		var innerErr error
		out, innerErr = r.client.GenerateJSONFromPrompt(ctx, prompt)
		return innerErr
	}, classifyGeminiError)
	return out, err
}

func (r *ResilientClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var out [][]float32
	err := r.executor.Execute(ctx, "gemini.embed", func(ctx context.Context) error {
		var innerErr error
		out, innerErr = r.client.Embed(ctx, texts)
		return innerErr
	}, classifyGeminiError)
	return out, err
}

func (r *ResilientClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := r.executor.Execute(ctx, "gemini.embed_query", func(ctx context.Context) error {
		var innerErr error
		out, innerErr = r.client.EmbedQuery(ctx, text)
		return innerErr
	}, classifyGeminiError)
	return out, err
}

func (r *ResilientClient) Enrich(ctx context.Context, filename, text string) (domain.Metadata, error) {
	var out domain.Metadata
	err := r.executor.Execute(ctx, "gemini.enrich", func(ctx context.Context) error {
		var innerErr error
		out, innerErr = r.client.Enrich(ctx, filename, text)
		return innerErr
	}, classifyGeminiError)
	return out, err
}
