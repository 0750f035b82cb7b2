package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

// Client wraps the Gemini API for generation, embedding and metadata
// enrichment. One client serves all three concerns so the API key and
// transport are configured in a single place.
type Client struct {
	client     *genai.Client
	generative *genai.GenerativeModel
	jsonModel  *genai.GenerativeModel
	embedding  *genai.EmbeddingModel
}

func New(ctx context.Context, apiKey, generativeModel, embeddingModel string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	jsonModel := client.GenerativeModel(generativeModel)
	jsonModel.ResponseMIMEType = "application/json"

	return &Client{
		client:     client,
		generative: client.GenerativeModel(generativeModel),
		jsonModel:  jsonModel,
		embedding:  client.EmbeddingModel(embeddingModel),
	}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) GenerateFromPrompt(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, c.generative, prompt)
}

func (c *Client) GenerateJSONFromPrompt(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, c.jsonModel, prompt)
}

func (c *Client) generate(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyError("generate content", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("empty generation response")
	}
	return out, nil
}

func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, err := c.embedText(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embedText(ctx, text)
}

func (c *Client) embedText(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.embedding.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, classifyError("embed content", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return resp.Embedding.Values, nil
}

// classifyError marks quota exhaustion as temporary so callers can degrade
// instead of failing the request.
func classifyError(operation string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "resource_exhausted") {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
