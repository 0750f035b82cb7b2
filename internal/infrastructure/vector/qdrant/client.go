package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sshenoy/profile-assistant/internal/core/domain"
)

// scrollPageSize bounds one scroll request during full enumeration.
const scrollPageSize = 256

type Client struct {
	baseURL    string
	collection string
	httpClient *http.Client

	ensureMu          sync.Mutex
	ensuredCollection bool
	ensuredVectorSize int
}

func New(baseURL, collection string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) IndexChunks(ctx context.Context, src *domain.SourceDocument, chunks []string, vectors [][]float32) error {
	if len(chunks) == 0 || len(vectors) == 0 {
		return nil
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch")
	}

	if err := c.ensureCollection(ctx, len(vectors[0])); err != nil {
		return err
	}

	type point struct {
		ID      string         `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}

	points := make([]point, 0, len(chunks))
	for i := range chunks {
		payload := payloadFromMetadata(src.Metadata)
		payload["content"] = chunks[i]
		payload["source_id"] = src.ID
		payload["chunk_index"] = i
		points = append(points, point{
			ID:      uuid.NewString(),
			Vector:  vectors[i],
			Payload: payload,
		})
	}

	body, err := json.Marshal(map[string]any{"points": points})
	if err != nil {
		return fmt.Errorf("marshal upsert body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create upsert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant upsert request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant upsert status: %s", resp.Status)
	}
	return nil
}

func (c *Client) Search(ctx context.Context, queryVector []float32, limit int) ([]domain.ScoredResult, error) {
	body, err := json.Marshal(map[string]any{
		"vector":       queryVector,
		"limit":        limit,
		"with_payload": true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("qdrant search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant search status: %s", resp.Status)
	}

	var searchResp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]domain.ScoredResult, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		out = append(out, domain.ScoredResult{
			Content:  getStringPayload(r.Payload, "content"),
			Metadata: metadataFromPayload(r.Payload),
			Score:    r.Score,
			// Cosine similarity is a score, not a distance.
			Distance: domain.DistanceFromScore(r.Score),
		})
	}
	return out, nil
}

// ListAll enumerates every indexed point via the scroll API. The corpus is a
// personal knowledge base, small enough that a fresh full read per query is
// acceptable.
func (c *Client) ListAll(ctx context.Context) ([]domain.Document, error) {
	var (
		docs   []domain.Document
		offset any
	)
	for {
		reqBody := map[string]any{
			"limit":        scrollPageSize,
			"with_payload": true,
		}
		if offset != nil {
			reqBody["offset"] = offset
		}
		body, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("marshal scroll body: %w", err)
		}

		url := fmt.Sprintf("%s/collections/%s/points/scroll", c.baseURL, c.collection)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create scroll request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("qdrant scroll request: %w", err)
		}

		var scrollResp struct {
			Result struct {
				Points []struct {
					ID      any            `json:"id"`
					Payload map[string]any `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		if resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("qdrant scroll status: %s", resp.Status)
		}
		err = json.NewDecoder(resp.Body).Decode(&scrollResp)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode scroll response: %w", err)
		}

		for _, p := range scrollResp.Result.Points {
			docs = append(docs, domain.Document{
				ID:       fmt.Sprintf("%v", p.ID),
				Content:  getStringPayload(p.Payload, "content"),
				Metadata: metadataFromPayload(p.Payload),
			})
		}

		offset = scrollResp.Result.NextPageOffset
		if offset == nil {
			return docs, nil
		}
	}
}

func (c *Client) ensureCollection(ctx context.Context, vectorSize int) error {
	c.ensureMu.Lock()
	if c.ensuredCollection && c.ensuredVectorSize == vectorSize {
		c.ensureMu.Unlock()
		return nil
	}
	c.ensureMu.Unlock()

	body, err := json.Marshal(map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	})
	if err != nil {
		return fmt.Errorf("marshal create collection body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create collection request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant ensure collection request: %w", err)
	}
	defer resp.Body.Close()

	// 200/201 for create, 409 if already exists (depends on version/config).
	if resp.StatusCode == http.StatusConflict {
		c.markCollectionEnsured(vectorSize)
		return nil
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return fmt.Errorf("qdrant ensure collection status: %s: %s", resp.Status, msg)
		}
		return fmt.Errorf("qdrant ensure collection status: %s", resp.Status)
	}
	c.markCollectionEnsured(vectorSize)
	return nil
}

func (c *Client) markCollectionEnsured(vectorSize int) {
	c.ensureMu.Lock()
	defer c.ensureMu.Unlock()
	c.ensuredCollection = true
	c.ensuredVectorSize = vectorSize
}

func payloadFromMetadata(meta domain.Metadata) map[string]any {
	return map[string]any{
		"filename":           meta.Filename,
		"document_type":      meta.DocumentType,
		"organization":       meta.Organization,
		"organizations":      meta.Organizations,
		"role":               meta.Role,
		"semantic_tags":      meta.SemanticTags,
		"skill_domains":      meta.SkillDomains,
		"technologies":       meta.Technologies,
		"locations":          meta.Locations,
		"relevance_keywords": meta.RelevanceKeywords,
		"experience_type":    meta.ExperienceType,
		"timeline_start":     meta.Timeline.Start,
		"timeline_end":       meta.Timeline.End,
		"timeline_duration":  meta.Timeline.Duration,
		"complexity_score":   meta.ComplexityScore,
		"impact_score":       meta.ImpactScore,
	}
}

// metadataFromPayload decodes defensively: missing or mistyped values fall
// back to zero values so scoring can proceed on partial metadata.
func metadataFromPayload(payload map[string]any) domain.Metadata {
	return domain.Metadata{
		Filename:          getStringPayload(payload, "filename"),
		DocumentType:      getStringPayload(payload, "document_type"),
		Organization:      getStringPayload(payload, "organization"),
		Organizations:     getStringPayload(payload, "organizations"),
		Role:              getStringPayload(payload, "role"),
		SemanticTags:      getStringPayload(payload, "semantic_tags"),
		SkillDomains:      getStringPayload(payload, "skill_domains"),
		Technologies:      getStringPayload(payload, "technologies"),
		Locations:         getStringPayload(payload, "locations"),
		RelevanceKeywords: getStringPayload(payload, "relevance_keywords"),
		ExperienceType:    getStringPayload(payload, "experience_type"),
		Timeline: domain.Timeline{
			Start:    getStringPayload(payload, "timeline_start"),
			End:      getStringPayload(payload, "timeline_end"),
			Duration: getStringPayload(payload, "timeline_duration"),
		},
		ComplexityScore: getFloatPayload(payload, "complexity_score"),
		ImpactScore:     getFloatPayload(payload, "impact_score"),
	}
}

func getStringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func getFloatPayload(payload map[string]any, key string) float64 {
	switch v := payload[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	default:
		return 0
	}
}
