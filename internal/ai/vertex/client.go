package vertex

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"sseojum/internal/config"
)

// Client wraps the genai SDK against the Vertex AI backend and exposes the
// two calls the rest of the system needs: text generation and embedding.
type Client struct {
	inner          *genai.Client
	generateModel  string
	embeddingModel string
}

func NewClient(ctx context.Context, cfg config.VertexAIConfig) (*Client, error) {
	inner, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  cfg.ProjectID,
		Location: cfg.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("create vertex ai client: %w", err)
	}
	return &Client{
		inner:          inner,
		generateModel:  cfg.GenerateModel,
		embeddingModel: cfg.EmbeddingModel,
	}, nil
}

// GenerateContent makes a single model call with the assembled prompt.
func (c *Client) GenerateContent(ctx context.Context, promptText string) (*genai.GenerateContentResponse, error) {
	return c.inner.Models.GenerateContent(ctx, c.generateModel, genai.Text(promptText), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
		TopP:        genai.Ptr[float32](0.95),
	})
}

// Embed returns the embedding vector for one text. taskType distinguishes
// centroid material (RETRIEVAL_DOCUMENT) from incoming questions
// (RETRIEVAL_QUERY).
func (c *Client) Embed(ctx context.Context, text, taskType string) ([]float32, error) {
	contents := []*genai.Content{
		{Parts: []*genai.Part{{Text: text}}},
	}
	resp, err := c.inner.Models.EmbedContent(ctx, c.embeddingModel, contents, &genai.EmbedContentConfig{
		TaskType: taskType,
	})
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("embed content: empty embedding response")
	}
	return resp.Embeddings[0].Values, nil
}
