package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"edudash-be/internal/pkg/apperrors"
)

const geminiEmbeddingModel = "text-embedding-004"

// GeminiProvider calls the Gemini embedding API over plain HTTP.
type GeminiProvider struct {
	ApiKey string
	Client *http.Client
}

func NewGeminiProvider(apiKey string) Provider {
	return &GeminiProvider{
		ApiKey: apiKey,
		Client: &http.Client{Timeout: 60 * time.Second},
	}
}

type geminiContentPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiContentPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model    string        `json:"model"`
	Content  geminiContent `json:"content"`
	TaskType string        `json:"taskType,omitempty"`
}

type geminiBatchRequest struct {
	Requests []geminiEmbedRequest `json:"requests"`
}

type geminiEmbedding struct {
	Values []float32 `json:"values"`
}

type geminiBatchResponse struct {
	Embeddings []geminiEmbedding `json:"embeddings"`
}

type geminiEmbedResponse struct {
	Embedding geminiEmbedding `json:"embedding"`
}

func (p *GeminiProvider) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batch := geminiBatchRequest{Requests: make([]geminiEmbedRequest, len(texts))}
	for i, text := range texts {
		batch.Requests[i] = geminiEmbedRequest{
			Model:    "models/" + geminiEmbeddingModel,
			Content:  geminiContent{Parts: []geminiContentPart{{Text: text}}},
			TaskType: taskTypeDocument,
		}
	}

	body, err := p.post(ctx, "batchEmbedContents", batch)
	if err != nil {
		return nil, err
	}

	var res geminiBatchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &apperrors.EmbeddingServiceError{Provider: "gemini", Err: err}
	}
	if len(res.Embeddings) != len(texts) {
		return nil, &apperrors.EmbeddingServiceError{
			Provider: "gemini",
			Err:      fmt.Errorf("expected %d embeddings, got %d", len(texts), len(res.Embeddings)),
		}
	}

	vectors := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		vectors[i] = e.Values
	}
	return vectors, nil
}

func (p *GeminiProvider) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	req := geminiEmbedRequest{
		Model:    "models/" + geminiEmbeddingModel,
		Content:  geminiContent{Parts: []geminiContentPart{{Text: normalizeQuery(text)}}},
		TaskType: taskTypeQuery,
	}

	body, err := p.post(ctx, "embedContent", req)
	if err != nil {
		return nil, err
	}

	var res geminiEmbedResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, &apperrors.EmbeddingServiceError{Provider: "gemini", Err: err}
	}
	return res.Embedding.Values, nil
}

func (p *GeminiProvider) post(ctx context.Context, method string, payload any) ([]byte, error) {
	reqJson, err := json.Marshal(payload)
	if err != nil {
		return nil, &apperrors.EmbeddingServiceError{Provider: "gemini", Err: err}
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1/models/%s:%s",
		geminiEmbeddingModel, method,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(reqJson))
	if err != nil {
		return nil, &apperrors.EmbeddingServiceError{Provider: "gemini", Err: err}
	}
	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, &apperrors.EmbeddingServiceError{Provider: "gemini", Err: err}
	}
	defer res.Body.Close()

	resBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &apperrors.EmbeddingServiceError{Provider: "gemini", Err: err}
	}

	if res.StatusCode != http.StatusOK {
		return nil, &apperrors.EmbeddingServiceError{
			Provider: "gemini",
			Err:      fmt.Errorf("status %d, body %s", res.StatusCode, string(resBytes)),
		}
	}

	return resBytes, nil
}
