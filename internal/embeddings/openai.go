package embeddings

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/elidoras/datacore/internal/util"
)

const maxBatchSize = 128

// ErrNoAPIKey is returned when the OpenAI backend is selected without a
// configured credential. This is a configuration error and fatal at startup.
var ErrNoAPIKey = errors.New("embeddings: openai backend requires an API key")

// OpenAIModel represents a supported OpenAI embedding model.
type OpenAIModel string

const (
	ModelTextEmbedding3Small OpenAIModel = "text-embedding-3-small"
	ModelTextEmbedding3Large OpenAIModel = "text-embedding-3-large"
)

func (m OpenAIModel) dimensions() int {
	switch m {
	case ModelTextEmbedding3Small:
		return 1536
	case ModelTextEmbedding3Large:
		return 3072
	default:
		return 1536
	}
}

// OpenAIEmbedder generates embeddings using OpenAI's batch API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  OpenAIModel
	retry  util.RetryPolicy
}

// NewOpenAIEmbedder creates a new OpenAI embedder with the given API key and
// model. An empty key is rejected here so misconfiguration surfaces before
// any ingestion work begins.
func NewOpenAIEmbedder(apiKey string, model OpenAIModel) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = ModelTextEmbedding3Large
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(apiKey),
		model:  model,
		retry:  util.DefaultRetryPolicy(),
	}, nil
}

func (e *OpenAIEmbedder) Name() string {
	return string(e.model)
}

func (e *OpenAIEmbedder) Dimensions() int {
	return e.model.dimensions()
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	all := make([][]float32, 0, len(texts))

	// Batch up to maxBatchSize texts per API call.
	for i := 0; i < len(texts); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[i:end]

		vecs, err := e.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		all = append(all, vecs...)
	}

	return all, nil
}

func (e *OpenAIEmbedder) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	var vecs [][]float32
	err := e.retry.Do(ctx, func() error {
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return fmt.Errorf("openai embedding request failed: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return fmt.Errorf("openai returned %d embeddings, expected %d", len(resp.Data), len(batch))
		}
		vecs = vecs[:0]
		for _, emb := range resp.Data {
			vecs = append(vecs, emb.Embedding)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vecs, nil
}
