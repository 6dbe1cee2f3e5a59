package service

import (
	"context"
	"testing"

	"edudash-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedEmbedder struct {
	vec []float32
}

func (e *fixedEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vec
	}
	return out, nil
}

func (e *fixedEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	return e.vec, nil
}

func TestFindRelevantParameterDefaults(t *testing.T) {
	repo := &fakeEmbeddingRepo{}
	uow := &fakeUnitOfWork{embeddings: repo}
	svc := NewKnowledgeService(&fakeFactory{uow: uow}, &fixedEmbedder{vec: []float32{0.1, 0.2}}, nil, logger.NewNopLogger())

	_, err := svc.FindRelevant(context.Background(), "grading policy", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, repo.gotLimit, "k defaults to 4")
	assert.InDelta(t, 0.5, repo.gotThreshold, 1e-9, "similarity floor defaults to 0.5")

	_, err = svc.FindRelevant(context.Background(), "grading policy", 7, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 7, repo.gotLimit)
	assert.InDelta(t, 0.25, repo.gotThreshold, 1e-9)
}
