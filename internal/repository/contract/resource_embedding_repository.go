package contract

import (
	"context"

	"edudash-be/internal/entity"
	"edudash-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ResourceEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ResourceEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.ResourceEmbedding) error
	Update(ctx context.Context, embedding *entity.ResourceEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByResourceId(ctx context.Context, resourceId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ResourceEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResourceEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns embeddings with their cosine similarity,
	// filtered by threshold and ordered best-first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.ScoredEmbedding, error)
}
