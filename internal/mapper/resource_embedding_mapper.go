package mapper

import (
	"time"

	"edudash-be/internal/entity"
	"edudash-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ResourceEmbeddingMapper struct{}

func NewResourceEmbeddingMapper() *ResourceEmbeddingMapper {
	return &ResourceEmbeddingMapper{}
}

func (m *ResourceEmbeddingMapper) ToEntity(e *model.ResourceEmbedding) *entity.ResourceEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.ResourceEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		ResourceId:     e.ResourceId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *ResourceEmbeddingMapper) ToModel(e *entity.ResourceEmbedding) *model.ResourceEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.ResourceEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		ResourceId:     e.ResourceId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *ResourceEmbeddingMapper) ToEntities(embeddings []*model.ResourceEmbedding) []*entity.ResourceEmbedding {
	entities := make([]*entity.ResourceEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *ResourceEmbeddingMapper) ToModels(embeddings []*entity.ResourceEmbedding) []*model.ResourceEmbedding {
	models := make([]*model.ResourceEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = m.ToModel(e)
	}
	return models
}
