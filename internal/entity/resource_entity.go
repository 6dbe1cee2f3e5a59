package entity

import (
	"time"

	"github.com/google/uuid"
)

type Resource struct {
	Id        uuid.UUID
	Title     string
	Content   string
	CourseId  *uuid.UUID
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type ResourceEmbedding struct {
	Id             uuid.UUID
	Document       string
	EmbeddingValue []float32
	ResourceId     uuid.UUID
	ChunkIndex     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}

// ScoredEmbedding pairs a retrieved chunk with its cosine similarity.
type ScoredEmbedding struct {
	Embedding  *ResourceEmbedding
	Similarity float64
}
