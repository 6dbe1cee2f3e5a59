package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestResourceRequest struct {
	Title    string     `json:"title" validate:"required,max=255"`
	Content  string     `json:"content" validate:"required"`
	CourseId *uuid.UUID `json:"course_id,omitempty"`
}

type IngestResourceResponse struct {
	Id         uuid.UUID `json:"id"`
	ChunkCount int       `json:"chunk_count"`
}

type ResourceResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CourseId  *uuid.UUID `json:"course_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// PublishIngestResourceMessage rides the in-process ingestion topic.
type PublishIngestResourceMessage struct {
	ResourceId uuid.UUID `json:"resource_id"`
}

type SearchKnowledgeResponse struct {
	Document   string    `json:"document"`
	ResourceId uuid.UUID `json:"resource_id"`
	ChunkIndex int       `json:"chunk_index"`
	Similarity float64   `json:"similarity"`
}
