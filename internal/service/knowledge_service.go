package service

import (
	"context"
	"fmt"
	"time"

	"edudash-be/internal/dto"
	"edudash-be/internal/entity"
	"edudash-be/internal/pkg/apperrors"
	"edudash-be/internal/pkg/logger"
	"edudash-be/internal/repository/specification"
	"edudash-be/internal/repository/unitofwork"
	"edudash-be/pkg/chunker"
	"edudash-be/pkg/embedding"
	"edudash-be/pkg/events"
	pktNats "edudash-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	defaultRetrievalLimit  = 4
	defaultSimilarityFloor = 0.5
)

type IKnowledgeService interface {
	Ingest(ctx context.Context, userId uuid.UUID, req *dto.IngestResourceRequest) (*dto.IngestResourceResponse, error)
	AllResources(ctx context.Context) ([]*dto.ResourceResponse, error)
	DeleteResource(ctx context.Context, id uuid.UUID) error
	FindRelevant(ctx context.Context, query string, k int, minSimilarity float64) ([]*dto.SearchKnowledgeResponse, error)
}

type knowledgeService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

// Ingest stores the resource and its chunk embeddings atomically. A
// failed embedding call leaves no partial rows behind.
func (s *knowledgeService) Ingest(ctx context.Context, userId uuid.UUID, req *dto.IngestResourceRequest) (*dto.IngestResourceResponse, error) {
	chunks := chunker.Split(req.Content)

	vectors, err := s.embeddingProvider.EmbedMany(ctx, chunks)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(chunks) {
		return nil, &apperrors.EmbeddingServiceError{
			Provider: "batch",
			Err:      fmt.Errorf("expected %d vectors, got %d", len(chunks), len(vectors)),
		}
	}

	resource := entity.Resource{
		Id:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		CourseId:  req.CourseId,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	embeddings := make([]*entity.ResourceEmbedding, len(chunks))
	for i, chunk := range chunks {
		embeddings[i] = &entity.ResourceEmbedding{
			Id:             uuid.New(),
			Document:       chunk,
			EmbeddingValue: vectors[i],
			ResourceId:     resource.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, &apperrors.PersistenceError{Op: "ingest resource", Err: err}
	}
	defer uow.Rollback()

	if err := uow.ResourceRepository().Create(ctx, &resource); err != nil {
		return nil, &apperrors.PersistenceError{Op: "create resource", Err: err}
	}
	if err := uow.ResourceEmbeddingRepository().CreateBulk(ctx, embeddings); err != nil {
		return nil, &apperrors.PersistenceError{Op: "create embeddings", Err: err}
	}

	if err := uow.Commit(); err != nil {
		return nil, &apperrors.PersistenceError{Op: "commit ingest", Err: err}
	}

	s.logger.Info("KnowledgeService", "Resource ingested", map[string]interface{}{
		"resource_id": resource.Id,
		"chunks":      len(chunks),
	})

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeResourceIngested,
			Data: map[string]interface{}{
				"resource_id": resource.Id,
				"title":       resource.Title,
				"user_id":     userId,
				"chunks":      len(chunks),
			},
			OccurredAt: time.Now(),
		}
		// Auxiliary; the ingest itself already succeeded.
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("KnowledgeService", "Failed to publish RESOURCE_INGESTED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return &dto.IngestResourceResponse{
		Id:         resource.Id,
		ChunkCount: len(chunks),
	}, nil
}

func (s *knowledgeService) AllResources(ctx context.Context) ([]*dto.ResourceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	resources, err := uow.ResourceRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list resources", Err: err}
	}

	out := make([]*dto.ResourceResponse, len(resources))
	for i, r := range resources {
		out[i] = &dto.ResourceResponse{
			Id:        r.Id,
			Title:     r.Title,
			CourseId:  r.CourseId,
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

func (s *knowledgeService) DeleteResource(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return &apperrors.PersistenceError{Op: "delete resource", Err: err}
	}
	defer uow.Rollback()

	if err := uow.ResourceEmbeddingRepository().DeleteByResourceId(ctx, id); err != nil {
		return &apperrors.PersistenceError{Op: "delete embeddings", Err: err}
	}
	if err := uow.ResourceRepository().Delete(ctx, id); err != nil {
		return &apperrors.PersistenceError{Op: "delete resource", Err: err}
	}

	if err := uow.Commit(); err != nil {
		return &apperrors.PersistenceError{Op: "commit delete", Err: err}
	}
	return nil
}

// FindRelevant embeds the query and returns the best-matching chunks
// above the similarity floor. Non-positive k or minSimilarity fall back
// to the defaults.
func (s *knowledgeService) FindRelevant(ctx context.Context, query string, k int, minSimilarity float64) ([]*dto.SearchKnowledgeResponse, error) {
	if k <= 0 {
		k = defaultRetrievalLimit
	}
	if minSimilarity <= 0 {
		minSimilarity = defaultSimilarityFloor
	}

	vector, err := s.embeddingProvider.EmbedOne(ctx, query)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.ResourceEmbeddingRepository().SearchSimilarWithScore(
		ctx, vector, k, minSimilarity,
	)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "similarity search", Err: err}
	}

	out := make([]*dto.SearchKnowledgeResponse, len(scored))
	for i, sc := range scored {
		out[i] = &dto.SearchKnowledgeResponse{
			Document:   sc.Embedding.Document,
			ResourceId: sc.Embedding.ResourceId,
			ChunkIndex: sc.Embedding.ChunkIndex,
			Similarity: sc.Similarity,
		}
	}
	return out, nil
}
