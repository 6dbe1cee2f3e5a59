package service

import (
	"context"
	"encoding/json"
	"time"

	"edudash-be/internal/dto"
	"edudash-be/internal/entity"
	"edudash-be/internal/pkg/logger"
	"edudash-be/internal/repository/specification"
	"edudash-be/internal/repository/unitofwork"
	"edudash-be/pkg/chunker"
	"edudash-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService rebuilds embeddings for resources announced on the
// in-process ingestion topic. Seeding and bulk imports go through here
// instead of the synchronous ingest path.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestResourceMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Info("ConsumerService", "Processing resource embedding", map[string]interface{}{"resource_id": payload.ResourceId})

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	resource, err := uow.ResourceRepository().FindOne(ctx, specification.ByID{ID: payload.ResourceId})
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to load resource", map[string]interface{}{"resource_id": payload.ResourceId, "error": err.Error()})
		msg.Nack() // Retriable
		return
	}
	if resource == nil {
		cs.logger.Warn("ConsumerService", "Resource not found, skipping", map[string]interface{}{"resource_id": payload.ResourceId})
		msg.Ack() // Deleted in the meantime
		return
	}

	chunks := chunker.Split(resource.Content)
	vectors, err := cs.embeddingProvider.EmbedMany(ctx, chunks)
	if err != nil {
		cs.logger.Error("ConsumerService", "Embedding failed", map[string]interface{}{"resource_id": payload.ResourceId, "error": err.Error()})
		msg.Nack()
		return
	}
	if len(vectors) != len(chunks) {
		cs.logger.Error("ConsumerService", "Vector count mismatch", map[string]interface{}{
			"resource_id": payload.ResourceId, "chunks": len(chunks), "vectors": len(vectors),
		})
		msg.Nack()
		return
	}

	newEmbeddings := make([]*entity.ResourceEmbedding, len(chunks))
	for i, chunk := range chunks {
		newEmbeddings[i] = &entity.ResourceEmbedding{
			Id:             uuid.New(),
			Document:       chunk,
			EmbeddingValue: vectors[i],
			ResourceId:     resource.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		}
	}

	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("ConsumerService", "Failed to begin transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.ResourceEmbeddingRepository().DeleteByResourceId(ctx, resource.Id); err != nil {
		cs.logger.Error("ConsumerService", "Failed to delete old embeddings", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.ResourceEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			cs.logger.Error("ConsumerService", "Failed to create embeddings", map[string]interface{}{"error": err.Error()})
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("ConsumerService", "Failed to commit transaction", map[string]interface{}{"error": err.Error()})
		msg.Nack()
		return
	}

	cs.logger.Info("ConsumerService", "Resource processed", map[string]interface{}{
		"resource_id": payload.ResourceId, "chunks": len(newEmbeddings),
	})
	msg.Ack()
}
