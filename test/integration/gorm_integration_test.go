package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"edudash-be/internal/entity"
	"edudash-be/internal/repository/unitofwork"
	"edudash-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.ChatRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Resource Embedding Repository", func(t *testing.T) {
		// Count implies the table and vector column exist
		count, err := uow.ResourceEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ResourceEmbedding count: %d", count)
	})

	t.Run("Check Transactional Chat Turn", func(t *testing.T) {
		ctx := context.Background()

		userId := uuid.New()
		user := &entity.User{
			Id:       userId,
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
			Role:     "student",
		}
		err := uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)

		// Transaction Test: chat plus its messages persist atomically,
		// rolled back so the run leaves no chat rows behind.
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		chatId := uuid.New()
		chat := &entity.Chat{
			Id:     chatId,
			UserId: userId,
			Title:  "Integration chat",
		}
		err = uow.ChatRepository().Create(ctx, chat)
		assert.NoError(t, err)

		messages := []*entity.ChatMessage{
			{Id: uuid.New(), ChatId: chatId, Role: "user", Content: "hello"},
			{Id: uuid.New(), ChatId: chatId, Role: "assistant", Content: "hi there"},
		}
		err = uow.ChatMessageRepository().CreateBulk(ctx, messages)
		assert.NoError(t, err)

		t.Log("Transactional chat turn verified (rolled back)")
	})
}
