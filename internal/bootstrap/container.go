package bootstrap

import (
	"context"
	"log"
	"time"

	"edudash-be/internal/config"
	"edudash-be/internal/controller"
	"edudash-be/internal/pkg/logger"
	"edudash-be/internal/repository/memory"
	"edudash-be/internal/repository/unitofwork"
	"edudash-be/internal/service"
	"edudash-be/internal/websocket"
	"edudash-be/pkg/agent"
	"edudash-be/pkg/embedding"
	"edudash-be/pkg/llm/factory"
	pktNats "edudash-be/pkg/nats"
	"edudash-be/pkg/tools"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController      controller.IChatController
	KnowledgeController controller.IKnowledgeController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *controller.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	// Query embeddings are hot; cache them in Redis.
	embeddingProvider = embedding.NewCachedProvider(embeddingProvider, rdb, 24*time.Hour)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Services
	knowledgeService := service.NewKnowledgeService(uowFactory, embeddingProvider, natsPub, sysLogger)

	ingestPublisher := service.NewPublisherService(cfg.Keys.IngestTopic, pubSub)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	registry := tools.NewRegistry(service.BuildAssistantCatalog(uowFactory, knowledgeService)...)
	orchestrator := agent.NewOrchestrator(llmProvider, registry, sysLogger)

	turnGuard := memory.NewTurnGuard()
	chatService := service.NewChatService(uowFactory, orchestrator, turnGuard, natsPub, sysLogger)

	notifService := service.NewNotificationService(natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := controller.NewNotificationHandler(wsHub)

	// 5. Controllers
	return &Container{
		ChatController:      controller.NewChatController(chatService, sysLogger),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService, ingestPublisher),
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		ConsumerService: consumerService,
	}
}
