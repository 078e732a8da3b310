package bootstrap

import (
	"context"
	"log"

	"ai-webchat-be/internal/config"
	"ai-webchat-be/internal/controller"
	"ai-webchat-be/internal/pkg/keyedmutex"
	"ai-webchat-be/internal/pkg/logger"
	"ai-webchat-be/internal/pkg/prompt"
	"ai-webchat-be/internal/repository/memory"
	"ai-webchat-be/internal/repository/unitofwork"
	"ai-webchat-be/internal/service"
	"ai-webchat-be/internal/websocket"
	"ai-webchat-be/pkg/llm/factory"

	pktNats "ai-webchat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	ChatController    controller.IChatController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	Hub *websocket.Hub

	Logger logger.ILogger
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

	// Initialize Completion Provider based on Config
	completionProvider, err := factory.NewCompletionProvider(factory.Config{
		Provider:        cfg.Ai.Provider,
		AzureEndpoint:   cfg.Ai.AzureEndpoint,
		AzureAPIKey:     cfg.Ai.AzureAPIKey,
		AzureDeployment: cfg.Ai.AzureDeployment,
		AzureAPIVersion: cfg.Ai.AzureAPIVersion,
		OllamaBaseURL:   cfg.Ai.OllamaBaseURL,
		OllamaModel:     cfg.Ai.OllamaModel,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize completion provider: %v", err)
	}
	log.Printf("[INFO] Using completion provider: %s", cfg.Ai.Provider)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

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
		rdb = nil
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	listCache := memory.NewSessionListCache()
	sessionLocks := keyedmutex.New()
	promptBuilder := prompt.NewBuilder(cfg.Chat.ReplaySelectedAnswer)

	publisherService := service.NewPublisherService(pubSub, cfg.Chat.SummarizeTitleTopic)

	sessionService := service.NewSessionService(uowFactory, listCache, natsPub, cfg.App.BaseURL)
	chatService := service.NewChatService(
		uowFactory,
		completionProvider,
		promptBuilder,
		sessionLocks,
		listCache,
		publisherService,
		natsPub,
		wsHub,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Chat.SummarizeTitleTopic,
		chatService,
	)

	// 4. Controllers
	return &Container{
		SessionController: controller.NewSessionController(sessionService),
		ChatController:    controller.NewChatController(chatService),

		ConsumerService: consumerService,
		Hub:             wsHub,
		Logger:          sysLogger,
	}
}
