package bootstrap

import (
	"context"
	"log"

	"course-chatbot-be/internal/config"
	"course-chatbot-be/internal/constant"
	"course-chatbot-be/internal/controller"
	"course-chatbot-be/internal/pkg/logger"
	"course-chatbot-be/internal/service"
	"course-chatbot-be/pkg/classifier"
	"course-chatbot-be/pkg/engine/openai"
	"course-chatbot-be/pkg/grounding"
	"course-chatbot-be/pkg/history"
	"course-chatbot-be/pkg/nonce"
	"course-chatbot-be/pkg/orchestrator"
	"course-chatbot-be/pkg/retriever/docstore"
	"course-chatbot-be/pkg/retriever/filestore"
	"course-chatbot-be/pkg/stream"
	"course-chatbot-be/pkg/tools"

	pktNats "course-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	UsageConsumerService service.IUsageConsumerService

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

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

	// Session history lives in Redis; an in-process cache takes over when
	// Redis is unreachable so a single instance still works.
	var historyStore history.Store
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory history", err)
		historyStore = history.NewMemoryStore()
	} else {
		historyStore = history.NewRedisStore(rdb)
	}

	publisherService := service.NewPublisherService(cfg.Keys.UsageTopic, pubSub)
	usageLogger := logger.NewIsolatedLogger("logs/usage.log")
	usageConsumerService := service.NewUsageConsumerService(
		pubSub,
		cfg.Keys.UsageTopic,
		natsPub,
		usageLogger,
	)

	// 3. Retrieval
	fileClient := filestore.NewDropboxClient(cfg.FileStore.AccessToken)
	fileRetriever := filestore.NewRetriever(fileClient, cfg.FileStore.RootFolder, sysLogger)

	docClient := docstore.NewWordPressClient(cfg.DocStore.BaseURL, cfg.DocStore.Secret, sysLogger)
	docRetriever := docstore.NewRetriever(docClient, sysLogger)

	queryClassifier := classifier.New(constant.CourseKeywords, constant.ProfessionalTitles)
	assembler := grounding.NewAssembler(constant.DefaultBusinessProfile, constant.ResponseInstructions)

	// 4. Engine + Orchestration
	engineErr := cfg.ValidateEngine()
	if engineErr != nil {
		log.Printf("[WARN] Generative engine not configured: %v", engineErr)
	}
	assistantEngine := openai.NewAssistantEngine(cfg.Engine.APIKey, cfg.Engine.AssistantID, sysLogger)

	registry := tools.NewRegistry(
		tools.NewSearchFilesTool(fileRetriever),
		tools.NewSearchCoursesTool(docRetriever),
		tools.NewCourseDetailsTool(docClient),
		tools.NewCourseMaterialsTool(docClient),
	)
	orc := orchestrator.New(assistantEngine, registry, sysLogger)

	chatService := service.NewChatService(
		queryClassifier,
		fileRetriever,
		docRetriever,
		assembler,
		historyStore,
		orc,
		stream.NewRelay(),
		publisherService,
		sysLogger,
		engineErr,
	)

	nonceIssuer := nonce.NewIssuer(cfg.Widget.NonceSecret)

	return &Container{
		ChatController:       controller.NewChatController(chatService, nonceIssuer),
		UsageConsumerService: usageConsumerService,
		Logger:               sysLogger,
	}
}
