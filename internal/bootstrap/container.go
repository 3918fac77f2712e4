package bootstrap

import (
	"context"
	"fmt"

	"gym-agent-be/internal/config"
	"gym-agent-be/internal/controller"
	"gym-agent-be/internal/pkg/logger"
	"gym-agent-be/internal/pkg/serverutils"
	"gym-agent-be/internal/repository/contract"
	"gym-agent-be/internal/repository/implementation"
	"gym-agent-be/internal/service"
	"gym-agent-be/pkg/agent"
	"gym-agent-be/pkg/database"
	"gym-agent-be/pkg/llm/factory"
	"gym-agent-be/pkg/rag/store"
	"gym-agent-be/pkg/tools/retriever"
	"gym-agent-be/pkg/tools/sqlengine"

	pktNats "gym-agent-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Logger logger.ILogger
	Store  *store.Store
	Agent  *agent.Agent

	// Controllers
	ChatController     controller.IChatController
	ClassController    controller.IClassController
	DocumentController controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	closers []func() error
}

// NewContainer wires every dependency. On error, whatever was opened so far is closed.
func NewContainer(ctx context.Context, cfg *config.Config, log logger.ILogger) (_ *Container, err error) {
	c := &Container{Logger: log}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	// 1. Gym class table
	classesDB, err := database.NewGormSQLite(cfg.Storage.ClassesDBPath, "busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	classesSQL, err := classesDB.DB()
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, classesSQL.Close)

	classRepo := implementation.NewGymClassRepository(classesDB)
	if err := classRepo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	seeded, err := classRepo.SeedDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed gym classes: %w", err)
	}
	if seeded > 0 {
		log.Info("Bootstrap", "Seeded default gym classes", map[string]interface{}{"rows": seeded})
	}

	// 2. Document store
	docStore, closeStore, err := NewDocumentStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, closeStore)
	if err := docStore.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize document store: %w", err)
	}
	c.Store = docStore

	// 3. Agent
	llmProvider, err := factory.NewLLMProvider(cfg.Ai)
	if err != nil {
		return nil, err
	}
	log.Info("Bootstrap", "Using LLM provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	catalog, err := agent.NewToolCatalog(
		retriever.New(docStore, cfg.Rag.TopK),
		sqlengine.New(cfg.Storage.ClassesDBPath),
	)
	if err != nil {
		return nil, err
	}
	c.Agent = agent.New(llmProvider, catalog, log, agent.WithMaxSteps(cfg.Ai.AgentMaxSteps))

	// 4. Conversation memory
	conversations, err := c.newConversationRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 5. Event bus
	var eventPublisher service.EventPublisher
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Warn("Bootstrap", "NATS unavailable, domain events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			eventPublisher = natsPub
			c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
		}
	}
	eventService := service.NewEventService(eventPublisher, log)

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 8},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub.Close)

	// 6. Services
	publisherService := service.NewPublisherService(service.ReindexTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, service.ReindexTopic, docStore, eventService, log)

	chatService := service.NewChatService(c.Agent, conversations, log)
	classService := service.NewClassService(classRepo, eventService, log)
	documentService := service.NewDocumentService(docStore, publisherService, eventService, log)

	// 7. Controllers
	auth := serverutils.JwtMiddleware(cfg.App.JWTSecret)
	c.ChatController = controller.NewChatController(chatService, log)
	c.ClassController = controller.NewClassController(classService, auth)
	c.DocumentController = controller.NewDocumentController(documentService, auth)

	return c, nil
}

func (c *Container) newConversationRepository(ctx context.Context, cfg *config.Config) (contract.ConversationRepository, error) {
	switch cfg.Storage.ConversationStore {
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			c.Logger.Warn("Bootstrap", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		c.closers = append(c.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return implementation.NewConversationRedisRepository(rdb, cfg.Storage.ConversationMaxMessages), nil
	case "file", "":
		return implementation.NewConversationFileRepository(cfg.Storage.ConversationDir, cfg.Storage.ConversationMaxMessages)
	default:
		return nil, fmt.Errorf("unsupported conversation store: %s", cfg.Storage.ConversationStore)
	}
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}
