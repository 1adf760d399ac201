package bootstrap

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/wjyergin98/autonomous-auto-agent/internal/config"
	"github.com/wjyergin98/autonomous-auto-agent/internal/controller"
	"github.com/wjyergin98/autonomous-auto-agent/internal/pkg/logger"
	"github.com/wjyergin98/autonomous-auto-agent/internal/pkg/mailer"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/memory"
	"github.com/wjyergin98/autonomous-auto-agent/internal/repository/unitofwork"
	"github.com/wjyergin98/autonomous-auto-agent/internal/service"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/extraction"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/watch"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/listings"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/llm/factory"
	pktNats "github.com/wjyergin98/autonomous-auto-agent/pkg/nats"
)

type Container struct {
	// Controllers
	AdvisorController controller.IAdvisorController
	WatchController   controller.IWatchController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		log.Println("[WARN] No database configured, running sessions in memory only")
	}
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 3. Domain Infrastructure
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.BaseURL,
		cfg.Ai.APIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	extractor := extraction.NewExtractor(llmProvider, initExtractionLogger())

	// In-Memory Session Storage (hot snapshots)
	sessionRepo := memory.NewSessionRepository()

	// Watch store backend
	var watchKV watch.KV
	if cfg.Advisor.WatchBackend == "redis" {
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
		watchKV = watch.NewRedisKV(rdb)
		log.Println("[INFO] Watch store backend: REDIS")
	} else {
		watchKV = watch.NewMemoryKV()
		log.Println("[INFO] Watch store backend: MEMORY")
	}
	watchKeeper := watch.NewKeeper(watchKV)

	// Listings retrieval
	var liveSource listings.Source
	if cfg.Listings.LiveEnabled {
		liveSource = listings.NewClient(
			cfg.Listings.BaseURL,
			cfg.Listings.APIKey,
			time.Duration(cfg.Listings.TimeoutSeconds)*time.Second,
		)
		log.Printf("[INFO] Live listings retrieval enabled: %s", cfg.Listings.BaseURL)
	}

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Advisor.WatchTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Advisor.WatchTopic,
		emailService,
		cfg.Advisor.NotifyEmail,
		natsPub,
	)

	watchService := service.NewWatchService(watchKeeper, uowFactory, publisherService, sysLogger)

	advisorService := service.NewAdvisorService(
		uowFactory,
		sessionRepo,
		extractor,
		watchService,
		liveSource,
		natsPub,
		sysLogger,
		service.AdvisorOptions{
			BatchSize:    cfg.Listings.BatchSize,
			FetchTimeout: time.Duration(cfg.Listings.TimeoutSeconds) * time.Second,
			LiveListings: cfg.Listings.LiveEnabled,
			WatchSources: cfg.Advisor.WatchSources,
			WatchCadence: cfg.Advisor.WatchCadence,
		},
	)

	// 5. Controllers
	return &Container{
		AdvisorController: controller.NewAdvisorController(advisorService),
		WatchController:   controller.NewWatchController(watchService),

		ConsumerService: consumerService,
	}
}

func initExtractionLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "extraction.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
		return log.New(os.Stdout, "[EXTRACT] ", log.LstdFlags)
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("Failed to open extraction log: %v", err)
		return log.New(os.Stdout, "[EXTRACT] ", log.LstdFlags)
	}
	return log.New(f, "", log.LstdFlags)
}
