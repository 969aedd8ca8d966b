package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"lecture-quiz/internal/adapter"
	"lecture-quiz/internal/adapter/events"
	"lecture-quiz/internal/adapter/llm"
	"lecture-quiz/internal/cache"
	"lecture-quiz/internal/config"
	"lecture-quiz/internal/database"
	"lecture-quiz/internal/domain"
	"lecture-quiz/internal/handler"
	"lecture-quiz/internal/logger"
	"lecture-quiz/internal/middleware"
	"lecture-quiz/internal/repository"
	"lecture-quiz/internal/service"
	"lecture-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)
		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStartup()

	model, err := llm.NewFromConfig(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create language model client", zap.Error(err))
	}

	// Quiz state store: Redis when configured, process memory otherwise.
	var (
		redisClient *redis.Client
		stateCache  domain.Cache
	)
	if cfg.Redis.Address != "" {
		redisClient, err = cache.NewRedisClient(startupCtx, cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		stateCache = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis", zap.String("address", cfg.Redis.Address))
	} else {
		stateCache = adapter.NewMemoryCacheAdapter()
		appLogger.Warn("No Redis address configured, quiz state is kept in process memory")
	}
	stateStore := repository.NewQuizStateRepository(stateCache, cfg.Quiz.StateTTL)

	var lectures domain.LectureProvider
	if cfg.DB.DSN != "" {
		var db *sqlx.DB
		db, err = database.NewSQLXPostgresDB(startupCtx, cfg.DB.DSN)
		if err != nil {
			appLogger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		lectures = repository.NewLectureRepository(db)
		appLogger.Info("Lecture content provider initialized")
	}

	var publisher domain.QuizEventPublisher = events.NoopEventPublisher{}
	if cfg.Events.Enabled {
		if redisClient == nil {
			appLogger.Warn("Quiz events are enabled but Redis is not configured, events are dropped")
		} else {
			publisher, err = events.NewRedisEventPublisher(redisClient, cfg.Events.Channel)
			if err != nil {
				appLogger.Fatal("Failed to create quiz event publisher", zap.Error(err))
			}
			appLogger.Info("Quiz events enabled", zap.String("channel", cfg.Events.Channel))
		}
	}

	quizService := service.NewQuizService(stateStore, model, lectures, publisher, cfg.Quiz)

	validator := validation.NewValidator()
	quizHandler := handler.NewQuizHandler(quizService, validator)
	sessionHandler := handler.NewSessionHandler(stateCache)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.WriteTimeout,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + middleware.SessionHeader,
		MaxAge:       300,
	}))
	app.Use(recover.New())

	handler.RegisterRoutes(app, quizHandler, sessionHandler, validator)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
