package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/harleyposts/backend/config"
	"github.com/harleyposts/backend/internal/cache"
	"github.com/harleyposts/backend/internal/database"
	"github.com/harleyposts/backend/internal/jobs"
	"github.com/harleyposts/backend/internal/reply"
	"github.com/harleyposts/backend/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	redis, err := cache.NewRedisClient(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// Pick the generative backend
	model, err := newTextModel(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize reply backend: %v", err)
	}
	generator := reply.NewGenerator(model)

	// Wire the job pipeline
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	orchestrator := jobs.NewOrchestrator(postRepo, commentRepo, generator)
	queue := jobs.NewQueue(redis)

	worker := jobs.NewWorker(
		queue,
		orchestrator,
		time.Duration(cfg.Worker.PollIntervalSeconds)*time.Second,
		cfg.Worker.Concurrency,
		time.Duration(cfg.Worker.RetryDelaySeconds)*time.Second,
	)

	worker.Run(ctx)
}

func newTextModel(ctx context.Context, cfg *config.Config) (reply.TextModel, error) {
	switch cfg.Reply.Provider {
	case "openai":
		return reply.NewOpenAIModel(cfg.Reply.OpenAIAPIKey, cfg.Reply.Model)
	default:
		return reply.NewGeminiModel(ctx, cfg.Reply.GoogleAPIKey, cfg.Reply.Model)
	}
}
