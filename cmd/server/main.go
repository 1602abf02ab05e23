package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/harleyposts/backend/config"
	"github.com/harleyposts/backend/internal/auth"
	"github.com/harleyposts/backend/internal/cache"
	"github.com/harleyposts/backend/internal/content"
	"github.com/harleyposts/backend/internal/database"
	"github.com/harleyposts/backend/internal/handlers"
	"github.com/harleyposts/backend/internal/jobs"
	"github.com/harleyposts/backend/internal/middleware"
	"github.com/harleyposts/backend/internal/moderation"
	"github.com/harleyposts/backend/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	log.Println("Running database migrations...")
	if err := database.RunMigrations(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Connect to Redis; required for auto-reply scheduling
	redis, err := cache.NewRedisClient(cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	classifier := moderation.NewClassifier(cfg.Moderation.APIURL, cfg.Moderation.APIKey, cfg.Moderation.Language)
	queue := jobs.NewQueue(redis)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Submission pipeline
	contentService := content.NewService(postRepo, commentRepo, classifier, queue)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtService)
	postHandler := handlers.NewPostHandler(contentService, postRepo, commentRepo)
	commentHandler := handlers.NewCommentHandler(contentService, commentRepo, redis, float64(cfg.API.RateLimitSubmitsPerSec), 10)
	analyticsHandler := handlers.NewAnalyticsHandler(commentRepo)

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter(cfg.API.RateLimitSubmitsPerSec)
	rateLimiter.Cleanup()

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Public content reads
	router.GET("/posts", postHandler.ListPosts)
	router.GET("/posts/:id", postHandler.GetPost)
	router.GET("/posts/:id/comments", postHandler.GetPostComments)
	router.GET("/posts/:id/status", postHandler.GetPostStatus)
	router.GET("/comments", commentHandler.ListComments)
	router.GET("/comments/:id", commentHandler.GetComment)

	// Protected routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	{
		// User routes
		api.GET("/me", authHandler.GetMe)

		// Post routes
		api.GET("/posts/censored", postHandler.ListCensoredPosts)
		api.POST("/posts", middleware.RateLimitMiddleware(rateLimiter), postHandler.CreatePost)
		api.PUT("/posts/:id", postHandler.UpdatePost)
		api.DELETE("/posts/:id", postHandler.DeletePost)
		api.PUT("/posts/:id/status", postHandler.UpdatePostStatus)

		// Comment routes
		api.GET("/comments/censored", commentHandler.ListCensoredComments)
		api.POST("/comments", commentHandler.CreateComment)
		api.PUT("/comments/:id", commentHandler.UpdateComment)
		api.DELETE("/comments/:id", commentHandler.DeleteComment)

		// Analytics
		api.GET("/analytics/daily-breakdown", analyticsHandler.GetDailyBreakdown)
	}

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Starting harleyposts server on %s (env: %s)", addr, cfg.Server.Env)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
