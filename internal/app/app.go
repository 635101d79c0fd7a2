package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	metalyaHTTP "metalya/internal/controller/http"
	"metalya/internal/entity"
	"metalya/internal/model"
	"metalya/internal/repo/persistent"
	"metalya/internal/usecase"
	"metalya/pkg/config"
	"metalya/pkg/jwt"
	"metalya/pkg/logger"
	"metalya/pkg/mailer"
	"metalya/pkg/markdown"
	"metalya/pkg/middleware"
	"metalya/pkg/queue"
	"metalya/pkg/s3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "metalya/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, s3Client *s3.Client, queueClient *queue.Client, redisClient *redis.Client) {
	if err := db.AutoMigrate(
		&model.UserModel{},
		&model.PostModel{},
		&model.CommentModel{},
		&model.MessageModel{},
		&model.MessageRecipientModel{},
		&model.NewsletterModel{},
		&model.SubscriberModel{},
		&model.PasswordResetTokenModel{},
	); err != nil {
		log.Error("Failed to run migrations: %v", err)
		panic(err)
	}

	jwtService := jwt.NewService(cfg.JWTSecret)
	smtpMailer := mailer.NewSMTPMailer(cfg)
	renderer := markdown.NewRenderer()

	// Initialize repositories
	userRepo := persistent.NewUserRepository(db)
	postRepo := persistent.NewPostRepository(db)
	messageRepo := persistent.NewMessageRepository(db)
	newsletterRepo := persistent.NewNewsletterRepository(db)
	subscriberRepo := persistent.NewSubscriberRepository(db)
	resetTokenRepo := persistent.NewResetTokenRepository(db)

	// Initialize use cases
	authUseCase := usecase.NewAuthUseCase(userRepo, jwtService, s3Client, log)
	postUseCase := usecase.NewPostUseCase(postRepo, s3Client, redisClient, renderer, log)
	messageUseCase := usecase.NewMessageUseCase(messageRepo, userRepo, queueClient, log)
	newsletterUseCase := usecase.NewNewsletterUseCase(
		newsletterRepo, subscriberRepo, smtpMailer, renderer, log,
		cfg.MailFrom, cfg.NewsletterTo,
	)
	resetUseCase := usecase.NewPasswordResetUseCase(
		userRepo, resetTokenRepo, smtpMailer, log,
		cfg.MailFrom, cfg.PublicBaseURL,
	)

	// Initialize HTTP handlers
	authHandler := metalyaHTTP.NewAuthHandler(authUseCase, resetUseCase, log)
	postHandler := metalyaHTTP.NewPostHandler(postUseCase, log)
	messageHandler := metalyaHTTP.NewMessageHandler(messageUseCase, log)
	newsletterHandler := metalyaHTTP.NewNewsletterHandler(newsletterUseCase, log)

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.PublicBaseURL, "http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	if redisClient != nil {
		api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))
	}

	// Public routes: reading and newsletter signup need no session
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/forgot-password", authHandler.ForgotPassword)
		api.POST("/auth/reset-password", authHandler.ResetPassword)

		api.GET("/posts", postHandler.ListPublished)
		api.GET("/posts/slug/:slug", postHandler.GetBySlug)
		api.GET("/posts/:id/comments", postHandler.ListComments)

		api.POST("/newsletter/subscribe", newsletterHandler.Subscribe)
		api.POST("/newsletter/unsubscribe", newsletterHandler.Unsubscribe)
	}

	// Authenticated routes. The role is re-resolved from storage on every
	// request, so a promotion or demotion applies immediately.
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(jwtService, userRepo))
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.PUT("/users/:id", authHandler.UpdateProfile)
		authed.POST("/users/avatar", authHandler.UploadAvatar)

		authed.POST("/posts", postHandler.CreatePost)
		authed.GET("/posts/mine", postHandler.MyPosts)
		authed.GET("/posts/:id", postHandler.GetPost)
		authed.PUT("/posts/:id", postHandler.UpdatePost)
		authed.DELETE("/posts/:id", postHandler.DeletePost)
		authed.POST("/posts/:id/submit", postHandler.SubmitForReview)
		authed.POST("/posts/:id/withdraw", postHandler.WithdrawFromReview)
		authed.POST("/posts/:id/cover", postHandler.UploadCover)
		authed.POST("/posts/:id/comments", postHandler.AddComment)

		authed.POST("/messages", messageHandler.Send)
		authed.GET("/messages", messageHandler.Inbox)
		authed.POST("/messages/:id/read", messageHandler.MarkRead)
		authed.DELETE("/messages/:id", messageHandler.Delete)
		authed.GET("/messages/unread-count", messageHandler.UnreadCount)
	}

	// Staff area: REDACTEUR and up can enter, individual operations apply
	// their own finer-grained checks.
	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRole(
		string(entity.RoleRedacteur),
		string(entity.RoleAdmin),
		string(entity.RoleSuperAdmin),
	))
	{
		admin.GET("/posts", postHandler.ListByStatus)
		admin.PUT("/posts/:id/status", postHandler.ChangeStatus)
		admin.DELETE("/comments/:id", postHandler.DeleteComment)

		admin.GET("/users", authHandler.ListUsers)
		admin.PUT("/users/:id/role", authHandler.ChangeRole)
		admin.DELETE("/users/:id", authHandler.DeleteUser)

		admin.GET("/newsletter/subscribers", newsletterHandler.ListSubscribers)
		admin.POST("/newsletter/campaigns", newsletterHandler.CreateCampaign)
		admin.GET("/newsletter/campaigns", newsletterHandler.ListCampaigns)
		admin.GET("/newsletter/campaigns/:id", newsletterHandler.GetCampaign)
		admin.PUT("/newsletter/campaigns/:id", newsletterHandler.UpdateCampaign)
		admin.DELETE("/newsletter/campaigns/:id", newsletterHandler.DeleteCampaign)
		admin.POST("/newsletter/campaigns/:id/send", newsletterHandler.SendCampaign)
		admin.POST("/newsletter/blast", newsletterHandler.Blast)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Metalya starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	// Close RabbitMQ connection
	if queueClient != nil {
		queueClient.Close()
	}

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Metalya exited")
}
