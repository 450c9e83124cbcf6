package main

import (
	"log"
	"net/http"
	"time"

	"quiz-backend/internal/config"
	"quiz-backend/internal/db"
	"quiz-backend/internal/event"
	"quiz-backend/internal/handlers"
	"quiz-backend/internal/middleware"
	"quiz-backend/internal/otp"
	"quiz-backend/internal/repository"
	"quiz-backend/internal/service"
	"quiz-backend/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.New()
	if cfg.MongoURI == "" {
		log.Fatal("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	db.InitMongo(cfg.MongoURI)

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.RabbitMQURI != "" && cfg.RabbitMQExchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.RabbitMQURI, cfg.RabbitMQExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, quiz events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	database := db.Client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserRepository(database)
	categoryRepo := repository.NewCategoryRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	quizRepo := repository.NewQuizRepository(database)
	leaderboardRepo := repository.NewLeaderboardRepository(database)

	verifier := otp.NewTwilioClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioVerifyServiceID)
	images := storage.NewDiskStore(cfg.UploadDir, cfg.BaseURL)

	authService := service.NewAuthService(userRepo, verifier, cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	userService := service.NewUserService(userRepo)
	contentService := service.NewContentService(categoryRepo, questionRepo, images)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, quizRepo)
	topUserService := service.NewTopUserService(quizRepo, categoryRepo, userRepo)
	quizService := service.NewQuizService(quizRepo, questionRepo, userRepo, categoryRepo, leaderboardService, topUserService)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(contentService, topUserService)
	quizHandler := handlers.NewQuizHandler(quizService, leaderboardService)

	// Public routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static("/uploads", cfg.UploadDir)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/start_verification", authHandler.StartVerification)
		authRoutes.POST("/confirm_register", authHandler.ConfirmRegister)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Authenticated routes
	authed := r.Group("/", middleware.RequireAuth(cfg.JWTSecret))

	userRoutes := authed.Group("/users")
	{
		userRoutes.GET("/:id", userHandler.GetUser)
		userRoutes.PUT("/:id/profile", userHandler.UpdateProfile)
	}

	quizRoutes := authed.Group("/quiz")
	{
		quizRoutes.POST("/start", func(c *gin.Context) {
			quizHandler.StartQuiz(c)
			if publisher != nil {
				publisher.Publish("quiz.started", gin.H{
					"user_id":   c.GetString(middleware.ContextUserID),
					"timestamp": time.Now(),
				})
			}
		})
		quizRoutes.GET("/:id", quizHandler.GetQuiz)
		quizRoutes.POST("/:id/answer", func(c *gin.Context) {
			quizHandler.SubmitAnswer(c)
			if publisher != nil {
				publisher.Publish("quiz.answer.submitted", gin.H{
					"quiz_id":   c.Param("id"),
					"user_id":   c.GetString(middleware.ContextUserID),
					"timestamp": time.Now(),
				})
			}
		})
		quizRoutes.POST("/:id/pause", func(c *gin.Context) {
			quizHandler.PauseQuiz(c)
			if publisher != nil {
				publisher.Publish("quiz.paused", gin.H{
					"quiz_id":   c.Param("id"),
					"user_id":   c.GetString(middleware.ContextUserID),
					"timestamp": time.Now(),
				})
			}
		})
		quizRoutes.POST("/:id/finish", func(c *gin.Context) {
			quizHandler.FinishQuiz(c)
			if publisher != nil {
				publisher.Publish("quiz.finished", gin.H{
					"quiz_id":   c.Param("id"),
					"user_id":   c.GetString(middleware.ContextUserID),
					"timestamp": time.Now(),
				})
				publisher.Publish("leaderboard.updated", gin.H{
					"quiz_id":   c.Param("id"),
					"timestamp": time.Now(),
				})
			}
		})
		quizRoutes.GET("/leaderboard/:category_id", quizHandler.GetLeaderboard)
	}

	// Admin routes
	admin := authed.Group("/admin", middleware.RequireAdmin())
	{
		admin.POST("/categories", adminHandler.CreateCategory)
		admin.GET("/categories", adminHandler.ListCategories)
		admin.GET("/categories/:id", adminHandler.GetCategory)
		admin.DELETE("/categories/:id", adminHandler.DeleteCategory)
		admin.GET("/categories/:id/subtree", adminHandler.CategorySubtree)
		admin.GET("/categories/:id/top_user", adminHandler.TopUserForCategory)
		admin.GET("/categories_with_top_users", adminHandler.CategoriesWithTopUsers)

		admin.POST("/questions", adminHandler.CreateQuestion)
		admin.GET("/questions", adminHandler.ListQuestions)
		admin.GET("/questions/:id", adminHandler.GetQuestion)
		admin.PUT("/questions/:id", adminHandler.UpdateQuestion)
		admin.DELETE("/questions/:id", adminHandler.DeleteQuestion)
	}

	r.Run(":" + cfg.Port)
}
