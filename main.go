package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"safety-assessment-service/claude"
	"safety-assessment-service/config"
	"safety-assessment-service/database"
	"safety-assessment-service/groq"
	"safety-assessment-service/handlers"
	"safety-assessment-service/metrics"
	"safety-assessment-service/rabbitmq"
	"safety-assessment-service/service"
	"safety-assessment-service/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.SetLevelFromString(cfg.LogLevel)

	// Validate required configuration
	if cfg.ClaudeAPIKey == "" {
		log.Fatal("CLAUDE_API_KEY environment variable is required")
	}
	if cfg.GroqAPIKey == "" {
		log.Fatal("GROQ_API_KEY environment variable is required")
	}

	// Initialize database
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.CreateTables(); err != nil {
		log.Fatalf("Failed to create database tables: %v", err)
	}

	// Initialize object store
	store, err := storage.NewMinioStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}

	// Initialize inference clients
	visionClient := claude.NewClient(cfg.ClaudeAPIKey, cfg.ClaudeModel, cfg.AssessmentPrompt)
	chatClient := groq.NewClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel, cfg.ChatPrompt)
	log.Infof("Vision provider=%s model=%s, chat provider=%s model=%s",
		visionClient.SourceName(), cfg.ClaudeModel, chatClient.SourceName(), cfg.GroqModel)

	// Initialize RabbitMQ publisher; the broker is optional
	var publisher service.EventPublisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AssessmentRoutingKey)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize RabbitMQ publisher, continuing without events")
		} else {
			defer amqpPublisher.Close()
			publisher = amqpPublisher
		}
	}

	// Register metrics
	metrics.Register()

	// Initialize service and handlers
	svc := service.NewService(cfg, db, store, visionClient, chatClient, publisher)
	h := handlers.NewHandlers(svc, db)

	// Setup HTTP server
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigins)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// API routes
	router.GET("/health", h.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/analyze", h.Analyze)
	router.GET("/images", h.GetImages)
	router.GET("/images/user/:user_id", h.GetImagesByUser)
	router.GET("/image/:image_id", h.GetImage)
	router.GET("/safety_assessments/:image_id", h.GetSafetyAssessments)
	router.POST("/chat", h.Chat)
	router.GET("/chat_messages/:user_id", h.GetChatMessages)
	router.POST("/emergency_actions", h.CreateEmergencyAction)
	router.GET("/emergency_actions/:user_id", h.GetEmergencyActions)
	router.POST("/location_risk", h.CreateLocationRisk)
	router.GET("/location_risk/:user_id", h.GetLocationRisk)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
