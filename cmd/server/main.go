package main

import (
	"log"
	"time"

	"book-scanner/backend/internal/books"
	"book-scanner/backend/internal/config"
	"book-scanner/backend/internal/handler"
	"book-scanner/backend/internal/llm"
	"book-scanner/backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load(".env.local")

	cfg := config.Load()
	log.Printf("[INFO] Starting Book Scanner env=%s version=%s", cfg.Env, cfg.Version)

	if cfg.OpenAIAPIKey == "" {
		log.Println("[WARN] OPENAI_API_KEY is not set; model calls will fail")
	}

	gateway := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})
	enricher := books.NewClient(cfg.BooksAPIBaseURL)
	h := handler.New(gateway, enricher, cfg)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// Security headers (before CORS)
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RequestID())

	allowedOrigins := []string{}
	if gin.Mode() != gin.ReleaseMode {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173")
	}
	allowedOrigins = append(allowedOrigins, cfg.AllowedOrigins...)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept-Language"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoints (outside /api group)
	r.GET("/health", h.HandleHealth)
	r.GET("/ready", h.HandleReadiness)

	api := r.Group("/api")
	{
		api.POST("/send-message", h.HandleSendMessage)
		api.POST("/analyze-image", h.HandleAnalyzeImage)
		api.POST("/scan-books", h.HandleScanBooks)
		api.POST("/extract-book-titles", h.HandleExtractTitles)
		api.POST("/convert-image", h.HandleConvertImage)
		api.POST("/compress-image", h.HandleCompressImage)
	}

	log.Printf("[INFO] Server ready port=%s allowed_origins=%v", cfg.Port, allowedOrigins)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
