package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/EnZ0cez/StockAgent/db"
	"github.com/EnZ0cez/StockAgent/internal/config"
	"github.com/EnZ0cez/StockAgent/internal/handler"
	"github.com/EnZ0cez/StockAgent/internal/repository"
	"github.com/EnZ0cez/StockAgent/pkg/marketdata"
)

type analyzeQueue struct{}

func (analyzeQueue) Push(data string) error {
	return db.PushToQueue(db.AnalyzeQueueKey, data)
}

func main() {

	godotenv.Load()

	cfg := config.Load()

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	analysisRepo := repository.NewAnalysisRepository(db.DB)
	analysisHandler := handler.NewAnalysisHandler(analysisRepo, analyzeQueue{})

	quoteHandler := handler.NewQuoteHandler(marketdata.NewAlphaVantageClient(cfg.AlphaVantageAPIKey))

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/analyses", analysisHandler.CreateAnalysis)
	r.GET("/analyses", analysisHandler.ListAnalyses)
	r.GET("/analyses/:id", analysisHandler.GetAnalysis)
	r.GET("/analyses/:id/report", analysisHandler.GetReport)
	r.GET("/quotes/:symbol", quoteHandler.GetQuote)
	r.GET("/health", analysisHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
