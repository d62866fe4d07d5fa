package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/EnZ0cez/StockAgent/db"
	"github.com/EnZ0cez/StockAgent/internal/agent"
	"github.com/EnZ0cez/StockAgent/internal/config"
	"github.com/EnZ0cez/StockAgent/internal/model"
	"github.com/EnZ0cez/StockAgent/internal/repository"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	const (
		maxRetries      = 3
		pipelineTimeout = 10 * time.Minute
	)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	err := db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	analysisRepository := repository.NewAnalysisRepository(db.DB)
	usageRepository := repository.NewUsageRepository(db.DB)

	coordinator := agent.NewCoordinatorFromConfig(cfg)

	for {
		id, err := db.PopFromQueue(db.AnalyzeQueueKey, 0)
		if err != nil {
			slog.Error("error popping from Redis queue", "error", err)
			break
		}

		errorCount, err := analysisRepository.GetErrorCount(id)
		if err != nil {
			slog.Error("error getting error count", "error", err, "request_id", id)
			continue
		}

		if errorCount >= maxRetries {
			slog.Warn("request exceeded max retries, marking as failed", "request_id", id, "error_count", errorCount)
			analysisRepository.UpdateStatus(id, model.StatusFailed)
			db.PushToQueue(db.DeadLetterKey, id)
			continue
		}

		request, err := analysisRepository.GetRequest(id)
		if err != nil {
			slog.Error("error getting request from DB", "error", err, "request_id", id)
			continue
		}

		if request == nil {
			slog.Warn("request not found in DB", "request_id", id)
			continue
		}

		analysisRepository.UpdateStatus(id, model.StatusProcessing)

		ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
		state, err := coordinator.AnalyzeStock(ctx, request.Query)
		cancel()

		if err != nil {
			slog.Error("error analyzing stock", "error", err, "request_id", id)

			analysisRepository.SaveError(id, err.Error(), "pipeline_error", errorCount+1)

			db.PushToQueue(db.AnalyzeQueueKey, id)

			time.Sleep(5 * time.Second)
			continue
		}

		resultJSON, err := json.Marshal(state.Analysis)
		if err != nil {
			slog.Error("error marshaling analysis", "error", err, "request_id", id)
			continue
		}

		record := model.AnalysisRecord{
			RequestID:      request.ID,
			Symbol:         state.Symbol,
			Recommendation: state.Analysis.Recommendation,
			Confidence:     state.Analysis.ConfidenceScore,
			ResultJSON:     resultJSON,
			ModelUsed:      state.Analysis.ModelUsed,
		}
		if state.Reports != nil {
			record.JSONReportPath = state.Reports.JSONPath
			record.PDFReportPath = state.Reports.PDFPath
		}

		err = analysisRepository.SaveRecordAndComplete(&record)
		if err != nil {
			slog.Error("error saving analysis record", "error", err, "request_id", id)
			continue
		}

		if err := usageRepository.Record("deepseek", 1, 0); err != nil {
			slog.Warn("error recording API usage", "error", err)
		}

		slog.Info("analysis completed", "request_id", request.ID, "symbol", state.Symbol,
			"recommendation", state.Analysis.Recommendation)
	}

}
