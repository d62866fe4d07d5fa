package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/EnZ0cez/StockAgent/internal/agent"
	"github.com/EnZ0cez/StockAgent/internal/config"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	timeout := flag.Duration("timeout", 10*time.Minute, "overall pipeline timeout")
	flag.Parse()

	query := strings.Join(flag.Args(), " ")
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze [-timeout 10m] <query>")
		fmt.Fprintln(os.Stderr, `example: analyze "Analyze AAPL over 1y with 7 days of news"`)
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	coordinator := agent.NewCoordinatorFromConfig(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	state, err := coordinator.AnalyzeStock(ctx, query)
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	fmt.Printf("Analysis for %s\n\n", state.Symbol)
	fmt.Printf("Recommendation: %s (confidence %.2f)\n\n", state.Analysis.Recommendation, state.Analysis.ConfidenceScore)
	fmt.Println(state.Analysis.Summary)

	if len(state.Analysis.RiskFactors) > 0 {
		fmt.Println("\nRisk factors:")
		for _, rf := range state.Analysis.RiskFactors {
			fmt.Printf("  - %s\n", rf)
		}
	}

	if state.Reports != nil {
		fmt.Printf("\nReports:\n  %s\n  %s\n", state.Reports.PDFPath, state.Reports.JSONPath)
	}

	if state.ErrorMessage != "" {
		fmt.Printf("\nWarning: some data was unavailable (%s)\n", state.ErrorMessage)
	}
}
