package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/EnZ0cez/StockAgent/pkg/llm"
)

// Report is the full payload written to disk after a pipeline run.
type Report struct {
	Symbol        string        `json:"stock_symbol"`
	AnalysisDate  time.Time     `json:"analysis_date"`
	Analysis      *llm.Analysis `json:"analysis_result"`
	StockData     any           `json:"stock_data"`
	NewsData      any           `json:"news_data"`
	FinancialData any           `json:"financial_data"`
	Conversation  any           `json:"conversation_history"`
}

type Generator struct {
	dir string
}

func NewGenerator(dir string) *Generator {
	return &Generator{dir: dir}
}

// WriteJSON renders the full report as indented JSON and returns the path.
func (g *Generator) WriteJSON(r *Report) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("report dir: %w", err)
	}

	path := filepath.Join(g.dir, g.filename(r, "json"))

	payload := struct {
		*Report
		RawData map[string]any `json:"raw_data"`
	}{
		Report: r,
		RawData: map[string]any{
			"stock_data":     r.StockData,
			"news_data":      r.NewsData,
			"financial_data": r.FinancialData,
		},
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("report marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("report write: %w", err)
	}
	return path, nil
}

// WritePDF renders a printable summary of the analysis and returns the path.
func (g *Generator) WritePDF(r *Report) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("report dir: %w", err)
	}

	path := filepath.Join(g.dir, g.filename(r, "pdf"))

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Investment Report: %s", r.Symbol), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, fmt.Sprintf("Investment Report: %s", r.Symbol))
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", r.AnalysisDate.Format(time.RFC1123)))
	pdf.Ln(10)

	if r.Analysis != nil {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, fmt.Sprintf("Recommendation: %s", r.Analysis.Recommendation))
		pdf.Ln(8)
		pdf.Cell(0, 8, fmt.Sprintf("Confidence: %.2f", r.Analysis.ConfidenceScore))
		pdf.Ln(12)

		sections := []struct {
			title string
			body  string
		}{
			{"Summary", r.Analysis.Summary},
			{"Performance Analysis", r.Analysis.PerformanceAnalysis},
			{"News Sentiment", r.Analysis.SentimentAnalysis},
			{"Financial Health", r.Analysis.FinancialHealth},
		}
		for _, s := range sections {
			if s.body == "" {
				continue
			}
			pdf.SetFont("Arial", "B", 12)
			pdf.Cell(0, 8, s.title)
			pdf.Ln(8)
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, s.body, "", "L", false)
			pdf.Ln(4)
		}

		if len(r.Analysis.RiskFactors) > 0 {
			pdf.SetFont("Arial", "B", 12)
			pdf.Cell(0, 8, "Risk Factors")
			pdf.Ln(8)
			pdf.SetFont("Arial", "", 10)
			for _, rf := range r.Analysis.RiskFactors {
				pdf.MultiCell(0, 5, "- "+rf, "", "L", false)
			}
			pdf.Ln(4)
		}
	} else {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(0, 8, "Analysis unavailable; see raw data in the JSON report.")
		pdf.Ln(8)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("report pdf: %w", err)
	}
	return path, nil
}

func (g *Generator) filename(r *Report, ext string) string {
	return fmt.Sprintf("%s_analysis_%s.%s", r.Symbol, r.AnalysisDate.Format("20060102_150405"), ext)
}
