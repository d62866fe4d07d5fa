package handler

import "encoding/json"

type CreateAnalysisRequest struct {
	Query    string `json:"query" binding:"required"`
	Symbol   string `json:"symbol"`
	Period   string `json:"period"`
	NewsDays int    `json:"news_days"`
}

type AnalysisRequestResponse struct {
	ID        string `json:"id"`
	Query     string `json:"query"`
	Symbol    string `json:"symbol"`
	Period    string `json:"period"`
	NewsDays  int    `json:"news_days"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type AnalysisListResponse struct {
	Requests []AnalysisRequestResponse `json:"requests"`
	Total    int                       `json:"total"`
	Limit    int                       `json:"limit"`
	Offset   int                       `json:"offset"`
}

type AnalysisReportResponse struct {
	RequestID      string          `json:"request_id"`
	Symbol         string          `json:"symbol"`
	Recommendation string          `json:"recommendation"`
	Confidence     float64         `json:"confidence"`
	Result         json.RawMessage `json:"result"`
	JSONReportPath string          `json:"json_report_path"`
	PDFReportPath  string          `json:"pdf_report_path"`
	ModelUsed      string          `json:"model_used"`
	CreatedAt      string          `json:"created_at"`
}

type QuoteResponse struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
	Provider      string  `json:"provider"`
}
