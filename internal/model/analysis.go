package model

import "time"

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// AnalysisRequest is a queued request to analyze one stock symbol.
type AnalysisRequest struct {
	ID        string
	Query     string
	Symbol    string
	Period    string
	NewsDays  int
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AnalysisRecord holds the outcome of a completed pipeline run.
type AnalysisRecord struct {
	ID             int64
	RequestID      string
	Symbol         string
	Recommendation string
	Confidence     float64
	ResultJSON     []byte
	JSONReportPath string
	PDFReportPath  string
	ModelUsed      string
	CreatedAt      time.Time
}

type ProcessingError struct {
	ID           int64
	RequestID    string
	ErrorMessage string
	ErrorType    string
	AttemptCount int
	CreatedAt    time.Time
}

type APIUsage struct {
	ID           int64
	APIName      string
	UsageDate    time.Time
	RequestCount int
	TokenCount   int
}
