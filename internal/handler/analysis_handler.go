package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EnZ0cez/StockAgent/internal/model"
)

type AnalysisStore interface {
	CreateRequest(req *model.AnalysisRequest) error
	GetRequest(id string) (*model.AnalysisRequest, error)
	ListRequests(limit, offset int) ([]model.AnalysisRequest, error)
	GetRequestTotal() (int, error)
	GetRecordByRequestID(requestID string) (*model.AnalysisRecord, error)
}

type Queue interface {
	Push(data string) error
}

type AnalysisHandler struct {
	repository AnalysisStore
	queue      Queue
}

func NewAnalysisHandler(repository AnalysisStore, queue Queue) *AnalysisHandler {
	return &AnalysisHandler{repository: repository, queue: queue}
}

// CreateAnalysis accepts a query, persists the request and queues it for
// the worker. Responds 202 since the pipeline runs asynchronously.
func (h *AnalysisHandler) CreateAnalysis(c *gin.Context) {
	var body CreateAnalysisRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	req := &model.AnalysisRequest{
		Query:    body.Query,
		Symbol:   body.Symbol,
		Period:   body.Period,
		NewsDays: body.NewsDays,
	}

	if err := h.repository.CreateRequest(req); err != nil {
		slog.Error("error creating analysis request", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := h.queue.Push(req.ID); err != nil {
		slog.Error("error queueing analysis request", "error", err, "request_id", req.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Queue error"})
		return
	}

	c.JSON(http.StatusAccepted, toRequestResponse(req))
}

func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	id := c.Param("id")

	req, err := h.repository.GetRequest(id)
	if err != nil {
		slog.Error("error fetching analysis request", "error", err, "request_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if req == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	c.JSON(http.StatusOK, toRequestResponse(req))
}

func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	requests, err := h.repository.ListRequests(limit, offset)
	if err != nil {
		slog.Error("error listing analysis requests", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetRequestTotal()
	if err != nil {
		slog.Error("error fetching analysis total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var res []AnalysisRequestResponse
	for i := range requests {
		res = append(res, toRequestResponse(&requests[i]))
	}

	c.JSON(http.StatusOK, AnalysisListResponse{
		Requests: res,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	})
}

// GetReport returns the stored analysis outcome for a completed request.
func (h *AnalysisHandler) GetReport(c *gin.Context) {
	id := c.Param("id")

	req, err := h.repository.GetRequest(id)
	if err != nil {
		slog.Error("error fetching analysis request", "error", err, "request_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if req == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	if req.Status != model.StatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Analysis not completed", "status": req.Status})
		return
	}

	record, err := h.repository.GetRecordByRequestID(id)
	if err != nil {
		slog.Error("error fetching analysis record", "error", err, "request_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	c.JSON(http.StatusOK, AnalysisReportResponse{
		RequestID:      record.RequestID,
		Symbol:         record.Symbol,
		Recommendation: record.Recommendation,
		Confidence:     record.Confidence,
		Result:         json.RawMessage(record.ResultJSON),
		JSONReportPath: record.JSONReportPath,
		PDFReportPath:  record.PDFReportPath,
		ModelUsed:      record.ModelUsed,
		CreatedAt:      record.CreatedAt.Format(time.RFC3339),
	})
}

func (h *AnalysisHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.GetRequestTotal()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func toRequestResponse(req *model.AnalysisRequest) AnalysisRequestResponse {
	return AnalysisRequestResponse{
		ID:        req.ID,
		Query:     req.Query,
		Symbol:    req.Symbol,
		Period:    req.Period,
		NewsDays:  req.NewsDays,
		Status:    req.Status,
		CreatedAt: req.CreatedAt.Format(time.RFC3339),
		UpdatedAt: req.UpdatedAt.Format(time.RFC3339),
	}
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramLimit := c.Query(name)

	if paramLimit == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramLimit)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", paramLimit, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
