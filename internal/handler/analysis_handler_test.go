package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"github.com/EnZ0cez/StockAgent/internal/model"
)

type fakeStore struct {
	request  *model.AnalysisRequest
	requests []model.AnalysisRequest
	total    int
	record   *model.AnalysisRecord
	err      error
	created  *model.AnalysisRequest
}

func (f *fakeStore) CreateRequest(req *model.AnalysisRequest) error {
	if f.err != nil {
		return f.err
	}
	req.ID = "req-123"
	req.Status = model.StatusPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()
	f.created = req
	return nil
}

func (f *fakeStore) GetRequest(id string) (*model.AnalysisRequest, error) {
	return f.request, f.err
}

func (f *fakeStore) ListRequests(limit int, offset int) ([]model.AnalysisRequest, error) {
	return f.requests, f.err
}

func (f *fakeStore) GetRequestTotal() (int, error) {
	return f.total, f.err
}

func (f *fakeStore) GetRecordByRequestID(requestID string) (*model.AnalysisRecord, error) {
	return f.record, f.err
}

type fakeQueue struct {
	pushed []string
	err    error
}

func (f *fakeQueue) Push(data string) error {
	if f.err != nil {
		return f.err
	}
	f.pushed = append(f.pushed, data)
	return nil
}

func newTestRouter(store AnalysisStore, queue Queue) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAnalysisHandler(store, queue)
	r.POST("/analyses", h.CreateAnalysis)
	r.GET("/analyses", h.ListAnalyses)
	r.GET("/analyses/:id", h.GetAnalysis)
	r.GET("/analyses/:id/report", h.GetReport)
	r.GET("/health", h.GetHealth)
	return r
}

func TestCreateAnalysis_Accepted(t *testing.T) {
	store := &fakeStore{}
	queue := &fakeQueue{}
	r := newTestRouter(store, queue)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/analyses", strings.NewReader(`{"query":"Analyze AAPL"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var res AnalysisRequestResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "req-123", res.ID)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, []string{"req-123"}, queue.pushed)
}

func TestCreateAnalysis_MissingQuery(t *testing.T) {
	r := newTestRouter(&fakeStore{}, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/analyses", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAnalysis_QueueError(t *testing.T) {
	store := &fakeStore{}
	queue := &fakeQueue{err: errors.New("redis down")}
	r := newTestRouter(store, queue)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/analyses", strings.NewReader(`{"query":"Analyze AAPL"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetAnalysis_Found(t *testing.T) {
	store := &fakeStore{request: &model.AnalysisRequest{
		ID:     "req-123",
		Query:  "Analyze AAPL",
		Symbol: "AAPL",
		Status: model.StatusProcessing,
	}}
	r := newTestRouter(store, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/analyses/req-123", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res AnalysisRequestResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, model.StatusProcessing, res.Status)
}

func TestGetAnalysis_NotFound(t *testing.T) {
	r := newTestRouter(&fakeStore{}, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/analyses/nope", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAnalyses(t *testing.T) {
	store := &fakeStore{
		requests: []model.AnalysisRequest{
			{ID: "req-1", Symbol: "AAPL", Status: model.StatusCompleted},
			{ID: "req-2", Symbol: "MSFT", Status: model.StatusPending},
		},
		total: 2,
	}
	r := newTestRouter(store, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/analyses?limit=10&offset=0", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res AnalysisListResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, len(res.Requests), 2)
	assert.Equal(t, "AAPL", res.Requests[0].Symbol)
}

func TestGetReport_Completed(t *testing.T) {
	store := &fakeStore{
		request: &model.AnalysisRequest{ID: "req-123", Status: model.StatusCompleted},
		record: &model.AnalysisRecord{
			RequestID:      "req-123",
			Symbol:         "AAPL",
			Recommendation: "Buy",
			Confidence:     0.8,
			ResultJSON:     []byte(`{"summary":"solid"}`),
			PDFReportPath:  "reports/AAPL_analysis_20250101_120000.pdf",
		},
	}
	r := newTestRouter(store, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/analyses/req-123/report", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res AnalysisReportResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Buy", res.Recommendation)
	assert.Equal(t, 0.8, res.Confidence)
}

func TestGetReport_NotCompleted(t *testing.T) {
	store := &fakeStore{
		request: &model.AnalysisRequest{ID: "req-123", Status: model.StatusProcessing},
	}
	r := newTestRouter(store, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/analyses/req-123/report", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetHealth_Unhealthy(t *testing.T) {
	store := &fakeStore{err: errors.New("DB down")}
	r := newTestRouter(store, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
