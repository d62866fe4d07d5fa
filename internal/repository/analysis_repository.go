package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/EnZ0cez/StockAgent/internal/model"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) CreateRequest(req *model.AnalysisRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = model.StatusPending

	return r.db.QueryRow(`
		INSERT INTO analysis_request(id, query, symbol, period, news_days, status)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, req.ID, req.Query, req.Symbol, req.Period, req.NewsDays, req.Status).Scan(&req.CreatedAt, &req.UpdatedAt)
}

func (r *AnalysisRepository) GetRequest(id string) (*model.AnalysisRequest, error) {
	var req model.AnalysisRequest
	err := r.db.QueryRow(`
		SELECT id, query, symbol, period, news_days, status, created_at, updated_at
		FROM analysis_request
		WHERE id = $1
	`, id).Scan(&req.ID, &req.Query, &req.Symbol, &req.Period, &req.NewsDays, &req.Status, &req.CreatedAt, &req.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &req, nil
}

func (r *AnalysisRepository) UpdateStatus(id string, status string) error {
	_, err := r.db.Exec(`
		UPDATE analysis_request SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	return err
}

// SaveRecordAndComplete stores the analysis outcome and marks the request
// completed in one transaction.
func (r *AnalysisRepository) SaveRecordAndComplete(record *model.AnalysisRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO analysis_record(request_id, symbol, recommendation, confidence, result_json, json_report_path, pdf_report_path, model_used)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, record.RequestID, record.Symbol, record.Recommendation, record.Confidence, record.ResultJSON,
		record.JSONReportPath, record.PDFReportPath, record.ModelUsed).Scan(&record.ID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE analysis_request SET status = $1, updated_at = NOW() WHERE id = $2
	`, model.StatusCompleted, record.RequestID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *AnalysisRepository) GetRecordByRequestID(requestID string) (*model.AnalysisRecord, error) {
	var rec model.AnalysisRecord
	err := r.db.QueryRow(`
		SELECT id, request_id, symbol, recommendation, confidence, result_json, json_report_path, pdf_report_path, model_used, created_at
		FROM analysis_record
		WHERE request_id = $1
	`, requestID).Scan(&rec.ID, &rec.RequestID, &rec.Symbol, &rec.Recommendation, &rec.Confidence,
		&rec.ResultJSON, &rec.JSONReportPath, &rec.PDFReportPath, &rec.ModelUsed, &rec.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *AnalysisRepository) ListRequests(limit int, offset int) ([]model.AnalysisRequest, error) {
	rows, err := r.db.Query(`
		SELECT id, query, symbol, period, news_days, status, created_at, updated_at
		FROM analysis_request
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []model.AnalysisRequest
	for rows.Next() {
		var req model.AnalysisRequest
		err := rows.Scan(&req.ID, &req.Query, &req.Symbol, &req.Period, &req.NewsDays, &req.Status, &req.CreatedAt, &req.UpdatedAt)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *AnalysisRepository) GetRequestTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM analysis_request
	`).Scan(&total)
	return total, err
}

func (r *AnalysisRepository) SaveError(requestID string, errMsg string, errType string, attempt int) error {
	_, err := r.db.Exec(`
		INSERT INTO processing_error(request_id, error_message, error_type, attempt_count)
		VALUES($1, $2, $3, $4)
	`, requestID, errMsg, errType, attempt)

	return err
}

func (r *AnalysisRepository) GetErrorCount(requestID string) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM processing_error
		WHERE request_id = $1
	`, requestID).Scan(&count)

	return count, err
}
