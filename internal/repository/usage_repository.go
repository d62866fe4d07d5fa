package repository

import (
	"database/sql"
	"time"

	"github.com/EnZ0cez/StockAgent/internal/model"
)

type UsageRepository struct {
	db *sql.DB
}

func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Record bumps today's counters for an API, creating the row on first use.
func (r *UsageRepository) Record(apiName string, requests int, tokens int) error {
	_, err := r.db.Exec(`
		INSERT INTO api_usage(api_name, usage_date, request_count, token_count)
		VALUES($1, CURRENT_DATE, $2, $3)
		ON CONFLICT (api_name, usage_date)
		DO UPDATE SET request_count = api_usage.request_count + $2,
			token_count = api_usage.token_count + $3
	`, apiName, requests, tokens)
	return err
}

func (r *UsageRepository) GetUsage(apiName string, date time.Time) (*model.APIUsage, error) {
	var u model.APIUsage
	err := r.db.QueryRow(`
		SELECT id, api_name, usage_date, request_count, token_count
		FROM api_usage
		WHERE api_name = $1 AND usage_date = $2
	`, apiName, date.Format("2006-01-02")).Scan(&u.ID, &u.APIName, &u.UsageDate, &u.RequestCount, &u.TokenCount)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *UsageRepository) GetDailyTotals(date time.Time) ([]model.APIUsage, error) {
	rows, err := r.db.Query(`
		SELECT id, api_name, usage_date, request_count, token_count
		FROM api_usage
		WHERE usage_date = $1
		ORDER BY api_name
	`, date.Format("2006-01-02"))

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usages []model.APIUsage
	for rows.Next() {
		var u model.APIUsage
		err := rows.Scan(&u.ID, &u.APIName, &u.UsageDate, &u.RequestCount, &u.TokenCount)
		if err != nil {
			return nil, err
		}
		usages = append(usages, u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return usages, nil
}
