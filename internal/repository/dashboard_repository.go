package repository

import (
	"context"
	"time"

	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository handles admin dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the dashboard,
// scoped to forms owned by the given admin.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context, ownerID uuid.UUID) (totalForms, totalQuestions, totalResponses, totalAssignments int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM forms WHERE owner_id = $1),
			(SELECT COUNT(*) FROM questions q JOIN forms f ON q.form_id = f.id WHERE f.owner_id = $1),
			(SELECT COUNT(*) FROM responses rs JOIN forms f ON rs.form_id = f.id WHERE f.owner_id = $1 AND rs.finished_at IS NOT NULL),
			(SELECT COUNT(*) FROM assignments a JOIN forms f ON a.form_id = f.id WHERE f.owner_id = $1)`,
		ownerID,
	).Scan(&totalForms, &totalQuestions, &totalResponses, &totalAssignments)
	return
}

// GetFormStatusCounts retrieves the distribution of an owner's forms by status.
func (r *DashboardRepository) GetFormStatusCounts(ctx context.Context, ownerID uuid.UUID) (map[model.FormStatus]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM forms WHERE owner_id = $1 GROUP BY status`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.FormStatus]int)
	for rows.Next() {
		var status model.FormStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// DashboardRecentFormResult summarizes recent activity on one form.
type DashboardRecentFormResult struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	LastActivity  *time.Time `json:"last_activity"`
	ResponseCount int        `json:"response_count"`
	AverageScore  *float64   `json:"average_score"`
	PassRate      *float64   `json:"pass_rate"`
}

// GetRecentFormResults retrieves the owner's N most recently answered forms
// with response and score aggregates.
func (r *DashboardRepository) GetRecentFormResults(ctx context.Context, ownerID uuid.UUID, limit int) ([]DashboardRecentFormResult, error) {
	query := `
		SELECT
			f.id,
			f.title,
			MAX(rs.finished_at) as last_activity,
			COUNT(rs.id) as response_count,
			AVG(ev.total_score) as average_score,
			AVG(CASE WHEN ev.passed THEN 1.0 ELSE 0.0 END) as pass_rate
		FROM forms f
		JOIN responses rs ON rs.form_id = f.id AND rs.finished_at IS NOT NULL
		LEFT JOIN evaluations ev ON ev.response_id = rs.id
		WHERE f.owner_id = $1
		GROUP BY f.id, f.title
		ORDER BY last_activity DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DashboardRecentFormResult
	for rows.Next() {
		var res DashboardRecentFormResult
		if err := rows.Scan(&res.ID, &res.Title, &res.LastActivity, &res.ResponseCount,
			&res.AverageScore, &res.PassRate); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	if results == nil {
		results = []DashboardRecentFormResult{}
	}
	return results, rows.Err()
}
