package repository

import (
	"context"
	"time"

	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FormResult combines respondent data with their evaluation for result listings.
type FormResult struct {
	ResponseID uuid.UUID  `json:"response_id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	FullName   *string    `json:"full_name,omitempty"`
	Email      *string    `json:"email,omitempty"`
	TotalScore *float64   `json:"total_score"`
	MaxScore   *float64   `json:"max_score"`
	Passed     *bool      `json:"passed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

// ResponseRepository handles response, detail and evaluation data access.
type ResponseRepository struct {
	pool *pgxpool.Pool
}

// NewResponseRepository creates a new ResponseRepository.
func NewResponseRepository(pool *pgxpool.Pool) *ResponseRepository {
	return &ResponseRepository{pool: pool}
}

// GetByID retrieves a response by its UUID.
func (r *ResponseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Response, error) {
	resp := &model.Response{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, form_id, user_id, invitation_id, started_at, finished_at
		 FROM responses WHERE id = $1`, id,
	).Scan(&resp.ID, &resp.FormID, &resp.UserID, &resp.InvitationID, &resp.StartedAt, &resp.FinishedAt)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// StartForUser opens a response for a logged-in respondent. A partial
// unique index keeps at most one unfinished response per (form, user);
// on conflict no row is returned and the caller resumes the open one.
func (r *ResponseRepository) StartForUser(ctx context.Context, formID, userID uuid.UUID) (*model.Response, error) {
	resp := &model.Response{FormID: formID, UserID: &userID}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO responses (form_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (form_id, user_id) WHERE finished_at IS NULL DO NOTHING
		 RETURNING id, started_at`,
		formID, userID,
	).Scan(&resp.ID, &resp.StartedAt)
	if err == pgx.ErrNoRows {
		return r.GetOpenByFormAndUser(ctx, formID, userID)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetOpenByFormAndUser retrieves the unfinished response of a user on a form.
func (r *ResponseRepository) GetOpenByFormAndUser(ctx context.Context, formID, userID uuid.UUID) (*model.Response, error) {
	resp := &model.Response{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, form_id, user_id, invitation_id, started_at, finished_at
		 FROM responses
		 WHERE form_id = $1 AND user_id = $2 AND finished_at IS NULL`,
		formID, userID,
	).Scan(&resp.ID, &resp.FormID, &resp.UserID, &resp.InvitationID, &resp.StartedAt, &resp.FinishedAt)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// StartAnonymous opens a response for an invitation-link respondent.
func (r *ResponseRepository) StartAnonymous(ctx context.Context, formID uuid.UUID, invitationID *uuid.UUID) (*model.Response, error) {
	resp := &model.Response{FormID: formID, InvitationID: invitationID}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO responses (form_id, invitation_id)
		 VALUES ($1, $2)
		 RETURNING id, started_at`,
		formID, invitationID,
	).Scan(&resp.ID, &resp.StartedAt)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CountFinishedByFormAndUser counts submitted responses of one user on a form.
func (r *ResponseRepository) CountFinishedByFormAndUser(ctx context.Context, formID, userID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM responses
		 WHERE form_id = $1 AND user_id = $2 AND finished_at IS NOT NULL`,
		formID, userID).Scan(&n)
	return n, err
}

// FinishWithResult atomically closes a response and persists its grading
// outcome. The conditional UPDATE on finished_at is the at-most-once
// guard: if another submit already won, nothing is written and the
// method reports false.
func (r *ResponseRepository) FinishWithResult(ctx context.Context, responseID uuid.UUID, details []model.ResponseDetail, eval *model.Evaluation) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE responses SET finished_at = NOW() WHERE id = $1 AND finished_at IS NULL`,
		responseID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	for i := range details {
		d := &details[i]
		d.ResponseID = responseID
		if err := tx.QueryRow(ctx,
			`INSERT INTO response_details (response_id, question_id, selected_option_id, selected_option_ids, answer_text, is_correct)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			d.ResponseID, d.QuestionID, d.SelectedOptionID, d.SelectedOptionIDs, d.AnswerText, d.IsCorrect,
		).Scan(&d.ID); err != nil {
			return false, err
		}
	}

	eval.ResponseID = responseID
	if err := tx.QueryRow(ctx,
		`INSERT INTO evaluations (response_id, total_score, max_score, passed)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		eval.ResponseID, eval.TotalScore, eval.MaxScore, eval.Passed,
	).Scan(&eval.CreatedAt); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// GetDetails retrieves the stored per-question details of a response.
func (r *ResponseRepository) GetDetails(ctx context.Context, responseID uuid.UUID) ([]model.ResponseDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rd.id, rd.response_id, rd.question_id, rd.selected_option_id,
		        rd.selected_option_ids, rd.answer_text, rd.is_correct
		 FROM response_details rd
		 JOIN questions q ON rd.question_id = q.id
		 WHERE rd.response_id = $1
		 ORDER BY q.order_num ASC`, responseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []model.ResponseDetail
	for rows.Next() {
		var d model.ResponseDetail
		if err := rows.Scan(&d.ID, &d.ResponseID, &d.QuestionID, &d.SelectedOptionID,
			&d.SelectedOptionIDs, &d.AnswerText, &d.IsCorrect); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// GetEvaluation retrieves the grading summary of a finished response.
func (r *ResponseRepository) GetEvaluation(ctx context.Context, responseID uuid.UUID) (*model.Evaluation, error) {
	e := &model.Evaluation{}
	err := r.pool.QueryRow(ctx,
		`SELECT response_id, total_score, max_score, passed, created_at
		 FROM evaluations WHERE response_id = $1`, responseID,
	).Scan(&e.ResponseID, &e.TotalScore, &e.MaxScore, &e.Passed, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListResultsByForm retrieves all results for a form with pagination,
// finished responses first, newest first.
func (r *ResponseRepository) ListResultsByForm(ctx context.Context, formID uuid.UUID, page, perPage int) ([]FormResult, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM responses WHERE form_id = $1`, formID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	rows, err := r.pool.Query(ctx,
		`SELECT rs.id, rs.user_id, u.full_name, u.email,
		        ev.total_score, ev.max_score, ev.passed,
		        rs.started_at, rs.finished_at
		 FROM responses rs
		 LEFT JOIN users u ON rs.user_id = u.id
		 LEFT JOIN evaluations ev ON ev.response_id = rs.id
		 WHERE rs.form_id = $1
		 ORDER BY rs.finished_at DESC NULLS LAST, rs.started_at DESC
		 LIMIT $2 OFFSET $3`, formID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []FormResult
	for rows.Next() {
		var fr FormResult
		if err := rows.Scan(&fr.ResponseID, &fr.UserID, &fr.FullName, &fr.Email,
			&fr.TotalScore, &fr.MaxScore, &fr.Passed,
			&fr.StartedAt, &fr.FinishedAt); err != nil {
			return nil, 0, err
		}
		results = append(results, fr)
	}
	return results, total, rows.Err()
}

// UpsertAutosavedAnswer persists one in-progress answer to the buffer table.
// Called by the autosave worker, not by request handlers.
func (r *ResponseRepository) UpsertAutosavedAnswer(ctx context.Context, responseID, questionID uuid.UUID, answer string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO response_answers (response_id, question_id, answer)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (response_id, question_id) DO UPDATE
		 SET answer = EXCLUDED.answer, updated_at = NOW()`,
		responseID, questionID, answer)
	return err
}

// GetAutosavedAnswers loads the buffered answers of a response,
// keyed by question id. Used to rebuild state when the Redis hash is gone.
func (r *ResponseRepository) GetAutosavedAnswers(ctx context.Context, responseID uuid.UUID) (map[string]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id, answer FROM response_answers WHERE response_id = $1`,
		responseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make(map[string]string)
	for rows.Next() {
		var qid uuid.UUID
		var ans string
		if err := rows.Scan(&qid, &ans); err != nil {
			return nil, err
		}
		answers[qid.String()] = ans
	}
	return answers, rows.Err()
}
