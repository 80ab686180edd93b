package repository

import (
	"context"

	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles question and option data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByForm retrieves all questions of a form with their options,
// ordered by order_num. Options carry their correctness flags; callers
// serving respondents must strip them.
func (r *QuestionRepository) ListByForm(ctx context.Context, formID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, form_id, question_text, question_type, points, required, image_url, order_num
		 FROM questions
		 WHERE form_id = $1
		 ORDER BY order_num ASC`, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.FormID, &q.QuestionText, &q.QuestionType,
			&q.Points, &q.Required, &q.ImageURL, &q.OrderNum); err != nil {
			return nil, err
		}
		index[q.ID] = len(questions)
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return questions, nil
	}

	optRows, err := r.pool.Query(ctx,
		`SELECT o.id, o.question_id, o.option_text, o.is_correct, o.order_num
		 FROM question_options o
		 JOIN questions q ON o.question_id = q.id
		 WHERE q.form_id = $1
		 ORDER BY o.order_num ASC`, formID)
	if err != nil {
		return nil, err
	}
	defer optRows.Close()

	for optRows.Next() {
		var o model.Option
		if err := optRows.Scan(&o.ID, &o.QuestionID, &o.OptionText, &o.IsCorrect, &o.OrderNum); err != nil {
			return nil, err
		}
		if i, ok := index[o.QuestionID]; ok {
			questions[i].Options = append(questions[i].Options, o)
		}
	}
	return questions, optRows.Err()
}

// CountFinishedResponses returns how many submitted responses a form has.
// A non-zero count locks the form's questions against replacement.
func (r *QuestionRepository) CountFinishedResponses(ctx context.Context, formID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM responses WHERE form_id = $1 AND finished_at IS NOT NULL`,
		formID).Scan(&n)
	return n, err
}

// ReplaceAll atomically swaps a form's question set. Existing questions
// and options are deleted and the new set inserted in a single transaction.
func (r *QuestionRepository) ReplaceAll(ctx context.Context, formID uuid.UUID, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE form_id = $1`, formID); err != nil {
		return err
	}

	for i := range questions {
		q := &questions[i]
		q.FormID = formID
		q.OrderNum = i
		if err := tx.QueryRow(ctx,
			`INSERT INTO questions (form_id, question_text, question_type, points, required, image_url, order_num)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			q.FormID, q.QuestionText, q.QuestionType, q.Points, q.Required, q.ImageURL, q.OrderNum,
		).Scan(&q.ID); err != nil {
			return err
		}

		for j := range q.Options {
			o := &q.Options[j]
			o.QuestionID = q.ID
			o.OrderNum = j
			if err := tx.QueryRow(ctx,
				`INSERT INTO question_options (question_id, option_text, is_correct, order_num)
				 VALUES ($1, $2, $3, $4)
				 RETURNING id`,
				o.QuestionID, o.OptionText, o.IsCorrect, o.OrderNum,
			).Scan(&o.ID); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// CloneInto copies all questions and options of srcFormID into dstFormID.
// Fresh UUIDs are generated by the database.
func (r *QuestionRepository) CloneInto(ctx context.Context, srcFormID, dstFormID uuid.UUID) error {
	questions, err := r.ListByForm(ctx, srcFormID)
	if err != nil {
		return err
	}
	for i := range questions {
		questions[i].ID = uuid.Nil
		for j := range questions[i].Options {
			questions[i].Options[j].ID = uuid.Nil
		}
	}
	return r.ReplaceAll(ctx, dstFormID, questions)
}
