package repository

import (
	"context"
	"encoding/json"

	"github.com/saeid-a/CoachMatchBack/internal/models"
)

type QuizRepository struct {
	db DBTX
}

func NewQuizRepository(db DBTX) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) ListOrdered(ctx context.Context) ([]models.QuizQuestion, error) {
	query := `
		SELECT id, question_id, question_text, question_type, branching_rules, options,
			   translations, order_index, created_at
		FROM quiz_schema
		ORDER BY order_index ASC, question_id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]models.QuizQuestion, 0)
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *question)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *QuizRepository) GetByQuestionID(ctx context.Context, questionID string) (*models.QuizQuestion, error) {
	query := `
		SELECT id, question_id, question_text, question_type, branching_rules, options,
			   translations, order_index, created_at
		FROM quiz_schema
		WHERE question_id = $1
	`
	return scanQuestion(r.db.QueryRow(ctx, query, questionID))
}

func (r *QuizRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quiz_schema`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanQuestion(row rowScanner) (*models.QuizQuestion, error) {
	var (
		question     models.QuizQuestion
		branching    []byte
		options      []byte
		translations []byte
	)
	err := row.Scan(
		&question.ID,
		&question.QuestionID,
		&question.QuestionText,
		&question.QuestionType,
		&branching,
		&options,
		&translations,
		&question.OrderIndex,
		&question.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(branching) > 0 && string(branching) != "null" {
		question.BranchingRules = json.RawMessage(branching)
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &question.Options); err != nil {
			return nil, err
		}
	}
	if len(translations) > 0 && string(translations) != "null" {
		var decoded models.QuestionTranslations
		if err := json.Unmarshal(translations, &decoded); err != nil {
			return nil, err
		}
		question.Translations = &decoded
	}
	return &question, nil
}
