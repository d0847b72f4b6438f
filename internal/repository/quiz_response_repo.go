package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/models"
)

type QuizResponseRepository struct {
	db DBTX
}

func NewQuizResponseRepository(db DBTX) *QuizResponseRepository {
	return &QuizResponseRepository{db: db}
}

// Upsert stores the answer, replacing any earlier answer by the same user to
// the same question.
func (r *QuizResponseRepository) Upsert(
	ctx context.Context,
	userID uuid.UUID,
	questionID string,
	answer models.Answer,
) (*models.QuizResponse, error) {
	encoded, err := json.Marshal(answer)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO quiz_responses (user_id, question_id, answer)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (user_id, question_id)
		DO UPDATE SET answer = EXCLUDED.answer, updated_at = NOW()
		RETURNING id, user_id, question_id, answer, created_at, updated_at
	`
	return scanResponse(r.db.QueryRow(ctx, query, userID, questionID, string(encoded)))
}

// ListByUser returns the user's answers, most recently updated last.
func (r *QuizResponseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.QuizResponse, error) {
	query := `
		SELECT id, user_id, question_id, answer, created_at, updated_at
		FROM quiz_responses
		WHERE user_id = $1
		ORDER BY updated_at ASC, created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	responses := make([]models.QuizResponse, 0)
	for rows.Next() {
		response, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *response)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return responses, nil
}

func scanResponse(row rowScanner) (*models.QuizResponse, error) {
	var (
		response models.QuizResponse
		answer   []byte
	)
	err := row.Scan(
		&response.ID,
		&response.UserID,
		&response.QuestionID,
		&answer,
		&response.CreatedAt,
		&response.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answer, &response.Answer); err != nil {
		return nil, err
	}
	return &response, nil
}
