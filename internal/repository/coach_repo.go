package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/models"
)

type CoachRepository struct {
	db DBTX
}

func NewCoachRepository(db DBTX) *CoachRepository {
	return &CoachRepository{db: db}
}

// ListAll returns every coach, most senior first and then by name.
func (r *CoachRepository) ListAll(ctx context.Context) ([]models.Coach, error) {
	query := `
		SELECT id, name, specialization, seniority_level, languages, timezone, created_at
		FROM coaches
		ORDER BY CASE seniority_level
					WHEN 'senior' THEN 3
					WHEN 'mid' THEN 2
					WHEN 'junior' THEN 1
					ELSE 0
				 END DESC,
				 name ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coaches := make([]models.Coach, 0)
	for rows.Next() {
		coach, err := scanCoach(rows)
		if err != nil {
			return nil, err
		}
		coaches = append(coaches, *coach)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return coaches, nil
}

func (r *CoachRepository) GetByID(ctx context.Context, coachID uuid.UUID) (*models.Coach, error) {
	query := `
		SELECT id, name, specialization, seniority_level, languages, timezone, created_at
		FROM coaches
		WHERE id = $1
	`
	return scanCoach(r.db.QueryRow(ctx, query, coachID))
}

func (r *CoachRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM coaches`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanCoach(row rowScanner) (*models.Coach, error) {
	var coach models.Coach
	err := row.Scan(
		&coach.ID,
		&coach.Name,
		&coach.Specialization,
		&coach.SeniorityLevel,
		&coach.Languages,
		&coach.Timezone,
		&coach.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if coach.Languages == nil {
		coach.Languages = []string{}
	}
	return &coach, nil
}
