package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/models"
)

type CreateUserInput struct {
	Email              string
	Name               string
	Timezone           string
	LanguagePreference string
}

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateIfAbsent inserts the user unless the email is taken. created is false
// when the row already existed; the returned user is nil in that case.
func (r *UserRepository) CreateIfAbsent(ctx context.Context, input CreateUserInput) (*models.User, bool, error) {
	query := `
		INSERT INTO users (email, name, timezone, language_preference)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, email, name, timezone, language_preference, created_at
	`
	rows, err := r.db.Query(ctx, query, input.Email, input.Name, input.Timezone, input.LanguagePreference)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false, rows.Err()
	}
	user, err := scanUser(rows)
	if err != nil {
		return nil, false, err
	}
	return user, true, rows.Err()
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, name, timezone, language_preference, created_at
		FROM users
		WHERE email = $1
	`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `
		SELECT id, email, name, timezone, language_preference, created_at
		FROM users
		WHERE id = $1
	`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Timezone,
		&user.LanguagePreference,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
