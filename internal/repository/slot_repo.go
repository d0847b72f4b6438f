package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/models"
)

type CreateSlotInput struct {
	CoachID   uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Timezone  string
}

type SlotRepository struct {
	db DBTX
}

func NewSlotRepository(db DBTX) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) Create(ctx context.Context, input CreateSlotInput) (*models.Slot, error) {
	query := `
		INSERT INTO slots (coach_id, start_time, end_time, timezone, status)
		VALUES ($1, $2, $3, $4, 'available')
		RETURNING id, coach_id, start_time, end_time, timezone, status, created_at
	`
	return scanSlot(r.db.QueryRow(ctx, query, input.CoachID, input.StartTime, input.EndTime, input.Timezone))
}

// GetByIDForUpdate locks the slot row until the surrounding transaction ends.
func (r *SlotRepository) GetByIDForUpdate(ctx context.Context, slotID uuid.UUID) (*models.Slot, error) {
	query := `
		SELECT id, coach_id, start_time, end_time, timezone, status, created_at
		FROM slots
		WHERE id = $1
		FOR UPDATE
	`
	return scanSlot(r.db.QueryRow(ctx, query, slotID))
}

func (r *SlotRepository) GetWithCoach(ctx context.Context, slotID uuid.UUID) (*models.SlotWithCoach, error) {
	query := `
		SELECT s.id, s.coach_id, s.start_time, s.end_time, s.timezone, s.status, s.created_at, c.name
		FROM slots s
		JOIN coaches c ON c.id = s.coach_id
		WHERE s.id = $1
	`
	return scanSlotWithCoach(r.db.QueryRow(ctx, query, slotID))
}

// ListAvailable returns available slots of the given coaches starting strictly
// after `after` and no later than `until`, earliest first.
func (r *SlotRepository) ListAvailable(
	ctx context.Context,
	coachIDs []uuid.UUID,
	after time.Time,
	until time.Time,
) ([]models.SlotWithCoach, error) {
	query := `
		SELECT s.id, s.coach_id, s.start_time, s.end_time, s.timezone, s.status, s.created_at, c.name
		FROM slots s
		JOIN coaches c ON c.id = s.coach_id
		WHERE s.coach_id = ANY($1)
		  AND s.status = 'available'
		  AND s.start_time > $2
		  AND s.start_time <= $3
		ORDER BY s.start_time ASC, s.id ASC
	`
	rows, err := r.db.Query(ctx, query, coachIDs, after, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]models.SlotWithCoach, 0)
	for rows.Next() {
		slot, err := scanSlotWithCoach(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}

// UpdateStatusIfCurrent flips the status only when it still equals
// currentStatus. pgx.ErrNoRows means another writer got there first.
func (r *SlotRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	slotID uuid.UUID,
	currentStatus models.SlotStatus,
	nextStatus models.SlotStatus,
) (*models.Slot, error) {
	query := `
		UPDATE slots
		SET status = $3
		WHERE id = $1 AND status = $2
		RETURNING id, coach_id, start_time, end_time, timezone, status, created_at
	`
	return scanSlot(r.db.QueryRow(ctx, query, slotID, currentStatus, nextStatus))
}

func (r *SlotRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM slots`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanSlot(row rowScanner) (*models.Slot, error) {
	var slot models.Slot
	err := row.Scan(
		&slot.ID,
		&slot.CoachID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Timezone,
		&slot.Status,
		&slot.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func scanSlotWithCoach(row rowScanner) (*models.SlotWithCoach, error) {
	var slot models.SlotWithCoach
	err := row.Scan(
		&slot.ID,
		&slot.CoachID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Timezone,
		&slot.Status,
		&slot.CreatedAt,
		&slot.CoachName,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
