package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/models"
)

type CreateBookingInput struct {
	UserID        uuid.UUID
	SlotID        uuid.UUID
	QuizRiskScore int
}

type BookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, input CreateBookingInput) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (user_id, slot_id, quiz_risk_score, status)
		VALUES ($1, $2, $3, 'confirmed')
		RETURNING id, user_id, slot_id, quiz_risk_score, status, created_at
	`
	return scanBooking(r.db.QueryRow(ctx, query, input.UserID, input.SlotID, input.QuizRiskScore))
}

// HasActiveForSlot reports whether a booking other than a cancelled one holds the slot.
func (r *BookingRepository) HasActiveForSlot(ctx context.Context, slotID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE slot_id = $1
			  AND status <> 'cancelled'
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, slotID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ConfirmedSlotIDs returns the subset of slotIDs that carry a confirmed booking.
func (r *BookingRepository) ConfirmedSlotIDs(ctx context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	booked := make(map[uuid.UUID]struct{})
	if len(slotIDs) == 0 {
		return booked, nil
	}

	query := `
		SELECT DISTINCT slot_id
		FROM bookings
		WHERE slot_id = ANY($1)
		  AND status = 'confirmed'
	`
	rows, err := r.db.Query(ctx, query, slotIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var slotID uuid.UUID
		if err := rows.Scan(&slotID); err != nil {
			return nil, err
		}
		booked[slotID] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return booked, nil
}

func (r *BookingRepository) GetDetail(ctx context.Context, bookingID uuid.UUID) (*models.BookingDetail, error) {
	query := bookingDetailSelect + `
		WHERE b.id = $1
	`
	return scanBookingDetail(r.db.QueryRow(ctx, query, bookingID))
}

// ListByUser returns one page of the user's bookings, newest first, and the
// user's total booking count.
func (r *BookingRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
	offset int,
) ([]models.BookingDetail, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := bookingDetailSelect + `
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings := make([]models.BookingDetail, 0)
	for rows.Next() {
		detail, err := scanBookingDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *detail)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

const bookingDetailSelect = `
		SELECT b.id, b.user_id, b.slot_id, b.quiz_risk_score, b.status, b.created_at,
			   s.coach_id, c.name, s.start_time, s.end_time, s.timezone,
			   u.email, u.name
		FROM bookings b
		JOIN slots s ON s.id = b.slot_id
		JOIN coaches c ON c.id = s.coach_id
		JOIN users u ON u.id = b.user_id
`

func scanBooking(row rowScanner) (*models.Booking, error) {
	var booking models.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.SlotID,
		&booking.QuizRiskScore,
		&booking.Status,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func scanBookingDetail(row rowScanner) (*models.BookingDetail, error) {
	var (
		detail    models.BookingDetail
		coachID   uuid.UUID
		coachName string
		startTime time.Time
		endTime   time.Time
		timezone  string
		email     string
		userName  string
	)
	err := row.Scan(
		&detail.ID,
		&detail.UserID,
		&detail.SlotID,
		&detail.QuizRiskScore,
		&detail.Status,
		&detail.CreatedAt,
		&coachID,
		&coachName,
		&startTime,
		&endTime,
		&timezone,
		&email,
		&userName,
	)
	if err != nil {
		return nil, err
	}

	detail.Slot = &models.BookingSlotSummary{
		ID:        detail.SlotID.String(),
		CoachID:   coachID.String(),
		CoachName: coachName,
		StartTime: startTime.UTC().Format(time.RFC3339),
		EndTime:   endTime.UTC().Format(time.RFC3339),
		Timezone:  timezone,
	}
	detail.User = &models.BookingUserSummary{
		ID:    detail.UserID.String(),
		Email: email,
		Name:  userName,
	}
	return &detail, nil
}
