package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachMatchBack/internal/models"
	"github.com/saeid-a/CoachMatchBack/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type bookingReader interface {
	GetDetail(ctx context.Context, bookingID uuid.UUID) (*models.BookingDetail, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.BookingDetail, int, error)
}

type userChecker interface {
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

type slotEventPublisher interface {
	Publish(event models.SlotEvent)
}

type BookingService struct {
	db          txBeginner
	bookingRepo bookingReader
	userRepo    userChecker
	events      slotEventPublisher
	lockTimeout time.Duration
	logger      *zap.Logger
}

// NewBookingService wires the booking transaction. events may be nil; a zero
// lockTimeout leaves the server default in place.
func NewBookingService(
	db txBeginner,
	bookingRepo bookingReader,
	userRepo userChecker,
	events slotEventPublisher,
	lockTimeout time.Duration,
	logger *zap.Logger,
) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		db:          db,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		events:      events,
		lockTimeout: lockTimeout,
		logger:      logger,
	}
}

type BookSlotInput struct {
	UserID        uuid.UUID
	SlotID        uuid.UUID
	QuizRiskScore int
}

// BookSlot reserves the slot for the user in one transaction. The slot row is
// locked first, so concurrent callers for the same slot queue behind each
// other and exactly one of them can succeed; callers for different slots
// never wait on each other.
func (s *BookingService) BookSlot(ctx context.Context, input BookSlotInput) (detail *models.BookingDetail, err error) {
	ctx, span := tracer.Start(ctx, "BookingService.BookSlot")
	span.SetAttributes(
		attribute.String("slot.id", input.SlotID.String()),
		attribute.String("user.id", input.UserID.String()),
	)
	defer func() { endSpan(span, err) }()

	booking, coachID, err := s.reserve(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("slot booked",
		zap.String("booking_id", booking.ID.String()),
		zap.String("slot_id", booking.SlotID.String()),
		zap.String("user_id", booking.UserID.String()),
		zap.Int("quiz_risk_score", booking.QuizRiskScore),
	)

	if s.events != nil {
		s.events.Publish(models.SlotEvent{
			Type:      models.SlotEventBooked,
			SlotID:    booking.SlotID,
			CoachID:   coachID,
			Timestamp: booking.CreatedAt.UTC(),
		})
	}

	detail, err = s.bookingRepo.GetDetail(ctx, booking.ID)
	if err != nil {
		s.logger.Error("load committed booking",
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err),
		)
		return nil, ErrBookingViewUnavailable
	}
	return detail, nil
}

func (s *BookingService) reserve(ctx context.Context, input BookSlotInput) (*models.Booking, uuid.UUID, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, uuid.Nil, translateBookingError(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if s.lockTimeout > 0 {
		timeout := fmt.Sprintf("%dms", s.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, "SELECT set_config('lock_timeout', $1, true)", timeout); err != nil {
			return nil, uuid.Nil, translateBookingError(err)
		}
	}

	txSlotRepo := repository.NewSlotRepository(tx)
	txBookingRepo := repository.NewBookingRepository(tx)
	txUserRepo := repository.NewUserRepository(tx)

	slot, err := txSlotRepo.GetByIDForUpdate(ctx, input.SlotID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, uuid.Nil, translateBookingError(err)
	}

	userExists, err := txUserRepo.Exists(ctx, input.UserID)
	if err != nil {
		return nil, uuid.Nil, translateBookingError(err)
	}
	if !userExists {
		return nil, uuid.Nil, ErrUserNotFound
	}
	if slot == nil {
		return nil, uuid.Nil, ErrSlotNotFound
	}

	taken, err := txBookingRepo.HasActiveForSlot(ctx, slot.ID)
	if err != nil {
		return nil, uuid.Nil, translateBookingError(err)
	}
	if taken {
		return nil, uuid.Nil, ErrSlotAlreadyBooked
	}
	if slot.Status != models.SlotStatusAvailable {
		return nil, uuid.Nil, ErrSlotNotAvailable
	}
	if input.QuizRiskScore < 0 || input.QuizRiskScore > 100 {
		return nil, uuid.Nil, ErrRiskScoreOutOfRange
	}

	booking, err := txBookingRepo.Create(ctx, repository.CreateBookingInput{
		UserID:        input.UserID,
		SlotID:        slot.ID,
		QuizRiskScore: input.QuizRiskScore,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, uuid.Nil, ErrSlotAlreadyBooked
		}
		return nil, uuid.Nil, translateBookingError(err)
	}

	if _, err := txSlotRepo.UpdateStatusIfCurrent(
		ctx,
		slot.ID,
		models.SlotStatusAvailable,
		models.SlotStatusBooked,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, uuid.Nil, ErrSlotNotAvailable
		}
		return nil, uuid.Nil, translateBookingError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, uuid.Nil, translateBookingError(err)
	}
	return booking, slot.CoachID, nil
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.BookingDetail, error) {
	detail, err := s.bookingRepo.GetDetail(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, translateStorageError(err)
	}
	return detail, nil
}

// ListUserBookings returns one page of the user's bookings, newest first,
// with the total count across pages.
func (s *BookingService) ListUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.BookingDetail, int, error) {
	if page <= 0 || limit <= 0 {
		return nil, 0, ErrInvalidInput
	}

	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, 0, translateStorageError(err)
	}
	if !exists {
		return nil, 0, ErrUserNotFound
	}

	bookings, total, err := s.bookingRepo.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, translateStorageError(err)
	}
	return bookings, total, nil
}

// translateBookingError narrows lock waits that gave up into ErrSlotBusy.
func translateBookingError(err error) error {
	translated := translateStorageError(err)
	if errors.Is(translated, ErrBusy) && !errors.Is(translated, ErrSlotBusy) {
		return fmt.Errorf("%w: %w", ErrSlotBusy, err)
	}
	return translated
}
