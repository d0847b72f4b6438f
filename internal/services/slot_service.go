package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachMatchBack/internal/models"
	"github.com/saeid-a/CoachMatchBack/pkg/utils"
	"go.opentelemetry.io/otel/attribute"
)

// AvailabilityWindowDays is how far ahead AvailableSlots looks.
const AvailabilityWindowDays = 7

type slotLister interface {
	ListAvailable(ctx context.Context, coachIDs []uuid.UUID, after, until time.Time) ([]models.SlotWithCoach, error)
	GetWithCoach(ctx context.Context, slotID uuid.UUID) (*models.SlotWithCoach, error)
}

type bookedSlotReader interface {
	ConfirmedSlotIDs(ctx context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]struct{}, error)
}

type SlotService struct {
	slotRepo    slotLister
	bookingRepo bookedSlotReader
}

func NewSlotService(slotRepo slotLister, bookingRepo bookedSlotReader) *SlotService {
	return &SlotService{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
	}
}

// AvailabilityWindowEnd is the last instant a slot may start at to be offered
// when asked at now: the end of the UTC day seven days out.
func AvailabilityWindowEnd(now time.Time) time.Time {
	return utils.EndOfDay(now.UTC().AddDate(0, 0, AvailabilityWindowDays))
}

// AvailableSlots lists open slots of the given coaches that start after now and
// within the availability window, earliest first. Slots holding a confirmed
// booking are left out even if their status flag still says available.
func (s *SlotService) AvailableSlots(
	ctx context.Context,
	coachIDs []uuid.UUID,
	now time.Time,
) (slots []models.SlotWithCoach, err error) {
	ctx, span := tracer.Start(ctx, "SlotService.AvailableSlots")
	span.SetAttributes(attribute.Int("coach_ids.count", len(coachIDs)))
	defer func() { endSpan(span, err) }()

	if len(coachIDs) == 0 {
		return nil, ErrInvalidInput
	}

	now = now.UTC()
	windowEnd := AvailabilityWindowEnd(now)

	candidates, err := s.slotRepo.ListAvailable(ctx, coachIDs, now, windowEnd)
	if err != nil {
		return nil, translateStorageError(err)
	}

	inWindow := make([]models.SlotWithCoach, 0, len(candidates))
	for _, slot := range candidates {
		if !slot.StartTime.After(now) || slot.StartTime.After(windowEnd) {
			continue
		}
		inWindow = append(inWindow, slot)
	}
	if len(inWindow) == 0 {
		return inWindow, nil
	}

	slotIDs := make([]uuid.UUID, 0, len(inWindow))
	for _, slot := range inWindow {
		slotIDs = append(slotIDs, slot.ID)
	}
	booked, err := s.bookingRepo.ConfirmedSlotIDs(ctx, slotIDs)
	if err != nil {
		return nil, translateStorageError(err)
	}

	slots = make([]models.SlotWithCoach, 0, len(inWindow))
	for _, slot := range inWindow {
		if _, taken := booked[slot.ID]; taken {
			continue
		}
		slots = append(slots, slot)
	}

	span.SetAttributes(attribute.Int("slots.count", len(slots)))
	return slots, nil
}

func (s *SlotService) GetSlot(ctx context.Context, slotID uuid.UUID) (*models.SlotWithCoach, error) {
	slot, err := s.slotRepo.GetWithCoach(ctx, slotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, translateStorageError(err)
	}
	return slot, nil
}

// FormatSlot renders slot for display. Start and end stay in UTC; the user
// timezone fields carry the same instants in loc.
func FormatSlot(slot models.SlotWithCoach, loc *time.Location) models.SlotView {
	if loc == nil {
		loc = time.UTC
	}
	return models.SlotView{
		ID:              slot.ID.String(),
		CoachID:         slot.CoachID.String(),
		CoachName:       slot.CoachName,
		StartTime:       slot.StartTime.UTC().Format(time.RFC3339),
		EndTime:         slot.EndTime.UTC().Format(time.RFC3339),
		StartTimeUserTZ: slot.StartTime.In(loc).Format(time.RFC3339),
		EndTimeUserTZ:   slot.EndTime.In(loc).Format(time.RFC3339),
		Timezone:        slot.Timezone,
		Status:          string(slot.Status),
	}
}

// GroupSlotsByDate buckets slots by their start date in loc, keeping the
// incoming order inside each bucket.
func GroupSlotsByDate(slots []models.SlotWithCoach, loc *time.Location) map[string][]models.SlotView {
	if loc == nil {
		loc = time.UTC
	}
	grouped := make(map[string][]models.SlotView)
	for _, slot := range slots {
		key := utils.DateKey(slot.StartTime, loc)
		grouped[key] = append(grouped[key], FormatSlot(slot, loc))
	}
	return grouped
}
