package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/models"
	"github.com/saeid-a/CoachMatchBack/internal/services"
	"github.com/saeid-a/CoachMatchBack/pkg/utils"
	"go.uber.org/zap"
)

type SlotHandler struct {
	service slotApplicationService
	logger  *zap.Logger
	now     func() time.Time
}

type slotApplicationService interface {
	AvailableSlots(ctx context.Context, coachIDs []uuid.UUID, now time.Time) ([]models.SlotWithCoach, error)
	GetSlot(ctx context.Context, slotID uuid.UUID) (*models.SlotWithCoach, error)
}

func NewSlotHandler(service *services.SlotService, logger *zap.Logger) *SlotHandler {
	return &SlotHandler{service: service, logger: logger, now: time.Now}
}

type availableSlotsFilters struct {
	CoachIDs     []uuid.UUID `json:"coach_ids"`
	DaysAhead    int         `json:"days_ahead"`
	UserTimezone string      `json:"user_timezone,omitempty"`
}

type availableSlotsEnvelope struct {
	Success       bool                         `json:"success"`
	Data          []models.SlotView            `json:"data"`
	Message       string                       `json:"message,omitempty"`
	Filters       availableSlotsFilters        `json:"filters"`
	GroupedByDate map[string][]models.SlotView `json:"grouped_by_date,omitempty"`
}

func (h *SlotHandler) AvailableSlots(c *fiber.Ctx) error {
	coachIDs, err := utils.ParseIDList(c.Query("coach_ids"))
	if err != nil {
		return badRequest(c, "coach_ids must be a non-empty JSON array or comma separated list of UUIDs")
	}

	userTimezone := strings.TrimSpace(c.Query("user_timezone"))
	loc, err := utils.LoadTimezone(userTimezone)
	if err != nil {
		return badRequest(c, "user_timezone must be a valid IANA timezone")
	}

	groupByDate := false
	if raw := strings.TrimSpace(c.Query("group_by_date")); raw != "" {
		groupByDate, err = strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "group_by_date must be true or false")
		}
	}

	slots, err := h.service.AvailableSlots(c.UserContext(), coachIDs, h.now())
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to get available slots")
	}

	views := make([]models.SlotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, services.FormatSlot(slot, loc))
	}

	response := availableSlotsEnvelope{
		Success: true,
		Data:    views,
		Filters: availableSlotsFilters{
			CoachIDs:     coachIDs,
			DaysAhead:    services.AvailabilityWindowDays,
			UserTimezone: userTimezone,
		},
	}
	if groupByDate {
		response.GroupedByDate = services.GroupSlotsByDate(slots, loc)
	}
	if len(views) == 0 {
		response.Message = "No available slots found for the specified coaches in the next 7 days."
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func (h *SlotHandler) GetSlot(c *fiber.Ctx) error {
	slotID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Slot ID must be a valid UUID")
	}

	loc, err := utils.LoadTimezone(c.Query("user_timezone"))
	if err != nil {
		return badRequest(c, "user_timezone must be a valid IANA timezone")
	}

	slot, err := h.service.GetSlot(c.UserContext(), slotID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to fetch slot")
	}

	return respond(c, fiber.StatusOK, services.FormatSlot(*slot, loc), "", nil)
}
