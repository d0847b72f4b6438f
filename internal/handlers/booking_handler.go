package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/models"
	"github.com/saeid-a/CoachMatchBack/internal/services"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service bookingApplicationService
	logger  *zap.Logger
}

type bookingApplicationService interface {
	BookSlot(ctx context.Context, input services.BookSlotInput) (*models.BookingDetail, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*models.BookingDetail, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.BookingDetail, int, error)
}

func NewBookingHandler(service *services.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{service: service, logger: logger}
}

type bookSlotRequest struct {
	UserID        string `json:"user_id"`
	SlotID        string `json:"slot_id"`
	QuizRiskScore *int   `json:"quiz_risk_score"`
}

func (h *BookingHandler) BookSlot(c *fiber.Ctx) error {
	var req bookSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Request body must be JSON with user_id, slot_id and an integer quiz_risk_score")
	}

	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return badRequest(c, "user_id must be a valid UUID")
	}
	slotID, err := uuid.Parse(strings.TrimSpace(req.SlotID))
	if err != nil {
		return badRequest(c, "slot_id must be a valid UUID")
	}
	if req.QuizRiskScore == nil {
		return badRequest(c, "quiz_risk_score is required")
	}

	detail, err := h.service.BookSlot(c.UserContext(), services.BookSlotInput{
		UserID:        userID,
		SlotID:        slotID,
		QuizRiskScore: *req.QuizRiskScore,
	})
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to book slot")
	}

	return respond(c, fiber.StatusCreated, detail, "Slot booked successfully", nil)
}

func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	bookingID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Booking ID must be a valid UUID")
	}

	detail, err := h.service.GetBooking(c.UserContext(), bookingID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to fetch booking")
	}

	return respond(c, fiber.StatusOK, detail, "", nil)
}

func (h *BookingHandler) ListUserBookings(c *fiber.Ctx) error {
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "User ID must be a valid UUID")
	}

	page, limit := parsePage(c)

	bookings, total, err := h.service.ListUserBookings(c.UserContext(), userID, page, limit)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to fetch bookings")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       bookings,
		"pagination": buildPaginationMeta(page, limit, total),
	})
}
