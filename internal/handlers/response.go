package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/services"
	"go.uber.org/zap"
)

const busyRetryAfterSeconds = "1"

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Filters any    `json:"filters,omitempty"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respond(c *fiber.Ctx, status int, data any, message string, filters any) error {
	return c.Status(status).JSON(envelope{
		Success: true,
		Data:    data,
		Message: message,
		Filters: filters,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{
		Error:   "Invalid request data",
		Message: message,
	})
}

var publicMessages = []struct {
	err     error
	message string
}{
	{services.ErrUserNotFound, "User not found"},
	{services.ErrSlotNotFound, "Slot not found"},
	{services.ErrCoachNotFound, "Coach not found"},
	{services.ErrBookingNotFound, "Booking not found"},
	{services.ErrQuestionNotFound, "Question not found"},
	{services.ErrSlotAlreadyBooked, "Slot is already booked"},
	{services.ErrSlotNotAvailable, "Slot is not available for booking"},
	{services.ErrSlotBusy, "Slot is being booked by someone else, please retry"},
	{services.ErrRiskScoreOutOfRange, "quiz_risk_score must be between 0 and 100"},
}

// writeServiceError maps a service error onto its HTTP status. Internal
// failures are logged with their cause and answered with a generic message.
func writeServiceError(c *fiber.Ctx, logger *zap.Logger, err error, fallback string) error {
	var (
		status int
		label  string
	)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		status, label = fiber.StatusBadRequest, "Invalid request data"
	case errors.Is(err, services.ErrNotFound):
		status, label = fiber.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrConflict):
		status, label = fiber.StatusConflict, "Conflict"
	case errors.Is(err, services.ErrBusy):
		status, label = fiber.StatusServiceUnavailable, "Service busy"
		c.Set(fiber.HeaderRetryAfter, busyRetryAfterSeconds)
	default:
		status, label = fiber.StatusInternalServerError, "Internal server error"
	}

	message := fallback
	for _, known := range publicMessages {
		if errors.Is(err, known.err) {
			message = known.message
			break
		}
	}

	if status >= fiber.StatusInternalServerError {
		if logger != nil {
			logger.Error(fallback,
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
		}
	}

	return c.Status(status).JSON(errorEnvelope{
		Error:   label,
		Message: message,
	})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
