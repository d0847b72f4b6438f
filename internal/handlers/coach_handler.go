package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/models"
	"github.com/saeid-a/CoachMatchBack/internal/services"
	"go.uber.org/zap"
)

type CoachHandler struct {
	service coachApplicationService
	logger  *zap.Logger
}

type coachApplicationService interface {
	ListCoaches(ctx context.Context) ([]models.Coach, error)
	GetCoach(ctx context.Context, coachID uuid.UUID) (*models.Coach, error)
	AvailableCoaches(ctx context.Context, riskScore int, lang string) (*services.AvailableCoachesResult, error)
}

func NewCoachHandler(service *services.CoachService, logger *zap.Logger) *CoachHandler {
	return &CoachHandler{service: service, logger: logger}
}

type availableCoachesFilters struct {
	RiskScore         int                   `json:"risk_score"`
	RequiredSeniority models.SeniorityLevel `json:"required_seniority"`
	Language          string                `json:"language,omitempty"`
}

func (h *CoachHandler) ListCoaches(c *fiber.Ctx) error {
	coaches, err := h.service.ListCoaches(c.UserContext())
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to fetch coaches")
	}
	return respond(c, fiber.StatusOK, coaches, "", nil)
}

func (h *CoachHandler) GetCoach(c *fiber.Ctx) error {
	coachID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "Coach ID must be a valid UUID")
	}

	coach, err := h.service.GetCoach(c.UserContext(), coachID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to fetch coach")
	}
	return respond(c, fiber.StatusOK, coach, "", nil)
}

func (h *CoachHandler) AvailableCoaches(c *fiber.Ctx) error {
	rawScore := strings.TrimSpace(c.Query("risk_score"))
	if rawScore == "" {
		return badRequest(c, "risk_score is required")
	}
	riskScore, err := strconv.Atoi(rawScore)
	if err != nil || riskScore < 0 || riskScore > 100 {
		return badRequest(c, "risk_score must be an integer between 0 and 100")
	}
	lang := strings.TrimSpace(c.Query("language"))

	result, err := h.service.AvailableCoaches(c.UserContext(), riskScore, lang)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to fetch available coaches")
	}

	message := ""
	if len(result.Coaches) == 0 {
		message = "No coaches match the requested criteria"
	}
	return respond(c, fiber.StatusOK, result.Coaches, message, availableCoachesFilters{
		RiskScore:         riskScore,
		RequiredSeniority: result.RequiredSeniority,
		Language:          lang,
	})
}
