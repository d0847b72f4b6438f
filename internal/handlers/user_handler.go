package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/models"
	"github.com/saeid-a/CoachMatchBack/internal/services"
	"go.uber.org/zap"
)

type UserHandler struct {
	service userApplicationService
	logger  *zap.Logger
}

type userApplicationService interface {
	CreateUser(ctx context.Context, input services.CreateUserInput) (*models.User, bool, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

func NewUserHandler(service *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

type createUserRequest struct {
	Email              string `json:"email"`
	Name               string `json:"name"`
	Timezone           string `json:"timezone"`
	LanguagePreference string `json:"language_preference"`
}

// CreateUser answers 201 whether the user is new or already registered under
// the email, so clients can call it on every visit.
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, created, err := h.service.CreateUser(c.UserContext(), services.CreateUserInput{
		Email:              req.Email,
		Name:               req.Name,
		Timezone:           req.Timezone,
		LanguagePreference: req.LanguagePreference,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return badRequest(c, "email must be valid, name is required, timezone must be an IANA zone and language_preference must be en or hi")
		}
		return writeServiceError(c, h.logger, err, "Failed to create user")
	}

	message := "User created successfully"
	if !created {
		message = "User already exists"
	}
	return respond(c, fiber.StatusCreated, user, message, nil)
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return badRequest(c, "User ID must be a valid UUID")
	}

	user, err := h.service.GetUser(c.UserContext(), userID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to fetch user")
	}
	return respond(c, fiber.StatusOK, user, "", nil)
}
