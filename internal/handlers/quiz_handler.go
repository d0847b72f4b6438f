package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/saeid-a/CoachMatchBack/internal/models"
	"github.com/saeid-a/CoachMatchBack/internal/services"
	"go.uber.org/zap"
)

type QuizHandler struct {
	service quizApplicationService
	logger  *zap.Logger
}

type quizApplicationService interface {
	Schema(ctx context.Context, lang string) ([]models.QuizQuestion, error)
	Submit(ctx context.Context, userID uuid.UUID, answers []models.QuizAnswer) (*models.QuizSubmission, error)
	SaveAnswer(ctx context.Context, userID uuid.UUID, answer models.QuizAnswer) (*models.QuizProgress, error)
	Progress(ctx context.Context, userID uuid.UUID) (*models.QuizProgress, error)
}

func NewQuizHandler(service *services.QuizService, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{service: service, logger: logger}
}

type submitQuizRequest struct {
	UserID    string              `json:"user_id"`
	Responses []models.QuizAnswer `json:"responses"`
}

type saveAnswerRequest struct {
	UserID     string        `json:"user_id"`
	QuestionID string        `json:"question_id"`
	Answer     models.Answer `json:"answer"`
}

func (h *QuizHandler) Schema(c *fiber.Ctx) error {
	questions, err := h.service.Schema(c.UserContext(), strings.TrimSpace(c.Query("lang")))
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to fetch quiz schema")
	}

	message := ""
	if len(questions) == 0 {
		message = "No quiz questions found. Please seed the database."
	}
	return respond(c, fiber.StatusOK, questions, message, nil)
}

func (h *QuizHandler) Submit(c *fiber.Ctx) error {
	var req submitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Each answer must be a string, a list of strings or a number")
	}

	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return badRequest(c, "user_id must be a valid UUID")
	}
	if len(req.Responses) == 0 {
		return badRequest(c, "At least one quiz response is required")
	}
	for i, response := range req.Responses {
		if strings.TrimSpace(response.QuestionID) == "" {
			return badRequest(c, fmt.Sprintf("responses.%d.question_id is required", i))
		}
		if response.Answer.IsZero() {
			return badRequest(c, fmt.Sprintf("responses.%d.answer is required", i))
		}
	}

	submission, err := h.service.Submit(c.UserContext(), userID, req.Responses)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to submit quiz")
	}

	return respond(c, fiber.StatusOK, submission, "", nil)
}

func (h *QuizHandler) SaveAnswer(c *fiber.Ctx) error {
	var req saveAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "answer must be a string, a list of strings or a number")
	}

	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return badRequest(c, "user_id must be a valid UUID")
	}
	if strings.TrimSpace(req.QuestionID) == "" || req.Answer.IsZero() {
		return badRequest(c, "question_id and answer are required")
	}

	progress, err := h.service.SaveAnswer(c.UserContext(), userID, models.QuizAnswer{
		QuestionID: strings.TrimSpace(req.QuestionID),
		Answer:     req.Answer,
	})
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to save answer")
	}

	return respond(c, fiber.StatusOK, progress, progressMessage(progress), nil)
}

func (h *QuizHandler) Progress(c *fiber.Ctx) error {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return badRequest(c, "User ID must be a valid UUID")
	}

	progress, err := h.service.Progress(c.UserContext(), userID)
	if err != nil {
		return writeServiceError(c, h.logger, err, "Failed to get quiz progress")
	}

	return respond(c, fiber.StatusOK, progress, progressMessage(progress), nil)
}

func progressMessage(progress *models.QuizProgress) string {
	switch {
	case progress.IsCompleted:
		return "Quiz completed. You can now proceed to booking."
	case progress.CompletedQuestions > 0 && progress.NextQuestion != nil:
		return fmt.Sprintf("Resume from question %d", progress.NextQuestion.OrderIndex)
	default:
		return "Quiz not started. Begin with the first question."
	}
}
