package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachMatchBack/internal/models"
	"github.com/saeid-a/CoachMatchBack/internal/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type quizReader interface {
	ListOrdered(ctx context.Context) ([]models.QuizQuestion, error)
	GetByQuestionID(ctx context.Context, questionID string) (*models.QuizQuestion, error)
}

type quizResponseStore interface {
	Upsert(ctx context.Context, userID uuid.UUID, questionID string, answer models.Answer) (*models.QuizResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.QuizResponse, error)
}

type QuizService struct {
	db           txBeginner
	quizRepo     quizReader
	responseRepo quizResponseStore
	userRepo     userChecker
	logger       *zap.Logger
	now          func() time.Time
}

func NewQuizService(
	db txBeginner,
	quizRepo quizReader,
	responseRepo quizResponseStore,
	userRepo userChecker,
	logger *zap.Logger,
) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{
		db:           db,
		quizRepo:     quizRepo,
		responseRepo: responseRepo,
		userRepo:     userRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// Schema returns the questions in display order with text and options
// translated into lang where a translation exists.
func (s *QuizService) Schema(ctx context.Context, lang string) ([]models.QuizQuestion, error) {
	questions, err := s.quizRepo.ListOrdered(ctx)
	if err != nil {
		return nil, translateStorageError(err)
	}

	localized := make([]models.QuizQuestion, 0, len(questions))
	for _, question := range questions {
		question = localizeQuestion(question, lang)
		if question.QuestionType.IsChoice() && len(question.Options) == 0 {
			s.logger.Error("quiz question without options",
				zap.String("question_id", question.QuestionID),
				zap.String("question_type", string(question.QuestionType)),
			)
			return nil, ErrQuestionMissingOptions
		}
		localized = append(localized, question)
	}
	return localized, nil
}

// Submit stores every answer for the user in one transaction and scores them.
// Re-submitting a question replaces the earlier answer.
func (s *QuizService) Submit(
	ctx context.Context,
	userID uuid.UUID,
	answers []models.QuizAnswer,
) (submission *models.QuizSubmission, err error) {
	ctx, span := tracer.Start(ctx, "QuizService.Submit")
	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int("answers.count", len(answers)),
	)
	defer func() { endSpan(span, err) }()

	if userID == uuid.Nil || len(answers) == 0 {
		return nil, ErrInvalidInput
	}
	for _, answer := range answers {
		if strings.TrimSpace(answer.QuestionID) == "" || answer.Answer.IsZero() {
			return nil, ErrInvalidInput
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, translateStorageError(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	exists, err := repository.NewUserRepository(tx).Exists(ctx, userID)
	if err != nil {
		return nil, translateStorageError(err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	txResponseRepo := repository.NewQuizResponseRepository(tx)
	for _, answer := range answers {
		if _, err := txResponseRepo.Upsert(ctx, userID, answer.QuestionID, answer.Answer); err != nil {
			return nil, translateStorageError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, translateStorageError(err)
	}

	score := CalculateRiskScore(answers)
	span.SetAttributes(attribute.Int("risk_score", score))

	return &models.QuizSubmission{
		RiskScore:   score,
		UserID:      userID,
		SubmittedAt: s.now().UTC(),
	}, nil
}

// SaveAnswer records a single answer and returns the updated progress.
func (s *QuizService) SaveAnswer(
	ctx context.Context,
	userID uuid.UUID,
	answer models.QuizAnswer,
) (*models.QuizProgress, error) {
	if userID == uuid.Nil || strings.TrimSpace(answer.QuestionID) == "" || answer.Answer.IsZero() {
		return nil, ErrInvalidInput
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	if _, err := s.quizRepo.GetByQuestionID(ctx, answer.QuestionID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, translateStorageError(err)
	}

	if _, err := s.responseRepo.Upsert(ctx, userID, answer.QuestionID, answer.Answer); err != nil {
		return nil, translateStorageError(err)
	}

	return s.Progress(ctx, userID)
}

// Progress reports how far the user got and which question to resume with.
func (s *QuizService) Progress(ctx context.Context, userID uuid.UUID) (*models.QuizProgress, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	questions, err := s.quizRepo.ListOrdered(ctx)
	if err != nil {
		return nil, translateStorageError(err)
	}
	responses, err := s.responseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, translateStorageError(err)
	}

	progress := buildProgress(userID, questions, responses)
	return &progress, nil
}

func (s *QuizService) requireUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return translateStorageError(err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// buildProgress expects responses ordered oldest first. The next question is
// taken from the branching rule of the most recent answer when it points at an
// unanswered question, otherwise it is the first unanswered one in order.
func buildProgress(userID uuid.UUID, questions []models.QuizQuestion, responses []models.QuizResponse) models.QuizProgress {
	byID := make(map[string]*models.QuizQuestion, len(questions))
	for i := range questions {
		byID[questions[i].QuestionID] = &questions[i]
	}

	answered := make(map[string]models.Answer, len(responses))
	var last *models.QuizResponse
	for i := range responses {
		if _, known := byID[responses[i].QuestionID]; !known {
			continue
		}
		answered[responses[i].QuestionID] = responses[i].Answer
		last = &responses[i]
	}

	progress := models.QuizProgress{
		UserID:             userID,
		TotalQuestions:     len(questions),
		CompletedQuestions: len(answered),
	}

	if last != nil {
		lastID := last.QuestionID
		progress.LastAnsweredQuestionID = &lastID

		for _, candidate := range branchTargets(byID[lastID].BranchingRules, last.Answer) {
			if _, done := answered[candidate]; done {
				continue
			}
			if next, ok := byID[candidate]; ok {
				progress.NextQuestion = next
				break
			}
		}
	}

	if progress.NextQuestion == nil {
		for i := range questions {
			if _, done := answered[questions[i].QuestionID]; !done {
				progress.NextQuestion = &questions[i]
				break
			}
		}
	}

	progress.IsCompleted = len(questions) > 0 && progress.NextQuestion == nil
	return progress
}

// branchTargets evaluates branching rules, stored either as one rule object or
// a list of them, against answer. Malformed rules yield no targets.
func branchTargets(raw json.RawMessage, answer models.Answer) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	var rules []models.BranchingRule
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &rules); err != nil {
			return nil
		}
	} else {
		var rule models.BranchingRule
		if err := json.Unmarshal(raw, &rule); err != nil {
			return nil
		}
		rules = append(rules, rule)
	}

	targets := make([]string, 0)
	for _, rule := range rules {
		if rule.If == "" {
			continue
		}
		if answer.Contains(rule.If) {
			targets = append(targets, rule.Then...)
		} else {
			targets = append(targets, rule.Else...)
		}
	}
	return targets
}

// localizeQuestion overlays the lang translation of text and options. An
// exact key wins over the base language ("hi-IN" falls back to "hi").
func localizeQuestion(question models.QuizQuestion, lang string) models.QuizQuestion {
	lang = strings.TrimSpace(lang)
	if lang == "" || question.Translations == nil {
		return question
	}

	keys := []string{lang}
	if tag, err := language.Parse(lang); err == nil {
		if base, _ := tag.Base(); base.String() != lang {
			keys = append(keys, base.String())
		}
	}

	for _, key := range keys {
		if text, ok := question.Translations.QuestionText[key]; ok && text != "" {
			question.QuestionText = text
			break
		}
	}
	for _, key := range keys {
		if options, ok := question.Translations.Options[key]; ok && len(options) > 0 {
			question.Options = options
			break
		}
	}
	return question
}
