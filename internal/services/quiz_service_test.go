package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/saeid-a/CoachMatchBack/internal/models"
)

type stubQuizReader struct {
	questions []models.QuizQuestion
}

func (s *stubQuizReader) ListOrdered(_ context.Context) ([]models.QuizQuestion, error) {
	return s.questions, nil
}

func (s *stubQuizReader) GetByQuestionID(_ context.Context, questionID string) (*models.QuizQuestion, error) {
	for i := range s.questions {
		if s.questions[i].QuestionID == questionID {
			return &s.questions[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

type stubResponseStore struct {
	responses []models.QuizResponse
}

func (s *stubResponseStore) Upsert(_ context.Context, userID uuid.UUID, questionID string, answer models.Answer) (*models.QuizResponse, error) {
	for i := range s.responses {
		if s.responses[i].UserID == userID && s.responses[i].QuestionID == questionID {
			updated := s.responses[i]
			updated.Answer = answer
			s.responses = append(s.responses[:i], s.responses[i+1:]...)
			s.responses = append(s.responses, updated)
			return &updated, nil
		}
	}
	response := models.QuizResponse{
		ID:         uuid.New(),
		UserID:     userID,
		QuestionID: questionID,
		Answer:     answer,
	}
	s.responses = append(s.responses, response)
	return &response, nil
}

func (s *stubResponseStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.QuizResponse, error) {
	out := make([]models.QuizResponse, 0)
	for _, response := range s.responses {
		if response.UserID == userID {
			out = append(out, response)
		}
	}
	return out, nil
}

type stubUserChecker struct {
	known map[uuid.UUID]bool
}

func (s *stubUserChecker) Exists(_ context.Context, userID uuid.UUID) (bool, error) {
	return s.known[userID], nil
}

func quizQuestions() []models.QuizQuestion {
	return []models.QuizQuestion{
		{
			QuestionID:   "family_history",
			QuestionText: "Does hair loss run in your family?",
			QuestionType: models.QuestionTypeRadio,
			Options: []models.QuestionOption{
				{Value: "yes", Label: "Yes"},
				{Value: "no", Label: "No"},
			},
			BranchingRules: json.RawMessage(`{"if":"yes","then":["family_side"],"else":["stress_level"]}`),
			Translations: &models.QuestionTranslations{
				QuestionText: map[string]string{"hi": "क्या आपके परिवार में बाल झड़ने की समस्या है?"},
				Options: map[string][]models.QuestionOption{
					"hi": {{Value: "yes", Label: "हाँ"}, {Value: "no", Label: "नहीं"}},
				},
			},
			OrderIndex: 1,
		},
		{
			QuestionID:   "age",
			QuestionText: "How old are you?",
			QuestionType: models.QuestionTypeNumber,
			OrderIndex:   2,
		},
		{
			QuestionID:   "family_side",
			QuestionText: "Which side of the family?",
			QuestionType: models.QuestionTypeSelect,
			Options: []models.QuestionOption{
				{Value: "maternal", Label: "Maternal"},
				{Value: "paternal", Label: "Paternal"},
			},
			OrderIndex: 3,
		},
		{
			QuestionID:   "stress_level",
			QuestionText: "How stressed are you?",
			QuestionType: models.QuestionTypeRadio,
			Options:      []models.QuestionOption{{Value: "low", Label: "Low"}},
			OrderIndex:   4,
		},
	}
}

func newStubQuizService(userID uuid.UUID) (*QuizService, *stubResponseStore) {
	store := &stubResponseStore{}
	service := NewQuizService(
		nil,
		&stubQuizReader{questions: quizQuestions()},
		store,
		&stubUserChecker{known: map[uuid.UUID]bool{userID: true}},
		nil,
	)
	return service, store
}

func TestSchemaAppliesTranslations(t *testing.T) {
	service, _ := newStubQuizService(uuid.New())

	questions, err := service.Schema(context.Background(), "hi-IN")
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if got := len(questions); got != 4 {
		t.Fatalf("expected 4 questions, got %d", got)
	}
	if questions[0].QuestionText != "क्या आपके परिवार में बाल झड़ने की समस्या है?" {
		t.Fatalf("expected Hindi question text, got %q", questions[0].QuestionText)
	}
	if questions[0].Options[0].Label != "हाँ" {
		t.Fatalf("expected Hindi option label, got %q", questions[0].Options[0].Label)
	}
	if questions[1].QuestionText != "How old are you?" {
		t.Fatalf("expected untranslated question to keep its text, got %q", questions[1].QuestionText)
	}
}

func TestSchemaDefaultsToBaseText(t *testing.T) {
	service, _ := newStubQuizService(uuid.New())

	questions, err := service.Schema(context.Background(), "")
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if questions[0].QuestionText != "Does hair loss run in your family?" || questions[0].Options[0].Label != "Yes" {
		t.Fatalf("expected base text, got %+v", questions[0])
	}
}

func TestSchemaRejectsChoiceQuestionWithoutOptions(t *testing.T) {
	service := NewQuizService(nil, &stubQuizReader{questions: []models.QuizQuestion{{
		QuestionID:   "diet_quality",
		QuestionText: "How is your diet?",
		QuestionType: models.QuestionTypeCheckbox,
	}}}, &stubResponseStore{}, &stubUserChecker{}, nil)

	if _, err := service.Schema(context.Background(), "en"); !errors.Is(err, ErrQuestionMissingOptions) {
		t.Fatalf("expected ErrQuestionMissingOptions, got %v", err)
	}
}

func TestSubmitValidatesBeforeTouchingStorage(t *testing.T) {
	userID := uuid.New()
	service, _ := newStubQuizService(userID)

	if _, err := service.Submit(context.Background(), userID, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for no answers, got %v", err)
	}
	if _, err := service.Submit(context.Background(), userID, []models.QuizAnswer{{QuestionID: "age"}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty answer, got %v", err)
	}
	if _, err := service.Submit(context.Background(), uuid.Nil, []models.QuizAnswer{
		{QuestionID: "age", Answer: models.NumberAnswer(30)},
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nil user, got %v", err)
	}
}

func TestProgressFollowsBranching(t *testing.T) {
	userID := uuid.New()
	service, _ := newStubQuizService(userID)
	ctx := context.Background()

	progress, err := service.Progress(ctx, userID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.CompletedQuestions != 0 || progress.NextQuestion == nil || progress.NextQuestion.QuestionID != "family_history" {
		t.Fatalf("expected to start with family_history, got %+v", progress)
	}

	progress, err = service.SaveAnswer(ctx, userID, models.QuizAnswer{QuestionID: "family_history", Answer: models.TextAnswer("yes")})
	if err != nil {
		t.Fatalf("SaveAnswer: %v", err)
	}
	if progress.NextQuestion == nil || progress.NextQuestion.QuestionID != "family_side" {
		t.Fatalf("expected branch to family_side, got %+v", progress.NextQuestion)
	}
	if progress.LastAnsweredQuestionID == nil || *progress.LastAnsweredQuestionID != "family_history" {
		t.Fatalf("expected last answered family_history, got %v", progress.LastAnsweredQuestionID)
	}

	progress, err = service.SaveAnswer(ctx, userID, models.QuizAnswer{QuestionID: "family_history", Answer: models.TextAnswer("no")})
	if err != nil {
		t.Fatalf("SaveAnswer: %v", err)
	}
	if progress.CompletedQuestions != 1 {
		t.Fatalf("expected re-answering to keep one completed question, got %d", progress.CompletedQuestions)
	}
	if progress.NextQuestion == nil || progress.NextQuestion.QuestionID != "stress_level" {
		t.Fatalf("expected else branch to stress_level, got %+v", progress.NextQuestion)
	}
}

func TestProgressCompletesWhenAllAnswered(t *testing.T) {
	userID := uuid.New()
	service, _ := newStubQuizService(userID)
	ctx := context.Background()

	answers := []models.QuizAnswer{
		{QuestionID: "family_history", Answer: models.TextAnswer("no")},
		{QuestionID: "stress_level", Answer: models.TextAnswer("low")},
		{QuestionID: "family_side", Answer: models.TextAnswer("maternal")},
		{QuestionID: "age", Answer: models.NumberAnswer(33)},
	}
	var progress *models.QuizProgress
	var err error
	for _, answer := range answers {
		progress, err = service.SaveAnswer(ctx, userID, answer)
		if err != nil {
			t.Fatalf("SaveAnswer(%s): %v", answer.QuestionID, err)
		}
	}

	if !progress.IsCompleted || progress.NextQuestion != nil {
		t.Fatalf("expected completed quiz, got %+v", progress)
	}
	if progress.TotalQuestions != 4 || progress.CompletedQuestions != 4 {
		t.Fatalf("expected 4/4, got %d/%d", progress.CompletedQuestions, progress.TotalQuestions)
	}
}

func TestSaveAnswerRejectsUnknownQuestionAndUser(t *testing.T) {
	userID := uuid.New()
	service, store := newStubQuizService(userID)
	ctx := context.Background()

	_, err := service.SaveAnswer(ctx, userID, models.QuizAnswer{QuestionID: "shoe_size", Answer: models.NumberAnswer(9)})
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
	_, err = service.SaveAnswer(ctx, uuid.New(), models.QuizAnswer{QuestionID: "age", Answer: models.NumberAnswer(30)})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(store.responses) != 0 {
		t.Fatalf("expected nothing stored, got %d responses", len(store.responses))
	}
}

func TestBuildProgressIgnoresAnswersToRemovedQuestions(t *testing.T) {
	userID := uuid.New()
	progress := buildProgress(userID, quizQuestions(), []models.QuizResponse{
		{UserID: userID, QuestionID: "age", Answer: models.NumberAnswer(28), UpdatedAt: time.Now()},
		{UserID: userID, QuestionID: "retired_question", Answer: models.TextAnswer("x"), UpdatedAt: time.Now()},
	})

	if progress.CompletedQuestions != 1 {
		t.Fatalf("expected 1 completed question, got %d", progress.CompletedQuestions)
	}
	if progress.LastAnsweredQuestionID == nil || *progress.LastAnsweredQuestionID != "age" {
		t.Fatalf("expected last answered age, got %v", progress.LastAnsweredQuestionID)
	}
	if progress.NextQuestion == nil || progress.NextQuestion.QuestionID != "family_history" {
		t.Fatalf("expected first unanswered question next, got %+v", progress.NextQuestion)
	}
}

func TestBranchTargetsAcceptsRuleLists(t *testing.T) {
	raw := json.RawMessage(`[{"if":"pcos","then":["cycle_regularity"]},{"if":"thyroid","else":["diet_quality"]}]`)
	targets := branchTargets(raw, models.ListAnswer("pcos"))
	if len(targets) != 2 || targets[0] != "cycle_regularity" || targets[1] != "diet_quality" {
		t.Fatalf("unexpected targets: %v", targets)
	}

	if got := branchTargets(json.RawMessage(`"nonsense"`), models.TextAnswer("x")); len(got) != 0 {
		t.Fatalf("expected malformed rules to yield nothing, got %v", got)
	}
}
