package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionTypeRadio    QuestionType = "radio"
	QuestionTypeCheckbox QuestionType = "checkbox"
	QuestionTypeSelect   QuestionType = "select"
	QuestionTypeText     QuestionType = "text"
	QuestionTypeNumber   QuestionType = "number"
)

// IsChoice reports whether the question needs rendered options.
func (t QuestionType) IsChoice() bool {
	return t == QuestionTypeRadio || t == QuestionTypeCheckbox || t == QuestionTypeSelect
}

type QuestionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type QuestionTranslations struct {
	QuestionText map[string]string           `json:"question_text,omitempty"`
	Options      map[string][]QuestionOption `json:"options,omitempty"`
}

// BranchingRule selects follow-up questions: when the answer matches If, the
// quiz continues with Then, otherwise with Else.
type BranchingRule struct {
	If   string   `json:"if"`
	Then []string `json:"then,omitempty"`
	Else []string `json:"else,omitempty"`
}

type QuizQuestion struct {
	ID             uuid.UUID             `json:"id"`
	QuestionID     string                `json:"question_id"`
	QuestionText   string                `json:"question_text"`
	QuestionType   QuestionType          `json:"question_type"`
	BranchingRules json.RawMessage       `json:"branching_rules"`
	Options        []QuestionOption      `json:"options"`
	Translations   *QuestionTranslations `json:"-"`
	OrderIndex     int                   `json:"order_index"`
	CreatedAt      time.Time             `json:"created_at"`
}

type QuizAnswer struct {
	QuestionID string `json:"question_id"`
	Answer     Answer `json:"answer"`
}

type QuizResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	QuestionID string    `json:"question_id"`
	Answer     Answer    `json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type QuizSubmission struct {
	RiskScore   int       `json:"risk_score"`
	UserID      uuid.UUID `json:"user_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type QuizProgress struct {
	UserID                 uuid.UUID     `json:"user_id"`
	TotalQuestions         int           `json:"total_questions"`
	CompletedQuestions     int           `json:"completed_questions"`
	IsCompleted            bool          `json:"is_completed"`
	LastAnsweredQuestionID *string       `json:"last_answered_question_id,omitempty"`
	NextQuestion           *QuizQuestion `json:"next_question,omitempty"`
}
