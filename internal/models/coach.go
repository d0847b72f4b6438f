package models

import (
	"time"

	"github.com/google/uuid"
)

type SeniorityLevel string

const (
	SeniorityJunior SeniorityLevel = "junior"
	SeniorityMid    SeniorityLevel = "mid"
	SenioritySenior SeniorityLevel = "senior"
)

// Rank orders seniority tiers; unknown levels rank 0 and never satisfy a requirement.
func (l SeniorityLevel) Rank() int {
	switch l {
	case SeniorityJunior:
		return 1
	case SeniorityMid:
		return 2
	case SenioritySenior:
		return 3
	default:
		return 0
	}
}

type Coach struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Specialization *string        `json:"specialization"`
	SeniorityLevel SeniorityLevel `json:"seniority_level"`
	Languages      []string       `json:"languages"`
	Timezone       string         `json:"timezone"`
	CreatedAt      time.Time      `json:"created_at"`
}
