package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Timezone           string    `json:"timezone"`
	LanguagePreference string    `json:"language_preference"`
	CreatedAt          time.Time `json:"created_at"`
}
