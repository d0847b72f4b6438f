package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type Booking struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"user_id"`
	SlotID        uuid.UUID     `json:"slot_id"`
	QuizRiskScore int           `json:"quiz_risk_score"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

type BookingSlotSummary struct {
	ID        string `json:"id"`
	CoachID   string `json:"coach_id"`
	CoachName string `json:"coach_name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Timezone  string `json:"timezone"`
}

type BookingUserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BookingDetail struct {
	Booking
	Slot *BookingSlotSummary `json:"slot,omitempty"`
	User *BookingUserSummary `json:"user,omitempty"`
}
