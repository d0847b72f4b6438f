package models

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusBooked    SlotStatus = "booked"
	SlotStatusCancelled SlotStatus = "cancelled"
)

type Slot struct {
	ID        uuid.UUID  `json:"id"`
	CoachID   uuid.UUID  `json:"coach_id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Timezone  string     `json:"timezone"`
	Status    SlotStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

type SlotWithCoach struct {
	Slot
	CoachName string `json:"coach_name"`
}

// SlotView is the display form of a slot. StartTime/EndTime stay in UTC; the
// *UserTZ fields carry the same instants rendered in the requested timezone.
type SlotView struct {
	ID              string `json:"id"`
	CoachID         string `json:"coach_id"`
	CoachName       string `json:"coach_name"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	StartTimeUserTZ string `json:"start_time_user_tz"`
	EndTimeUserTZ   string `json:"end_time_user_tz"`
	Timezone        string `json:"timezone"`
	Status          string `json:"status"`
}

const SlotEventBooked = "slot_booked"

// SlotEvent is pushed to live subscribers of a coach's availability.
type SlotEvent struct {
	Type      string    `json:"type"`
	SlotID    uuid.UUID `json:"slot_id"`
	CoachID   uuid.UUID `json:"coach_id"`
	Timestamp time.Time `json:"timestamp"`
}
