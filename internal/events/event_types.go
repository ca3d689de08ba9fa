package events

import (
	"time"

	"github.com/interpreteya/booking-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountRegistered    EventType = "account_registered"
	EventAccountDecided       EventType = "account_decided"
	EventAccountBlockToggled  EventType = "account_block_toggled"
	EventBookingCreated       EventType = "booking_created"
	EventBookingStatusChanged EventType = "booking_status_changed"
	EventBookingAssigned      EventType = "booking_assigned"
	EventBookingPaid          EventType = "booking_paid"
	EventRatingAdded          EventType = "rating_added"
)

// Actor encapsulates who triggered an event.
type Actor struct {
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"` // account or booking id
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountRegisteredPayload payload.
type AccountRegisteredPayload struct {
	Role         domain.Role `json:"role"`
	Email        string      `json:"email"`
	PendingUntil *time.Time  `json:"pending_until,omitempty"`
}

// AccountDecidedPayload payload.
type AccountDecidedPayload struct {
	OldStatus domain.AccountStatus `json:"old_status"`
	NewStatus domain.AccountStatus `json:"new_status"`
}

// AccountBlockToggledPayload payload.
type AccountBlockToggledPayload struct {
	Blocked bool `json:"blocked"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	ServiceType     domain.ServiceType `json:"service_type"`
	DurationMinutes int                `json:"duration_minutes"`
	Price           int                `json:"price"`
	IsEmergency     bool               `json:"is_emergency"`
	ScheduledAt     time.Time          `json:"scheduled_at"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	OldStatus domain.BookingStatus `json:"old_status"`
	NewStatus domain.BookingStatus `json:"new_status"`
}

// BookingAssignedPayload payload.
type BookingAssignedPayload struct {
	InterpreterID   *string `json:"interpreter_id,omitempty"`
	InterpreterName *string `json:"interpreter_name,omitempty"`
}

// BookingPaidPayload payload.
type BookingPaidPayload struct {
	Price  int       `json:"price"`
	PaidAt time.Time `json:"paid_at"`
}

// RatingAddedPayload payload.
type RatingAddedPayload struct {
	RatingID      string `json:"rating_id"`
	InterpreterID string `json:"interpreter_id"`
	Stars         int    `json:"stars"`
}
