package dto

import (
	"time"

	"github.com/interpreteya/booking-service/internal/domain"
)

// CreateBookingRequest payload for a scheduled booking.
type CreateBookingRequest struct {
	ServiceType            domain.ServiceType `json:"service_type" validate:"required"`
	DurationMinutes        int                `json:"duration_minutes" validate:"required"`
	ScheduledAt            time.Time          `json:"scheduled_at" validate:"required"`
	Note                   string             `json:"note"`
	RequestedInterpreterID *string            `json:"requested_interpreter_id"`
}

// CreateUrgentRequest payload for an urgent booking scheduled now.
type CreateUrgentRequest struct {
	ServiceType            domain.ServiceType `json:"service_type" validate:"required"`
	DurationMinutes        int                `json:"duration_minutes" validate:"required"`
	Note                   string             `json:"note"`
	RequestedInterpreterID *string            `json:"requested_interpreter_id"`
	PayNow                 bool               `json:"pay_now"`
}

// SetBookingStatusRequest payload for manager status changes.
type SetBookingStatusRequest struct {
	Status domain.BookingStatus `json:"status" validate:"required"`
}

// AssignBookingRequest payload for manager assignment.
type AssignBookingRequest struct {
	InterpreterID string `json:"interpreter_id" validate:"required"`
}

// BookingResponse is the full booking view.
type BookingResponse struct {
	ID                       string               `json:"id"`
	UserID                   string               `json:"user_id"`
	UserName                 string               `json:"user_name"`
	RequestedInterpreterID   *string              `json:"requested_interpreter_id,omitempty"`
	RequestedInterpreterName *string              `json:"requested_interpreter_name,omitempty"`
	AssignedInterpreterID    *string              `json:"assigned_interpreter_id,omitempty"`
	AssignedInterpreterName  *string              `json:"assigned_interpreter_name,omitempty"`
	ServiceType              domain.ServiceType   `json:"service_type"`
	DurationMinutes          int                  `json:"duration_minutes"`
	Price                    int                  `json:"price"`
	Status                   domain.BookingStatus `json:"status"`
	IsEmergency              bool                 `json:"is_emergency"`
	PaymentStatus            domain.PaymentStatus `json:"payment_status"`
	PaidAt                   *time.Time           `json:"paid_at,omitempty"`
	ScheduledAt              time.Time            `json:"scheduled_at"`
	Note                     string               `json:"note,omitempty"`
	RoomName                 string               `json:"room_name,omitempty"`
	Rated                    bool                 `json:"rated"`
	CreatedAt                time.Time            `json:"created_at"`
	UpdatedAt                time.Time            `json:"updated_at"`
}

// BookingView maps a domain booking to its response shape.
func BookingView(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:                       b.ID,
		UserID:                   b.UserID,
		UserName:                 b.UserName,
		RequestedInterpreterID:   b.RequestedInterpreterID,
		RequestedInterpreterName: b.RequestedInterpreterName,
		AssignedInterpreterID:    b.AssignedInterpreterID,
		AssignedInterpreterName:  b.AssignedInterpreterName,
		ServiceType:              b.ServiceType,
		DurationMinutes:          b.DurationMinutes,
		Price:                    b.Price,
		Status:                   b.Status,
		IsEmergency:              b.IsEmergency,
		PaymentStatus:            b.PaymentStatus,
		PaidAt:                   b.PaidAt,
		ScheduledAt:              b.ScheduledAt,
		Note:                     b.Note,
		RoomName:                 b.RoomName,
		Rated:                    b.Rated,
		CreatedAt:                b.CreatedAt,
		UpdatedAt:                b.UpdatedAt,
	}
}

// BookingViews maps a slice of bookings.
func BookingViews(bookings []domain.Booking) []BookingResponse {
	items := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, BookingView(&bookings[i]))
	}
	return items
}
