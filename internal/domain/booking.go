package domain

import "time"

// ServiceType distinguishes how the interpreting session is delivered.
type ServiceType string

const (
	ServiceInPerson  ServiceType = "inPerson"
	ServiceVideoCall ServiceType = "videoCall"
)

// Valid reports whether the service type is a known value.
func (t ServiceType) Valid() bool {
	return t == ServiceInPerson || t == ServiceVideoCall
}

// BookingStatus enumerates booking lifecycle states.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether the status is a known value.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// ValidBookingTransition reports whether a manager may move a booking from
// one status to another. Every pair of valid states is allowed: un-confirming
// or resurrecting a cancelled booking is a deliberate manager override, not a
// pipeline violation.
func ValidBookingTransition(from, to BookingStatus) bool {
	return from.Valid() && to.Valid()
}

// PaymentStatus tracks the one-way unpaid to paid step. There is no refund
// transition.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// ValidPaymentTransition permits only unpaid -> paid.
func ValidPaymentTransition(from, to PaymentStatus) bool {
	return from == PaymentUnpaid && to == PaymentPaid
}

// Booking is the aggregate for a requested interpreting session.
type Booking struct {
	ID       string
	UserID   string
	UserName string

	// The interpreter the user asked for, if any. Assignment is a separate
	// manager action and may pick someone else.
	RequestedInterpreterID   *string
	RequestedInterpreterName *string
	AssignedInterpreterID    *string
	AssignedInterpreterName  *string

	ServiceType     ServiceType
	DurationMinutes int
	Price           int
	Status          BookingStatus
	IsEmergency     bool

	PaymentStatus PaymentStatus
	PaidAt        *time.Time

	ScheduledAt time.Time
	Note        string
	RoomName    string
	Rated       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
