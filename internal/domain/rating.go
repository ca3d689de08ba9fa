package domain

import "time"

// Rating is a user's evaluation of the interpreter assigned to a booking.
// At most one rating per user per booking.
type Rating struct {
	ID            string
	BookingID     string
	UserID        string
	InterpreterID string
	Stars         int // 1..5
	Comment       string
	CreatedAt     time.Time
}
