package dto

import (
	"time"

	"github.com/interpreteya/booking-service/internal/domain"
)

// CreateRatingRequest payload.
type CreateRatingRequest struct {
	Stars   int    `json:"stars" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// RatingResponse view.
type RatingResponse struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"booking_id"`
	InterpreterID string    `json:"interpreter_id"`
	Stars         int       `json:"stars"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// RatingView maps a domain rating to its response shape.
func RatingView(r *domain.Rating) RatingResponse {
	return RatingResponse{
		ID:            r.ID,
		BookingID:     r.BookingID,
		InterpreterID: r.InterpreterID,
		Stars:         r.Stars,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt,
	}
}
