package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/interpreteya/booking-service/internal/domain"
	"github.com/interpreteya/booking-service/internal/events"
	"github.com/interpreteya/booking-service/internal/repository"
	apperrors "github.com/interpreteya/booking-service/pkg/errorutil"
)

// RatingService records booking evaluations and keeps interpreter aggregates
// in step.
type RatingService struct {
	ratings    repository.RatingRepository
	bookings   repository.BookingRepository
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
}

// RatingDependencies bundles repositories for the rating service.
type RatingDependencies struct {
	RatingRepo  repository.RatingRepository
	BookingRepo repository.BookingRepository
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
}

// NewRatingService constructs the service.
func NewRatingService(deps RatingDependencies) *RatingService {
	return &RatingService{
		ratings:    deps.RatingRepo,
		bookings:   deps.BookingRepo,
		accounts:   deps.AccountRepo,
		dispatcher: deps.Dispatcher,
	}
}

// RateBooking stores a 1..5 star evaluation for the interpreter assigned to
// the caller's booking. One rating per booking per user.
func (s *RatingService) RateBooking(ctx context.Context, session domain.Session, bookingID string, stars int, comment string) (*domain.Rating, error) {
	if stars < 1 || stars > 5 {
		return nil, apperrors.NewValidationError("stars must be between 1 and 5", map[string]any{"stars": stars})
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": bookingID})
		}
		return nil, apperrors.MapError(err)
	}
	if booking.UserID != session.AccountID {
		return nil, apperrors.NewForbidden("access denied")
	}
	if booking.AssignedInterpreterID == nil {
		return nil, apperrors.NewConflict("booking has no assigned interpreter yet", nil)
	}

	if _, err := s.ratings.GetForBookingByUser(ctx, bookingID, session.AccountID); err == nil {
		return nil, apperrors.NewConflict("booking already rated", nil)
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	rating := &domain.Rating{
		BookingID:     booking.ID,
		UserID:        session.AccountID,
		InterpreterID: *booking.AssignedInterpreterID,
		Stars:         stars,
		Comment:       strings.TrimSpace(comment),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.accounts.AddRating(ctx, rating.InterpreterID, stars); err != nil {
		return nil, apperrors.MapError(err)
	}

	booking.Rated = true
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventRatingAdded,
		SubjectID: booking.ID,
		Actor:     events.Actor{AccountID: session.AccountID, Role: session.Role},
		Payload: events.RatingAddedPayload{
			RatingID:      rating.ID,
			InterpreterID: rating.InterpreterID,
			Stars:         stars,
		},
	})
	return rating, nil
}

// ListForInterpreter returns recent ratings for an interpreter.
func (s *RatingService) ListForInterpreter(ctx context.Context, interpreterID string, limit int) ([]domain.Rating, error) {
	ratings, err := s.ratings.ListByInterpreter(ctx, interpreterID, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ratings, nil
}

func (s *RatingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
