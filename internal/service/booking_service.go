package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/interpreteya/booking-service/internal/domain"
	"github.com/interpreteya/booking-service/internal/events"
	"github.com/interpreteya/booking-service/internal/pricing"
	"github.com/interpreteya/booking-service/internal/repository"
	"github.com/interpreteya/booking-service/internal/stream"
	apperrors "github.com/interpreteya/booking-service/pkg/errorutil"
)

// BookingService coordinates booking workflows.
type BookingService struct {
	bookings   repository.BookingRepository
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
	feed       *stream.Feed
}

// BookingDependencies bundles repositories for the booking service.
type BookingDependencies struct {
	BookingRepo repository.BookingRepository
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
	Feed        *stream.Feed
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	return &BookingService{
		bookings:   deps.BookingRepo,
		accounts:   deps.AccountRepo,
		dispatcher: deps.Dispatcher,
		feed:       deps.Feed,
	}
}

// BookingCreateInput describes a scheduled booking request.
type BookingCreateInput struct {
	ServiceType            domain.ServiceType
	DurationMinutes        int
	ScheduledAt            time.Time
	Note                   string
	RequestedInterpreterID *string
}

// UrgentCreateInput describes an urgent request: scheduled now, optionally
// with a preferred interpreter.
type UrgentCreateInput struct {
	ServiceType            domain.ServiceType
	DurationMinutes        int
	Note                   string
	RequestedInterpreterID *string
}

// BookingListFilter narrows manager booking listings.
type BookingListFilter struct {
	Statuses        []domain.BookingStatus
	ServiceType     *domain.ServiceType
	OnlyEmergencies bool
	OnlyPaid        bool
	ScheduledFrom   *time.Time
	ScheduledTo     *time.Time
	Limit           int
	Offset          int
}

// BookingStats summarizes a booking listing for the manager dashboard.
type BookingStats struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	Confirmed   int `json:"confirmed"`
	Cancelled   int `json:"cancelled"`
	Paid        int `json:"paid"`
	Emergencies int `json:"emergencies"`
}

// Create registers a scheduled booking for the caller. The price is always
// computed server side from the duration table.
func (s *BookingService) Create(ctx context.Context, requester *domain.Account, input BookingCreateInput) (*domain.Booking, error) {
	if input.ScheduledAt.IsZero() {
		return nil, apperrors.NewValidationError("scheduled_at required", nil)
	}
	booking, err := s.buildBooking(ctx, requester, input.ServiceType, input.DurationMinutes, input.ScheduledAt, input.Note, input.RequestedInterpreterID, false)
	if err != nil {
		return nil, err
	}
	return s.persistNew(ctx, requester, booking)
}

// CreateEmergency registers the one-tap emergency booking: ten minutes of
// video call, scheduled immediately.
func (s *BookingService) CreateEmergency(ctx context.Context, requester *domain.Account) (*domain.Booking, error) {
	booking, err := s.buildBooking(ctx, requester, domain.ServiceVideoCall, 10, time.Now(), "Emergency request", nil, true)
	if err != nil {
		return nil, err
	}
	return s.persistNew(ctx, requester, booking)
}

// CreateUrgent registers an urgent booking scheduled now, keeping the
// caller's preferred interpreter as a request, not an assignment.
func (s *BookingService) CreateUrgent(ctx context.Context, requester *domain.Account, input UrgentCreateInput) (*domain.Booking, error) {
	booking, err := s.buildBooking(ctx, requester, input.ServiceType, input.DurationMinutes, time.Now(), input.Note, input.RequestedInterpreterID, true)
	if err != nil {
		return nil, err
	}
	return s.persistNew(ctx, requester, booking)
}

func (s *BookingService) buildBooking(ctx context.Context, requester *domain.Account, serviceType domain.ServiceType, minutes int, scheduledAt time.Time, note string, requestedID *string, emergency bool) (*domain.Booking, error) {
	if !serviceType.Valid() {
		return nil, apperrors.NewValidationError("unknown service type", map[string]any{"service_type": serviceType})
	}
	if !pricing.Supported(minutes) {
		return nil, apperrors.NewValidationError("unsupported duration", map[string]any{
			"duration_minutes": minutes,
			"supported":        pricing.Durations(),
		})
	}

	booking := &domain.Booking{
		UserID:          requester.ID,
		UserName:        requester.DisplayName,
		ServiceType:     serviceType,
		DurationMinutes: minutes,
		Price:           pricing.PriceFor(minutes),
		Status:          domain.BookingStatusPending,
		IsEmergency:     emergency,
		PaymentStatus:   domain.PaymentUnpaid,
		ScheduledAt:     scheduledAt,
		Note:            strings.TrimSpace(note),
	}
	if serviceType == domain.ServiceVideoCall {
		booking.RoomName = videoRoomName(requester.ID)
	}

	if requestedID != nil && *requestedID != "" {
		interpreter, err := s.accounts.GetByID(ctx, *requestedID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("interpreter", map[string]any{"interpreter_id": *requestedID})
			}
			return nil, apperrors.MapError(err)
		}
		if interpreter.Role != domain.RoleInterpreter {
			return nil, apperrors.NewValidationError("requested account is not an interpreter", nil)
		}
		booking.RequestedInterpreterID = &interpreter.ID
		booking.RequestedInterpreterName = &interpreter.DisplayName
	}
	return booking, nil
}

func (s *BookingService) persistNew(ctx context.Context, requester *domain.Account, booking *domain.Booking) (*domain.Booking, error) {
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventBookingCreated,
		SubjectID: booking.ID,
		Actor:     events.Actor{AccountID: requester.ID, Role: requester.Role},
		Payload: events.BookingCreatedPayload{
			ServiceType:     booking.ServiceType,
			DurationMinutes: booking.DurationMinutes,
			Price:           booking.Price,
			IsEmergency:     booking.IsEmergency,
			ScheduledAt:     booking.ScheduledAt,
		},
	})
	s.feed.Publish(ctx, stream.CollectionBookings, stream.KindAppend, booking.ID, booking)
	return booking, nil
}

// ListOwn returns the caller's bookings, newest first.
func (s *BookingService) ListOwn(ctx context.Context, session domain.Session, limit, offset int) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByUser(ctx, session.AccountID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return bookings, nil
}

// GetOwn fetches a booking ensuring ownership.
func (s *BookingService) GetOwn(ctx context.Context, session domain.Session, bookingID string) (*domain.Booking, error) {
	booking, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != session.AccountID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return booking, nil
}

// Pay applies the demo payment step: unpaid to paid, and the booking is
// confirmed in the same stroke.
func (s *BookingService) Pay(ctx context.Context, session domain.Session, bookingID string) (*domain.Booking, error) {
	booking, err := s.GetOwn(ctx, session, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Price <= 0 {
		return nil, apperrors.NewValidationError("booking has no payable price", nil)
	}
	if !domain.ValidPaymentTransition(booking.PaymentStatus, domain.PaymentPaid) {
		return nil, apperrors.NewConflict("booking already paid", nil)
	}

	now := time.Now()
	booking.PaymentStatus = domain.PaymentPaid
	booking.PaidAt = &now
	booking.Status = domain.BookingStatusConfirmed
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventBookingPaid,
		SubjectID: booking.ID,
		Actor:     events.Actor{AccountID: session.AccountID, Role: session.Role},
		Payload:   events.BookingPaidPayload{Price: booking.Price, PaidAt: now},
	})
	s.feed.Publish(ctx, stream.CollectionBookings, stream.KindUpdate, booking.ID, booking)
	return booking, nil
}

// ListForManager returns bookings matching the filter plus a stats summary
// over the returned page.
func (s *BookingService) ListForManager(ctx context.Context, filter BookingListFilter) ([]domain.Booking, BookingStats, error) {
	bookings, err := s.bookings.ListWithFilter(ctx, repository.BookingFilter{
		Statuses:        filter.Statuses,
		ServiceType:     filter.ServiceType,
		OnlyEmergencies: filter.OnlyEmergencies,
		OnlyPaid:        filter.OnlyPaid,
		ScheduledFrom:   filter.ScheduledFrom,
		ScheduledTo:     filter.ScheduledTo,
		Limit:           filter.Limit,
		Offset:          filter.Offset,
	})
	if err != nil {
		return nil, BookingStats{}, apperrors.MapError(err)
	}

	stats := BookingStats{Total: len(bookings)}
	for i := range bookings {
		switch bookings[i].Status {
		case domain.BookingStatusPending:
			stats.Pending++
		case domain.BookingStatusConfirmed:
			stats.Confirmed++
		case domain.BookingStatusCancelled:
			stats.Cancelled++
		}
		if bookings[i].PaymentStatus == domain.PaymentPaid {
			stats.Paid++
		}
		if bookings[i].IsEmergency {
			stats.Emergencies++
		}
	}
	return bookings, stats, nil
}

// SetStatus applies a manager status change. Any valid state may follow any
// other: un-confirming or reviving a cancelled booking is allowed.
func (s *BookingService) SetStatus(ctx context.Context, manager domain.Session, bookingID string, status domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.ValidBookingTransition(booking.Status, status) {
		return nil, apperrors.NewValidationError("unknown booking status", map[string]any{"status": status})
	}
	oldStatus := booking.Status
	booking.Status = status
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventBookingStatusChanged,
		SubjectID: booking.ID,
		Actor:     events.Actor{AccountID: manager.AccountID, Role: manager.Role},
		Payload: events.BookingStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
		},
	})
	s.feed.Publish(ctx, stream.CollectionBookings, stream.KindUpdate, booking.ID, booking)
	return booking, nil
}

// Assign sets the interpreter working the booking.
func (s *BookingService) Assign(ctx context.Context, manager domain.Session, bookingID, interpreterID string) (*domain.Booking, error) {
	booking, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	interpreter, err := s.accounts.GetByID(ctx, interpreterID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("interpreter", map[string]any{"interpreter_id": interpreterID})
		}
		return nil, apperrors.MapError(err)
	}
	if interpreter.Role != domain.RoleInterpreter {
		return nil, apperrors.NewValidationError("account is not an interpreter", nil)
	}
	if !interpreter.Approved || interpreter.Blocked {
		return nil, apperrors.NewConflict("interpreter not available for assignment", nil)
	}

	booking.AssignedInterpreterID = &interpreter.ID
	booking.AssignedInterpreterName = &interpreter.DisplayName
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventBookingAssigned,
		SubjectID: booking.ID,
		Actor:     events.Actor{AccountID: manager.AccountID, Role: manager.Role},
		Payload: events.BookingAssignedPayload{
			InterpreterID:   booking.AssignedInterpreterID,
			InterpreterName: booking.AssignedInterpreterName,
		},
	})
	s.feed.Publish(ctx, stream.CollectionBookings, stream.KindUpdate, booking.ID, booking)
	return booking, nil
}

// Unassign clears the interpreter assignment.
func (s *BookingService) Unassign(ctx context.Context, manager domain.Session, bookingID string) (*domain.Booking, error) {
	booking, err := s.get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	booking.AssignedInterpreterID = nil
	booking.AssignedInterpreterName = nil
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventBookingAssigned,
		SubjectID: booking.ID,
		Actor:     events.Actor{AccountID: manager.AccountID, Role: manager.Role},
		Payload:   events.BookingAssignedPayload{},
	})
	s.feed.Publish(ctx, stream.CollectionBookings, stream.KindUpdate, booking.ID, booking)
	return booking, nil
}

// ExportCSV renders the filtered bookings as a CSV document.
func (s *BookingService) ExportCSV(ctx context.Context, filter BookingListFilter) ([]byte, error) {
	bookings, _, err := s.ListForManager(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "created_at", "scheduled_at", "user", "service_type", "minutes", "price", "status", "emergency", "interpreter", "paid"})
	for i := range bookings {
		b := &bookings[i]
		interpreter := ""
		if b.AssignedInterpreterName != nil {
			interpreter = *b.AssignedInterpreterName
		} else if b.AssignedInterpreterID != nil {
			interpreter = *b.AssignedInterpreterID
		}
		paid := "no"
		if b.PaymentStatus == domain.PaymentPaid {
			paid = "yes"
		}
		_ = w.Write([]string{
			b.ID,
			b.CreatedAt.Format(time.RFC3339),
			b.ScheduledAt.Format(time.RFC3339),
			b.UserName,
			string(b.ServiceType),
			strconv.Itoa(b.DurationMinutes),
			strconv.Itoa(b.Price),
			string(b.Status),
			strconv.FormatBool(b.IsEmergency),
			interpreter,
			paid,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperrors.MapError(err)
	}
	return buf.Bytes(), nil
}

func (s *BookingService) get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": bookingID})
		}
		return nil, apperrors.MapError(err)
	}
	return booking, nil
}

func videoRoomName(userID string) string {
	short := userID
	if len(short) > 6 {
		short = short[:6]
	}
	suffix := strings.ToLower(uuid.NewString()[:5])
	return fmt.Sprintf("interpreteya-%s-%s", short, suffix)
}

func (s *BookingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
