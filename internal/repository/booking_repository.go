package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/interpreteya/booking-service/internal/domain"
)

// BookingFilter captures manager search parameters.
type BookingFilter struct {
	UserID                *string
	AssignedInterpreterID *string
	Statuses              []domain.BookingStatus
	ServiceType           *domain.ServiceType
	OnlyEmergencies       bool
	OnlyPaid              bool
	ScheduledFrom         *time.Time
	ScheduledTo           *time.Time
	Limit                 int
	Offset                int
}

// BookingRepository encapsulates booking persistence.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	Update(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Booking, error)
	ListWithFilter(ctx context.Context, filter BookingFilter) ([]domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates the repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingColumns = `
        id, user_id, user_name, requested_interpreter_id, requested_interpreter_name,
        assigned_interpreter_id, assigned_interpreter_name, service_type, duration_minutes,
        price, status, is_emergency, payment_status, paid_at, scheduled_at, note, room_name,
        rated, created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	const query = `
        INSERT INTO bookings (
            user_id, user_name, requested_interpreter_id, requested_interpreter_name,
            assigned_interpreter_id, assigned_interpreter_name, service_type, duration_minutes,
            price, status, is_emergency, payment_status, paid_at, scheduled_at, note, room_name, rated)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		booking.UserID,
		booking.UserName,
		booking.RequestedInterpreterID,
		booking.RequestedInterpreterName,
		booking.AssignedInterpreterID,
		booking.AssignedInterpreterName,
		booking.ServiceType,
		booking.DurationMinutes,
		booking.Price,
		booking.Status,
		booking.IsEmergency,
		booking.PaymentStatus,
		booking.PaidAt,
		booking.ScheduledAt,
		booking.Note,
		booking.RoomName,
		booking.Rated,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *bookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	const query = `
        UPDATE bookings SET
            requested_interpreter_id=$1, requested_interpreter_name=$2,
            assigned_interpreter_id=$3, assigned_interpreter_name=$4,
            status=$5, payment_status=$6, paid_at=$7, scheduled_at=$8, note=$9,
            room_name=$10, rated=$11, updated_at=NOW()
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		booking.RequestedInterpreterID,
		booking.RequestedInterpreterName,
		booking.AssignedInterpreterID,
		booking.AssignedInterpreterName,
		booking.Status,
		booking.PaymentStatus,
		booking.PaidAt,
		booking.ScheduledAt,
		booking.Note,
		booking.RoomName,
		booking.Rated,
		booking.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var booking domain.Booking
	if err := scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id), &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Booking, error) {
	filter := BookingFilter{
		UserID: &userID,
		Limit:  limit,
		Offset: offset,
	}
	return r.ListWithFilter(ctx, filter)
}

func (r *bookingRepository) ListWithFilter(ctx context.Context, filter BookingFilter) ([]domain.Booking, error) {
	base := `SELECT ` + bookingColumns + ` FROM bookings`
	clauses := []string{"1=1"}
	args := []any{}
	idx := 1

	add := func(clause string, value any) {
		clauses = append(clauses, fmt.Sprintf(clause, idx))
		args = append(args, value)
		idx++
	}

	if filter.UserID != nil {
		add("user_id=$%d", *filter.UserID)
	}
	if filter.AssignedInterpreterID != nil {
		add("assigned_interpreter_id=$%d", *filter.AssignedInterpreterID)
	}
	if len(filter.Statuses) > 0 {
		add("status = ANY($%d)", filter.Statuses)
	}
	if filter.ServiceType != nil {
		add("service_type=$%d", *filter.ServiceType)
	}
	if filter.OnlyEmergencies {
		clauses = append(clauses, "is_emergency")
	}
	if filter.OnlyPaid {
		add("payment_status=$%d", domain.PaymentPaid)
	}
	if filter.ScheduledFrom != nil {
		add("scheduled_at >= $%d", *filter.ScheduledFrom)
	}
	if filter.ScheduledTo != nil {
		add("scheduled_at <= $%d", *filter.ScheduledTo)
	}

	query := base + " WHERE " + strings.Join(clauses, " AND ") + " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, normalizeLimit(filter.Limit), filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var booking domain.Booking
		if err := scanBooking(rows, &booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func scanBooking(row pgx.Row, booking *domain.Booking) error {
	return row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.UserName,
		&booking.RequestedInterpreterID,
		&booking.RequestedInterpreterName,
		&booking.AssignedInterpreterID,
		&booking.AssignedInterpreterName,
		&booking.ServiceType,
		&booking.DurationMinutes,
		&booking.Price,
		&booking.Status,
		&booking.IsEmergency,
		&booking.PaymentStatus,
		&booking.PaidAt,
		&booking.ScheduledAt,
		&booking.Note,
		&booking.RoomName,
		&booking.Rated,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
}
