package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/interpreteya/booking-service/internal/domain"
)

// RatingRepository persists booking evaluations.
type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	GetForBookingByUser(ctx context.Context, bookingID, userID string) (*domain.Rating, error)
	ListByInterpreter(ctx context.Context, interpreterID string, limit int) ([]domain.Rating, error)
}

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository constructs the repository.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	const query = `
        INSERT INTO ratings (booking_id, user_id, interpreter_id, stars, comment)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		rating.BookingID,
		rating.UserID,
		rating.InterpreterID,
		rating.Stars,
		rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt)
}

func (r *ratingRepository) GetForBookingByUser(ctx context.Context, bookingID, userID string) (*domain.Rating, error) {
	const query = `
        SELECT id, booking_id, user_id, interpreter_id, stars, comment, created_at
        FROM ratings WHERE booking_id=$1 AND user_id=$2`
	var rating domain.Rating
	if err := r.pool.QueryRow(ctx, query, bookingID, userID).Scan(
		&rating.ID,
		&rating.BookingID,
		&rating.UserID,
		&rating.InterpreterID,
		&rating.Stars,
		&rating.Comment,
		&rating.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListByInterpreter(ctx context.Context, interpreterID string, limit int) ([]domain.Rating, error) {
	const query = `
        SELECT id, booking_id, user_id, interpreter_id, stars, comment, created_at
        FROM ratings WHERE interpreter_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, interpreterID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []domain.Rating
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(
			&rating.ID,
			&rating.BookingID,
			&rating.UserID,
			&rating.InterpreterID,
			&rating.Stars,
			&rating.Comment,
			&rating.CreatedAt,
		); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}
