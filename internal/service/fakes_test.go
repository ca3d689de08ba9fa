package service

import (
	"context"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/interpreteya/booking-service/internal/domain"
	"github.com/interpreteya/booking-service/internal/events"
	"github.com/interpreteya/booking-service/internal/repository"
)

// fakeAccountRepo is an in-memory AccountRepository for service tests.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	seq      int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]*domain.Account{}}
}

func (r *fakeAccountRepo) add(account *domain.Account) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID == "" {
		r.seq++
		account.ID = "acc-" + strconv.Itoa(r.seq)
	}
	copied := *account
	r.accounts[account.ID] = &copied
	return account
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.add(account)
	return nil
}

func (r *fakeAccountRepo) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAccountRepo) GetByRut(_ context.Context, rut string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Rut == rut {
			copied := *account
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAccountRepo) ListByStatus(_ context.Context, status domain.AccountStatus, _ int) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Account
	for _, account := range r.accounts {
		if account.Status == status && account.Role != domain.RoleManager {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) ListBlocked(_ context.Context, _ int) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Account
	for _, account := range r.accounts {
		if account.Blocked {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) ListInterpreters(_ context.Context, filter repository.InterpreterFilter) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Account
	for _, account := range r.accounts {
		if account.Role == domain.RoleInterpreter && account.Status == domain.AccountStatusApproved && !account.Blocked {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) AddRating(_ context.Context, interpreterID string, stars int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[interpreterID]
	if !ok || account.Role != domain.RoleInterpreter {
		return pgx.ErrNoRows
	}
	account.RatingSum += stars
	account.RatingCount++
	return nil
}

// fakeBookingRepo is an in-memory BookingRepository.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking
	seq      int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[string]*domain.Booking{}}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	booking.ID = "bk-" + strconv.Itoa(r.seq)
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[booking.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *booking
	r.bookings[booking.ID] = &copied
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, booking := range r.bookings {
		if booking.UserID == userID {
			out = append(out, *booking)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListWithFilter(_ context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Booking
	for _, booking := range r.bookings {
		if filter.UserID != nil && booking.UserID != *filter.UserID {
			continue
		}
		if filter.OnlyEmergencies && !booking.IsEmergency {
			continue
		}
		if filter.OnlyPaid && booking.PaymentStatus != domain.PaymentPaid {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, status := range filter.Statuses {
				if booking.Status == status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, *booking)
	}
	return out, nil
}

// fakeRatingRepo is an in-memory RatingRepository.
type fakeRatingRepo struct {
	mu      sync.Mutex
	ratings []domain.Rating
	seq     int
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{}
}

func (r *fakeRatingRepo) Create(_ context.Context, rating *domain.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	rating.ID = "rt-" + strconv.Itoa(r.seq)
	r.ratings = append(r.ratings, *rating)
	return nil
}

func (r *fakeRatingRepo) GetForBookingByUser(_ context.Context, bookingID, userID string) (*domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.ratings {
		if r.ratings[i].BookingID == bookingID && r.ratings[i].UserID == userID {
			copied := r.ratings[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeRatingRepo) ListByInterpreter(_ context.Context, interpreterID string, _ int) ([]domain.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Rating
	for i := range r.ratings {
		if r.ratings[i].InterpreterID == interpreterID {
			out = append(out, r.ratings[i])
		}
	}
	return out, nil
}

// fakeResetRepo is an in-memory PasswordResetRepository.
type fakeResetRepo struct {
	mu     sync.Mutex
	tokens map[string]*repository.PasswordResetToken
	seq    int
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: map[string]*repository.PasswordResetToken{}}
}

func (r *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	token.ID = "rst-" + strconv.Itoa(r.seq)
	copied := *token
	r.tokens[token.Token] = &copied
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *token
	return &copied, nil
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.ID == id {
			now := token.ExpiresAt
			token.UsedAt = &now
			return nil
		}
	}
	return nil
}

// recordingDispatcher captures published events in order.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, event := range d.events {
		out = append(out, event.Type)
	}
	return out
}
