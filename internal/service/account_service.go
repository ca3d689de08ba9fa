package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/interpreteya/booking-service/internal/domain"
	"github.com/interpreteya/booking-service/internal/events"
	"github.com/interpreteya/booking-service/internal/repository"
	"github.com/interpreteya/booking-service/internal/stream"
	apperrors "github.com/interpreteya/booking-service/pkg/errorutil"
)

// AccountService covers profile access, the interpreter directory and the
// manager approval queue.
type AccountService struct {
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
	feed       *stream.Feed
}

// AccountDependencies bundles requirements for the account service.
type AccountDependencies struct {
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
	Feed        *stream.Feed
}

// NewAccountService constructs the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	return &AccountService{
		accounts:   deps.AccountRepo,
		dispatcher: deps.Dispatcher,
		feed:       deps.Feed,
	}
}

// GetAccount fetches an account by id.
func (s *AccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("account", map[string]any{"account_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// SetNightConsent toggles the caller's consent to night-time emergency calls.
func (s *AccountService) SetNightConsent(ctx context.Context, session domain.Session, consent bool) (*domain.Account, error) {
	account, err := s.GetAccount(ctx, session.AccountID)
	if err != nil {
		return nil, err
	}
	account.NightConsent = consent
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.feed.Publish(ctx, stream.CollectionAccounts, stream.KindUpdate, account.ID, account)
	return account, nil
}

// InterpreterSort orders the interpreter directory.
type InterpreterSort string

const (
	SortByRating InterpreterSort = "rating"
	SortByName   InterpreterSort = "name"
)

// ListInterpreters returns the approved interpreter directory, filtered by a
// name query and sorted by rating or name.
func (s *AccountService) ListInterpreters(ctx context.Context, nameQuery string, sortBy InterpreterSort, limit, offset int) ([]domain.Account, error) {
	interpreters, err := s.accounts.ListInterpreters(ctx, repository.InterpreterFilter{
		NameQuery: strings.TrimSpace(nameQuery),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if sortBy != SortByName {
		sort.SliceStable(interpreters, func(i, j int) bool {
			return interpreters[i].AverageRating() > interpreters[j].AverageRating()
		})
	}
	return interpreters, nil
}

// ListPendingAccounts returns the manager approval queue, oldest first.
func (s *AccountService) ListPendingAccounts(ctx context.Context, limit int) ([]domain.Account, error) {
	accounts, err := s.accounts.ListByStatus(ctx, domain.AccountStatusPending, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return accounts, nil
}

// ListBlockedAccounts returns currently blocked accounts.
func (s *AccountService) ListBlockedAccounts(ctx context.Context, limit int) ([]domain.Account, error) {
	accounts, err := s.accounts.ListBlocked(ctx, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return accounts, nil
}

// Decide applies a manager approval decision. The decision buttons are not
// state gated: a rejected account may still be approved afterwards.
func (s *AccountService) Decide(ctx context.Context, manager domain.Session, accountID string, decision domain.AccountStatus) (*domain.Account, error) {
	if !domain.ValidAccountDecision(decision) {
		return nil, apperrors.NewValidationError("decision must be approved or rejected", nil)
	}

	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	oldStatus := account.Status

	now := time.Now()
	account.SetStatus(decision)
	account.DecidedAt = &now
	account.DecidedByID = &manager.AccountID
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountDecided,
		SubjectID: account.ID,
		Actor:     events.Actor{AccountID: manager.AccountID, Role: manager.Role},
		Payload: events.AccountDecidedPayload{
			OldStatus: oldStatus,
			NewStatus: account.Status,
		},
	})
	s.feed.Publish(ctx, stream.CollectionAccounts, stream.KindUpdate, account.ID, account)
	return account, nil
}

// SetBlocked toggles the orthogonal blocked flag from any approval state.
func (s *AccountService) SetBlocked(ctx context.Context, manager domain.Session, accountID string, blocked bool) (*domain.Account, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.Blocked = blocked
	if blocked {
		now := time.Now()
		account.BlockedAt = &now
		account.BlockedByID = &manager.AccountID
	} else {
		account.BlockedAt = nil
		account.BlockedByID = nil
	}
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountBlockToggled,
		SubjectID: account.ID,
		Actor:     events.Actor{AccountID: manager.AccountID, Role: manager.Role},
		Payload:   events.AccountBlockToggledPayload{Blocked: blocked},
	})
	s.feed.Publish(ctx, stream.CollectionAccounts, stream.KindUpdate, account.ID, account)
	return account, nil
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
