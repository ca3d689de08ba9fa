package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interpreteya/booking-service/internal/domain"
	"github.com/interpreteya/booking-service/internal/events"
	apperrors "github.com/interpreteya/booking-service/pkg/errorutil"
)

type accountFixture struct {
	svc        *AccountService
	accounts   *fakeAccountRepo
	dispatcher *recordingDispatcher
}

func newAccountFixture() *accountFixture {
	accounts := newFakeAccountRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewAccountService(AccountDependencies{
		AccountRepo: accounts,
		Dispatcher:  dispatcher,
	})
	return &accountFixture{svc: svc, accounts: accounts, dispatcher: dispatcher}
}

func (f *accountFixture) addPending(name string, role domain.Role) *domain.Account {
	account := &domain.Account{DisplayName: name, Role: role}
	account.SetStatus(domain.AccountStatusPending)
	f.accounts.add(account)
	return account
}

func TestDecideApproves(t *testing.T) {
	f := newAccountFixture()
	pending := f.addPending("Maria Perez", domain.RoleDeafUser)

	approved, err := f.svc.Decide(context.Background(), managerSession(), pending.ID, domain.AccountStatusApproved)
	require.NoError(t, err)

	assert.Equal(t, domain.AccountStatusApproved, approved.Status)
	assert.True(t, approved.Approved)
	require.NotNil(t, approved.DecidedAt)
	require.NotNil(t, approved.DecidedByID)
	assert.Equal(t, "mgr-1", *approved.DecidedByID)
	assert.Equal(t, []events.EventType{events.EventAccountDecided}, f.dispatcher.types())
}

func TestDecideCanFlipRejection(t *testing.T) {
	f := newAccountFixture()
	pending := f.addPending("Juan Soto", domain.RoleInterpreter)

	rejected, err := f.svc.Decide(context.Background(), managerSession(), pending.ID, domain.AccountStatusRejected)
	require.NoError(t, err)
	assert.False(t, rejected.Approved)

	// the decision buttons stay live: a rejected account can still be approved
	approved, err := f.svc.Decide(context.Background(), managerSession(), pending.ID, domain.AccountStatusApproved)
	require.NoError(t, err)
	assert.True(t, approved.Approved)
}

func TestDecideRejectsInvalidTarget(t *testing.T) {
	f := newAccountFixture()
	pending := f.addPending("Maria Perez", domain.RoleDeafUser)

	_, err := f.svc.Decide(context.Background(), managerSession(), pending.ID, domain.AccountStatusPending)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)

	_, err = f.svc.Decide(context.Background(), managerSession(), "missing", domain.AccountStatusApproved)
	assert.Equal(t, 404, apperrors.ToDomainError(err).HTTPStatus)
}

func TestSetBlockedToggles(t *testing.T) {
	f := newAccountFixture()
	account := f.addPending("Maria Perez", domain.RoleDeafUser)

	blocked, err := f.svc.SetBlocked(context.Background(), managerSession(), account.ID, true)
	require.NoError(t, err)
	assert.True(t, blocked.Blocked)
	require.NotNil(t, blocked.BlockedAt)
	require.NotNil(t, blocked.BlockedByID)

	unblocked, err := f.svc.SetBlocked(context.Background(), managerSession(), account.ID, false)
	require.NoError(t, err)
	assert.False(t, unblocked.Blocked)
	assert.Nil(t, unblocked.BlockedAt)
	assert.Nil(t, unblocked.BlockedByID)
}

func TestListInterpretersSortsByRating(t *testing.T) {
	f := newAccountFixture()

	low := &domain.Account{DisplayName: "Ana", Role: domain.RoleInterpreter, RatingSum: 3, RatingCount: 1}
	low.SetStatus(domain.AccountStatusApproved)
	f.accounts.add(low)

	high := &domain.Account{DisplayName: "Zoe", Role: domain.RoleInterpreter, RatingSum: 10, RatingCount: 2}
	high.SetStatus(domain.AccountStatusApproved)
	f.accounts.add(high)

	hidden := &domain.Account{DisplayName: "Oculto", Role: domain.RoleInterpreter}
	hidden.SetStatus(domain.AccountStatusPending)
	f.accounts.add(hidden)

	interpreters, err := f.svc.ListInterpreters(context.Background(), "", SortByRating, 50, 0)
	require.NoError(t, err)
	require.Len(t, interpreters, 2)
	assert.Equal(t, "Zoe", interpreters[0].DisplayName)
	assert.Equal(t, "Ana", interpreters[1].DisplayName)
}

func TestSetNightConsent(t *testing.T) {
	f := newAccountFixture()
	account := f.addPending("Maria Perez", domain.RoleDeafUser)

	session := domain.Session{AccountID: account.ID, Role: account.Role}
	updated, err := f.svc.SetNightConsent(context.Background(), session, true)
	require.NoError(t, err)
	assert.True(t, updated.NightConsent)

	updated, err = f.svc.SetNightConsent(context.Background(), session, false)
	require.NoError(t, err)
	assert.False(t, updated.NightConsent)
}
