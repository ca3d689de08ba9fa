package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interpreteya/booking-service/internal/config"
	"github.com/interpreteya/booking-service/internal/domain"
	"github.com/interpreteya/booking-service/internal/events"
	apperrors "github.com/interpreteya/booking-service/pkg/errorutil"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              4,
		},
	}
}

func newAuthFixture() (*AuthService, *fakeAccountRepo, *fakeResetRepo, *recordingDispatcher) {
	accounts := newFakeAccountRepo()
	resets := newFakeResetRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewAuthService(testConfig(), AuthDependencies{
		AccountRepo:       accounts,
		PasswordResetRepo: resets,
		Dispatcher:        dispatcher,
	})
	return svc, accounts, resets, dispatcher
}

func validRegistration() RegisterInput {
	return RegisterInput{
		DisplayName:          "Maria Perez",
		Email:                "Maria@Example.com",
		Password:             "secret1",
		Rut:                  "12.345.678-5",
		Phone:                "+56 9 1234 5678",
		DisabilityCredential: "cred-123",
		DeafnessType:         "profound",
	}
}

func TestRegisterDeafUser(t *testing.T) {
	svc, _, _, dispatcher := newAuthFixture()

	account, token, exp, err := svc.RegisterDeafUser(context.Background(), validRegistration())
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	assert.Equal(t, domain.RoleDeafUser, account.Role)
	assert.Equal(t, domain.AccountStatusPending, account.Status)
	assert.False(t, account.Approved)
	assert.Equal(t, "maria@example.com", account.Email)
	assert.Equal(t, "12.345.678-5", account.Rut)
	assert.Equal(t, "+56912345678", account.Phone)
	assert.Equal(t, "+56 9 1234 5678", account.PhoneDisplay)
	require.NotNil(t, account.PendingUntil)
	assert.True(t, account.PendingUntil.After(time.Now()))
	wd := account.PendingUntil.Weekday()
	assert.NotEqual(t, time.Saturday, wd)
	assert.NotEqual(t, time.Sunday, wd)

	assert.Equal(t, []events.EventType{events.EventAccountRegistered}, dispatcher.types())
}

func TestRegisterRejectsBadRut(t *testing.T) {
	svc, accounts, _, dispatcher := newAuthFixture()

	input := validRegistration()
	input.Rut = "12345678-4"
	_, _, _, err := svc.RegisterDeafUser(context.Background(), input)
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 400, domainErr.HTTPStatus)
	assert.Contains(t, domainErr.Details, "rut")

	// nothing persisted and nothing published
	assert.Empty(t, accounts.accounts)
	assert.Empty(t, dispatcher.types())
}

func TestRegisterAcceptsForeignID(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	// does not match the chilean RUT shape, so no checksum is enforced
	input := validRegistration()
	input.Rut = "X1234567"
	account, _, _, err := svc.RegisterDeafUser(context.Background(), input)
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	_, _, _, err := svc.RegisterDeafUser(context.Background(), validRegistration())
	require.NoError(t, err)

	_, _, _, err = svc.RegisterDeafUser(context.Background(), validRegistration())
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)
}

func TestRegisterInterpreterSkipsProfileRequirement(t *testing.T) {
	svc, _, _, _ := newAuthFixture()

	input := validRegistration()
	input.Email = "interpreter@example.com"
	input.DisabilityCredential = ""
	input.DeafnessType = ""
	account, _, _, err := svc.RegisterInterpreter(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleInterpreter, account.Role)
	assert.Equal(t, domain.AccountStatusPending, account.Status)
}

func TestLogin(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	registered, _, _, err := svc.RegisterDeafUser(context.Background(), validRegistration())
	require.NoError(t, err)

	account, token, _, err := svc.Login(context.Background(), "maria@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, account.ID)
	assert.NotEmpty(t, token)

	_, _, _, err = svc.Login(context.Background(), "maria@example.com", "wrong")
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)

	_, _, _, err = svc.Login(context.Background(), "nobody@example.com", "secret1")
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)
}

func TestLoginBlockedAccount(t *testing.T) {
	svc, accounts, _, _ := newAuthFixture()
	registered, _, _, err := svc.RegisterDeafUser(context.Background(), validRegistration())
	require.NoError(t, err)

	stored := accounts.accounts[registered.ID]
	stored.Blocked = true

	_, _, _, err = svc.Login(context.Background(), "maria@example.com", "secret1")
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

func TestLoginByRut(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	registered, _, _, err := svc.RegisterDeafUser(context.Background(), validRegistration())
	require.NoError(t, err)

	// every spelling of the same RUT resolves the account
	for _, rut := range []string{"12.345.678-5", "12345678-5", "123456785"} {
		account, token, _, err := svc.LoginByRut(context.Background(), rut, "secret1")
		require.NoError(t, err, "rut %s", rut)
		assert.Equal(t, registered.ID, account.ID)
		assert.NotEmpty(t, token)
	}

	_, _, _, err = svc.LoginByRut(context.Background(), "12.345.678-5", "wrong")
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)

	_, _, _, err = svc.LoginByRut(context.Background(), "7.608.642-7", "secret1")
	assert.Equal(t, 401, apperrors.ToDomainError(err).HTTPStatus)

	_, _, _, err = svc.LoginByRut(context.Background(), "", "secret1")
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}

func TestLoginByRutBlockedAccount(t *testing.T) {
	svc, accounts, _, _ := newAuthFixture()
	registered, _, _, err := svc.RegisterDeafUser(context.Background(), validRegistration())
	require.NoError(t, err)

	stored := accounts.accounts[registered.ID]
	stored.Blocked = true

	_, _, _, err = svc.LoginByRut(context.Background(), "123456785", "secret1")
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

func TestLoginManagerRequiresManagerRole(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	_, _, _, err := svc.RegisterDeafUser(context.Background(), validRegistration())
	require.NoError(t, err)

	_, _, _, err = svc.LoginManager(context.Background(), "maria@example.com", "secret1")
	assert.Equal(t, 403, apperrors.ToDomainError(err).HTTPStatus)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	_, _, _, err := svc.RegisterDeafUser(context.Background(), validRegistration())
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(context.Background(), "maria@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token.Token)

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), token.Token, "newpass1"))

	_, _, _, err = svc.Login(context.Background(), "maria@example.com", "secret1")
	require.Error(t, err)
	_, _, _, err = svc.Login(context.Background(), "maria@example.com", "newpass1")
	require.NoError(t, err)
}

func TestSeedManager(t *testing.T) {
	svc, accounts, _, _ := newAuthFixture()

	manager, err := svc.SeedManager(context.Background(), config.ManagerConfig{
		SeedEmail:    "gerente@example.com",
		SeedPassword: "gerente1",
		SeedName:     "Gerente",
	})
	require.NoError(t, err)
	require.NotNil(t, manager)
	assert.Equal(t, domain.RoleManager, manager.Role)
	assert.True(t, manager.Approved)

	// seeding twice keeps the existing account
	again, err := svc.SeedManager(context.Background(), config.ManagerConfig{
		SeedEmail:    "gerente@example.com",
		SeedPassword: "gerente1",
		SeedName:     "Gerente",
	})
	require.NoError(t, err)
	assert.Equal(t, manager.ID, again.ID)
	assert.Len(t, accounts.accounts, 1)

	// no config, no seed
	none, err := svc.SeedManager(context.Background(), config.ManagerConfig{})
	require.NoError(t, err)
	assert.Nil(t, none)
}
