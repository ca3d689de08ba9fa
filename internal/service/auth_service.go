package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/interpreteya/booking-service/internal/auth"
	"github.com/interpreteya/booking-service/internal/config"
	"github.com/interpreteya/booking-service/internal/domain"
	"github.com/interpreteya/booking-service/internal/events"
	"github.com/interpreteya/booking-service/internal/repository"
	"github.com/interpreteya/booking-service/internal/stream"
	"github.com/interpreteya/booking-service/pkg/dateutil"
	apperrors "github.com/interpreteya/booking-service/pkg/errorutil"
	"github.com/interpreteya/booking-service/pkg/identity"
)

// Accounts wait this many business days for a manager decision.
const approvalBusinessDays = 3

// Inputs that look like a Chilean RUT must carry a valid check digit; other
// national IDs pass through unformatted.
var rutShape = regexp.MustCompile(`^\d{6,9}[0-9K]$`)

// AuthService coordinates registration and login flows.
type AuthService struct {
	accounts   repository.AccountRepository
	resets     repository.PasswordResetRepository
	dispatcher events.Dispatcher
	feed       *stream.Feed
	tokenMgr   *auth.TokenManager
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	AccountRepo       repository.AccountRepository
	PasswordResetRepo repository.PasswordResetRepository
	Dispatcher        events.Dispatcher
	Feed              *stream.Feed
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts:   deps.AccountRepo,
		resets:     deps.PasswordResetRepo,
		dispatcher: deps.Dispatcher,
		feed:       deps.Feed,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
	}
}

// RegisterInput carries a registration form.
type RegisterInput struct {
	DisplayName          string
	Email                string
	Password             string
	Rut                  string
	Phone                string
	DisabilityCredential string
	DeafnessType         string
	Profession           string
	Occupation           domain.OccupationState
	Address              string
	BirthDate            *time.Time
}

// validate checks the identity fields before anything is persisted. Every
// failure is a field-level message; nothing reaches the repository when the
// details map is non-empty.
func (in *RegisterInput) validate(requireProfile bool) map[string]any {
	details := map[string]any{}
	if strings.TrimSpace(in.DisplayName) == "" {
		details["display_name"] = "display name required"
	}
	if in.Email == "" || !identity.IsValidEmail(in.Email) {
		details["email"] = "invalid email"
	}
	if len(in.Password) < 6 {
		details["password"] = "password must be at least 6 characters"
	}
	if in.Rut == "" {
		details["rut"] = "rut required"
	} else if normalized := identity.NormalizeRut(in.Rut); rutShape.MatchString(normalized) && !identity.IsValidRut(in.Rut) {
		details["rut"] = "invalid rut check digit"
	}
	if in.Phone == "" || !identity.IsValidMobile(in.Phone) {
		details["phone"] = "invalid chilean mobile, expected +56 9 XXXX XXXX"
	}
	if requireProfile {
		if strings.TrimSpace(in.DisabilityCredential) == "" {
			details["disability_credential"] = "disability credential required"
		}
		if strings.TrimSpace(in.DeafnessType) == "" {
			details["deafness_type"] = "deafness type required"
		}
	}
	return details
}

// RegisterDeafUser creates a deaf-user account pending manager approval.
func (s *AuthService) RegisterDeafUser(ctx context.Context, input RegisterInput) (*domain.Account, string, time.Time, error) {
	return s.register(ctx, domain.RoleDeafUser, input, true)
}

// RegisterInterpreter creates an interpreter account pending manager approval.
func (s *AuthService) RegisterInterpreter(ctx context.Context, input RegisterInput) (*domain.Account, string, time.Time, error) {
	return s.register(ctx, domain.RoleInterpreter, input, false)
}

func (s *AuthService) register(ctx context.Context, role domain.Role, input RegisterInput, requireProfile bool) (*domain.Account, string, time.Time, error) {
	if details := input.validate(requireProfile); len(details) > 0 {
		return nil, "", time.Time{}, apperrors.NewValidationError("invalid registration", details)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	pendingUntil := dateutil.AddBusinessDays(time.Now(), approvalBusinessDays)
	account := &domain.Account{
		DisplayName:          strings.TrimSpace(input.DisplayName),
		Email:                email,
		PasswordHash:         hash,
		Rut:                  identity.FormatRut(input.Rut),
		Phone:                identity.ToE164(input.Phone),
		PhoneDisplay:         identity.FormatMobile(input.Phone),
		Role:                 role,
		PendingUntil:         &pendingUntil,
		DisabilityCredential: strings.TrimSpace(input.DisabilityCredential),
		DeafnessType:         input.DeafnessType,
		Profession:           strings.TrimSpace(input.Profession),
		Occupation:           input.Occupation,
		Address:              strings.TrimSpace(input.Address),
		BirthDate:            input.BirthDate,
	}
	account.SetStatus(domain.AccountStatusPending)

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventAccountRegistered,
		SubjectID: account.ID,
		Actor:     events.Actor{AccountID: account.ID, Role: role},
		Payload: events.AccountRegisteredPayload{
			Role:         role,
			Email:        account.Email,
			PendingUntil: account.PendingUntil,
		},
	})
	s.feed.Publish(ctx, stream.CollectionAccounts, stream.KindAppend, account.ID, account)

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return account, token, exp, nil
}

// Login authenticates any account by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if account.Blocked {
		return nil, "", time.Time{}, apperrors.NewForbidden("account blocked")
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return account, token, exp, nil
}

// LoginByRut authenticates by national ID instead of email. The input is
// normalized to the canonical dotted-dash form before the lookup, so
// "123456785", "12345678-5" and "12.345.678-5" all resolve the same account.
func (s *AuthService) LoginByRut(ctx context.Context, rut, password string) (*domain.Account, string, time.Time, error) {
	canonical := identity.FormatRut(rut)
	if canonical == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("rut required", map[string]any{"rut": "rut required"})
	}
	account, err := s.accounts.GetByRut(ctx, canonical)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if account.Blocked {
		return nil, "", time.Time{}, apperrors.NewForbidden("account blocked")
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return account, token, exp, nil
}

// LoginManager authenticates and additionally requires the manager role.
func (s *AuthService) LoginManager(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error) {
	account, token, exp, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if account.Role != domain.RoleManager {
		return nil, "", time.Time{}, apperrors.NewForbidden("manager account required")
	}
	return account, token, exp, nil
}

// Logout no-ops for the stateless JWT approach.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

// RequestPasswordReset persists a reset token for the account email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*repository.PasswordResetToken, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	token := &repository.PasswordResetToken{
		AccountID: account.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, apperrors.MapError(err)
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	if len(newPassword) < 6 {
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		return apperrors.MapError(err)
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewValidationError("token expired or used", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}

	account, err := s.accounts.GetByID(ctx, token.AccountID)
	if err != nil {
		return apperrors.MapError(err)
	}
	account.PasswordHash = hash
	if err := s.accounts.Update(ctx, account); err != nil {
		return apperrors.MapError(err)
	}
	return apperrors.MapError(s.resets.MarkUsed(ctx, token.ID))
}

// ChangePassword verifies the current password before updating to a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, session domain.Session, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	account, err := s.accounts.GetByID(ctx, session.AccountID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	account.PasswordHash = hash
	return apperrors.MapError(s.accounts.Update(ctx, account))
}

// SeedManager ensures the configured bootstrap manager account exists so a
// fresh deployment can work the approval queue.
func (s *AuthService) SeedManager(ctx context.Context, cfg config.ManagerConfig) (*domain.Account, error) {
	if cfg.SeedEmail == "" || cfg.SeedPassword == "" {
		return nil, nil
	}
	email := strings.ToLower(strings.TrimSpace(cfg.SeedEmail))
	if existing, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return existing, nil
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(cfg.SeedPassword, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	manager := &domain.Account{
		DisplayName:  cfg.SeedName,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleManager,
	}
	manager.SetStatus(domain.AccountStatusApproved)
	if err := s.accounts.Create(ctx, manager); err != nil {
		return nil, apperrors.MapError(err)
	}
	return manager, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
