package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/interpreteya/booking-service/internal/api/dto"
	"github.com/interpreteya/booking-service/internal/auth"
	"github.com/interpreteya/booking-service/internal/domain"
	"github.com/interpreteya/booking-service/internal/service"
	apperrors "github.com/interpreteya/booking-service/pkg/errorutil"
)

// AccountsHandler exposes registration, login and profile endpoints.
type AccountsHandler struct {
	auth     *service.AuthService
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService, accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{auth: authService, accounts: accountService}
}

// RegisterDeafUser handles POST /auth/users/register.
func (h *AccountsHandler) RegisterDeafUser(c *fiber.Ctx) error {
	return h.register(c, h.auth.RegisterDeafUser)
}

// RegisterInterpreter handles POST /auth/interpreters/register.
func (h *AccountsHandler) RegisterInterpreter(c *fiber.Ctx) error {
	return h.register(c, h.auth.RegisterInterpreter)
}

func (h *AccountsHandler) register(c *fiber.Ctx, fn func(ctx context.Context, input service.RegisterInput) (*domain.Account, string, time.Time, error)) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid registration", details)
	}

	input := service.RegisterInput{
		DisplayName:          req.DisplayName,
		Email:                req.Email,
		Password:             req.Password,
		Rut:                  req.Rut,
		Phone:                req.Phone,
		DisabilityCredential: req.DisabilityCredential,
		DeafnessType:         req.DeafnessType,
		Profession:           req.Profession,
		Occupation:           domain.OccupationState(req.Occupation),
		Address:              req.Address,
	}
	if req.BirthDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.BirthDate); err == nil {
			input.BirthDate = &parsed
		} else {
			return apperrors.NewValidationError("invalid birth_date, expected YYYY-MM-DD", nil)
		}
	}

	account, token, exp, err := fn(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"account": dto.AccountView(account),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login for deaf users and interpreters.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	return h.login(c, h.auth.Login)
}

// ManagerLogin handles POST /auth/managers/login. Only manager accounts pass.
func (h *AccountsHandler) ManagerLogin(c *fiber.Ctx) error {
	return h.login(c, h.auth.LoginManager)
}

func (h *AccountsHandler) login(c *fiber.Ctx, fn func(ctx context.Context, email, password string) (*domain.Account, string, time.Time, error)) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("email and password required", details)
	}

	account, token, exp, err := fn(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"account": dto.AccountView(account),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// LoginRut handles POST /auth/login/rut for users who sign in with their
// national ID instead of an email.
func (h *AccountsHandler) LoginRut(c *fiber.Ctx) error {
	var req dto.LoginRutRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("rut and password required", details)
	}

	account, token, exp, err := h.auth.LoginByRut(c.Context(), req.Rut, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"account": dto.AccountView(account),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only lets
// clients signal intent.
func (h *AccountsHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	if err := h.auth.Logout(c.Context(), principal.Account.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *AccountsHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("email required", details)
	}

	// Same response whether or not the email exists, so the endpoint cannot
	// be used to enumerate accounts.
	if _, err := h.auth.RequestPasswordReset(c.Context(), req.Email); err != nil {
		if apperrors.ToDomainError(err).HTTPStatus != fiber.StatusNotFound {
			return err
		}
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"requested": true}})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *AccountsHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("token and new_password required", details)
	}
	if err := h.auth.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reset": true}})
}

// ChangePassword handles POST /auth/password/change.
func (h *AccountsHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("current and new password required", details)
	}
	if err := h.auth.ChangePassword(c.Context(), principal.Session, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}

// Me handles GET /me.
func (h *AccountsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	return c.JSON(fiber.Map{"data": dto.AccountView(principal.Account)})
}

// SetNightConsent handles PUT /me/night-consent.
func (h *AccountsHandler) SetNightConsent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.NightConsentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	account, err := h.accounts.SetNightConsent(c.Context(), principal.Session, req.Consent)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AccountView(account)})
}
