package dto

import (
	"time"

	"github.com/interpreteya/booking-service/internal/domain"
)

// RegisterRequest payload for new deaf-user or interpreter accounts. RUT and
// phone formats are checked by the identity validators in the service layer,
// not by struct tags.
type RegisterRequest struct {
	DisplayName          string `json:"display_name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=6"`
	Rut                  string `json:"rut" validate:"required"`
	Phone                string `json:"phone" validate:"required"`
	DisabilityCredential string `json:"disability_credential"`
	DeafnessType         string `json:"deafness_type"`
	Profession           string `json:"profession"`
	Occupation           string `json:"occupation"`
	Address              string `json:"address"`
	BirthDate            string `json:"birth_date"` // YYYY-MM-DD
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRutRequest payload for national-ID login. Any RUT spelling is
// accepted; the service normalizes before the lookup.
type LoginRutRequest struct {
	Rut      string `json:"rut" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordResetRequest payload.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirmRequest payload.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// PasswordChangeRequest payload.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// NightConsentRequest payload.
type NightConsentRequest struct {
	Consent bool `json:"consent"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID           string               `json:"id"`
	DisplayName  string               `json:"display_name"`
	Email        string               `json:"email"`
	Rut          string               `json:"rut"`
	Phone        string               `json:"phone"`
	PhoneDisplay string               `json:"phone_display"`
	Role         domain.Role          `json:"role"`
	Status       domain.AccountStatus `json:"account_status"`
	Approved     bool                 `json:"approved"`
	Blocked      bool                 `json:"blocked"`
	PendingUntil *time.Time           `json:"pending_until,omitempty"`
	NightConsent bool                 `json:"night_consent"`
	CreatedAt    time.Time            `json:"created_at"`
}

// InterpreterResponse is the directory view of an interpreter.
type InterpreterResponse struct {
	ID            string  `json:"id"`
	DisplayName   string  `json:"display_name"`
	Profession    string  `json:"profession,omitempty"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

// AccountView maps a domain account to its public view.
func AccountView(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:           a.ID,
		DisplayName:  a.DisplayName,
		Email:        a.Email,
		Rut:          a.Rut,
		Phone:        a.Phone,
		PhoneDisplay: a.PhoneDisplay,
		Role:         a.Role,
		Status:       a.Status,
		Approved:     a.Approved,
		Blocked:      a.Blocked,
		PendingUntil: a.PendingUntil,
		NightConsent: a.NightConsent,
		CreatedAt:    a.CreatedAt,
	}
}

// InterpreterView maps an interpreter account to its directory entry.
func InterpreterView(a *domain.Account) InterpreterResponse {
	return InterpreterResponse{
		ID:            a.ID,
		DisplayName:   a.DisplayName,
		Profession:    a.Profession,
		AverageRating: a.AverageRating(),
		RatingCount:   a.RatingCount,
	}
}
