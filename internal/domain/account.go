package domain

import "time"

// Role enumerates the kinds of accounts on the platform.
type Role string

const (
	RoleDeafUser    Role = "deafUser"
	RoleInterpreter Role = "interpreter"
	RoleManager     Role = "manager"
)

// AccountStatus tracks the manager approval decision for an account.
type AccountStatus string

const (
	AccountStatusPending  AccountStatus = "pending"
	AccountStatusApproved AccountStatus = "approved"
	AccountStatusRejected AccountStatus = "rejected"
)

// Valid reports whether the status is a known value.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusPending, AccountStatusApproved, AccountStatusRejected:
		return true
	}
	return false
}

// ValidAccountDecision reports whether a manager may move an account to the
// target status. Managers only ever set approved or rejected; the decision
// buttons stay available whatever the current state, so a rejected account
// can be approved later by re-invoking the same action.
func ValidAccountDecision(to AccountStatus) bool {
	return to == AccountStatusApproved || to == AccountStatusRejected
}

// OccupationState captures what the user reported doing at registration.
type OccupationState string

const (
	OccupationWorking    OccupationState = "working"
	OccupationStudying   OccupationState = "studying"
	OccupationUnemployed OccupationState = "unemployed"
)

// Account is the aggregate for every platform identity: deaf users,
// interpreters and managers share the table, differentiated by Role.
type Account struct {
	ID           string
	DisplayName  string
	Email        string
	PasswordHash string
	Rut          string // formatted NN.NNN.NNN-D
	Phone        string // E.164, +569XXXXXXXX
	PhoneDisplay string // +56 9 dddd dddd
	Role         Role

	Status       AccountStatus
	Approved     bool // mirrors Status == approved
	Blocked      bool // orthogonal to approval
	PendingUntil *time.Time
	NightConsent bool

	// Registration profile.
	DisabilityCredential string
	DeafnessType         string
	Profession           string
	Occupation           OccupationState
	Address              string
	BirthDate            *time.Time

	// Interpreter rating aggregates, bumped on each new rating.
	RatingSum   int
	RatingCount int

	// Decision audit metadata.
	DecidedAt   *time.Time
	DecidedByID *string
	BlockedAt   *time.Time
	BlockedByID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetStatus applies a manager decision keeping the Approved mirror in sync.
func (a *Account) SetStatus(status AccountStatus) {
	a.Status = status
	a.Approved = status == AccountStatusApproved
}

// AverageRating returns the aggregate rating, 0 when unrated.
func (a *Account) AverageRating() float64 {
	if a.RatingCount == 0 {
		return 0
	}
	return float64(a.RatingSum) / float64(a.RatingCount)
}
