package domain

import "time"

// Session describes an authenticated caller. It is passed explicitly to
// services instead of living in ambient state.
type Session struct {
	AccountID string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
