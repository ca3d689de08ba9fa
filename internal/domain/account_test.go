package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAccountDecision(t *testing.T) {
	assert.True(t, ValidAccountDecision(AccountStatusApproved))
	assert.True(t, ValidAccountDecision(AccountStatusRejected))

	// pending is the initial state, never a decision target
	assert.False(t, ValidAccountDecision(AccountStatusPending))
	assert.False(t, ValidAccountDecision("suspended"))
}

func TestSetStatusKeepsApprovedMirror(t *testing.T) {
	account := &Account{Status: AccountStatusPending}

	account.SetStatus(AccountStatusApproved)
	assert.Equal(t, AccountStatusApproved, account.Status)
	assert.True(t, account.Approved)

	account.SetStatus(AccountStatusRejected)
	assert.Equal(t, AccountStatusRejected, account.Status)
	assert.False(t, account.Approved)

	// a rejected account can be approved again later
	account.SetStatus(AccountStatusApproved)
	assert.True(t, account.Approved)
}

func TestAverageRating(t *testing.T) {
	account := &Account{}
	assert.Equal(t, 0.0, account.AverageRating())

	account.RatingSum = 9
	account.RatingCount = 2
	assert.InDelta(t, 4.5, account.AverageRating(), 0.0001)
}
