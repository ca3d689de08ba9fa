package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidBookingTransition(t *testing.T) {
	states := []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled}
	for _, from := range states {
		for _, to := range states {
			assert.True(t, ValidBookingTransition(from, to), "%s -> %s", from, to)
		}
	}

	assert.False(t, ValidBookingTransition(BookingStatusPending, "archived"))
	assert.False(t, ValidBookingTransition("archived", BookingStatusPending))
}

func TestValidPaymentTransition(t *testing.T) {
	assert.True(t, ValidPaymentTransition(PaymentUnpaid, PaymentPaid))

	assert.False(t, ValidPaymentTransition(PaymentPaid, PaymentUnpaid))
	assert.False(t, ValidPaymentTransition(PaymentPaid, PaymentPaid))
	assert.False(t, ValidPaymentTransition(PaymentUnpaid, PaymentUnpaid))
}

func TestServiceTypeValid(t *testing.T) {
	assert.True(t, ServiceInPerson.Valid())
	assert.True(t, ServiceVideoCall.Valid())
	assert.False(t, ServiceType("phone").Valid())
}
