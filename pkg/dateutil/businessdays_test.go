package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestAddBusinessDays(t *testing.T) {
	monday := date(2025, time.March, 3)
	assert.Equal(t, time.Monday, monday.Weekday())

	// Monday + 3 business days lands on Thursday
	assert.Equal(t, date(2025, time.March, 6), AddBusinessDays(monday, 3))

	// Friday + 1 skips the weekend
	friday := date(2025, time.March, 7)
	assert.Equal(t, date(2025, time.March, 10), AddBusinessDays(friday, 1))

	// weekend start counts from the following Monday
	saturday := date(2025, time.March, 8)
	assert.Equal(t, date(2025, time.March, 10), AddBusinessDays(saturday, 1))

	// Thursday + 3 spans a weekend
	thursday := date(2025, time.March, 6)
	assert.Equal(t, date(2025, time.March, 11), AddBusinessDays(thursday, 3))

	// zero days is the identity
	assert.Equal(t, saturday, AddBusinessDays(saturday, 0))
}
