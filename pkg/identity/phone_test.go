package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToE164(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"912345678", "+56912345678"},
		{"+56 9 1234 5678", "+56912345678"},
		{"56912345678", "+56912345678"},
		{"9-1234-5678", "+56912345678"},
		{"", ""},
		{"812345678", ""},     // not a mobile prefix
		{"91234567", ""},      // seven digits after the 9
		{"9123456789", ""},    // nine digits after the 9
		{"+56 2 2123 4567", ""}, // landline
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ToE164(tc.in), "input %q", tc.in)
	}
}

func TestFormatMobile(t *testing.T) {
	assert.Equal(t, "+56 9 1234 5678", FormatMobile("912345678"))
	assert.Equal(t, "+56 9 1234 5678", FormatMobile("+56912345678"))
	assert.Equal(t, "+56 9 1234 5678", FormatMobile("+56 9 1234 5678"))

	// anything that does not look like a chilean mobile comes back unchanged
	assert.Equal(t, "221234567", FormatMobile("221234567"))
	assert.Equal(t, "hola", FormatMobile("hola"))
}

func TestIsValidMobile(t *testing.T) {
	assert.True(t, IsValidMobile("912345678"))
	assert.True(t, IsValidMobile("+56 9 1234 5678"))
	assert.False(t, IsValidMobile("91234567"))
	assert.False(t, IsValidMobile("abc"))
}
