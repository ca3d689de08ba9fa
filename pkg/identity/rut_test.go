package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckDigit(t *testing.T) {
	cases := []struct {
		body int
		want byte
	}{
		{12345678, '5'},
		{7608642, '7'},
		{11111111, '1'},
		{22222222, '2'},
		{12345698, 'K'},
		{1, '9'},
	}
	for _, tc := range cases {
		assert.Equal(t, string(tc.want), string(CheckDigit(tc.body)), "body %d", tc.body)
	}
}

func TestIsValidRut(t *testing.T) {
	assert.True(t, IsValidRut("12345678-5"))
	assert.True(t, IsValidRut("12.345.678-5"))
	assert.True(t, IsValidRut("123456785"))
	assert.True(t, IsValidRut("12345698-k"))
	assert.True(t, IsValidRut("12345698-K"))

	assert.False(t, IsValidRut("12345678-4"))
	assert.False(t, IsValidRut("12345678-K"))
	assert.False(t, IsValidRut(""))
	assert.False(t, IsValidRut("5"))
	assert.False(t, IsValidRut("abc-5"))
}

func TestNormalizeRut(t *testing.T) {
	assert.Equal(t, "123456785", NormalizeRut("12.345.678-5"))
	assert.Equal(t, "24965885K", NormalizeRut(" 24.965.885-k "))
}

func TestFormatRut(t *testing.T) {
	assert.Equal(t, "12.345.678-5", FormatRut("123456785"))
	assert.Equal(t, "7.608.642-8", FormatRut("76086428"))
	assert.Equal(t, "24.965.885-K", FormatRut("24965885-k"))
	assert.Equal(t, "1-9", FormatRut("19"))

	// formatting an already formatted value changes nothing
	assert.Equal(t, "12.345.678-5", FormatRut(FormatRut("123456785")))
}
