package identity

import "strings"

// NormalizeRut strips dots and dashes and uppercases the check character.
func NormalizeRut(rut string) string {
	cleaned := strings.NewReplacer(".", "", "-", "").Replace(rut)
	return strings.ToUpper(strings.TrimSpace(cleaned))
}

// CheckDigit computes the modulo-11 verification character for a RUT body.
// Weights cycle 2..7 from the least significant digit. Returns '0'-'9' or 'K'.
func CheckDigit(body int) byte {
	sum := 1
	for m := 0; body > 0; body /= 10 {
		sum = (sum + body%10*(9-m%6)) % 11
		m++
	}
	if sum == 0 {
		return 'K'
	}
	return byte('0' + sum - 1)
}

// IsValidRut reports whether the input carries a correct check digit.
// The body must be numeric and the normalized input at least two characters.
func IsValidRut(rut string) bool {
	c := NormalizeRut(rut)
	if len(c) < 2 {
		return false
	}
	body := c[:len(c)-1]
	dv := c[len(c)-1]
	n := 0
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return false
		}
		n = n*10 + int(body[i]-'0')
	}
	return CheckDigit(n) == dv
}

// FormatRut renders a RUT with thousands separators and a dashed check digit,
// e.g. "76086428" plus its digit becomes "7.608.642-8". It formats whatever it
// is given without validating; FormatRut is idempotent.
func FormatRut(rut string) string {
	c := NormalizeRut(rut)
	if len(c) <= 1 {
		return c
	}
	body := c[:len(c)-1]
	dv := c[len(c)-1:]

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(body[i])
	}
	return b.String() + "-" + dv
}
