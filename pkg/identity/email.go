package identity

import (
	"regexp"
	"strings"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail checks the local@domain.tld shape. It is deliberately loose:
// deliverability is the mail system's problem, not a registration gate.
func IsValidEmail(v string) bool {
	return emailShape.MatchString(strings.TrimSpace(v))
}
