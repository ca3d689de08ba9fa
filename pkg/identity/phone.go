package identity

import "strings"

func digits(v string) string {
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] >= '0' && v[i] <= '9' {
			b.WriteByte(v[i])
		}
	}
	return b.String()
}

// FormatMobile renders a Chilean mobile as "+56 9 dddd dddd" when the input
// looks like one. Formatting is best effort: anything else comes back
// unchanged so the caller can still display what the user typed.
func FormatMobile(v string) string {
	d := digits(v)
	local := d
	if strings.HasPrefix(d, "56") {
		local = d[2:]
	}
	if strings.HasPrefix(local, "9") && len(local) >= 9 {
		return "+56 " + local[0:1] + " " + local[1:5] + " " + local[5:9]
	}
	return v
}

// ToE164 normalizes a Chilean mobile to +569XXXXXXXX. It returns the empty
// string when the input is not a valid Chilean mobile (a leading 9 followed
// by exactly eight digits, with an optional 56 country code).
func ToE164(v string) string {
	d := digits(v)
	rest := d
	if strings.HasPrefix(d, "56") {
		rest = d[2:]
	}
	if strings.HasPrefix(rest, "9") && len(rest) == 9 {
		return "+569" + rest[1:9]
	}
	return ""
}

// IsValidMobile reports whether the input normalizes to a Chilean mobile.
func IsValidMobile(v string) bool {
	return ToE164(v) != ""
}
