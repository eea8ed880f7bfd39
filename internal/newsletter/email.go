// Package newsletter drives the newsletter signup form: local email
// validation followed by exactly one write to the signup endpoint.
package newsletter

import "regexp"

// emailPattern requires one "@" with a non-empty local part before it and
// a dotted domain after it. Neither part may contain whitespace or "@", so
// "user@@example.com" is rejected.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s is structurally an email address.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
