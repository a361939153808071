// Package validation provides declarative per-route request field checks.
// Rules are evaluated in order and the first violation short-circuits with
// its message; violations are never aggregated.
package validation

import "regexp"

// Fields holds the string fields of a decoded request, keyed by wire name.
type Fields map[string]string

// Rule is a single (field, check, message) tuple.
type Rule struct {
	Field   string
	Message string
	Check   func(value string, fields Fields) bool
}

// Apply evaluates rules in order against the fields. It returns the message
// of the first failing rule and false, or "" and true if all rules pass.
func Apply(fields Fields, rules []Rule) (string, bool) {
	for _, r := range rules {
		if !r.Check(fields[r.Field], fields) {
			return r.Message, false
		}
	}
	return "", true
}

// emailPattern is the accepted email shape. TLDs longer than 4 characters
// are rejected, matching the platform's long-standing contract.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,4}$`)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// present requires a non-empty value.
func present(value string, _ Fields) bool {
	return value != ""
}

// validEmail requires the value to match the email pattern.
func validEmail(value string, _ Fields) bool {
	return emailPattern.MatchString(value)
}

// minPassword requires at least minPasswordLength characters.
func minPassword(value string, _ Fields) bool {
	return len(value) >= minPasswordLength
}

// matchesPassword requires the value to equal the password field.
func matchesPassword(value string, fields Fields) bool {
	return value == fields["password"]
}
