package form

import (
	"regexp"
	"strings"
	"unicode"
)

// Messages are the strings reported for failed validation rules.
type Messages struct {
	// Required is reported for a field left empty (after trimming).
	Required string
	// InvalidEmail is reported for an email address that does not match the
	// address pattern.
	InvalidEmail string
}

// DefaultMessages returns the messages shown on the contact page.
func DefaultMessages() Messages {
	return Messages{
		Required:     "Ce champ est requis.",
		InvalidEmail: "Adresse email invalide.",
	}
}

// Local part is either a dot-atom or a quoted string.  Domain is a bracketed
// IPv4 literal or dotted labels ending in an alphabetic TLD.  "Whitespace" is
// the ECMAScript set: \s plus \v, the Unicode separators and U+FEFF.  Quoted
// strings may not span line terminators.
var emailPattern = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s\x{0B}\p{Z}\x{FEFF}@"]+(\.[^<>()\[\]\\.,;:\s\x{0B}\p{Z}\x{FEFF}@"]+)*)|("[^\n\r\x{2028}\x{2029}]+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

// ValidEmail reports whether s looks like an email address.  The value is
// matched as given (lowercased), surrounding whitespace makes it invalid.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.ToLower(s))
}

// isSpace matches the characters trimmed by ECMAScript's String.prototype.trim.
func isSpace(r rune) bool {
	switch r {
	case '\u0085':
		return false
	case '\uFEFF':
		return true
	}
	return unicode.IsSpace(r)
}

func blank(s string) bool {
	return strings.TrimFunc(s, isSpace) == ""
}

// ValidateField applies the per-edit rule for a single field and returns the
// error message, or an empty string if the value is acceptable so far.  An
// empty email is accepted here; only ValidateAll requires it.
func (m Messages) ValidateField(f Field, value string) string {
	if f == Email {
		if !blank(value) && !ValidEmail(value) {
			return m.InvalidEmail
		}
		return ""
	}
	if blank(value) {
		return m.Required
	}
	return ""
}

// ValidateAll applies the submit-time rules to every field.  All fields are
// required and the email field must hold a valid address.
func (m Messages) ValidateAll(values FormFields) FieldErrors {
	var errs FieldErrors
	for _, f := range Fields {
		value := values.Get(f)
		switch {
		case blank(value):
			errs.Set(f, m.Required)
		case f == Email && !ValidEmail(value):
			errs.Set(f, m.InvalidEmail)
		}
	}
	return errs
}

// ValidateField applies the per-edit rule using the default messages.
func ValidateField(f Field, value string) string {
	return DefaultMessages().ValidateField(f, value)
}

// ValidateAll applies the submit-time rules using the default messages.
func ValidateAll(values FormFields) FieldErrors {
	return DefaultMessages().ValidateAll(values)
}
