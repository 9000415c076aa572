// Package validate holds the field-level validation and sanitization rules
// shared by registration, login, profile and password flows. Failures are
// reported per field and never partially applied.
package validate

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a per-field error list. It satisfies error so services can return
// it through their normal error path.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9][0-9\s\-().]{5,18}$`)
)

func Name(name string) *FieldError {
	name = strings.TrimSpace(name)
	if name == "" {
		return &FieldError{Field: "name", Message: "Name is required"}
	}
	if len(name) < 2 || len(name) > 50 {
		return &FieldError{Field: "name", Message: "Name must be between 2 and 50 characters"}
	}
	return nil
}

func Email(email string) *FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		return &FieldError{Field: "email", Message: "Email is required"}
	}
	if !emailRe.MatchString(email) {
		return &FieldError{Field: "email", Message: "Invalid email format"}
	}
	return nil
}

func Phone(phone string) *FieldError {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return &FieldError{Field: "phone", Message: "Phone is required"}
	}
	if !phoneRe.MatchString(phone) {
		return &FieldError{Field: "phone", Message: "Invalid phone number format"}
	}
	return nil
}

// Password enforces the strength policy: at least 8 characters with one
// lowercase, one uppercase, one digit and one symbol.
func Password(field, password string) *FieldError {
	if password == "" {
		return &FieldError{Field: field, Message: "Password is required"}
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if len(password) < 8 || !lower || !upper || !digit || !symbol {
		return &FieldError{
			Field:   field,
			Message: "Password must be at least 8 characters long and contain at least one lowercase letter, one uppercase letter, one number, and one symbol",
		}
	}
	return nil
}

// SanitizeEmail lowercases and trims; validity is checked separately.
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizeText trims and HTML-escapes free-text fields (name, address).
func SanitizeText(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

func SanitizePhone(phone string) string {
	return strings.TrimSpace(phone)
}
