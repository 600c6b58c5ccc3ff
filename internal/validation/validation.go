// Package validation provides a small declarative field-constraint validator
// shared by all resources, instead of one hand-written schema per resource.
// Handlers declare their constraints as a list of checks; Validate runs them
// and aggregates every failure into a single error.
package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// FieldError describes one failed constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the aggregate of all failed constraints for one request.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Check evaluates one constraint; nil means the constraint holds.
type Check func() *FieldError

// Validate runs all checks and returns the collected failures, or nil if
// every constraint holds.
func Validate(checks ...Check) error {
	var errs Errors
	for _, check := range checks {
		if fe := check(); fe != nil {
			errs = append(errs, *fe)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Required fails when the trimmed value is empty.
func Required(field, value string) Check {
	return func() *FieldError {
		if strings.TrimSpace(value) == "" {
			return &FieldError{Field: field, Message: "is required"}
		}
		return nil
	}
}

// NonEmptyIfSet fails when an optional value is present but blank.
func NonEmptyIfSet(field string, value *string) Check {
	return func() *FieldError {
		if value != nil && strings.TrimSpace(*value) == "" {
			return &FieldError{Field: field, Message: "cannot be empty"}
		}
		return nil
	}
}

// OneOf fails when the value is not in the allowed set.
func OneOf(field, value string, allowed ...string) Check {
	return func() *FieldError {
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return &FieldError{Field: field, Message: "must be one of: " + strings.Join(allowed, ", ")}
	}
}

// Email validates an optional email address.
func Email(field string, value *string) Check {
	return func() *FieldError {
		if value == nil {
			return nil
		}
		if _, err := mail.ParseAddress(strings.TrimSpace(*value)); err != nil {
			return &FieldError{Field: field, Message: "must be a valid email"}
		}
		return nil
	}
}

// HTTPSURL validates an optional URL and requires the https scheme.
func HTTPSURL(field string, value *string) Check {
	return func() *FieldError {
		if value == nil {
			return nil
		}
		u, err := url.Parse(strings.TrimSpace(*value))
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return &FieldError{Field: field, Message: "must be a valid https URL"}
		}
		return nil
	}
}

// DatesOrdered fails when end precedes start.
func DatesOrdered(startField, endField string, start, end time.Time) Check {
	return func() *FieldError {
		if end.Before(start) {
			return &FieldError{Field: endField, Message: "must not be before " + startField}
		}
		return nil
	}
}

// Match validates the value against a compiled pattern.
func Match(field, value string, pattern *regexp.Regexp, message string) Check {
	return func() *FieldError {
		if !pattern.MatchString(value) {
			return &FieldError{Field: field, Message: message}
		}
		return nil
	}
}
