package config

import (
	"errors"
	"strings"
)

// ValidationError names the dotted config key that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Required returns a ValidationError when value is blank.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

// Port returns a ValidationError unless 1 <= port <= 65535.
func Port(field string, port int) error {
	const maxPort = 65535
	if port < 1 || port > maxPort {
		return &ValidationError{Field: field, Message: "must be between 1 and 65535"}
	}
	return nil
}

// MinLength returns a ValidationError when value is shorter than n bytes.
func MinLength(field, value string, n int) error {
	if len(value) < n {
		return &ValidationError{Field: field, Message: "is too short"}
	}
	return nil
}

// Collect runs every check and joins the failures.
func Collect(checks ...error) error {
	return errors.Join(checks...)
}
