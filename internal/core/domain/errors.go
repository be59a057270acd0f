package domain

import (
	"errors"
	"strings"
)

// Caller-facing failures. Every operation fails with one of these (a
// ValidationError matches ErrValidation) or with an unexpected infrastructure
// error.
var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrEmailTaken         = errors.New("email already taken")
)

// Store-level lookups.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)

// RuleUnique tags the uniqueness violation inside a ValidationError.
const RuleUnique = "unique"

// Violation is a single broken field rule.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError carries every rule a registration request broke.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return "Validation error: " + strings.Join(e.Messages(), ", ")
}

// Messages returns the human-readable rule messages in report order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return msgs
}

// Is lets callers match ErrValidation, and ErrEmailTaken when the email
// uniqueness rule is among the violations.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return true
	case ErrEmailTaken:
		for _, v := range e.Violations {
			if v.Rule == RuleUnique {
				return true
			}
		}
	}
	return false
}
