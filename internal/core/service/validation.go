package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fuhrahmann/travel-app-backend/internal/core/domain"
	"github.com/fuhrahmann/travel-app-backend/internal/core/ports"
)

const (
	maxNameLength     = 255
	maxEmailLength    = 255
	minPasswordLength = 8
	// bcrypt ignores input past 72 bytes and x/crypto rejects it outright.
	maxPasswordBytes = 72
)

// RegistrationPolicy checks registration input against the account rules:
//
//	name      required, max 255
//	email     required, email, max 255, unique
//	password  required, min 8, max 72 bytes, confirmed
//
// Every broken rule is reported, not only the first one per field.
type RegistrationPolicy struct {
	v     *validator.Validate
	users ports.CredentialStore
}

func NewRegistrationPolicy(users ports.CredentialStore) *RegistrationPolicy {
	return &RegistrationPolicy{v: validator.New(), users: users}
}

// Validate returns a *domain.ValidationError listing all violations, nil when
// the input is acceptable, or a lookup error from the credential store.
func (p *RegistrationPolicy) Validate(ctx context.Context, in ports.RegisterInput) error {
	c := &collector{v: p.v}

	if c.present("name", in.Name) {
		c.check("name", in.Name, fmt.Sprintf("max=%d", maxNameLength))
	}

	if c.present("email", in.Email) {
		c.check("email", in.Email, "email")
		c.check("email", in.Email, fmt.Sprintf("max=%d", maxEmailLength))

		taken, err := p.emailTaken(ctx, in.Email)
		if err != nil {
			return err
		}
		if taken {
			c.violations = append(c.violations, uniqueEmailViolation())
		}
	}

	if c.present("password", in.Password) {
		c.check("password", in.Password, fmt.Sprintf("min=%d", minPasswordLength))
		c.add("password", p.v.Var(len(in.Password), fmt.Sprintf("max=%d", maxPasswordBytes)))
		c.add("password", p.v.VarWithValue(in.Password, in.PasswordConfirmation, "eqfield"))
	}

	if len(c.violations) == 0 {
		return nil
	}
	return &domain.ValidationError{Violations: c.violations}
}

func (p *RegistrationPolicy) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := p.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrUserNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("check email uniqueness: %w", err)
	}
}

func uniqueEmailViolation() domain.Violation {
	return domain.Violation{
		Field:   "email",
		Rule:    domain.RuleUnique,
		Message: "The email has already been taken.",
	}
}

type collector struct {
	v          *validator.Validate
	violations []domain.Violation
}

// present records a required violation for blank values. Remaining rules of a
// blank field are not evaluated.
func (c *collector) present(field, value string) bool {
	err := c.v.Var(strings.TrimSpace(value), "required")
	c.add(field, err)
	return err == nil
}

func (c *collector) check(field, value, tag string) {
	c.add(field, c.v.Var(value, tag))
}

func (c *collector) add(field string, err error) {
	if err == nil {
		return
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.violations = append(c.violations, domain.Violation{Field: field, Rule: "invalid", Message: err.Error()})
		return
	}
	for _, fe := range ve {
		c.violations = append(c.violations, fieldViolation(field, fe))
	}
}

// fieldViolation converts a single validator failure into a rule message.
func fieldViolation(field string, fe validator.FieldError) domain.Violation {
	v := domain.Violation{Field: field, Rule: fe.Tag()}
	switch fe.Tag() {
	case "required":
		v.Message = fmt.Sprintf("The %s field is required.", field)
	case "email":
		v.Message = fmt.Sprintf("The %s field must be a valid email address.", field)
	case "max":
		v.Message = fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	case "min":
		v.Message = fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
	case "eqfield":
		v.Rule = "confirmed"
		v.Message = fmt.Sprintf("The %s field confirmation does not match.", field)
	default:
		v.Message = fmt.Sprintf("The %s field is invalid (%s).", field, fe.Tag())
	}
	return v
}
