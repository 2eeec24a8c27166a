// Package validate implements credential validation on top of
// go-playground/validator, with the password policy driven by configuration.
package validate

import (
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"

	"passport/config"
	"passport/internal/domain/service"
)

// credentialInput carries the fields checked by the validator tags.
type credentialInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type credentialValidator struct {
	validate *validator.Validate
	policy   config.PasswordPolicyConfig
}

// New builds a CredentialValidator enforcing the configured password policy
// on registration. Login validation checks presence only.
func New(cfg *config.Config) service.CredentialValidator {
	policy := config.PasswordPolicyConfig{}
	if cfg != nil && cfg.PasswordPolicy != nil {
		policy = *cfg.PasswordPolicy
	}

	return &credentialValidator{
		validate: validator.New(),
		policy:   policy,
	}
}

// ValidateRegistration accumulates every violated rule instead of failing
// fast, so one response can report all problems.
func (v *credentialValidator) ValidateRegistration(email, password string) service.ValidationResult {
	errs := v.shapeErrors(email, password)
	if password != "" {
		errs = append(errs, v.policyErrors(password)...)
	}

	return service.ValidationResult{OK: len(errs) == 0, Errors: errs}
}

// ValidateLogin checks presence only: a weak historical password still has
// to be allowed to log in.
func (v *credentialValidator) ValidateLogin(email, password string) service.ValidationResult {
	var errs []string
	if email == "" {
		errs = append(errs, "Email is required.")
	}
	if password == "" {
		errs = append(errs, "Password is required.")
	}

	return service.ValidationResult{OK: len(errs) == 0, Errors: errs}
}

func (v *credentialValidator) shapeErrors(email, password string) []string {
	var errs []string

	err := v.validate.Struct(credentialInput{Email: email, Password: password})
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"Invalid input."}
	}

	for _, fieldErr := range validationErrs {
		switch {
		case fieldErr.Field() == "Email" && fieldErr.Tag() == "required":
			errs = append(errs, "Email is required.")
		case fieldErr.Field() == "Email":
			errs = append(errs, "Email must be a valid email address.")
		case fieldErr.Field() == "Password" && fieldErr.Tag() == "required":
			errs = append(errs, "Password is required.")
		}
	}

	return errs
}

func (v *credentialValidator) policyErrors(password string) []string {
	var errs []string

	if v.policy.MinLength > 0 && len(password) < v.policy.MinLength {
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters long.", v.policy.MinLength))
	}
	if v.policy.MaxLength > 0 && len(password) > v.policy.MaxLength {
		errs = append(errs, fmt.Sprintf("Password must be at most %d characters long.", v.policy.MaxLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if v.policy.RequireUppercase && !hasUpper {
		errs = append(errs, "Password must contain at least one uppercase letter.")
	}
	if v.policy.RequireLowercase && !hasLower {
		errs = append(errs, "Password must contain at least one lowercase letter.")
	}
	if v.policy.RequireDigit && !hasDigit {
		errs = append(errs, "Password must contain at least one digit.")
	}

	return errs
}
