package service

// ValidationResult accumulates every violated rule for one input, so the
// caller can present all problems in a single response.
type ValidationResult struct {
	OK     bool
	Errors []string
}

// CredentialValidator checks the shape and constraints of user-supplied
// credentials. Implementations are pure functions of their input.
type CredentialValidator interface {
	// ValidateRegistration checks that the email is well-formed and the
	// password satisfies the strength policy.
	ValidateRegistration(email, password string) ValidationResult

	// ValidateLogin checks only that email and password are present. A weak
	// historical password must still be allowed to log in.
	ValidateLogin(email, password string) ValidationResult
}
