// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a stored hash. A mismatch is
	// reported as (false, nil); a malformed or empty stored hash is reported
	// as a non-nil error so callers can tell a wrong password apart from a
	// corrupt record.
	Check(password, hash string) (bool, error)
}
