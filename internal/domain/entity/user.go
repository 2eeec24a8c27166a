// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"
)

// User is the core entity in the system, representing a registered account.
type User struct {
	ID           int64     // Store-assigned identifier, unique and monotonic in creation order.
	Email        string    // The user's login identifier, stored normalized (lower-case, trimmed).
	PasswordHash string    // Salted bcrypt hash of the password. Never holds plaintext.
	CreatedAt    time.Time // Timestamp of when this account was created.
}
