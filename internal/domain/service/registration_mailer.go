package service

import "context"

// RegistrationMailer sends the post-registration confirmation email.
// Delivery is fire-and-forget: callers log failures and never let them
// fail the registration itself.
type RegistrationMailer interface {
	SendRegistrationEmail(ctx context.Context, email string) error
}
