// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/domain/service"
	"passport/internal/errors"
	"passport/internal/usecase"

	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	validator service.CredentialValidator
	mailer    service.RegistrationMailer
	logger    *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Validator service.CredentialValidator
	Mailer    service.RegistrationMailer
	Logger    *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		validator: params.Validator,
		mailer:    params.Mailer,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete user registration process: validation,
// hashing, atomic insertion and the fire-and-forget confirmation email. The
// store is only touched after a successful hash, so a failed registration
// leaves no partial state.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.User, error) {
	if result := srv.validator.ValidateRegistration(input.Email, input.Password); !result.OK {
		return nil, domainerrors.ErrValidationFailed.WithDetails(strings.Join(result.Errors, " "))
	}

	email := normalizeEmail(input.Email)
	srv.log(ctx).Info("starting user registration", slog.String("email", email))

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("hash password during registration")
	}

	user := &entity.User{
		Email:        email,
		PasswordHash: hash,
	}

	// Create is the atomic check-and-insert: under concurrent registrations
	// for one email, exactly one call succeeds.
	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domainerrors.ErrEmailTaken.WrapMessage("register user")
		}

		return nil, errors.Wrap(err, "create user")
	}

	srv.sendConfirmation(ctx, user.Email)

	srv.log(ctx).Info("user registered", slog.Int64("user_id", user.ID), slog.String("email", user.Email))

	return user, nil
}

// Login checks the supplied credentials against the stored account.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) error {
	if result := srv.validator.ValidateLogin(input.Email, input.Password); !result.OK {
		return domainerrors.ErrValidationFailed.WithDetails(strings.Join(result.Errors, " "))
	}

	email := normalizeEmail(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("login")
		}

		return errors.Wrap(err, "find user by email")
	}

	ok, err := srv.hasher.Check(input.Password, user.PasswordHash)
	if err != nil {
		// A stored hash bcrypt cannot parse is a corrupt record, not a
		// wrong password.
		srv.log(ctx).Error("stored password hash is malformed",
			slog.Int64("user_id", user.ID), slog.Any("error", err))

		return domainerrors.ErrPasswordHashFailed.WrapMessage("verify password")
	}
	if !ok {
		return domainerrors.ErrIncorrectPassword.WrapMessage("login")
	}

	srv.log(ctx).Info("user logged in", slog.Int64("user_id", user.ID))

	return nil
}

// ListUsers returns the redacted listing of all stored users.
func (srv *userService) ListUsers(ctx context.Context) ([]*usecase.UserRecord, error) {
	users, err := srv.userRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}

	records := make([]*usecase.UserRecord, 0, len(users))
	for _, user := range users {
		records = append(records, &usecase.UserRecord{
			ID:        user.ID,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		})
	}

	return records, nil
}

// sendConfirmation dispatches the registration email without blocking or
// failing the request. Mailer errors are logged and swallowed.
func (srv *userService) sendConfirmation(ctx context.Context, email string) {
	ctx = context.WithoutCancel(ctx)

	logger := srv.log(ctx)

	go func() {
		if err := srv.mailer.SendRegistrationEmail(ctx, email); err != nil {
			logger.Warn("registration confirmation email failed",
				slog.String("email", email), slog.Any("error", err))
		}
	}()
}

// Uniqueness is case-insensitive: emails are normalized before any store
// access.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
