package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"passport/config"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/service"
	"passport/internal/errors"
	"passport/internal/infra/auth"
	"passport/internal/infra/persistence/memory"
	"passport/internal/infra/validate"
	"passport/internal/usecase"
)

// recordingMailer captures sends and can be told to fail.
type recordingMailer struct {
	mu    sync.Mutex
	sent  []string
	fail  error
	ready chan struct{}
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{ready: make(chan struct{}, 16)}
}

func (m *recordingMailer) SendRegistrationEmail(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	m.ready <- struct{}{}

	return m.fail
}

func (m *recordingMailer) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.sent...)
}

type userServiceFixtures struct {
	service usecase.UserUsecase
	hasher  service.PasswordHasher
	mailer  *recordingMailer
}

func createTestUserService(t *testing.T) userServiceFixtures {
	t.Helper()

	cfg := &config.Config{
		PasswordPolicy: &config.PasswordPolicyConfig{
			MinLength:        8,
			MaxLength:        72,
			RequireUppercase: true,
			RequireLowercase: true,
			RequireDigit:     true,
		},
	}

	hasher := auth.NewBcryptHasherWithCost(bcrypt.MinCost)
	mailer := newRecordingMailer()

	svc := NewUserService(UserServiceParams{
		UserRepo:  memory.NewUserRepository(),
		Hasher:    hasher,
		Validator: validate.New(cfg),
		Mailer:    mailer,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return userServiceFixtures{service: svc, hasher: hasher, mailer: mailer}
}

func appError(t *testing.T, err error) domainerrors.AppError {
	t.Helper()

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)

	return appErr
}

func TestUserService_Register_Success(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	user, err := fixtures.service.Register(ctx, &usecase.RegisterInput{
		Email:    "a@b.com",
		Password: "Secret123",
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "a@b.com", user.Email)

	// The stored password is a hash, never the plaintext.
	assert.NotEqual(t, "Secret123", user.PasswordHash)
	ok, err := fixtures.hasher.Check("Secret123", user.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	<-fixtures.mailer.ready
	assert.Equal(t, []string{"a@b.com"}, fixtures.mailer.sentTo())
}

func TestUserService_Register_ValidationFailure(t *testing.T) {
	fixtures := createTestUserService(t)

	_, err := fixtures.service.Register(context.Background(), &usecase.RegisterInput{
		Email:    "not-an-email",
		Password: "short",
	})

	appErr := appError(t, err)
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
	assert.Contains(t, appErr.Details(), "Email must be a valid email address.")
	assert.Contains(t, appErr.Details(), "Password must be at least 8 characters long.")
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	_, err := fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "a@b.com", Password: "Secret123"})
	require.NoError(t, err)

	_, err = fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "a@b.com", Password: "Secret456"})
	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
}

func TestUserService_Register_DuplicateEmail_CaseInsensitive(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	_, err := fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "A@B.com", Password: "Secret123"})
	require.NoError(t, err)

	_, err = fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "a@b.COM", Password: "Secret123"})
	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
}

func TestUserService_Register_ConcurrentDuplicates(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	const attempts = 16

	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = fixtures.service.Register(ctx, &usecase.RegisterInput{
				Email:    "race@b.com",
				Password: "Secret123",
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
		}
	}
	assert.Equal(t, 1, succeeded)

	records, err := fixtures.service.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestUserService_Register_MailerFailureDoesNotFailRegistration(t *testing.T) {
	fixtures := createTestUserService(t)
	fixtures.mailer.fail = errors.New("smtp down")

	_, err := fixtures.service.Register(context.Background(), &usecase.RegisterInput{
		Email:    "a@b.com",
		Password: "Secret123",
	})

	require.NoError(t, err)
	<-fixtures.mailer.ready
}

func TestUserService_Login_Success(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	_, err := fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "a@b.com", Password: "Secret123"})
	require.NoError(t, err)

	err = fixtures.service.Login(ctx, &usecase.LoginInput{Email: "a@b.com", Password: "Secret123"})
	assert.NoError(t, err)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	_, err := fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "a@b.com", Password: "Secret123"})
	require.NoError(t, err)

	err = fixtures.service.Login(ctx, &usecase.LoginInput{Email: "a@b.com", Password: "wrong"})
	assert.True(t, errors.Is(err, domainerrors.ErrIncorrectPassword))
}

func TestUserService_Login_UnknownUser(t *testing.T) {
	fixtures := createTestUserService(t)

	err := fixtures.service.Login(context.Background(), &usecase.LoginInput{
		Email:    "missing@b.com",
		Password: "Secret123",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestUserService_Login_MissingFields(t *testing.T) {
	fixtures := createTestUserService(t)

	err := fixtures.service.Login(context.Background(), &usecase.LoginInput{})
	appErr := appError(t, err)
	assert.Equal(t, "VALIDATION_FAILED", appErr.ErrorCode())
}

func TestUserService_ListUsers_Redacted(t *testing.T) {
	fixtures := createTestUserService(t)
	ctx := context.Background()

	_, err := fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "a@b.com", Password: "Secret123"})
	require.NoError(t, err)
	_, err = fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "b@b.com", Password: "Secret123"})
	require.NoError(t, err)

	records, err := fixtures.service.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a@b.com", records[0].Email)
	assert.Equal(t, "b@b.com", records[1].Email)
	assert.Less(t, records[0].ID, records[1].ID)
}
