package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"passport/config"
	"passport/internal/delivery/http/middleware"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/infra/auth"
	"passport/internal/infra/mail"
	"passport/internal/infra/persistence/memory"
	"passport/internal/infra/validate"
	"passport/internal/usecase"
	"passport/internal/usecase/impl"
)

// newTestServer wires the real stack (memory store, low-cost bcrypt,
// configured validator) behind the real routes and error handler.
func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		PasswordPolicy: &config.PasswordPolicyConfig{
			MinLength:        8,
			MaxLength:        72,
			RequireUppercase: true,
			RequireLowercase: true,
			RequireDigit:     true,
		},
		Mail: &config.MailConfig{FromAddress: "no-reply@test"},
	}

	uc := impl.NewUserService(impl.UserServiceParams{
		UserRepo:  memory.NewUserRepository(),
		Hasher:    auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		Validator: validate.New(cfg),
		Mailer:    mail.NewLoggingMailer(cfg, logger),
		Logger:    logger,
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	userHandler := NewUserHandler(uc, logger)
	e.GET("/health", HealthCheck)
	e.GET("/users", userHandler.ListUsers)
	e.POST("/users/register", userHandler.Register)
	e.POST("/users/login", userHandler.Login)

	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) domainerrors.Response {
	t.Helper()

	var resp domainerrors.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

func TestUserHandler_EndToEnd(t *testing.T) {
	e := newTestServer(t)

	// Register.
	rec := doJSON(e, http.MethodPost, "/users/register", `{"email":"a@b.com","password":"Secret123"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "User created successfully.", resp.Message)

	// Listing shows one redacted entry, not the plaintext and not a hash
	// field at all.
	rec = doJSON(e, http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Data []usecase.UserRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Data, 1)
	assert.Equal(t, "a@b.com", listing.Data[0].Email)
	assert.NotContains(t, rec.Body.String(), "Secret123")
	assert.NotContains(t, rec.Body.String(), "password")

	// Login with the right password.
	rec = doJSON(e, http.MethodPost, "/users/login", `{"email":"a@b.com","password":"Secret123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged in successfully.", decodeResponse(t, rec).Message)

	// Login with the wrong password.
	rec = doJSON(e, http.MethodPost, "/users/login", `{"email":"a@b.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Incorrect password.", decodeResponse(t, rec).Message)

	// Registering the same email again conflicts.
	rec = doJSON(e, http.MethodPost, "/users/register", `{"email":"a@b.com","password":"Secret123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already in use.", decodeResponse(t, rec).Message)
}

func TestUserHandler_Register_ValidationErrors(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/users/register", `{"email":"not-an-email","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "Email must be a valid email address.")
	assert.Contains(t, resp.Error.Details, "Password must be at least 8 characters long.")
}

func TestUserHandler_Register_MalformedJSON(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/users/register", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_Login_UnknownUser(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/users/login", `{"email":"nobody@b.com","password":"Secret123"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User does not exist.", decodeResponse(t, rec).Message)
}

func TestUserHandler_Login_EmptyInput(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/users/login", `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
}

func TestHealthCheck(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
