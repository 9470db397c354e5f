package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/timesheet/core/internal/application/session"
	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/infrastructure/logger"
	"github.com/timesheet/core/internal/ports"
)

const (
	contextUserKey   = "user"
	contextClaimsKey = "claims"
)

// Validator adapts go-playground/validator to echo
type Validator struct {
	validator *validator.Validate
}

// NewValidator creates the request validator
func NewValidator() *Validator {
	return &Validator{validator: validator.New()}
}

// Validate validates structs
func (v *Validator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService ports.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles user login
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.LoginRequest true "Credentials"
// @Success 200 {object} ports.AuthResponse
// @Failure 401 {object} MessageResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidCredentials) || errors.Is(err, entities.ErrAccountInactive) {
			h.logger.LogSecurityEvent("login_failed", "", c.RealIP(), map[string]interface{}{"email": req.Email})
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		h.logger.Error("Login failed", "error", err, "email", req.Email)
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
	}

	return c.JSON(http.StatusOK, response)
}

// RefreshToken handles token refresh
// @Summary Rotate the refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.RefreshRequest true "Refresh token"
// @Success 200 {object} ports.AuthResponse
// @Failure 401 {object} MessageResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	var req ports.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		h.logger.Warn("Token refresh failed", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid refresh token")
	}

	return c.JSON(http.StatusOK, response)
}

// Logout handles user logout
// @Summary Sign out
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	claims := ClaimsFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Please login first")
	}

	err := h.authService.Logout(c.Request().Context(), claims)
	if err != nil {
		h.logger.Error("Logout failed", "error", err, "user_id", claims.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Logout failed")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// SessionHandler reports the session behind a request
type SessionHandler struct {
	authService ports.AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(authService ports.AuthService) *SessionHandler {
	return &SessionHandler{authService: authService}
}

// GetSession resolves the bearer token through a session gate. A missing or
// bad token yields the anonymous state rather than an error.
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} session.Snapshot
// @Router /session [get]
func (h *SessionHandler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()

	gate := session.NewGate()
	defer gate.Close()

	if err := gate.Subscribe(ctx, h.authService.SessionSource(BearerToken(c.Request()))); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, gate.Await(ctx))
}

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(r *http.Request) string {
	header := r.Header.Get(echo.HeaderAuthorization)
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return strings.TrimSpace(token)
}

// SetSession stores the authenticated user and token claims on the request
func SetSession(c echo.Context, user *entities.User, claims *ports.Claims) {
	c.Set(contextUserKey, user)
	c.Set(contextClaimsKey, claims)
}

// UserFromContext returns the authenticated user or nil
func UserFromContext(c echo.Context) *entities.User {
	user, _ := c.Get(contextUserKey).(*entities.User)
	return user
}

// ClaimsFromContext returns the access token claims or nil
func ClaimsFromContext(c echo.Context) *ports.Claims {
	claims, _ := c.Get(contextClaimsKey).(*ports.Claims)
	return claims
}

// Request/Response types
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse carries per-field messages
type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

// BulkValidationErrorResponse carries per-row field messages, rows numbered from 1
type BulkValidationErrorResponse struct {
	Message string                    `json:"message"`
	Rows    map[int]map[string]string `json:"rows"`
}
