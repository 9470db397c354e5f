package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timesheet/core/internal/application/session"
	"github.com/timesheet/core/internal/domain/entities"
	"github.com/timesheet/core/internal/infrastructure/logger"
	"github.com/timesheet/core/internal/ports"
)

func TestLogin(t *testing.T) {
	auth := &stubAuthService{user: testUser(), token: "good"}
	h := NewAuthHandler(auth, logger.NewNop())

	c, rec := newTestContext(http.MethodPost, "/api/v1/auth/login", `{"email":"ana@example.com","password":"secret"}`, nil)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ports.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "good", resp.AccessToken)
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	for _, loginErr := range []error{entities.ErrInvalidCredentials, entities.ErrAccountInactive} {
		h := NewAuthHandler(&stubAuthService{user: testUser(), loginErr: loginErr}, logger.NewNop())

		c, _ := newTestContext(http.MethodPost, "/", `{"email":"ana@example.com","password":"secret"}`, nil)
		code, msg := httpStatus(t, h.Login(c))
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, "Invalid email or password", msg)
	}
}

func TestLoginValidatesBody(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{user: testUser()}, logger.NewNop())

	c, _ := newTestContext(http.MethodPost, "/", `{"email":"not-an-email"}`, nil)
	code, _ := httpStatus(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRefreshToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{user: testUser(), token: "good"}, logger.NewNop())

	c, rec := newTestContext(http.MethodPost, "/", `{"refresh_token":"refresh"}`, nil)
	require.NoError(t, h.RefreshToken(c))
	assert.Contains(t, rec.Body.String(), "refresh-2")

	c, _ = newTestContext(http.MethodPost, "/", `{"refresh_token":"stale"}`, nil)
	code, _ := httpStatus(t, h.RefreshToken(c))
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLogout(t *testing.T) {
	auth := &stubAuthService{user: testUser(), token: "good"}
	h := NewAuthHandler(auth, logger.NewNop())

	c, _ := newTestContext(http.MethodPost, "/", "", nil)
	code, _ := httpStatus(t, h.Logout(c))
	assert.Equal(t, http.StatusUnauthorized, code)

	c, rec := newTestContext(http.MethodPost, "/", "", nil)
	SetSession(c, auth.user, &ports.Claims{TokenID: "jti", UserID: auth.user.ID})
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, auth.loggedOut)
}

func TestGetSession(t *testing.T) {
	auth := &stubAuthService{user: testUser(), token: "good"}
	h := NewSessionHandler(auth)

	c, rec := newTestContext(http.MethodGet, "/api/v1/session", "", nil)
	c.Request().Header.Set("Authorization", "Bearer good")
	require.NoError(t, h.GetSession(c))

	var snapshot struct {
		State string         `json:"state"`
		User  *entities.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, session.StateAuthenticated.String(), snapshot.State)
	require.NotNil(t, snapshot.User)
	assert.Equal(t, auth.user.ID, snapshot.User.ID)

	c, rec = newTestContext(http.MethodGet, "/api/v1/session", "", nil)
	require.NoError(t, h.GetSession(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, session.StateAnonymous.String(), snapshot.State)
}

func TestBearerToken(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/", "", nil)
	assert.Equal(t, "", BearerToken(c.Request()))

	c.Request().Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "", BearerToken(c.Request()))

	c.Request().Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", BearerToken(c.Request()))
}

func TestReferenceHandler(t *testing.T) {
	h := NewReferenceHandler(staticReferences{}, logger.NewNop())

	c, rec := newTestContext(http.MethodGet, "/api/v1/projects", "", testUser())
	require.NoError(t, h.ListProjects(c))
	assert.Contains(t, rec.Body.String(), "Alpha")

	c, rec = newTestContext(http.MethodGet, "/api/v1/tasks", "", testUser())
	require.NoError(t, h.ListTasks(c))
	assert.Contains(t, rec.Body.String(), "Review")
}
