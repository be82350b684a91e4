package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/pkg/auth"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, auth.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewJWTService("test-secret", time.Hour)
	mw := NewAuthMiddleware(tokens)

	r := gin.New()
	r.GET("/protected", mw.Authenticate(), func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	r.GET("/admin-only", mw.Authenticate(), mw.RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, tokens
}

func doRequest(r *gin.Engine, authHeader string, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateMissingToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := doRequest(r, "", "/protected")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateBadHeaderFormat(t *testing.T) {
	r, tokens := newAuthTestRouter(t)

	token, err := tokens.Issue(uuid.New(), "alice@example.test", model.RolePatient)
	require.NoError(t, err)

	w := doRequest(r, token, "/protected")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, "Basic "+token, "/protected")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	r, _ := newAuthTestRouter(t)

	w := doRequest(r, "Bearer not-a-token", "/protected")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticatePassesClaims(t *testing.T) {
	r, tokens := newAuthTestRouter(t)

	token, err := tokens.Issue(uuid.New(), "alice@example.test", model.RolePatient)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token, "/protected")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	r, tokens := newAuthTestRouter(t)

	patientToken, err := tokens.Issue(uuid.New(), "alice@example.test", model.RolePatient)
	require.NoError(t, err)
	adminToken, err := tokens.Issue(uuid.New(), "root@clinic.test", model.RoleAdmin)
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+patientToken, "/admin-only")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, "Bearer "+adminToken, "/admin-only")
	assert.Equal(t, http.StatusOK, w.Code)
}
