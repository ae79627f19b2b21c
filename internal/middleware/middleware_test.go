package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/askfloor/backend/internal/voter"
	"github.com/askfloor/backend/pkg/response"
)

func TestAdminBasicAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AdminBasicAuth("letmein"))
	r.GET("/admin", func(c *gin.Context) { response.OK(c, gin.H{"ok": true}) })

	t.Run("missing credentials", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.SetBasicAuth("anyone", "wrong")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("correct password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.SetBasicAuth("anyone", "letmein")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestVoterMiddlewareIssuesAndReusesIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	voters := voter.NewService("test-secret", 24)

	var seen []string
	r := gin.New()
	r.Use(Voter(voters, zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		seen = append(seen, VoterID(c))
		response.OK(c, nil)
	})

	// first request mints a cookie
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	var tokenCookie *http.Cookie
	for _, ck := range cookies {
		if ck.Name == voter.CookieName {
			tokenCookie = ck
		}
	}
	require.NotNil(t, tokenCookie)
	require.Len(t, seen, 1)
	assert.NotEmpty(t, seen[0])

	// second request with the cookie keeps the same voter id
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(tokenCookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, seen, 2)
	assert.Equal(t, seen[0], seen[1])
}
