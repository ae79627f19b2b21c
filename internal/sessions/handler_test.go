package sessions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askfloor/backend/internal/models"
)

type sessionEnvelope struct {
	Success bool           `json:"success"`
	Data    models.Session `json:"data"`
	Error   string         `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, _, _ := newTestService(t)
	h := NewHandler(svc)

	r := gin.New()
	r.PUT("/sessions/:id", h.Create)
	r.GET("/sessions/:id", h.Get)
	r.GET("/admin/sessions", h.Dashboard)
	return r, svc
}

func TestCreateSessionEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/sessions/townhall", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp sessionEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "townhall", resp.Data.ID)
	assert.Equal(t, "townhall", resp.Data.Name)
	assert.Len(t, resp.Data.AdminPassword, 8, "creator receives the admin password once")
}

func TestCreateSessionWithCustomName(t *testing.T) {
	router, _ := setupRouter(t)

	body := strings.NewReader(`{"name":"All Hands"}`)
	req := httptest.NewRequest(http.MethodPut, "/sessions/allhands", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp sessionEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "All Hands", resp.Data.Name)
}

func TestCreateSessionDuplicateIDConflicts(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/sessions/dup", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/sessions/dup", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetSessionPublicViewOmitsPassword(t *testing.T) {
	router, svc := setupRouter(t)
	_, err := svc.Create(context.Background(), "s1", "")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/s1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp sessionEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.AdminPassword)
}

func TestGetSessionWithPasswordReturnsAdminView(t *testing.T) {
	router, svc := setupRouter(t)
	created, err := svc.Create(context.Background(), "s1", "")
	require.NoError(t, err)
	hiddenQ, err := svc.AddQuestion(context.Background(), "s1", "hide me")
	require.NoError(t, err)
	_, err = svc.Hide(context.Background(), hiddenQ.ID, "s1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/s1?password="+created.AdminPassword, nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp sessionEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, created.AdminPassword, resp.Data.AdminPassword)
	assert.Len(t, resp.Data.Questions, 1, "admin view includes hidden questions")
}

func TestGetSessionNotFound(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/ghost", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A wrong password must be indistinguishable from a missing session.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/ghost?password=NOPE", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardListsOpenAndClosed(t *testing.T) {
	router, svc := setupRouter(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "open-one", "")
	require.NoError(t, err)
	closed, err := svc.Create(ctx, "closed-one", "")
	require.NoError(t, err)
	_, err = svc.Close(ctx, "closed-one", closed.AdminPassword)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/sessions", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			OpenSessions   []models.Session `json:"open_sessions"`
			ClosedSessions []models.Session `json:"closed_sessions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.OpenSessions, 1)
	assert.Equal(t, "open-one", resp.Data.OpenSessions[0].ID)
	require.Len(t, resp.Data.ClosedSessions, 1)
	assert.Equal(t, "closed-one", resp.Data.ClosedSessions[0].ID)
}
