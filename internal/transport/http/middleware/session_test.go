package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randyf333/SylliAI/internal/pkg/jwtutil"
	"github.com/randyf333/SylliAI/internal/session"
	"github.com/randyf333/SylliAI/internal/transport/http/response"
)

const guardTestSecret = "guard-test-secret"

type stubSessionStore struct {
	sessions map[string]session.Session
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*session.Session, bool, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false, nil
	}
	return &sess, true, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func guardRouter(store *stubSessionStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", SessionGuard(store, guardTestSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString(ContextUserIDKey),
			"email":   c.GetString(ContextEmailKey),
		})
	})
	return router
}

func doGuarded(t *testing.T, router *gin.Engine, sessionID string) (*httptest.ResponseRecorder, response.APIResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func seedGuardSession(t *testing.T, store *stubSessionStore, id string, accessTTL time.Duration) {
	t.Helper()

	access, err := jwtutil.GenerateToken(guardTestSecret, accessTTL, jwtutil.TokenTypeAccess, "user-1", "alice@example.com")
	require.NoError(t, err)
	refresh, err := jwtutil.GenerateToken(guardTestSecret, time.Hour, jwtutil.TokenTypeRefresh, "user-1", "alice@example.com")
	require.NoError(t, err)

	store.sessions[id] = session.Session{
		UserID:       "user-1",
		Email:        "alice@example.com",
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

func TestSessionGuardNoCookie(t *testing.T) {
	store := &stubSessionStore{sessions: map[string]session.Session{}}

	rec, body := doGuarded(t, guardRouter(store), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, response.CodeUnauthorized, body.Code)
}

func TestSessionGuardUnknownSession(t *testing.T) {
	store := &stubSessionStore{sessions: map[string]session.Session{}}

	rec, body := doGuarded(t, guardRouter(store), "no-such-session")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, response.CodeUnauthorized, body.Code)
}

func TestSessionGuardMissingTokensDestroysSession(t *testing.T) {
	store := &stubSessionStore{sessions: map[string]session.Session{
		"sess-1": {UserID: "user-1", Email: "alice@example.com"},
	}}

	rec, body := doGuarded(t, guardRouter(store), "sess-1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, response.CodeSessionExpired, body.Code)
	assert.NotContains(t, store.sessions, "sess-1")
}

func TestSessionGuardExpiredAccessTokenKeepsSession(t *testing.T) {
	store := &stubSessionStore{sessions: map[string]session.Session{}}
	seedGuardSession(t, store, "sess-1", -time.Minute)

	rec, body := doGuarded(t, guardRouter(store), "sess-1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, response.CodeSessionExpired, body.Code)

	// The record must survive: it holds the refresh token the client needs to
	// rotate the pair instead of logging in again.
	assert.Contains(t, store.sessions, "sess-1")
}

func TestSessionGuardValidSessionInstallsIdentity(t *testing.T) {
	store := &stubSessionStore{sessions: map[string]session.Session{}}
	seedGuardSession(t, store, "sess-1", time.Minute)

	rec, _ := doGuarded(t, guardRouter(store), "sess-1")
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, "alice@example.com", payload.Email)
}
