package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hrms/internal/auth"
	"hrms/internal/model"
)

type stubTokenStore struct {
	revoked bool
	err     error
}

func (s *stubTokenStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.revoked, s.err
}

const cookieName = "access_token"

func wsRouter(store TokenStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	hub := NewHub()
	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		ServeWs(hub, store, c, cookieName)
	})
	return router
}

func wsRequest(t *testing.T, router *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestServeWsAuth(t *testing.T) {
	token, _, err := auth.IssueAccessToken(uuid.New(), model.RoleWorker, nil, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	t.Run("missing token", func(t *testing.T) {
		w := wsRequest(t, wsRouter(&stubTokenStore{}), "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		w := wsRequest(t, wsRouter(&stubTokenStore{}), "not-a-jwt")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("revoked token", func(t *testing.T) {
		// Valid signature and expiry, but blacklisted by logout: the
		// socket must not open.
		w := wsRequest(t, wsRouter(&stubTokenStore{revoked: true}), token)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("blacklist lookup failure", func(t *testing.T) {
		w := wsRequest(t, wsRouter(&stubTokenStore{err: errors.New("db down")}), token)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})

	t.Run("live token reaches the upgrader", func(t *testing.T) {
		// Without handshake headers the upgrade itself fails with 400,
		// which proves authentication passed.
		w := wsRequest(t, wsRouter(&stubTokenStore{}), token)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 from the upgrader, got %d", w.Code)
		}
	})
}
