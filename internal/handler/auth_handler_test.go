package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hrms/internal/database"
	"hrms/internal/middleware"
	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/internal/service"
	"hrms/pkg/password"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:h_"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	hash, err := password.Hash("Str0ng!pass")
	if err != nil {
		t.Fatal(err)
	}
	user := &model.User{
		Email:     "api@test.local",
		Password:  hash,
		FirstName: "Api",
		LastName:  "User",
		Role:      model.RoleCompanyManager,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatal(err)
	}

	tokenRepo := repository.NewTokenRepository(db)
	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		tokenRepo,
		repository.NewTransactionManager(db),
		service.NewAuditService(db),
	)
	authMw := middleware.NewAuth(tokenRepo, authService)

	router := gin.New()
	api := router.Group("/api", middleware.SanitizeInput())
	NewAuthHandler(authService, authMw).RegisterRoutes(api)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthFlow(t *testing.T) {
	router := setupAuthRouter(t)

	login := doJSON(t, router, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "api@test.local", "password": "Str0ng!pass"}, nil)
	if login.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", login.Code, login.Body)
	}

	// Tokens travel only in HttpOnly cookies, never in the body.
	if strings.Contains(login.Body.String(), "access_token") || strings.Contains(login.Body.String(), "refresh_token") {
		t.Fatalf("token leaked into body: %s", login.Body)
	}
	cookies := login.Result().Cookies()
	var access, refresh *http.Cookie
	for _, c := range cookies {
		switch c.Name {
		case middleware.AccessCookieName():
			access = c
		case middleware.RefreshCookieName():
			refresh = c
		}
	}
	if access == nil || refresh == nil {
		t.Fatalf("session cookies missing: %v", cookies)
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Fatal("session cookies must be HttpOnly")
	}

	me := doJSON(t, router, http.MethodGet, "/api/auth/me", nil, []*http.Cookie{access})
	if me.Code != http.StatusOK {
		t.Fatalf("me status %d: %s", me.Code, me.Body)
	}
	if !strings.Contains(me.Body.String(), "api@test.local") {
		t.Fatalf("unexpected me body: %s", me.Body)
	}

	logout := doJSON(t, router, http.MethodPost, "/api/auth/logout", nil, []*http.Cookie{access, refresh})
	if logout.Code != http.StatusOK {
		t.Fatalf("logout status %d: %s", logout.Code, logout.Body)
	}

	// The blacklisted access token is dead immediately, though unexpired.
	meAfter := doJSON(t, router, http.MethodGet, "/api/auth/me", nil, []*http.Cookie{access})
	if meAfter.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", meAfter.Code)
	}
	// So is the refresh token.
	refreshAfter := doJSON(t, router, http.MethodPost, "/api/auth/refresh", nil, []*http.Cookie{refresh})
	if refreshAfter.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 refresh after logout, got %d", refreshAfter.Code)
	}
}

func TestAuthRejections(t *testing.T) {
	router := setupAuthRouter(t)

	t.Run("no cookie", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/auth/me", nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("garbage cookie", func(t *testing.T) {
		bad := &http.Cookie{Name: middleware.AccessCookieName(), Value: "not-a-jwt"}
		w := doJSON(t, router, http.MethodGet, "/api/auth/me", nil, []*http.Cookie{bad})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/login",
			map[string]string{"email": "api@test.local", "password": "nope"}, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "invalid email or password") {
			t.Fatalf("unexpected body: %s", w.Body)
		}
	})

	t.Run("validation details", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/login",
			map[string]string{"email": "not-an-email"}, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"field":"email"`) || !strings.Contains(w.Body.String(), `"field":"password"`) {
			t.Fatalf("expected per-field details: %s", w.Body)
		}
	})

	t.Run("refresh without cookie", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/refresh", nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}

func TestRefreshSetsNewCookies(t *testing.T) {
	router := setupAuthRouter(t)

	login := doJSON(t, router, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "api@test.local", "password": "Str0ng!pass"}, nil)
	if login.Code != http.StatusOK {
		t.Fatalf("login: %d", login.Code)
	}
	var refresh *http.Cookie
	for _, c := range login.Result().Cookies() {
		if c.Name == middleware.RefreshCookieName() {
			refresh = c
		}
	}
	if refresh == nil {
		t.Fatal("refresh cookie missing")
	}

	w := doJSON(t, router, http.MethodPost, "/api/auth/refresh", nil, []*http.Cookie{refresh})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status %d: %s", w.Code, w.Body)
	}
	var rotated *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.RefreshCookieName() {
			rotated = c
		}
	}
	if rotated == nil {
		t.Fatal("rotated refresh cookie missing")
	}
	if rotated.Value == refresh.Value {
		t.Fatal("refresh token was not rotated")
	}

	// The consumed token is rejected on replay.
	replay := doJSON(t, router, http.MethodPost, "/api/auth/refresh", nil, []*http.Cookie{refresh})
	if replay.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 on replay, got %d", replay.Code)
	}
}
