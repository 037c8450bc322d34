package client

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hrms/internal/auth"
	"hrms/internal/database"
	"hrms/internal/handler"
	"hrms/internal/middleware"
	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/internal/service"
	"hrms/pkg/password"
)

type fixture struct {
	server  *httptest.Server
	company *model.Company
	other   *model.Company
}

// newFixture stands up the real auth surface over sqlite and returns a
// server the client can talk to. The seeded user belongs to two companies
// with the first one active.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:c_"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	company := &model.Company{Name: "Acme LLC", IsActive: true}
	other := &model.Company{Name: "Globex LLC", IsActive: true}
	for _, c := range []*model.Company{company, other} {
		if err := db.Create(c).Error; err != nil {
			t.Fatal(err)
		}
	}

	hash, err := password.Hash("Str0ng!pass")
	if err != nil {
		t.Fatal(err)
	}
	user := &model.User{
		Email:     "facade@test.local",
		Password:  hash,
		FirstName: "Fac",
		LastName:  "Ade",
		Role:      model.RoleWorker,
		CompanyID: &company.ID,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	for _, m := range []*model.CompanyUser{
		{UserID: user.ID, CompanyID: company.ID, Role: model.RoleCompanyManager},
		{UserID: user.ID, CompanyID: other.ID, Role: model.RoleWorker},
	} {
		if err := db.Create(m).Error; err != nil {
			t.Fatal(err)
		}
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
	handler.NewAuthHandler(authService, authMw).RegisterRoutes(api)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &fixture{server: server, company: company, other: other}
}

func newTestClient(t *testing.T, f *fixture) *Client {
	t.Helper()
	c, err := New(f.server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestClientLogin(t *testing.T) {
	f := newFixture(t)
	c := newTestClient(t, f)

	res := c.Login(context.Background(), "facade@test.local", "Str0ng!pass")
	if !res.Success {
		t.Fatalf("login failed: %s", res.Error)
	}
	if res.User == nil || res.User.Email != "facade@test.local" {
		t.Fatalf("user not seeded: %+v", res.User)
	}
	if got := c.CurrentUser(); got == nil || got.ID != res.User.ID {
		t.Fatal("CurrentUser not seeded from login")
	}

	// The active company comes back as a bare id; the client must resolve
	// it against the companies list.
	company := c.CurrentCompany()
	if company == nil {
		t.Fatal("CurrentCompany not resolved after login")
	}
	if company.ID != f.company.ID || company.Name != "Acme LLC" {
		t.Fatalf("wrong company resolved: %+v", company)
	}
	if len(res.User.Companies) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(res.User.Companies))
	}
}

func TestClientLoginFailure(t *testing.T) {
	f := newFixture(t)
	c := newTestClient(t, f)

	res := c.Login(context.Background(), "facade@test.local", "wrong")
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Error != "invalid email or password" {
		t.Fatalf("error not normalized: %q", res.Error)
	}
	if c.CurrentUser() != nil || c.CurrentCompany() != nil {
		t.Fatal("failed login must not seed state")
	}
}

func TestClientSessionCarry(t *testing.T) {
	f := newFixture(t)
	c := newTestClient(t, f)

	if res := c.Login(context.Background(), "facade@test.local", "Str0ng!pass"); !res.Success {
		t.Fatalf("login: %s", res.Error)
	}

	// The jar carries the HttpOnly cookies; no token ever surfaces.
	res := c.CheckAuth(context.Background())
	if !res.Success {
		t.Fatalf("check auth: %s", res.Error)
	}
	if c.CurrentCompany() == nil {
		t.Fatal("CurrentCompany lost across CheckAuth")
	}

	if res := c.Refresh(context.Background()); !res.Success {
		t.Fatalf("refresh: %s", res.Error)
	}
	// The rotated cookies keep the session alive.
	if res := c.CheckAuth(context.Background()); !res.Success {
		t.Fatalf("check auth after refresh: %s", res.Error)
	}
}

func TestClientInitializeAuth(t *testing.T) {
	f := newFixture(t)
	c := newTestClient(t, f)

	// No cookie yet: failure clears any stale in-memory user.
	c.user = &User{Email: "stale@test.local"}
	res := c.InitializeAuth(context.Background())
	if res.Success {
		t.Fatal("expected failure without a session")
	}
	if c.CurrentUser() != nil {
		t.Fatal("stale user not cleared")
	}

	// With a live cookie jar it hydrates.
	if res := c.Login(context.Background(), "facade@test.local", "Str0ng!pass"); !res.Success {
		t.Fatalf("login: %s", res.Error)
	}
	c.user = nil
	res = c.InitializeAuth(context.Background())
	if !res.Success || c.CurrentUser() == nil {
		t.Fatalf("hydration failed: %s", res.Error)
	}
}

func TestClientLogout(t *testing.T) {
	f := newFixture(t)
	c := newTestClient(t, f)

	if res := c.Login(context.Background(), "facade@test.local", "Str0ng!pass"); !res.Success {
		t.Fatalf("login: %s", res.Error)
	}
	if res := c.Logout(context.Background()); !res.Success {
		t.Fatalf("logout: %s", res.Error)
	}
	if c.CurrentUser() != nil || c.CurrentCompany() != nil {
		t.Fatal("logout must drop local state")
	}
	// The server-side session is dead too.
	if res := c.CheckAuth(context.Background()); res.Success {
		t.Fatal("session survived logout")
	}
}

func TestClientSwitchCompany(t *testing.T) {
	f := newFixture(t)
	c := newTestClient(t, f)

	if res := c.Login(context.Background(), "facade@test.local", "Str0ng!pass"); !res.Success {
		t.Fatalf("login: %s", res.Error)
	}

	res := c.SwitchCompany(context.Background(), f.other.ID)
	if !res.Success {
		t.Fatalf("switch: %s", res.Error)
	}
	company := c.CurrentCompany()
	if company == nil || company.ID != f.other.ID {
		t.Fatalf("company context not replaced: %+v", company)
	}

	// Permissions are replaced wholesale with the new membership's set.
	if c.HasPermission(auth.PermPayrollRun) {
		t.Fatal("manager permission leaked into worker context")
	}
	if !c.HasPermission(auth.PermLeavesRead) {
		t.Fatal("worker default permission missing")
	}

	// A company outside the membership list is refused.
	if res := c.SwitchCompany(context.Background(), uuid.New()); res.Success {
		t.Fatal("expected refusal for foreign company")
	}
}

func TestClientPermissionPredicates(t *testing.T) {
	f := newFixture(t)
	c := newTestClient(t, f)

	// All predicates are false before any user is loaded.
	if c.HasPermission(auth.PermLeavesRead) || c.HasAnyPermission(auth.PermLeavesRead) ||
		c.HasAllPermissions(auth.PermLeavesRead) || c.IsSuperAdmin() || c.CanAccessCompany(f.company.ID.String()) {
		t.Fatal("predicates must be false with no user")
	}

	if res := c.Login(context.Background(), "facade@test.local", "Str0ng!pass"); !res.Success {
		t.Fatalf("login: %s", res.Error)
	}

	// Login lands in the manager company.
	if !c.HasPermission(auth.PermPayrollRun) {
		t.Fatal("manager permission missing")
	}
	if !c.HasAnyPermission("nope", auth.PermPayrollRun) {
		t.Fatal("HasAnyPermission")
	}
	if c.HasAllPermissions(auth.PermPayrollRun, "nope") {
		t.Fatal("HasAllPermissions must require every entry")
	}
	if c.IsSuperAdmin() {
		t.Fatal("worker is not super admin")
	}
	if !c.CanAccessCompany(f.other.ID.String()) {
		t.Fatal("membership company not accessible")
	}
	if c.CanAccessCompany(uuid.NewString()) {
		t.Fatal("foreign company must not be accessible")
	}
}
