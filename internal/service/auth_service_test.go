package service

import (
	"testing"

	"gorm.io/gorm"

	"hrms/internal/auth"
	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/pkg/apperrors"
)

func newAuthService(db *gorm.DB) (AuthService, repository.TokenRepository) {
	tokens := repository.NewTokenRepository(db)
	svc := NewAuthService(
		repository.NewUserRepository(db),
		tokens,
		repository.NewTransactionManager(db),
		NewAuditService(db),
	)
	return svc, tokens
}

func codeOf(t *testing.T, err error) apperrors.Code {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	return apperrors.From(err).Code
}

func TestLogin(t *testing.T) {
	db := testDB(t)
	svc, _ := newAuthService(db)
	seedUser(t, db, "manager@acme.test", model.RoleCompanyManager, "Str0ng!pass")

	t.Run("success", func(t *testing.T) {
		resp, pair, err := svc.Login(ctxb(), LoginRequest{Email: "manager@acme.test", Password: "Str0ng!pass"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" || pair.AccessJTI == "" {
			t.Fatal("incomplete token pair")
		}
		if resp.Email != "manager@acme.test" {
			t.Fatalf("unexpected email %q", resp.Email)
		}
		if resp.LastLoginAt == nil {
			t.Fatal("last login not recorded")
		}
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, _, err1 := svc.Login(ctxb(), LoginRequest{Email: "manager@acme.test", Password: "nope"})
		_, _, err2 := svc.Login(ctxb(), LoginRequest{Email: "ghost@acme.test", Password: "nope"})
		if err1 == nil || err2 == nil {
			t.Fatal("expected both logins to fail")
		}
		if err1.Error() != err2.Error() {
			t.Fatalf("messages differ: %q vs %q", err1, err2)
		}
		if codeOf(t, err1) != apperrors.CodeAuthentication {
			t.Fatalf("unexpected code %s", codeOf(t, err1))
		}
	})

	t.Run("disabled account", func(t *testing.T) {
		u := seedUser(t, db, "gone@acme.test", model.RoleWorker, "Str0ng!pass")
		if err := db.Model(u).Update("is_active", false).Error; err != nil {
			t.Fatal(err)
		}
		_, _, err := svc.Login(ctxb(), LoginRequest{Email: "gone@acme.test", Password: "Str0ng!pass"})
		if codeOf(t, err) != apperrors.CodeAuthentication {
			t.Fatalf("unexpected code %s", codeOf(t, err))
		}
	})
}

func TestRefreshRotation(t *testing.T) {
	db := testDB(t)
	svc, _ := newAuthService(db)
	seedUser(t, db, "rotate@acme.test", model.RoleWorker, "Str0ng!pass")

	_, pair, err := svc.Login(ctxb(), LoginRequest{Email: "rotate@acme.test", Password: "Str0ng!pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	next, err := svc.Refresh(ctxb(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	// The consumed token must be dead.
	if _, err := svc.Refresh(ctxb(), pair.RefreshToken); err == nil {
		t.Fatal("replayed refresh token was accepted")
	}
	// The rotated one still works.
	if _, err := svc.Refresh(ctxb(), next.RefreshToken); err != nil {
		t.Fatalf("rotated token rejected: %v", err)
	}
}

func TestLogout(t *testing.T) {
	db := testDB(t)
	svc, tokens := newAuthService(db)
	user := seedUser(t, db, "leave@acme.test", model.RoleWorker, "Str0ng!pass")

	_, pair, err := svc.Login(ctxb(), LoginRequest{Email: "leave@acme.test", Password: "Str0ng!pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := auth.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if err := svc.Logout(ctxb(), user.ID, claims.ID, claims.ExpiresAt.Time, pair.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}

	revoked, err := tokens.IsTokenRevoked(ctxb(), claims.ID)
	if err != nil {
		t.Fatalf("revocation lookup: %v", err)
	}
	if !revoked {
		t.Fatal("access token not blacklisted after logout")
	}
	if _, err := svc.Refresh(ctxb(), pair.RefreshToken); err == nil {
		t.Fatal("refresh token survived logout")
	}
}

func TestSwitchCompany(t *testing.T) {
	db := testDB(t)
	svc, _ := newAuthService(db)
	user := seedUser(t, db, "multi@acme.test", model.RoleWorker, "Str0ng!pass")
	home := seedCompany(t, db, "Home LLC")
	other := seedCompany(t, db, "Other LLC")
	seedMembership(t, db, user.ID, home.ID, model.RoleCompanyManager, nil)

	t.Run("member", func(t *testing.T) {
		resp, pair, err := svc.SwitchCompany(ctxb(), user.ID, home.ID)
		if err != nil {
			t.Fatalf("switch: %v", err)
		}
		if resp.CompanyID == nil || *resp.CompanyID != home.ID {
			t.Fatal("company context not applied")
		}
		claims, err := auth.ParseAccessToken(pair.AccessToken)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if got := claims.Company(); got == nil || *got != home.ID {
			t.Fatal("new access token does not carry the company claim")
		}
		// Membership role drives the effective set, not the global role.
		found := false
		for _, p := range resp.Permissions {
			if p == auth.PermPayrollRun {
				found = true
			}
		}
		if !found {
			t.Fatal("manager membership did not grant payroll.run")
		}
	})

	t.Run("non-member", func(t *testing.T) {
		_, _, err := svc.SwitchCompany(ctxb(), user.ID, other.ID)
		if codeOf(t, err) != apperrors.CodeAuthorization {
			t.Fatalf("unexpected code %s", codeOf(t, err))
		}
	})

	t.Run("super admin bypasses membership", func(t *testing.T) {
		admin := seedUser(t, db, "root@acme.test", model.RoleSuperAdmin, "Str0ng!pass")
		if _, _, err := svc.SwitchCompany(ctxb(), admin.ID, other.ID); err != nil {
			t.Fatalf("super admin switch: %v", err)
		}
	})
}

func TestPermissionsFor(t *testing.T) {
	db := testDB(t)
	svc, _ := newAuthService(db)
	user := seedUser(t, db, "scoped@acme.test", model.RoleWorker, "Str0ng!pass")
	company := seedCompany(t, db, "Scoped LLC")
	seedMembership(t, db, user.ID, company.ID, model.RoleSupervisor, []string{auth.PermLeavesRead})

	t.Run("override replaces defaults wholesale", func(t *testing.T) {
		perms, err := svc.PermissionsFor(ctxb(), user.ID, &company.ID)
		if err != nil {
			t.Fatalf("permissions: %v", err)
		}
		if len(perms) != 1 || perms[0] != auth.PermLeavesRead {
			t.Fatalf("expected exactly [leaves.read], got %v", perms)
		}
	})

	t.Run("no membership means no permissions", func(t *testing.T) {
		stranger := seedCompany(t, db, "Stranger LLC")
		perms, err := svc.PermissionsFor(ctxb(), user.ID, &stranger.ID)
		if err != nil {
			t.Fatalf("permissions: %v", err)
		}
		if len(perms) != 0 {
			t.Fatalf("expected empty set, got %v", perms)
		}
	})

	t.Run("global context uses role defaults", func(t *testing.T) {
		perms, err := svc.PermissionsFor(ctxb(), user.ID, nil)
		if err != nil {
			t.Fatalf("permissions: %v", err)
		}
		want := auth.DefaultPermissions(model.RoleWorker)
		if len(perms) != len(want) {
			t.Fatalf("expected worker defaults (%d), got %v", len(want), perms)
		}
	})
}

func TestChangePasswordInvalidatesSessions(t *testing.T) {
	db := testDB(t)
	svc, tokens := newAuthService(db)
	user := seedUser(t, db, "rotatepw@acme.test", model.RoleWorker, "Str0ng!pass")

	_, pair, err := svc.Login(ctxb(), LoginRequest{Email: "rotatepw@acme.test", Password: "Str0ng!pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := auth.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	req := ChangePasswordRequest{CurrentPassword: "Str0ng!pass", NewPassword: "An0ther!pass"}
	if err := svc.ChangePassword(ctxb(), user.ID, req, claims.ID, claims.ExpiresAt.Time); err != nil {
		t.Fatalf("change password: %v", err)
	}

	revoked, err := tokens.IsTokenRevoked(ctxb(), claims.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !revoked {
		t.Fatal("access token still valid after password change")
	}
	if _, err := svc.Refresh(ctxb(), pair.RefreshToken); err == nil {
		t.Fatal("refresh token survived password change")
	}
	if _, _, err := svc.Login(ctxb(), LoginRequest{Email: "rotatepw@acme.test", Password: "An0ther!pass"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
