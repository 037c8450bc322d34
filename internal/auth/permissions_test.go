package auth

import (
	"slices"
	"testing"

	"github.com/google/uuid"

	"hrms/internal/model"
)

func TestDefaultPermissionsPerRole(t *testing.T) {
	super := DefaultPermissions(model.RoleSuperAdmin)
	if len(super) != len(allPermissions) {
		t.Fatalf("super_admin defaults: got %d permissions, want %d", len(super), len(allPermissions))
	}

	worker := DefaultPermissions(model.RoleWorker)
	if HasPermission(worker, PermUsersWrite) {
		t.Fatal("worker should not have users.write by default")
	}
	if !HasPermission(worker, PermLeavesWrite) {
		t.Fatal("worker should be able to file leaves")
	}

	if got := DefaultPermissions(model.Role("no-such-role")); len(got) != 0 {
		t.Fatalf("unknown role should have no permissions, got %v", got)
	}
}

func TestDefaultPermissionsReturnsCopy(t *testing.T) {
	a := DefaultPermissions(model.RoleWorker)
	a[0] = "tampered"
	b := DefaultPermissions(model.RoleWorker)
	if slices.Contains(b, "tampered") {
		t.Fatal("mutating a returned slice leaked into the defaults")
	}
}

func TestEffectivePermissionsOverrideReplacesWholesale(t *testing.T) {
	override := []string{PermEmployeesRead}
	got := EffectivePermissions(model.RoleCompanyManager, override)
	if len(got) != 1 || got[0] != PermEmployeesRead {
		t.Fatalf("override should replace defaults entirely, got %v", got)
	}

	// Empty override falls back to role defaults.
	got = EffectivePermissions(model.RoleCompanyManager, nil)
	if !HasPermission(got, PermLeavesApprove) {
		t.Fatal("empty override should yield role defaults")
	}
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	perms := []string{PermLeavesRead, PermLeavesWrite}

	if !HasAnyPermission(perms, []string{PermUsersRead, PermLeavesRead}) {
		t.Fatal("HasAnyPermission missed a present permission")
	}
	if HasAnyPermission(perms, []string{PermUsersRead}) {
		t.Fatal("HasAnyPermission matched an absent permission")
	}
	if !HasAllPermissions(perms, []string{PermLeavesRead, PermLeavesWrite}) {
		t.Fatal("HasAllPermissions rejected a complete set")
	}
	if HasAllPermissions(perms, []string{PermLeavesRead, PermUsersRead}) {
		t.Fatal("HasAllPermissions accepted an incomplete set")
	}
}

func TestCanAccessCompany(t *testing.T) {
	companyID := uuid.New()
	memberships := []model.CompanyUser{
		{CompanyID: uuid.New()},
		{CompanyID: companyID},
	}
	if !CanAccessCompany(memberships, companyID) {
		t.Fatal("member denied access to their company")
	}
	if CanAccessCompany(memberships, uuid.New()) {
		t.Fatal("non-member granted access")
	}
	if CanAccessCompany(nil, companyID) {
		t.Fatal("empty membership list granted access")
	}
}
