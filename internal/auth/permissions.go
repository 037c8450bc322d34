package auth

import (
	"slices"

	"github.com/google/uuid"

	"hrms/internal/model"
)

// Permission codes, grouped by resource. Codes live here rather than in the
// database so role defaults survive an empty permissions table.
const (
	PermCompaniesRead  = "companies.read"
	PermCompaniesWrite = "companies.write"

	PermUsersRead   = "users.read"
	PermUsersWrite  = "users.write"
	PermUsersDelete = "users.delete"

	PermEmployeesRead   = "employees.read"
	PermEmployeesWrite  = "employees.write"
	PermEmployeesDelete = "employees.delete"

	PermLeavesRead    = "leaves.read"
	PermLeavesWrite   = "leaves.write"
	PermLeavesApprove = "leaves.approve"

	PermDeductionsRead  = "deductions.read"
	PermDeductionsWrite = "deductions.write"

	PermViolationsRead  = "violations.read"
	PermViolationsWrite = "violations.write"

	PermAssetsRead  = "assets.read"
	PermAssetsWrite = "assets.write"

	PermPayrollRead = "payroll.read"
	PermPayrollRun  = "payroll.run"

	PermAttendanceRead  = "attendance.read"
	PermAttendanceWrite = "attendance.write"

	PermDocumentsRead  = "documents.read"
	PermDocumentsWrite = "documents.write"

	PermAuditRead = "audit.read"
)

var allPermissions = []string{
	PermCompaniesRead, PermCompaniesWrite,
	PermUsersRead, PermUsersWrite, PermUsersDelete,
	PermEmployeesRead, PermEmployeesWrite, PermEmployeesDelete,
	PermLeavesRead, PermLeavesWrite, PermLeavesApprove,
	PermDeductionsRead, PermDeductionsWrite,
	PermViolationsRead, PermViolationsWrite,
	PermAssetsRead, PermAssetsWrite,
	PermPayrollRead, PermPayrollRun,
	PermAttendanceRead, PermAttendanceWrite,
	PermDocumentsRead, PermDocumentsWrite,
	PermAuditRead,
}

var roleDefaults = map[model.Role][]string{
	model.RoleSuperAdmin: allPermissions,
	model.RoleCompanyManager: {
		PermCompaniesRead,
		PermUsersRead, PermUsersWrite,
		PermEmployeesRead, PermEmployeesWrite, PermEmployeesDelete,
		PermLeavesRead, PermLeavesWrite, PermLeavesApprove,
		PermDeductionsRead, PermDeductionsWrite,
		PermViolationsRead, PermViolationsWrite,
		PermAssetsRead, PermAssetsWrite,
		PermPayrollRead, PermPayrollRun,
		PermAttendanceRead, PermAttendanceWrite,
		PermDocumentsRead, PermDocumentsWrite,
		PermAuditRead,
	},
	model.RoleSupervisor: {
		PermCompaniesRead,
		PermEmployeesRead,
		PermLeavesRead, PermLeavesWrite,
		PermDeductionsRead,
		PermViolationsRead, PermViolationsWrite,
		PermAssetsRead,
		PermAttendanceRead, PermAttendanceWrite,
		PermDocumentsRead,
	},
	model.RoleWorker: {
		PermLeavesRead, PermLeavesWrite,
		PermAttendanceRead, PermAttendanceWrite,
		PermDocumentsRead,
	},
}

// DefaultPermissions returns a copy of the role-default permission set.
func DefaultPermissions(role model.Role) []string {
	return slices.Clone(roleDefaults[role])
}

// EffectivePermissions derives the permission set for a company context: a
// non-empty company override replaces the role defaults wholesale,
// otherwise the role defaults apply. The returned slice is always a copy so
// callers cannot mutate shared state.
func EffectivePermissions(role model.Role, override []string) []string {
	if len(override) > 0 {
		return slices.Clone(override)
	}
	return DefaultPermissions(role)
}

// HasPermission is a pure membership check; the set must already be current.
func HasPermission(perms []string, perm string) bool {
	return slices.Contains(perms, perm)
}

// HasAnyPermission reports whether at least one of wanted is present.
func HasAnyPermission(perms []string, wanted []string) bool {
	for _, w := range wanted {
		if slices.Contains(perms, w) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every one of wanted is present.
func HasAllPermissions(perms []string, wanted []string) bool {
	for _, w := range wanted {
		if !slices.Contains(perms, w) {
			return false
		}
	}
	return true
}

// CanAccessCompany reports whether companyID appears in memberships.
func CanAccessCompany(memberships []model.CompanyUser, companyID uuid.UUID) bool {
	for _, m := range memberships {
		if m.CompanyID == companyID {
			return true
		}
	}
	return false
}

func IsSuperAdmin(role model.Role) bool     { return role == model.RoleSuperAdmin }
func IsCompanyManager(role model.Role) bool { return role == model.RoleCompanyManager }
