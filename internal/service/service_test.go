package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hrms/internal/database"
	"hrms/internal/model"
	"hrms/pkg/password"
)

// testDB opens an isolated in-memory database per test and migrates the
// full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role model.Role, plaintext string) *model.User {
	t.Helper()
	hash, err := password.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &model.User{
		Email:     email,
		Password:  hash,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		IsActive:  true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedCompany(t *testing.T, db *gorm.DB, name string) *model.Company {
	t.Helper()
	company := &model.Company{Name: name, IsActive: true}
	if err := db.Create(company).Error; err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return company
}

func seedMembership(t *testing.T, db *gorm.DB, userID, companyID uuid.UUID, role model.Role, perms []string) *model.CompanyUser {
	t.Helper()
	m := &model.CompanyUser{
		UserID:      userID,
		CompanyID:   companyID,
		Role:        role,
		Permissions: perms,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}
	return m
}

func seedEmployee(t *testing.T, db *gorm.DB, companyID uuid.UUID, email, salary string) *model.Employee {
	t.Helper()
	d, err := decimal.NewFromString(salary)
	if err != nil {
		t.Fatalf("salary: %v", err)
	}
	employee := &model.Employee{
		CompanyID: companyID,
		FirstName: "Emp",
		LastName:  "Loyee",
		Email:     email,
		Salary:    d,
		Status:    model.EmployeeActive,
	}
	if err := db.Create(employee).Error; err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return employee
}

func ctxb() context.Context { return context.Background() }
