package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.RevokedToken{},
		&model.Company{},
		&model.CompanyUser{},
		&model.Employee{},
		&model.Leave{},
		&model.Deduction{},
		&model.Violation{},
		&model.Asset{},
		&model.Payroll{},
		&model.Attendance{},
		&model.Document{},
		&model.Notification{},
		&model.AuditLog{},
	)
}
