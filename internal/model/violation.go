package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Violation severity enum constants
const (
	ViolationMinor    = "minor"
	ViolationMajor    = "major"
	ViolationCritical = "critical"
)

// Violation records a disciplinary incident for an employee.
type Violation struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	EmployeeID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee    Employee   `gorm:"foreignKey:EmployeeID" json:"-"`
	Type        string     `gorm:"type:varchar(50);not null" json:"type"`
	Severity    string     `gorm:"type:varchar(20);not null;default:'minor'" json:"severity"`
	Description string     `gorm:"type:text" json:"description"`
	Date        time.Time  `gorm:"not null;index" json:"date"`
	ReportedBy  *uuid.UUID `gorm:"type:uuid" json:"reported_by"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (v *Violation) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
