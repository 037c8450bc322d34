package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payroll status enum constants
const (
	PayrollDraft = "draft"
	PayrollFinal = "final"
)

// Payroll is one employee's settlement for a period ("2026-08"). Net is
// base salary plus allowances minus the deductions dated inside the period.
// One row per employee per period.
type Payroll struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_payroll_period" json:"employee_id"`
	Employee   Employee        `gorm:"foreignKey:EmployeeID" json:"-"`
	Period     string          `gorm:"type:varchar(7);not null;uniqueIndex:idx_payroll_period" json:"period"`
	BaseSalary decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_salary"`
	Allowances decimal.Decimal `gorm:"type:numeric(12,2)" json:"allowances"`
	Deductions decimal.Decimal `gorm:"type:numeric(12,2)" json:"deductions"`
	NetSalary  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"net_salary"`
	Status     string          `gorm:"type:varchar(10);not null;default:'draft'" json:"status"`
	RunBy      *uuid.UUID      `gorm:"type:uuid" json:"run_by"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Payroll) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
