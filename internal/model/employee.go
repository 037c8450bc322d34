package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Employee status enum constants
const (
	EmployeeActive     = "active"
	EmployeeOnLeave    = "on_leave"
	EmployeeTerminated = "terminated"
)

// Employee is an HR record scoped to a company. Distinct from User: an
// employee may exist without a login account.
type Employee struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	Company      Company         `gorm:"foreignKey:CompanyID" json:"-"`
	FirstName    string          `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string          `gorm:"type:varchar(100);not null" json:"last_name"`
	Email        string          `gorm:"type:varchar(255);index" json:"email"`
	Phone        string          `gorm:"type:varchar(20)" json:"phone"`
	Position     string          `gorm:"type:varchar(100)" json:"position"`
	Department   string          `gorm:"type:varchar(100)" json:"department"`
	NationalID   string          `gorm:"type:varchar(50)" json:"national_id"`
	Salary       decimal.Decimal `gorm:"type:numeric(12,2)" json:"salary"`
	HireDate     *time.Time      `json:"hire_date"`
	Status       string          `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
