package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Leave status enum constants. Transitions only leave "pending"; approved
// and rejected are terminal.
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// Leave type enum constants
const (
	LeaveTypeAnnual    = "annual"
	LeaveTypeSick      = "sick"
	LeaveTypeUnpaid    = "unpaid"
	LeaveTypeEmergency = "emergency"
)

// Leave is a leave request. ApprovedBy/ApprovedAt/RejectionReason are set
// only on a transition out of pending, never at creation time.
type Leave struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	EmployeeID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee        Employee   `gorm:"foreignKey:EmployeeID" json:"-"`
	Type            string     `gorm:"type:varchar(30);not null" json:"type"`
	StartDate       time.Time  `gorm:"not null" json:"start_date"`
	EndDate         time.Time  `gorm:"not null" json:"end_date"`
	Days            int        `gorm:"not null" json:"days"`
	Reason          string     `gorm:"type:text" json:"reason"`
	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	Approver        *User      `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (l *Leave) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
