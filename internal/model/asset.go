package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Asset status enum constants
const (
	AssetAvailable = "available"
	AssetAssigned  = "assigned"
	AssetRetired   = "retired"
)

// Asset is a piece of company property that can be assigned to an employee.
// AssignedTo/AssignedAt are set only while Status is "assigned".
type Asset struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Type         string     `gorm:"type:varchar(100)" json:"type"`
	SerialNumber string     `gorm:"type:varchar(100);index" json:"serial_number"`
	Status       string     `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	AssignedTo   *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to"`
	Assignee     *Employee  `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	AssignedAt   *time.Time `json:"assigned_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Asset) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
