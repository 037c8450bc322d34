package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is a metadata record for a stored file (contract, ID copy,
// certificate). EmployeeID is nil for company-level documents.
type Document struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	EmployeeID *uuid.UUID `gorm:"type:uuid;index" json:"employee_id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	Type       string     `gorm:"type:varchar(100)" json:"type"`
	FileURL    string     `gorm:"type:varchar(512)" json:"file_url"`
	ExpiryDate *time.Time `gorm:"index" json:"expiry_date"`
	UploadedBy *uuid.UUID `gorm:"type:uuid" json:"uploaded_by"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
