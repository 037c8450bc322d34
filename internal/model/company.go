package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the tenant entity. Every HR record below hangs off a company.
type Company struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string         `gorm:"type:varchar(255);not null;index" json:"name"`
	CommercialFileName string         `gorm:"type:varchar(255)" json:"commercial_file_name"`
	Department         string         `gorm:"type:varchar(100)" json:"department"`
	Classification     string         `gorm:"type:varchar(100)" json:"classification"`
	IndustryType       string         `gorm:"type:varchar(100)" json:"industry_type"`
	Location           string         `gorm:"type:varchar(255)" json:"location"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
	EstablishmentDate  *time.Time     `json:"establishment_date"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CompanyUser is the many-to-many join between users and companies. It is
// the source of truth for per-company role and permission overrides: when a
// row carries a non-empty Permissions list, that list replaces the
// role-default set for that company context.
type CompanyUser struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_company_user" json:"user_id"`
	User              User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	CompanyID         uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_company_user" json:"company_id"`
	Company           Company     `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE;" json:"-"`
	Role              Role        `gorm:"type:varchar(50);not null" json:"role"`
	Permissions       []string    `gorm:"serializer:json" json:"permissions"`
	SupervisedWorkers []uuid.UUID `gorm:"serializer:json" json:"supervised_workers,omitempty"`
	CreatedAt         time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (cu *CompanyUser) BeforeCreate(tx *gorm.DB) error {
	if cu.ID == uuid.Nil {
		cu.ID = uuid.New()
	}
	return nil
}
