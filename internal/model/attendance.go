package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance is one employee's record for one working day. A second
// check-in on the same day is a conflict, not a new row.
type Attendance struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"company_id"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_day" json:"employee_id"`
	Employee   Employee   `gorm:"foreignKey:EmployeeID" json:"-"`
	Day        string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_day" json:"day"` // YYYY-MM-DD
	CheckIn    time.Time  `gorm:"not null" json:"check_in"`
	CheckOut   *time.Time `json:"check_out"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
