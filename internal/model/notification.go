package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification type enum constants
const (
	NotificationLeaveRequested = "leave_requested"
	NotificationLeaveApproved  = "leave_approved"
	NotificationLeaveRejected  = "leave_rejected"
	NotificationPayrollReady   = "payroll_ready"
	NotificationDocExpiring    = "document_expiring"
	NotificationSystem         = "system"
)

// Notification is owned by a user and mutated only through MarkAsRead /
// MarkAllAsRead; re-marking a read row is a no-op.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index" json:"company_id"`
	Type      string     `gorm:"type:varchar(50);not null" json:"type"`
	Title     string     `gorm:"type:varchar(255);not null" json:"title"`
	Message   string     `gorm:"type:text" json:"message"`
	Data      string     `gorm:"type:jsonb" json:"data"` // serialized JSON payload
	IsRead    bool       `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
