package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
	"hrms/internal/repository"
)

// AuditEntry is one record-worthy event.
type AuditEntry struct {
	UserID     *uuid.UUID
	CompanyID  *uuid.UUID
	Action     string
	EntityID   string
	EntityName string
	Details    interface{} // serialized to JSON
}

// AuditService writes and reads the audit trail. Record participates in the
// caller's transaction when one is on the context.
type AuditService interface {
	Record(ctx context.Context, entry AuditEntry) error
	List(ctx context.Context, companyID *uuid.UUID, action string, offset, limit int) ([]model.AuditLog, int64, error)
}

type auditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) AuditService {
	return &auditService{db: db}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) error {
	var details string
	if entry.Details != nil {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			log.Println("audit: failed to serialize details:", err)
		} else {
			details = string(raw)
		}
	}
	row := model.AuditLog{
		UserID:     entry.UserID,
		CompanyID:  entry.CompanyID,
		Action:     entry.Action,
		EntityID:   entry.EntityID,
		EntityName: entry.EntityName,
		Details:    details,
	}
	return repository.GetDB(ctx, s.db).Create(&row).Error
}

func (s *auditService) List(ctx context.Context, companyID *uuid.UUID, action string, offset, limit int) ([]model.AuditLog, int64, error) {
	var rows []model.AuditLog
	var total int64

	q := repository.GetDB(ctx, s.db).Model(&model.AuditLog{})
	if companyID != nil {
		q = q.Where("company_id = ?", *companyID)
	}
	if action != "" {
		q = q.Where("action = ?", action)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Offset(offset).Limit(limit).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
