package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	CompanyID  uuid.UUID
	EmployeeID *uuid.UUID
	Type       string
	Offset     int
	Limit      int
}

type DocumentRepository interface {
	Create(ctx context.Context, document *model.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	List(ctx context.Context, filter DocumentFilter) ([]model.Document, int64, error)
	Update(ctx context.Context, document *model.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExpiringBefore(ctx context.Context, companyID uuid.UUID, before time.Time) ([]model.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, document *model.Document) error {
	return translate("document.create", GetDB(ctx, r.db).Create(document).Error)
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var document model.Document
	if err := GetDB(ctx, r.db).First(&document, "id = ?", id).Error; err != nil {
		return nil, translate("document.get", err)
	}
	return &document, nil
}

func (r *documentRepository) List(ctx context.Context, filter DocumentFilter) ([]model.Document, int64, error) {
	var rows []model.Document
	var total int64

	q := GetDB(ctx, r.db).Model(&model.Document{}).Where("company_id = ?", filter.CompanyID)
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("document.count", err)
	}
	if err := q.Offset(filter.Offset).Limit(filter.Limit).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, translate("document.list", err)
	}
	return rows, total, nil
}

func (r *documentRepository) Update(ctx context.Context, document *model.Document) error {
	return translate("document.update", GetDB(ctx, r.db).Save(document).Error)
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Delete(&model.Document{}, "id = ?", id)
	if res.Error != nil {
		return translate("document.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("document.delete", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *documentRepository) ExpiringBefore(ctx context.Context, companyID uuid.UUID, before time.Time) ([]model.Document, error) {
	var rows []model.Document
	err := GetDB(ctx, r.db).
		Where("company_id = ? AND expiry_date IS NOT NULL AND expiry_date < ?", companyID, before).
		Order("expiry_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, translate("document.expiring", err)
	}
	return rows, nil
}
