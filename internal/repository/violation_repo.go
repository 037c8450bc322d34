package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// ViolationFilter narrows violation listings.
type ViolationFilter struct {
	CompanyID  uuid.UUID
	EmployeeID *uuid.UUID
	Severity   string
	Offset     int
	Limit      int
}

type ViolationRepository interface {
	Create(ctx context.Context, violation *model.Violation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Violation, error)
	List(ctx context.Context, filter ViolationFilter) ([]model.Violation, int64, error)
	Update(ctx context.Context, violation *model.Violation) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByEmployee(ctx context.Context, employeeID uuid.UUID) (int64, error)
}

type violationRepository struct {
	db *gorm.DB
}

func NewViolationRepository(db *gorm.DB) ViolationRepository {
	return &violationRepository{db: db}
}

func (r *violationRepository) Create(ctx context.Context, violation *model.Violation) error {
	return translate("violation.create", GetDB(ctx, r.db).Create(violation).Error)
}

func (r *violationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Violation, error) {
	var violation model.Violation
	if err := GetDB(ctx, r.db).First(&violation, "id = ?", id).Error; err != nil {
		return nil, translate("violation.get", err)
	}
	return &violation, nil
}

func (r *violationRepository) List(ctx context.Context, filter ViolationFilter) ([]model.Violation, int64, error) {
	var rows []model.Violation
	var total int64

	q := GetDB(ctx, r.db).Model(&model.Violation{}).Where("company_id = ?", filter.CompanyID)
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("violation.count", err)
	}
	if err := q.Offset(filter.Offset).Limit(filter.Limit).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, 0, translate("violation.list", err)
	}
	return rows, total, nil
}

func (r *violationRepository) Update(ctx context.Context, violation *model.Violation) error {
	return translate("violation.update", GetDB(ctx, r.db).Save(violation).Error)
}

func (r *violationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Delete(&model.Violation{}, "id = ?", id)
	if res.Error != nil {
		return translate("violation.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("violation.delete", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *violationRepository) CountByEmployee(ctx context.Context, employeeID uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Violation{}).
		Where("employee_id = ?", employeeID).
		Count(&n).Error
	if err != nil {
		return 0, translate("violation.count_by_employee", err)
	}
	return n, nil
}
