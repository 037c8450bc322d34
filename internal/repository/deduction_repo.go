package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// DeductionFilter narrows deduction listings.
type DeductionFilter struct {
	CompanyID  uuid.UUID
	EmployeeID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Offset     int
	Limit      int
}

type DeductionRepository interface {
	Create(ctx context.Context, deduction *model.Deduction) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Deduction, error)
	List(ctx context.Context, filter DeductionFilter) ([]model.Deduction, int64, error)
	Update(ctx context.Context, deduction *model.Deduction) error
	Delete(ctx context.Context, id uuid.UUID) error
	SumForPeriod(ctx context.Context, employeeID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

type deductionRepository struct {
	db *gorm.DB
}

func NewDeductionRepository(db *gorm.DB) DeductionRepository {
	return &deductionRepository{db: db}
}

func (r *deductionRepository) Create(ctx context.Context, deduction *model.Deduction) error {
	return translate("deduction.create", GetDB(ctx, r.db).Create(deduction).Error)
}

func (r *deductionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Deduction, error) {
	var deduction model.Deduction
	if err := GetDB(ctx, r.db).First(&deduction, "id = ?", id).Error; err != nil {
		return nil, translate("deduction.get", err)
	}
	return &deduction, nil
}

func (r *deductionRepository) List(ctx context.Context, filter DeductionFilter) ([]model.Deduction, int64, error) {
	var rows []model.Deduction
	var total int64

	q := GetDB(ctx, r.db).Model(&model.Deduction{}).Where("company_id = ?", filter.CompanyID)
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("date < ?", *filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("deduction.count", err)
	}
	if err := q.Offset(filter.Offset).Limit(filter.Limit).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, 0, translate("deduction.list", err)
	}
	return rows, total, nil
}

func (r *deductionRepository) Update(ctx context.Context, deduction *model.Deduction) error {
	return translate("deduction.update", GetDB(ctx, r.db).Save(deduction).Error)
}

func (r *deductionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Delete(&model.Deduction{}, "id = ?", id)
	if res.Error != nil {
		return translate("deduction.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("deduction.delete", gorm.ErrRecordNotFound)
	}
	return nil
}

// SumForPeriod totals an employee's deductions dated in [from, to).
func (r *deductionRepository) SumForPeriod(ctx context.Context, employeeID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var raw decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.Deduction{}).
		Select("SUM(amount)").
		Where("employee_id = ? AND date >= ? AND date < ?", employeeID, from, to).
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, translate("deduction.sum", err)
	}
	if !raw.Valid {
		return decimal.Zero, nil
	}
	return raw.Decimal, nil
}
