package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// PayrollFilter narrows payroll listings.
type PayrollFilter struct {
	CompanyID  uuid.UUID
	EmployeeID *uuid.UUID
	Period     string
	Status     string
	Offset     int
	Limit      int
}

type PayrollRepository interface {
	Create(ctx context.Context, payroll *model.Payroll) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Payroll, error)
	GetByPeriod(ctx context.Context, employeeID uuid.UUID, period string) (*model.Payroll, error)
	List(ctx context.Context, filter PayrollFilter) ([]model.Payroll, int64, error)
	Update(ctx context.Context, payroll *model.Payroll) error
}

type payrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) PayrollRepository {
	return &payrollRepository{db: db}
}

func (r *payrollRepository) Create(ctx context.Context, payroll *model.Payroll) error {
	return translate("payroll.create", GetDB(ctx, r.db).Create(payroll).Error)
}

func (r *payrollRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Payroll, error) {
	var payroll model.Payroll
	if err := GetDB(ctx, r.db).First(&payroll, "id = ?", id).Error; err != nil {
		return nil, translate("payroll.get", err)
	}
	return &payroll, nil
}

func (r *payrollRepository) GetByPeriod(ctx context.Context, employeeID uuid.UUID, period string) (*model.Payroll, error) {
	var payroll model.Payroll
	err := GetDB(ctx, r.db).
		First(&payroll, "employee_id = ? AND period = ?", employeeID, period).Error
	if err != nil {
		return nil, translate("payroll.get_by_period", err)
	}
	return &payroll, nil
}

func (r *payrollRepository) List(ctx context.Context, filter PayrollFilter) ([]model.Payroll, int64, error) {
	var rows []model.Payroll
	var total int64

	q := GetDB(ctx, r.db).Model(&model.Payroll{}).Where("company_id = ?", filter.CompanyID)
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Period != "" {
		q = q.Where("period = ?", filter.Period)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("payroll.count", err)
	}
	if err := q.Offset(filter.Offset).Limit(filter.Limit).Order("period DESC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, translate("payroll.list", err)
	}
	return rows, total, nil
}

func (r *payrollRepository) Update(ctx context.Context, payroll *model.Payroll) error {
	return translate("payroll.update", GetDB(ctx, r.db).Save(payroll).Error)
}
