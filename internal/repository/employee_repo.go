package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// EmployeeFilter narrows employee listings.
type EmployeeFilter struct {
	CompanyID  uuid.UUID
	Status     string // empty for all
	Department string
	Offset     int
	Limit      int
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]model.Employee, int64, error)
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, companyID uuid.UUID) (map[string]int64, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return translate("employee.create", GetDB(ctx, r.db).Create(employee).Error)
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	if err := GetDB(ctx, r.db).First(&employee, "id = ?", id).Error; err != nil {
		return nil, translate("employee.get", err)
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]model.Employee, int64, error) {
	var employees []model.Employee
	var total int64

	q := GetDB(ctx, r.db).Model(&model.Employee{}).Where("company_id = ?", filter.CompanyID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("employee.count", err)
	}
	if err := q.Offset(filter.Offset).Limit(filter.Limit).Order("last_name, first_name").Find(&employees).Error; err != nil {
		return nil, 0, translate("employee.list", err)
	}
	return employees, total, nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return translate("employee.update", GetDB(ctx, r.db).Save(employee).Error)
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translate("employee.delete", GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Employee{}).Error)
}

func (r *employeeRepository) CountByStatus(ctx context.Context, companyID uuid.UUID) (map[string]int64, error) {
	type bucket struct {
		Status string
		N      int64
	}
	var rows []bucket
	err := GetDB(ctx, r.db).Model(&model.Employee{}).
		Select("status, COUNT(*) as n").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("employee.count_by_status", err)
	}
	out := make(map[string]int64, len(rows))
	for _, b := range rows {
		out[b.Status] = b.N
	}
	return out, nil
}
