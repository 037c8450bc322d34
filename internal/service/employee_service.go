package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/pkg/apperrors"
)

// --- DTOs ---

type CreateEmployeeRequest struct {
	FirstName  string `json:"first_name" binding:"required,min=2,max=100"`
	LastName   string `json:"last_name" binding:"required,min=2,max=100"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone" binding:"omitempty,max=20"`
	Position   string `json:"position" binding:"omitempty,max=100"`
	Department string `json:"department" binding:"omitempty,max=100"`
	NationalID string `json:"national_id" binding:"omitempty,max=50"`
	Salary     string `json:"salary" binding:"omitempty"`
	HireDate   string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateEmployeeRequest struct {
	FirstName  string `json:"first_name" binding:"omitempty,min=2,max=100"`
	LastName   string `json:"last_name" binding:"omitempty,min=2,max=100"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone" binding:"omitempty,max=20"`
	Position   string `json:"position" binding:"omitempty,max=100"`
	Department string `json:"department" binding:"omitempty,max=100"`
	Salary     string `json:"salary"`
	Status     string `json:"status" binding:"omitempty,oneof=active on_leave terminated"`
}

type EmployeeService interface {
	Create(ctx context.Context, companyID uuid.UUID, actor *uuid.UUID, req CreateEmployeeRequest) (*model.Employee, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Employee, error)
	List(ctx context.Context, filter repository.EmployeeFilter) ([]model.Employee, int64, error)
	Update(ctx context.Context, companyID, id uuid.UUID, actor *uuid.UUID, req UpdateEmployeeRequest) (*model.Employee, error)
	Delete(ctx context.Context, companyID, id uuid.UUID, actor *uuid.UUID) error
}

type employeeService struct {
	employees repository.EmployeeRepository
	txm       repository.TransactionManager
	audit     AuditService
}

func NewEmployeeService(employees repository.EmployeeRepository, txm repository.TransactionManager, audit AuditService) EmployeeService {
	return &employeeService{employees: employees, txm: txm, audit: audit}
}

func parseMoney(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero, apperrors.Validation("invalid amount")
	}
	return d, nil
}

// scoped fetches an employee and enforces company ownership; cross-company
// ids behave exactly like missing ones.
func (s *employeeService) scoped(ctx context.Context, companyID, id uuid.UUID) (*model.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("employee not found")
		}
		return nil, apperrors.Internal(err)
	}
	if employee.CompanyID != companyID {
		return nil, apperrors.NotFound("employee not found")
	}
	return employee, nil
}

func (s *employeeService) Create(ctx context.Context, companyID uuid.UUID, actor *uuid.UUID, req CreateEmployeeRequest) (*model.Employee, error) {
	salary, err := parseMoney(req.Salary)
	if err != nil {
		return nil, err
	}
	employee := &model.Employee{
		CompanyID:  companyID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Position:   req.Position,
		Department: req.Department,
		NationalID: req.NationalID,
		Salary:     salary,
		Status:     model.EmployeeActive,
	}
	if req.HireDate != "" {
		d, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return nil, apperrors.Validation("invalid hire_date")
		}
		employee.HireDate = &d
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.employees.Create(txCtx, employee); err != nil {
			return err
		}
		return s.audit.Record(txCtx, AuditEntry{
			UserID:     actor,
			CompanyID:  &companyID,
			Action:     model.ActionCreateEmployee,
			EntityID:   employee.ID.String(),
			EntityName: employee.FirstName + " " + employee.LastName,
		})
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return employee, nil
}

func (s *employeeService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Employee, error) {
	return s.scoped(ctx, companyID, id)
}

func (s *employeeService) List(ctx context.Context, filter repository.EmployeeFilter) ([]model.Employee, int64, error) {
	employees, total, err := s.employees.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return employees, total, nil
}

func (s *employeeService) Update(ctx context.Context, companyID, id uuid.UUID, actor *uuid.UUID, req UpdateEmployeeRequest) (*model.Employee, error) {
	employee, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		employee.FirstName = req.FirstName
	}
	if req.LastName != "" {
		employee.LastName = req.LastName
	}
	if req.Email != "" {
		employee.Email = req.Email
	}
	if req.Phone != "" {
		employee.Phone = req.Phone
	}
	if req.Position != "" {
		employee.Position = req.Position
	}
	if req.Department != "" {
		employee.Department = req.Department
	}
	if req.Salary != "" {
		salary, err := parseMoney(req.Salary)
		if err != nil {
			return nil, err
		}
		employee.Salary = salary
	}
	if req.Status != "" {
		employee.Status = req.Status
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.employees.Update(txCtx, employee); err != nil {
			return err
		}
		return s.audit.Record(txCtx, AuditEntry{
			UserID:    actor,
			CompanyID: &companyID,
			Action:    model.ActionUpdateEmployee,
			EntityID:  employee.ID.String(),
		})
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return employee, nil
}

func (s *employeeService) Delete(ctx context.Context, companyID, id uuid.UUID, actor *uuid.UUID) error {
	employee, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return err
	}
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.employees.Delete(txCtx, employee.ID); err != nil {
			return err
		}
		return s.audit.Record(txCtx, AuditEntry{
			UserID:    actor,
			CompanyID: &companyID,
			Action:    model.ActionDeleteEmployee,
			EntityID:  employee.ID.String(),
		})
	})
	if err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
