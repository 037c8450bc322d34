package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/pkg/apperrors"
)

type CreateDeductionRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Reason     string `json:"reason" binding:"required,min=3,max=500"`
	Amount     string `json:"amount" binding:"required"`
	Date       string `json:"date" binding:"required,datetime=2006-01-02"`
}

type UpdateDeductionRequest struct {
	Reason string `json:"reason" binding:"omitempty,min=3,max=500"`
	Amount string `json:"amount"`
	Date   string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

type DeductionService interface {
	Create(ctx context.Context, companyID uuid.UUID, actor *uuid.UUID, req CreateDeductionRequest) (*model.Deduction, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Deduction, error)
	List(ctx context.Context, filter repository.DeductionFilter) ([]model.Deduction, int64, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req UpdateDeductionRequest) (*model.Deduction, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type deductionService struct {
	deductions repository.DeductionRepository
	employees  repository.EmployeeRepository
	txm        repository.TransactionManager
	audit      AuditService
}

func NewDeductionService(
	deductions repository.DeductionRepository,
	employees repository.EmployeeRepository,
	txm repository.TransactionManager,
	audit AuditService,
) DeductionService {
	return &deductionService{deductions: deductions, employees: employees, txm: txm, audit: audit}
}

// employeeInCompany resolves an employee id and enforces company ownership.
func employeeInCompany(ctx context.Context, employees repository.EmployeeRepository, companyID uuid.UUID, raw string) (*model.Employee, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.Validation("invalid employee_id")
	}
	employee, err := employees.GetByID(ctx, id)
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

func (s *deductionService) scoped(ctx context.Context, companyID, id uuid.UUID) (*model.Deduction, error) {
	deduction, err := s.deductions.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("deduction not found")
		}
		return nil, apperrors.Internal(err)
	}
	if deduction.CompanyID != companyID {
		return nil, apperrors.NotFound("deduction not found")
	}
	return deduction, nil
}

func (s *deductionService) Create(ctx context.Context, companyID uuid.UUID, actor *uuid.UUID, req CreateDeductionRequest) (*model.Deduction, error) {
	employee, err := employeeInCompany(ctx, s.employees, companyID, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	amount, err := parseMoney(req.Amount)
	if err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, apperrors.Validation("amount must be positive")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.Validation("invalid date")
	}

	deduction := &model.Deduction{
		CompanyID:  companyID,
		EmployeeID: employee.ID,
		Reason:     req.Reason,
		Amount:     amount,
		Date:       date,
		CreatedBy:  actor,
	}
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.deductions.Create(txCtx, deduction); err != nil {
			return err
		}
		return s.audit.Record(txCtx, AuditEntry{
			UserID:    actor,
			CompanyID: &companyID,
			Action:    model.ActionCreateDeduction,
			EntityID:  deduction.ID.String(),
			Details:   map[string]string{"employee_id": employee.ID.String(), "amount": amount.String()},
		})
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return deduction, nil
}

func (s *deductionService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Deduction, error) {
	return s.scoped(ctx, companyID, id)
}

func (s *deductionService) List(ctx context.Context, filter repository.DeductionFilter) ([]model.Deduction, int64, error) {
	rows, total, err := s.deductions.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return rows, total, nil
}

func (s *deductionService) Update(ctx context.Context, companyID, id uuid.UUID, req UpdateDeductionRequest) (*model.Deduction, error) {
	deduction, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if req.Reason != "" {
		deduction.Reason = req.Reason
	}
	if req.Amount != "" {
		amount, err := parseMoney(req.Amount)
		if err != nil {
			return nil, err
		}
		deduction.Amount = amount
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, apperrors.Validation("invalid date")
		}
		deduction.Date = date
	}
	if err := s.deductions.Update(ctx, deduction); err != nil {
		return nil, apperrors.Internal(err)
	}
	return deduction, nil
}

func (s *deductionService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	deduction, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := s.deductions.Delete(ctx, deduction.ID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
