package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/pkg/apperrors"
)

type CreateViolationRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	Type        string `json:"type" binding:"required,min=2,max=50"`
	Severity    string `json:"severity" binding:"omitempty,oneof=minor major critical"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
}

type UpdateViolationRequest struct {
	Type        string `json:"type" binding:"omitempty,min=2,max=50"`
	Severity    string `json:"severity" binding:"omitempty,oneof=minor major critical"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

type ViolationService interface {
	Create(ctx context.Context, companyID uuid.UUID, actor *uuid.UUID, req CreateViolationRequest) (*model.Violation, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Violation, error)
	List(ctx context.Context, filter repository.ViolationFilter) ([]model.Violation, int64, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req UpdateViolationRequest) (*model.Violation, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type violationService struct {
	violations repository.ViolationRepository
	employees  repository.EmployeeRepository
	txm        repository.TransactionManager
	audit      AuditService
}

func NewViolationService(
	violations repository.ViolationRepository,
	employees repository.EmployeeRepository,
	txm repository.TransactionManager,
	audit AuditService,
) ViolationService {
	return &violationService{violations: violations, employees: employees, txm: txm, audit: audit}
}

func (s *violationService) scoped(ctx context.Context, companyID, id uuid.UUID) (*model.Violation, error) {
	violation, err := s.violations.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("violation not found")
		}
		return nil, apperrors.Internal(err)
	}
	if violation.CompanyID != companyID {
		return nil, apperrors.NotFound("violation not found")
	}
	return violation, nil
}

func (s *violationService) Create(ctx context.Context, companyID uuid.UUID, actor *uuid.UUID, req CreateViolationRequest) (*model.Violation, error) {
	employee, err := employeeInCompany(ctx, s.employees, companyID, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.Validation("invalid date")
	}
	severity := req.Severity
	if severity == "" {
		severity = model.ViolationMinor
	}

	violation := &model.Violation{
		CompanyID:   companyID,
		EmployeeID:  employee.ID,
		Type:        req.Type,
		Severity:    severity,
		Description: req.Description,
		Date:        date,
		ReportedBy:  actor,
	}
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.violations.Create(txCtx, violation); err != nil {
			return err
		}
		return s.audit.Record(txCtx, AuditEntry{
			UserID:    actor,
			CompanyID: &companyID,
			Action:    model.ActionCreateViolation,
			EntityID:  violation.ID.String(),
			Details:   map[string]string{"employee_id": employee.ID.String(), "severity": severity},
		})
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return violation, nil
}

func (s *violationService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Violation, error) {
	return s.scoped(ctx, companyID, id)
}

func (s *violationService) List(ctx context.Context, filter repository.ViolationFilter) ([]model.Violation, int64, error) {
	rows, total, err := s.violations.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return rows, total, nil
}

func (s *violationService) Update(ctx context.Context, companyID, id uuid.UUID, req UpdateViolationRequest) (*model.Violation, error) {
	violation, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if req.Type != "" {
		violation.Type = req.Type
	}
	if req.Severity != "" {
		violation.Severity = req.Severity
	}
	if req.Description != "" {
		violation.Description = req.Description
	}
	if err := s.violations.Update(ctx, violation); err != nil {
		return nil, apperrors.Internal(err)
	}
	return violation, nil
}

func (s *violationService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	violation, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := s.violations.Delete(ctx, violation.ID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
