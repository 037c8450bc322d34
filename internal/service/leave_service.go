package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/internal/websocket"
	"hrms/pkg/apperrors"
)

// --- DTOs ---

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Type       string `json:"type" binding:"required,oneof=annual sick unpaid emergency"`
	StartDate  string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" binding:"required,datetime=2006-01-02"`
	Reason     string `json:"reason" binding:"omitempty,max=2000"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=2000"`
}

// LeaveService owns the leave lifecycle. Transitions are driven only by
// explicit Approve/Reject calls; there is no automatic state machine.
type LeaveService interface {
	Create(ctx context.Context, companyID uuid.UUID, actor *uuid.UUID, req CreateLeaveRequest) (*model.Leave, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Leave, error)
	List(ctx context.Context, filter repository.LeaveFilter) ([]model.Leave, int64, error)
	Approve(ctx context.Context, companyID, id, approverID uuid.UUID) (*model.Leave, error)
	Reject(ctx context.Context, companyID, id, approverID uuid.UUID, reason string) (*model.Leave, error)
}

type leaveService struct {
	leaves        repository.LeaveRepository
	employees     repository.EmployeeRepository
	notifications NotificationService
	txm           repository.TransactionManager
	audit         AuditService
	hub           *websocket.Hub
}

func NewLeaveService(
	leaves repository.LeaveRepository,
	employees repository.EmployeeRepository,
	notifications NotificationService,
	txm repository.TransactionManager,
	audit AuditService,
	hub *websocket.Hub,
) LeaveService {
	return &leaveService{
		leaves:        leaves,
		employees:     employees,
		notifications: notifications,
		txm:           txm,
		audit:         audit,
		hub:           hub,
	}
}

func (s *leaveService) scoped(ctx context.Context, companyID, id uuid.UUID) (*model.Leave, error) {
	leave, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("leave not found")
		}
		return nil, apperrors.Internal(err)
	}
	if leave.CompanyID != companyID {
		return nil, apperrors.NotFound("leave not found")
	}
	return leave, nil
}

func (s *leaveService) Create(ctx context.Context, companyID uuid.UUID, actor *uuid.UUID, req CreateLeaveRequest) (*model.Leave, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, apperrors.Validation("invalid employee_id")
	}
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil || employee.CompanyID != companyID {
		return nil, apperrors.NotFound("employee not found")
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperrors.Validation("invalid start_date")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, apperrors.Validation("invalid end_date")
	}
	if end.Before(start) {
		return nil, apperrors.Validation("end_date must not precede start_date")
	}
	days := int(end.Sub(start).Hours()/24) + 1

	leave := &model.Leave{
		CompanyID:  companyID,
		EmployeeID: employeeID,
		Type:       req.Type,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
		Reason:     req.Reason,
		Status:     model.LeavePending,
	}
	if err := s.leaves.Create(ctx, leave); err != nil {
		return nil, apperrors.Internal(err)
	}
	return leave, nil
}

func (s *leaveService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Leave, error) {
	return s.scoped(ctx, companyID, id)
}

func (s *leaveService) List(ctx context.Context, filter repository.LeaveFilter) ([]model.Leave, int64, error) {
	leaves, total, err := s.leaves.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return leaves, total, nil
}

// Approve transitions pending -> approved, stamping approver and time.
// Any other starting state is a conflict.
func (s *leaveService) Approve(ctx context.Context, companyID, id, approverID uuid.UUID) (*model.Leave, error) {
	leave, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if leave.Status != model.LeavePending {
		return nil, apperrors.Conflict("leave is not pending")
	}

	now := time.Now()
	leave.Status = model.LeaveApproved
	leave.ApprovedBy = &approverID
	leave.ApprovedAt = &now

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.leaves.Update(txCtx, leave); err != nil {
			return err
		}
		if err := s.audit.Record(txCtx, AuditEntry{
			UserID:    &approverID,
			CompanyID: &companyID,
			Action:    model.ActionApproveLeave,
			EntityID:  leave.ID.String(),
		}); err != nil {
			return err
		}
		return s.notifications.NotifyEmployee(txCtx, leave.CompanyID, leave.EmployeeID,
			model.NotificationLeaveApproved, "Leave approved",
			"Your leave request has been approved", map[string]string{"leave_id": leave.ID.String()})
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return leave, nil
}

// Reject transitions pending -> rejected and records the reason.
func (s *leaveService) Reject(ctx context.Context, companyID, id, approverID uuid.UUID, reason string) (*model.Leave, error) {
	leave, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if leave.Status != model.LeavePending {
		return nil, apperrors.Conflict("leave is not pending")
	}

	now := time.Now()
	leave.Status = model.LeaveRejected
	leave.ApprovedBy = &approverID
	leave.ApprovedAt = &now
	leave.RejectionReason = reason

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.leaves.Update(txCtx, leave); err != nil {
			return err
		}
		if err := s.audit.Record(txCtx, AuditEntry{
			UserID:    &approverID,
			CompanyID: &companyID,
			Action:    model.ActionRejectLeave,
			EntityID:  leave.ID.String(),
			Details:   map[string]string{"reason": reason},
		}); err != nil {
			return err
		}
		return s.notifications.NotifyEmployee(txCtx, leave.CompanyID, leave.EmployeeID,
			model.NotificationLeaveRejected, "Leave rejected", reason,
			map[string]string{"leave_id": leave.ID.String()})
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return leave, nil
}
