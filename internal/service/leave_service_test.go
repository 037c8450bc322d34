package service

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/internal/websocket"
	"hrms/pkg/apperrors"
)

func newLeaveService(db *gorm.DB) LeaveService {
	hub := websocket.NewHub()
	notifications := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewEmployeeRepository(db),
		repository.NewUserRepository(db),
		hub,
	)
	return NewLeaveService(
		repository.NewLeaveRepository(db),
		repository.NewEmployeeRepository(db),
		notifications,
		repository.NewTransactionManager(db),
		NewAuditService(db),
		hub,
	)
}

func TestLeaveCreate(t *testing.T) {
	db := testDB(t)
	svc := newLeaveService(db)
	company := seedCompany(t, db, "Leave LLC")
	employee := seedEmployee(t, db, company.ID, "worker@leave.test", "3000")

	t.Run("pending with inclusive day count", func(t *testing.T) {
		leave, err := svc.Create(ctxb(), company.ID, nil, CreateLeaveRequest{
			EmployeeID: employee.ID.String(),
			Type:       "annual",
			StartDate:  "2026-09-01",
			EndDate:    "2026-09-05",
			Reason:     "family trip",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if leave.Status != model.LeavePending {
			t.Fatalf("expected pending, got %s", leave.Status)
		}
		if leave.Days != 5 {
			t.Fatalf("expected 5 days, got %d", leave.Days)
		}
	})

	t.Run("single day", func(t *testing.T) {
		leave, err := svc.Create(ctxb(), company.ID, nil, CreateLeaveRequest{
			EmployeeID: employee.ID.String(),
			Type:       "sick",
			StartDate:  "2026-09-10",
			EndDate:    "2026-09-10",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if leave.Days != 1 {
			t.Fatalf("expected 1 day, got %d", leave.Days)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := svc.Create(ctxb(), company.ID, nil, CreateLeaveRequest{
			EmployeeID: employee.ID.String(),
			Type:       "annual",
			StartDate:  "2026-09-05",
			EndDate:    "2026-09-01",
		})
		if codeOf(t, err) != apperrors.CodeValidation {
			t.Fatalf("unexpected code %s", codeOf(t, err))
		}
	})

	t.Run("employee from another company", func(t *testing.T) {
		other := seedCompany(t, db, "Other LLC")
		outsider := seedEmployee(t, db, other.ID, "out@leave.test", "3000")
		_, err := svc.Create(ctxb(), company.ID, nil, CreateLeaveRequest{
			EmployeeID: outsider.ID.String(),
			Type:       "annual",
			StartDate:  "2026-09-01",
			EndDate:    "2026-09-02",
		})
		if codeOf(t, err) != apperrors.CodeNotFound {
			t.Fatalf("unexpected code %s", codeOf(t, err))
		}
	})
}

func TestLeaveApprove(t *testing.T) {
	db := testDB(t)
	svc := newLeaveService(db)
	company := seedCompany(t, db, "Approve LLC")
	employee := seedEmployee(t, db, company.ID, "worker@approve.test", "3000")
	approver := uuid.New()

	leave, err := svc.Create(ctxb(), company.ID, nil, CreateLeaveRequest{
		EmployeeID: employee.ID.String(),
		Type:       "annual",
		StartDate:  "2026-09-01",
		EndDate:    "2026-09-03",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	approved, err := svc.Approve(ctxb(), company.ID, leave.ID, approver)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != model.LeaveApproved {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != approver {
		t.Fatal("approver not stamped")
	}
	if approved.ApprovedAt == nil {
		t.Fatal("approval time not stamped")
	}

	// Approving twice is a conflict, not a no-op.
	if _, err := svc.Approve(ctxb(), company.ID, leave.ID, approver); codeOf(t, err) != apperrors.CodeConflict {
		t.Fatalf("unexpected code %s", codeOf(t, err))
	}
	// And so is rejecting an approved leave.
	if _, err := svc.Reject(ctxb(), company.ID, leave.ID, approver, "late"); codeOf(t, err) != apperrors.CodeConflict {
		t.Fatalf("unexpected code %s", codeOf(t, err))
	}
}

func TestLeaveReject(t *testing.T) {
	db := testDB(t)
	svc := newLeaveService(db)
	company := seedCompany(t, db, "Reject LLC")
	employee := seedEmployee(t, db, company.ID, "worker@reject.test", "3000")
	approver := uuid.New()

	leave, err := svc.Create(ctxb(), company.ID, nil, CreateLeaveRequest{
		EmployeeID: employee.ID.String(),
		Type:       "unpaid",
		StartDate:  "2026-09-01",
		EndDate:    "2026-09-02",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rejected, err := svc.Reject(ctxb(), company.ID, leave.ID, approver, "coverage gap")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != model.LeaveRejected {
		t.Fatalf("expected rejected, got %s", rejected.Status)
	}
	if rejected.RejectionReason != "coverage gap" {
		t.Fatalf("reason not recorded: %q", rejected.RejectionReason)
	}
}

func TestLeaveCompanyScoping(t *testing.T) {
	db := testDB(t)
	svc := newLeaveService(db)
	company := seedCompany(t, db, "Mine LLC")
	other := seedCompany(t, db, "Theirs LLC")
	employee := seedEmployee(t, db, company.ID, "worker@scope.test", "3000")

	leave, err := svc.Create(ctxb(), company.ID, nil, CreateLeaveRequest{
		EmployeeID: employee.ID.String(),
		Type:       "annual",
		StartDate:  "2026-09-01",
		EndDate:    "2026-09-02",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A different company context sees nothing, not a 403.
	if _, err := svc.GetByID(ctxb(), other.ID, leave.ID); codeOf(t, err) != apperrors.CodeNotFound {
		t.Fatalf("unexpected code %s", codeOf(t, err))
	}
	if _, err := svc.Approve(ctxb(), other.ID, leave.ID, uuid.New()); codeOf(t, err) != apperrors.CodeNotFound {
		t.Fatalf("unexpected code %s", codeOf(t, err))
	}
}
