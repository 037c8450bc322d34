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

func newNotificationService(db *gorm.DB) NotificationService {
	return NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewEmployeeRepository(db),
		repository.NewUserRepository(db),
		websocket.NewHub(),
	)
}

func TestNotifyEmployee(t *testing.T) {
	db := testDB(t)
	svc := newNotificationService(db)
	company := seedCompany(t, db, "Notify LLC")

	t.Run("delivers to the matching account", func(t *testing.T) {
		user := seedUser(t, db, "linked@notify.test", model.RoleWorker, "Str0ng!pass")
		employee := seedEmployee(t, db, company.ID, "linked@notify.test", "3000")

		err := svc.NotifyEmployee(ctxb(), company.ID, employee.ID,
			model.NotificationPayrollReady, "Payslip", "Your payslip is ready", nil)
		if err != nil {
			t.Fatalf("notify: %v", err)
		}

		rows, total, err := svc.List(ctxb(), repository.NotificationFilter{UserID: user.ID, Limit: 10})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if total != 1 {
			t.Fatalf("expected 1 notification, got %d", total)
		}
		if rows[0].Type != model.NotificationPayrollReady || rows[0].IsRead {
			t.Fatalf("unexpected row %+v", rows[0])
		}
	})

	t.Run("no account is not an error", func(t *testing.T) {
		employee := seedEmployee(t, db, company.ID, "orphan@notify.test", "3000")
		if err := svc.NotifyEmployee(ctxb(), company.ID, employee.ID,
			model.NotificationPayrollReady, "Payslip", "ready", nil); err != nil {
			t.Fatalf("expected silent skip, got %v", err)
		}
	})

	t.Run("no email is not an error", func(t *testing.T) {
		employee := seedEmployee(t, db, company.ID, "", "3000")
		if err := svc.NotifyEmployee(ctxb(), company.ID, employee.ID,
			model.NotificationPayrollReady, "Payslip", "ready", nil); err != nil {
			t.Fatalf("expected silent skip, got %v", err)
		}
	})
}

func TestMarkAsRead(t *testing.T) {
	db := testDB(t)
	svc := newNotificationService(db)
	user := seedUser(t, db, "reader@notify.test", model.RoleWorker, "Str0ng!pass")

	n, err := svc.Notify(ctxb(), user.ID, nil, model.NotificationSystem, "Hello", "hi", nil)
	if err != nil {
		t.Fatalf("notify: %v", err)
	}

	if err := svc.MarkAsRead(ctxb(), n.ID, user.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	// Marking an already-read notification succeeds again.
	if err := svc.MarkAsRead(ctxb(), n.ID, user.ID); err != nil {
		t.Fatalf("second mark read: %v", err)
	}

	count, err := svc.UnreadCount(ctxb(), user.ID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread, got %d", count)
	}

	t.Run("another user's notification is invisible", func(t *testing.T) {
		other := seedUser(t, db, "other@notify.test", model.RoleWorker, "Str0ng!pass")
		if err := svc.MarkAsRead(ctxb(), n.ID, other.ID); codeOf(t, err) != apperrors.CodeNotFound {
			t.Fatalf("unexpected code %s", codeOf(t, err))
		}
		if err := svc.Delete(ctxb(), n.ID, other.ID); codeOf(t, err) != apperrors.CodeNotFound {
			t.Fatalf("unexpected code %s", codeOf(t, err))
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		if err := svc.MarkAsRead(ctxb(), uuid.New(), user.ID); codeOf(t, err) != apperrors.CodeNotFound {
			t.Fatalf("unexpected code %s", codeOf(t, err))
		}
	})
}

func TestMarkAllAsRead(t *testing.T) {
	db := testDB(t)
	svc := newNotificationService(db)
	user := seedUser(t, db, "bulk@notify.test", model.RoleWorker, "Str0ng!pass")
	bystander := seedUser(t, db, "bystander@notify.test", model.RoleWorker, "Str0ng!pass")

	for i := 0; i < 3; i++ {
		if _, err := svc.Notify(ctxb(), user.ID, nil, model.NotificationSystem, "n", "m", nil); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	if _, err := svc.Notify(ctxb(), bystander.ID, nil, model.NotificationSystem, "n", "m", nil); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if err := svc.MarkAllAsRead(ctxb(), user.ID); err != nil {
		t.Fatalf("mark all: %v", err)
	}
	// Idempotent on an empty unread set.
	if err := svc.MarkAllAsRead(ctxb(), user.ID); err != nil {
		t.Fatalf("second mark all: %v", err)
	}

	count, err := svc.UnreadCount(ctxb(), user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected 0 unread, got %d", count)
	}

	otherCount, err := svc.UnreadCount(ctxb(), bystander.ID)
	if err != nil {
		t.Fatal(err)
	}
	if otherCount != 1 {
		t.Fatalf("bulk read leaked to another user: %d unread", otherCount)
	}
}
