package service

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"hrms/internal/repository"
	"hrms/pkg/apperrors"
)

// newAttendanceService pins the clock so "today" is stable across the test.
func newAttendanceService(db *gorm.DB, at time.Time) AttendanceService {
	return &attendanceService{
		attendance: repository.NewAttendanceRepository(db),
		employees:  repository.NewEmployeeRepository(db),
		now:        func() time.Time { return at },
	}
}

func TestCheckIn(t *testing.T) {
	db := testDB(t)
	day := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	svc := newAttendanceService(db, day)
	company := seedCompany(t, db, "Clock LLC")
	employee := seedEmployee(t, db, company.ID, "clock@att.test", "3000")

	row, err := svc.CheckIn(ctxb(), company.ID, CheckInRequest{EmployeeID: employee.ID.String()})
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if row.Day != "2026-08-31" {
		t.Fatalf("unexpected day %q", row.Day)
	}
	if !row.CheckIn.Equal(day) {
		t.Fatalf("unexpected check-in time %v", row.CheckIn)
	}

	// A second check-in on the same day must fail.
	if _, err := svc.CheckIn(ctxb(), company.ID, CheckInRequest{EmployeeID: employee.ID.String()}); codeOf(t, err) != apperrors.CodeConflict {
		t.Fatalf("unexpected code %s", codeOf(t, err))
	}

	// A new day opens a new record.
	tomorrow := newAttendanceService(db, day.AddDate(0, 0, 1))
	next, err := tomorrow.CheckIn(ctxb(), company.ID, CheckInRequest{EmployeeID: employee.ID.String()})
	if err != nil {
		t.Fatalf("next-day check in: %v", err)
	}
	if next.Day != "2026-09-01" {
		t.Fatalf("unexpected day %q", next.Day)
	}
}

func TestCheckOut(t *testing.T) {
	db := testDB(t)
	morning := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	evening := morning.Add(8 * time.Hour)
	company := seedCompany(t, db, "Clock LLC")
	employee := seedEmployee(t, db, company.ID, "clock@att.test", "3000")

	t.Run("without check-in", func(t *testing.T) {
		svc := newAttendanceService(db, evening)
		_, err := svc.CheckOut(ctxb(), company.ID, CheckOutRequest{EmployeeID: employee.ID.String()})
		if codeOf(t, err) != apperrors.CodeNotFound {
			t.Fatalf("unexpected code %s", codeOf(t, err))
		}
	})

	t.Run("closes the open record", func(t *testing.T) {
		if _, err := newAttendanceService(db, morning).CheckIn(ctxb(), company.ID, CheckInRequest{EmployeeID: employee.ID.String()}); err != nil {
			t.Fatalf("check in: %v", err)
		}
		svc := newAttendanceService(db, evening)
		row, err := svc.CheckOut(ctxb(), company.ID, CheckOutRequest{EmployeeID: employee.ID.String()})
		if err != nil {
			t.Fatalf("check out: %v", err)
		}
		if row.CheckOut == nil || !row.CheckOut.Equal(evening) {
			t.Fatalf("unexpected check-out %v", row.CheckOut)
		}

		// Twice is a conflict.
		if _, err := svc.CheckOut(ctxb(), company.ID, CheckOutRequest{EmployeeID: employee.ID.String()}); codeOf(t, err) != apperrors.CodeConflict {
			t.Fatalf("unexpected code %s", codeOf(t, err))
		}
	})

	t.Run("cross-company employee is invisible", func(t *testing.T) {
		other := seedCompany(t, db, "Other LLC")
		svc := newAttendanceService(db, evening)
		_, err := svc.CheckOut(ctxb(), other.ID, CheckOutRequest{EmployeeID: employee.ID.String()})
		if codeOf(t, err) != apperrors.CodeNotFound {
			t.Fatalf("unexpected code %s", codeOf(t, err))
		}
	})
}
