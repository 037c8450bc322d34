package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/pkg/apperrors"
)

type CheckInRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
}

type CheckOutRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
}

type AttendanceService interface {
	CheckIn(ctx context.Context, companyID uuid.UUID, req CheckInRequest) (*model.Attendance, error)
	CheckOut(ctx context.Context, companyID uuid.UUID, req CheckOutRequest) (*model.Attendance, error)
	List(ctx context.Context, filter repository.AttendanceFilter) ([]model.Attendance, int64, error)
}

type attendanceService struct {
	attendance repository.AttendanceRepository
	employees  repository.EmployeeRepository
	now        func() time.Time
}

func NewAttendanceService(attendance repository.AttendanceRepository, employees repository.EmployeeRepository) AttendanceService {
	return &attendanceService{attendance: attendance, employees: employees, now: time.Now}
}

// CheckIn opens today's record for the employee. A second check-in on the
// same day is a conflict.
func (s *attendanceService) CheckIn(ctx context.Context, companyID uuid.UUID, req CheckInRequest) (*model.Attendance, error) {
	employee, err := employeeInCompany(ctx, s.employees, companyID, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	day := now.Format("2006-01-02")

	if _, err := s.attendance.GetByDay(ctx, employee.ID, day); err == nil {
		return nil, apperrors.Conflict("already checked in today")
	} else if !repository.IsNotFound(err) {
		return nil, apperrors.Internal(err)
	}

	row := &model.Attendance{
		CompanyID:  companyID,
		EmployeeID: employee.ID,
		Day:        day,
		CheckIn:    now,
	}
	if err := s.attendance.Create(ctx, row); err != nil {
		if repository.IsConflict(err) {
			return nil, apperrors.Conflict("already checked in today")
		}
		return nil, apperrors.Internal(err)
	}
	return row, nil
}

// CheckOut closes today's record. Checking out without a check-in is a
// not-found; checking out twice is a conflict.
func (s *attendanceService) CheckOut(ctx context.Context, companyID uuid.UUID, req CheckOutRequest) (*model.Attendance, error) {
	employee, err := employeeInCompany(ctx, s.employees, companyID, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	day := now.Format("2006-01-02")

	row, err := s.attendance.GetByDay(ctx, employee.ID, day)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("no check-in recorded today")
		}
		return nil, apperrors.Internal(err)
	}
	if row.CheckOut != nil {
		return nil, apperrors.Conflict("already checked out today")
	}

	row.CheckOut = &now
	if err := s.attendance.Update(ctx, row); err != nil {
		return nil, apperrors.Internal(err)
	}
	return row, nil
}

func (s *attendanceService) List(ctx context.Context, filter repository.AttendanceFilter) ([]model.Attendance, int64, error) {
	rows, total, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return rows, total, nil
}
