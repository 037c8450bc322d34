package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// AttendanceFilter narrows attendance listings. Days are YYYY-MM-DD strings
// so a text range comparison orders correctly.
type AttendanceFilter struct {
	CompanyID  uuid.UUID
	EmployeeID *uuid.UUID
	FromDay    string
	ToDay      string
	Offset     int
	Limit      int
}

type AttendanceRepository interface {
	Create(ctx context.Context, attendance *model.Attendance) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Attendance, error)
	GetByDay(ctx context.Context, employeeID uuid.UUID, day string) (*model.Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, int64, error)
	Update(ctx context.Context, attendance *model.Attendance) error
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, attendance *model.Attendance) error {
	return translate("attendance.create", GetDB(ctx, r.db).Create(attendance).Error)
}

func (r *attendanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attendance, error) {
	var attendance model.Attendance
	if err := GetDB(ctx, r.db).First(&attendance, "id = ?", id).Error; err != nil {
		return nil, translate("attendance.get", err)
	}
	return &attendance, nil
}

func (r *attendanceRepository) GetByDay(ctx context.Context, employeeID uuid.UUID, day string) (*model.Attendance, error) {
	var attendance model.Attendance
	err := GetDB(ctx, r.db).
		First(&attendance, "employee_id = ? AND day = ?", employeeID, day).Error
	if err != nil {
		return nil, translate("attendance.get_by_day", err)
	}
	return &attendance, nil
}

func (r *attendanceRepository) List(ctx context.Context, filter AttendanceFilter) ([]model.Attendance, int64, error) {
	var rows []model.Attendance
	var total int64

	q := GetDB(ctx, r.db).Model(&model.Attendance{}).Where("company_id = ?", filter.CompanyID)
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.FromDay != "" {
		q = q.Where("day >= ?", filter.FromDay)
	}
	if filter.ToDay != "" {
		q = q.Where("day <= ?", filter.ToDay)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("attendance.count", err)
	}
	if err := q.Offset(filter.Offset).Limit(filter.Limit).Order("day DESC").Find(&rows).Error; err != nil {
		return nil, 0, translate("attendance.list", err)
	}
	return rows, total, nil
}

func (r *attendanceRepository) Update(ctx context.Context, attendance *model.Attendance) error {
	return translate("attendance.update", GetDB(ctx, r.db).Save(attendance).Error)
}
