package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// LeaveFilter narrows leave listings.
type LeaveFilter struct {
	CompanyID  uuid.UUID
	EmployeeID *uuid.UUID
	Status     string // pending, approved, rejected or empty for all
	Offset     int
	Limit      int
}

type LeaveRepository interface {
	Create(ctx context.Context, leave *model.Leave) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Leave, error)
	List(ctx context.Context, filter LeaveFilter) ([]model.Leave, int64, error)
	Update(ctx context.Context, leave *model.Leave) error
	CountPending(ctx context.Context, companyID uuid.UUID) (int64, error)
}

type leaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) Create(ctx context.Context, leave *model.Leave) error {
	return translate("leave.create", GetDB(ctx, r.db).Create(leave).Error)
}

func (r *leaveRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Leave, error) {
	var leave model.Leave
	if err := GetDB(ctx, r.db).First(&leave, "id = ?", id).Error; err != nil {
		return nil, translate("leave.get", err)
	}
	return &leave, nil
}

func (r *leaveRepository) List(ctx context.Context, filter LeaveFilter) ([]model.Leave, int64, error) {
	var leaves []model.Leave
	var total int64

	q := GetDB(ctx, r.db).Model(&model.Leave{}).Where("company_id = ?", filter.CompanyID)
	if filter.EmployeeID != nil {
		q = q.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("leave.count", err)
	}
	if err := q.Offset(filter.Offset).Limit(filter.Limit).Order("created_at DESC").Find(&leaves).Error; err != nil {
		return nil, 0, translate("leave.list", err)
	}
	return leaves, total, nil
}

func (r *leaveRepository) Update(ctx context.Context, leave *model.Leave) error {
	return translate("leave.update", GetDB(ctx, r.db).Save(leave).Error)
}

func (r *leaveRepository) CountPending(ctx context.Context, companyID uuid.UUID) (int64, error) {
	var n int64
	err := GetDB(ctx, r.db).Model(&model.Leave{}).
		Where("company_id = ? AND status = ?", companyID, model.LeavePending).
		Count(&n).Error
	if err != nil {
		return 0, translate("leave.count_pending", err)
	}
	return n, nil
}
