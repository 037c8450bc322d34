package service

import (
	"context"

	"github.com/google/uuid"

	"hrms/internal/repository"
	"hrms/pkg/apperrors"
)

// CompanyStatistics is the dashboard snapshot for one company.
type CompanyStatistics struct {
	Headcount        int64            `json:"headcount"`
	EmployeesByState map[string]int64 `json:"employees_by_status"`
	PendingLeaves    int64            `json:"pending_leaves"`
	AssetsByStatus   map[string]int64 `json:"assets_by_status"`
}

type StatisticsService interface {
	ForCompany(ctx context.Context, companyID uuid.UUID) (*CompanyStatistics, error)
	UnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error)
}

type statisticsService struct {
	employees     repository.EmployeeRepository
	leaves        repository.LeaveRepository
	assets        repository.AssetRepository
	notifications repository.NotificationRepository
}

func NewStatisticsService(
	employees repository.EmployeeRepository,
	leaves repository.LeaveRepository,
	assets repository.AssetRepository,
	notifications repository.NotificationRepository,
) StatisticsService {
	return &statisticsService{employees: employees, leaves: leaves, assets: assets, notifications: notifications}
}

func (s *statisticsService) ForCompany(ctx context.Context, companyID uuid.UUID) (*CompanyStatistics, error) {
	byStatus, err := s.employees.CountByStatus(ctx, companyID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	var headcount int64
	for _, n := range byStatus {
		headcount += n
	}

	pending, err := s.leaves.CountPending(ctx, companyID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	assets, err := s.assets.CountByStatus(ctx, companyID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &CompanyStatistics{
		Headcount:        headcount,
		EmployeesByState: byStatus,
		PendingLeaves:    pending,
		AssetsByStatus:   assets,
	}, nil
}

func (s *statisticsService) UnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return n, nil
}
