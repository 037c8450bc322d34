package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/pkg/apperrors"
)

type CreateAssetRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=255"`
	Type         string `json:"type" binding:"omitempty,max=100"`
	SerialNumber string `json:"serial_number" binding:"omitempty,max=100"`
}

type UpdateAssetRequest struct {
	Name         string `json:"name" binding:"omitempty,min=2,max=255"`
	Type         string `json:"type" binding:"omitempty,max=100"`
	SerialNumber string `json:"serial_number" binding:"omitempty,max=100"`
}

type AssignAssetRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
}

type AssetService interface {
	Create(ctx context.Context, companyID uuid.UUID, req CreateAssetRequest) (*model.Asset, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Asset, error)
	List(ctx context.Context, filter repository.AssetFilter) ([]model.Asset, int64, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req UpdateAssetRequest) (*model.Asset, error)
	Assign(ctx context.Context, companyID, id uuid.UUID, actor *uuid.UUID, req AssignAssetRequest) (*model.Asset, error)
	Unassign(ctx context.Context, companyID, id uuid.UUID, actor *uuid.UUID) (*model.Asset, error)
	Retire(ctx context.Context, companyID, id uuid.UUID) (*model.Asset, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
}

type assetService struct {
	assets    repository.AssetRepository
	employees repository.EmployeeRepository
	txm       repository.TransactionManager
	audit     AuditService
}

func NewAssetService(
	assets repository.AssetRepository,
	employees repository.EmployeeRepository,
	txm repository.TransactionManager,
	audit AuditService,
) AssetService {
	return &assetService{assets: assets, employees: employees, txm: txm, audit: audit}
}

func (s *assetService) scoped(ctx context.Context, companyID, id uuid.UUID) (*model.Asset, error) {
	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("asset not found")
		}
		return nil, apperrors.Internal(err)
	}
	if asset.CompanyID != companyID {
		return nil, apperrors.NotFound("asset not found")
	}
	return asset, nil
}

func (s *assetService) Create(ctx context.Context, companyID uuid.UUID, req CreateAssetRequest) (*model.Asset, error) {
	asset := &model.Asset{
		CompanyID:    companyID,
		Name:         req.Name,
		Type:         req.Type,
		SerialNumber: req.SerialNumber,
		Status:       model.AssetAvailable,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, apperrors.Internal(err)
	}
	return asset, nil
}

func (s *assetService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Asset, error) {
	return s.scoped(ctx, companyID, id)
}

func (s *assetService) List(ctx context.Context, filter repository.AssetFilter) ([]model.Asset, int64, error) {
	rows, total, err := s.assets.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return rows, total, nil
}

func (s *assetService) Update(ctx context.Context, companyID, id uuid.UUID, req UpdateAssetRequest) (*model.Asset, error) {
	asset, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		asset.Name = req.Name
	}
	if req.Type != "" {
		asset.Type = req.Type
	}
	if req.SerialNumber != "" {
		asset.SerialNumber = req.SerialNumber
	}
	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, apperrors.Internal(err)
	}
	return asset, nil
}

// Assign hands an available asset to an employee. Assigning an already
// assigned or retired asset is a conflict.
func (s *assetService) Assign(ctx context.Context, companyID, id uuid.UUID, actor *uuid.UUID, req AssignAssetRequest) (*model.Asset, error) {
	asset, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if asset.Status != model.AssetAvailable {
		return nil, apperrors.Conflict("asset is not available")
	}
	employee, err := employeeInCompany(ctx, s.employees, companyID, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	asset.Status = model.AssetAssigned
	asset.AssignedTo = &employee.ID
	asset.AssignedAt = &now

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.assets.Update(txCtx, asset); err != nil {
			return err
		}
		return s.audit.Record(txCtx, AuditEntry{
			UserID:    actor,
			CompanyID: &companyID,
			Action:    model.ActionAssignAsset,
			EntityID:  asset.ID.String(),
			Details:   map[string]string{"employee_id": employee.ID.String()},
		})
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return asset, nil
}

func (s *assetService) Unassign(ctx context.Context, companyID, id uuid.UUID, actor *uuid.UUID) (*model.Asset, error) {
	asset, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if asset.Status != model.AssetAssigned {
		return nil, apperrors.Conflict("asset is not assigned")
	}

	asset.Status = model.AssetAvailable
	asset.AssignedTo = nil
	asset.AssignedAt = nil

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.assets.Update(txCtx, asset); err != nil {
			return err
		}
		return s.audit.Record(txCtx, AuditEntry{
			UserID:    actor,
			CompanyID: &companyID,
			Action:    model.ActionAssignAsset,
			EntityID:  asset.ID.String(),
			Details:   map[string]string{"unassigned": "true"},
		})
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return asset, nil
}

func (s *assetService) Retire(ctx context.Context, companyID, id uuid.UUID) (*model.Asset, error) {
	asset, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if asset.Status == model.AssetAssigned {
		return nil, apperrors.Conflict("unassign the asset before retiring it")
	}
	asset.Status = model.AssetRetired
	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, apperrors.Internal(err)
	}
	return asset, nil
}

func (s *assetService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	asset, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return err
	}
	if asset.Status == model.AssetAssigned {
		return apperrors.Conflict("unassign the asset before deleting it")
	}
	if err := s.assets.Delete(ctx, asset.ID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
