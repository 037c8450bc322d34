package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// AssetFilter narrows asset listings.
type AssetFilter struct {
	CompanyID  uuid.UUID
	Status     string
	AssignedTo *uuid.UUID
	Offset     int
	Limit      int
}

type AssetRepository interface {
	Create(ctx context.Context, asset *model.Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]model.Asset, int64, error)
	Update(ctx context.Context, asset *model.Asset) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, companyID uuid.UUID) (map[string]int64, error)
}

type assetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *model.Asset) error {
	return translate("asset.create", GetDB(ctx, r.db).Create(asset).Error)
}

func (r *assetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Asset, error) {
	var asset model.Asset
	if err := GetDB(ctx, r.db).First(&asset, "id = ?", id).Error; err != nil {
		return nil, translate("asset.get", err)
	}
	return &asset, nil
}

func (r *assetRepository) List(ctx context.Context, filter AssetFilter) ([]model.Asset, int64, error) {
	var rows []model.Asset
	var total int64

	q := GetDB(ctx, r.db).Model(&model.Asset{}).Where("company_id = ?", filter.CompanyID)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *filter.AssignedTo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("asset.count", err)
	}
	if err := q.Offset(filter.Offset).Limit(filter.Limit).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, translate("asset.list", err)
	}
	return rows, total, nil
}

func (r *assetRepository) Update(ctx context.Context, asset *model.Asset) error {
	return translate("asset.update", GetDB(ctx, r.db).Save(asset).Error)
}

func (r *assetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Delete(&model.Asset{}, "id = ?", id)
	if res.Error != nil {
		return translate("asset.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("asset.delete", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *assetRepository) CountByStatus(ctx context.Context, companyID uuid.UUID) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := GetDB(ctx, r.db).Model(&model.Asset{}).
		Select("status, COUNT(*) AS count").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("asset.count_by_status", err)
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}
