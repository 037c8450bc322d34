package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// CompanyRepository defines data access for companies and their user joins.
type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
	List(ctx context.Context, offset, limit int) ([]model.Company, int64, error)
	Update(ctx context.Context, company *model.Company) error
	Delete(ctx context.Context, id uuid.UUID) error

	UpsertMembership(ctx context.Context, row *model.CompanyUser) error
	RemoveMembership(ctx context.Context, userID, companyID uuid.UUID) error
	MembersOf(ctx context.Context, companyID uuid.UUID) ([]model.CompanyUser, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *model.Company) error {
	return translate("company.create", GetDB(ctx, r.db).Create(company).Error)
}

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var company model.Company
	if err := GetDB(ctx, r.db).First(&company, "id = ?", id).Error; err != nil {
		return nil, translate("company.get", err)
	}
	return &company, nil
}

func (r *companyRepository) List(ctx context.Context, offset, limit int) ([]model.Company, int64, error) {
	var companies []model.Company
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Company{}).Count(&total).Error; err != nil {
		return nil, 0, translate("company.count", err)
	}
	if err := db.Offset(offset).Limit(limit).Order("name").Find(&companies).Error; err != nil {
		return nil, 0, translate("company.list", err)
	}
	return companies, total, nil
}

func (r *companyRepository) Update(ctx context.Context, company *model.Company) error {
	return translate("company.update", GetDB(ctx, r.db).Save(company).Error)
}

func (r *companyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translate("company.delete", GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Company{}).Error)
}

func (r *companyRepository) UpsertMembership(ctx context.Context, row *model.CompanyUser) error {
	db := GetDB(ctx, r.db)
	var existing model.CompanyUser
	err := db.Where("user_id = ? AND company_id = ?", row.UserID, row.CompanyID).First(&existing).Error
	if err == nil {
		existing.Role = row.Role
		existing.Permissions = row.Permissions
		existing.SupervisedWorkers = row.SupervisedWorkers
		return translate("company.update_membership", db.Save(&existing).Error)
	}
	if err != gorm.ErrRecordNotFound {
		return translate("company.upsert_membership", err)
	}
	return translate("company.create_membership", db.Create(row).Error)
}

func (r *companyRepository) RemoveMembership(ctx context.Context, userID, companyID uuid.UUID) error {
	return translate("company.remove_membership",
		GetDB(ctx, r.db).Where("user_id = ? AND company_id = ?", userID, companyID).Delete(&model.CompanyUser{}).Error)
}

func (r *companyRepository) MembersOf(ctx context.Context, companyID uuid.UUID) ([]model.CompanyUser, error) {
	var rows []model.CompanyUser
	if err := GetDB(ctx, r.db).Where("company_id = ?", companyID).Find(&rows).Error; err != nil {
		return nil, translate("company.members", err)
	}
	return rows, nil
}
