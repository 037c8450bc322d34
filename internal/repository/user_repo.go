package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hrms/internal/model"
)

// UserRepository defines the interface for data access of User entities
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]model.User, int64, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	Memberships(ctx context.Context, userID uuid.UUID) ([]model.CompanyUser, error)
	Membership(ctx context.Context, userID, companyID uuid.UUID) (*model.CompanyUser, error)
	CompaniesOf(ctx context.Context, userID uuid.UUID) ([]model.Company, error)
	SetCurrentCompany(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate("user.create", GetDB(ctx, r.db).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate("user.get", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := GetDB(ctx, r.db).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate("user.get_by_email", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, translate("user.count", err)
	}
	if err := db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, translate("user.list", err)
	}
	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return translate("user.update", GetDB(ctx, r.db).Save(user).Error)
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return translate("user.delete", GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.User{}).Error)
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return translate("user.touch_last_login",
		GetDB(ctx, r.db).Model(&model.User{}).Where("id = ?", id).Update("last_login_at", at).Error)
}

func (r *userRepository) Memberships(ctx context.Context, userID uuid.UUID) ([]model.CompanyUser, error) {
	var rows []model.CompanyUser
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, translate("user.memberships", err)
	}
	return rows, nil
}

func (r *userRepository) Membership(ctx context.Context, userID, companyID uuid.UUID) (*model.CompanyUser, error) {
	var row model.CompanyUser
	if err := GetDB(ctx, r.db).Where("user_id = ? AND company_id = ?", userID, companyID).First(&row).Error; err != nil {
		return nil, translate("user.membership", err)
	}
	return &row, nil
}

func (r *userRepository) CompaniesOf(ctx context.Context, userID uuid.UUID) ([]model.Company, error) {
	var companies []model.Company
	err := GetDB(ctx, r.db).
		Joins("INNER JOIN company_users cu ON cu.company_id = companies.id").
		Where("cu.user_id = ?", userID).
		Order("companies.name").
		Find(&companies).Error
	if err != nil {
		return nil, translate("user.companies", err)
	}
	return companies, nil
}

func (r *userRepository) SetCurrentCompany(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) error {
	return translate("user.set_current_company",
		GetDB(ctx, r.db).Model(&model.User{}).Where("id = ?", userID).Update("company_id", companyID).Error)
}
