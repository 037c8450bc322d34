package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrms/internal/auth"
	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/pkg/apperrors"
	"hrms/pkg/password"
)

// --- DTOs ---

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required,min=2,max=100"`
	LastName  string `json:"last_name" binding:"required,min=2,max=100"`
	Role      string `json:"role" binding:"required,oneof=super_admin company_manager supervisor worker"`
}

type UpdateUserRequest struct {
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"first_name" binding:"omitempty,min=2,max=100"`
	LastName  string `json:"last_name" binding:"omitempty,min=2,max=100"`
	Role      string `json:"role" binding:"omitempty,oneof=super_admin company_manager supervisor worker"`
	IsActive  *bool  `json:"is_active"`
}

type AssignCompanyRequest struct {
	CompanyID         string   `json:"company_id" binding:"required,uuid"`
	Role              string   `json:"role" binding:"required,oneof=company_manager supervisor worker"`
	Permissions       []string `json:"permissions"`
	SupervisedWorkers []string `json:"supervised_workers" binding:"omitempty,dive,uuid"`
}

// UserService covers administrative user management; the session flows live
// in AuthService.
type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error)
	List(ctx context.Context, offset, limit int) ([]UserResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AssignCompany(ctx context.Context, userID uuid.UUID, req AssignCompanyRequest) error
	RemoveCompany(ctx context.Context, userID, companyID uuid.UUID) error
}

type userService struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
}

func NewUserService(users repository.UserRepository, companies repository.CompanyRepository) UserService {
	return &userService{users: users, companies: companies}
}

func (s *userService) toResponse(ctx context.Context, user *model.User) (*UserResponse, error) {
	companies, err := s.users.CompaniesOf(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	resp := &UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Role:          user.Role,
		CompanyID:     user.CompanyID,
		Companies:     make([]CompanyResponse, 0, len(companies)),
		Permissions:   auth.DefaultPermissions(user.Role),
		IsActive:      user.IsActive,
		EmailVerified: user.EmailVerified,
		LastLoginAt:   user.LastLoginAt,
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     user.UpdatedAt.Format(time.RFC3339),
	}
	for i := range companies {
		resp.Companies = append(resp.Companies, companyToResponse(&companies[i]))
	}
	return resp, nil
}

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if strength := password.ValidateStrength(req.Password); !strength.IsValid {
		return nil, apperrors.Validation(strength.Message)
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("email already exists")
	}
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	user := &model.User{
		Email:     req.Email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.Role(req.Role),
		IsActive:  true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsConflict(err) {
			return nil, apperrors.Conflict("email already exists")
		}
		return nil, apperrors.Internal(err)
	}
	return s.toResponse(ctx, user)
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err)
	}
	return s.toResponse(ctx, user)
}

func (s *userService) List(ctx context.Context, offset, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		r, err := s.toResponse(ctx, &users[i])
		if err != nil {
			return nil, 0, err
		}
		responses = append(responses, *r)
	}
	return responses, total, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err)
	}

	if req.Email != "" && req.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
			return nil, apperrors.Conflict("email already exists")
		}
		user.Email = req.Email
		user.EmailVerified = false
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Role != "" {
		user.Role = model.Role(req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.toResponse(ctx, user)
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NotFound("user not found")
		}
		return apperrors.Internal(err)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *userService) AssignCompany(ctx context.Context, userID uuid.UUID, req AssignCompanyRequest) error {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return apperrors.Validation("invalid company_id")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return apperrors.NotFound("user not found")
	}
	if _, err := s.companies.GetByID(ctx, companyID); err != nil {
		return apperrors.NotFound("company not found")
	}

	supervised := make([]uuid.UUID, 0, len(req.SupervisedWorkers))
	for _, raw := range req.SupervisedWorkers {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.Validation("invalid supervised worker id")
		}
		supervised = append(supervised, id)
	}

	row := &model.CompanyUser{
		UserID:            userID,
		CompanyID:         companyID,
		Role:              model.Role(req.Role),
		Permissions:       req.Permissions,
		SupervisedWorkers: supervised,
	}
	if err := s.companies.UpsertMembership(ctx, row); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *userService) RemoveCompany(ctx context.Context, userID, companyID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.NotFound("user not found")
	}
	if err := s.companies.RemoveMembership(ctx, userID, companyID); err != nil {
		return apperrors.Internal(err)
	}
	// Losing access to the current company resets the stored context.
	if user.CompanyID != nil && *user.CompanyID == companyID {
		if err := s.users.SetCurrentCompany(ctx, userID, nil); err != nil {
			return apperrors.Internal(err)
		}
	}
	return nil
}
