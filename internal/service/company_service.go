package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/pkg/apperrors"
)

// --- DTOs ---

type CreateCompanyRequest struct {
	Name               string `json:"name" binding:"required,min=2,max=255"`
	CommercialFileName string `json:"commercial_file_name" binding:"omitempty,max=255"`
	Department         string `json:"department" binding:"omitempty,max=100"`
	Classification     string `json:"classification" binding:"omitempty,max=100"`
	IndustryType       string `json:"industry_type" binding:"omitempty,max=100"`
	Location           string `json:"location" binding:"omitempty,max=255"`
	EstablishmentDate  string `json:"establishment_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateCompanyRequest struct {
	Name               string `json:"name" binding:"omitempty,min=2,max=255"`
	CommercialFileName string `json:"commercial_file_name" binding:"omitempty,max=255"`
	Department         string `json:"department" binding:"omitempty,max=100"`
	Classification     string `json:"classification" binding:"omitempty,max=100"`
	IndustryType       string `json:"industry_type" binding:"omitempty,max=100"`
	Location           string `json:"location" binding:"omitempty,max=255"`
	IsActive           *bool  `json:"is_active"`
}

type CompanyService interface {
	Create(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CompanyResponse, error)
	List(ctx context.Context, offset, limit int) ([]CompanyResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateCompanyRequest) (*CompanyResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type companyService struct {
	companies repository.CompanyRepository
}

func NewCompanyService(companies repository.CompanyRepository) CompanyService {
	return &companyService{companies: companies}
}

func (s *companyService) Create(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error) {
	company := &model.Company{
		Name:               req.Name,
		CommercialFileName: req.CommercialFileName,
		Department:         req.Department,
		Classification:     req.Classification,
		IndustryType:       req.IndustryType,
		Location:           req.Location,
		IsActive:           true,
	}
	if req.EstablishmentDate != "" {
		d, err := time.Parse("2006-01-02", req.EstablishmentDate)
		if err != nil {
			return nil, apperrors.Validation("invalid establishment_date")
		}
		company.EstablishmentDate = &d
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, apperrors.Internal(err)
	}
	resp := companyToResponse(company)
	return &resp, nil
}

func (s *companyService) GetByID(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("company not found")
		}
		return nil, apperrors.Internal(err)
	}
	resp := companyToResponse(company)
	return &resp, nil
}

func (s *companyService) List(ctx context.Context, offset, limit int) ([]CompanyResponse, int64, error) {
	companies, total, err := s.companies.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	responses := make([]CompanyResponse, 0, len(companies))
	for i := range companies {
		responses = append(responses, companyToResponse(&companies[i]))
	}
	return responses, total, nil
}

func (s *companyService) Update(ctx context.Context, id uuid.UUID, req UpdateCompanyRequest) (*CompanyResponse, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("company not found")
		}
		return nil, apperrors.Internal(err)
	}

	if req.Name != "" {
		company.Name = req.Name
	}
	if req.CommercialFileName != "" {
		company.CommercialFileName = req.CommercialFileName
	}
	if req.Department != "" {
		company.Department = req.Department
	}
	if req.Classification != "" {
		company.Classification = req.Classification
	}
	if req.IndustryType != "" {
		company.IndustryType = req.IndustryType
	}
	if req.Location != "" {
		company.Location = req.Location
	}
	if req.IsActive != nil {
		company.IsActive = *req.IsActive
	}

	if err := s.companies.Update(ctx, company); err != nil {
		return nil, apperrors.Internal(err)
	}
	resp := companyToResponse(company)
	return &resp, nil
}

func (s *companyService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.companies.GetByID(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperrors.NotFound("company not found")
		}
		return apperrors.Internal(err)
	}
	if err := s.companies.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}
