package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrms/internal/model"
	"hrms/internal/repository"
	"hrms/pkg/apperrors"
)

type CreateDocumentRequest struct {
	EmployeeID string `json:"employee_id" binding:"omitempty,uuid"`
	Name       string `json:"name" binding:"required,min=2,max=255"`
	Type       string `json:"type" binding:"omitempty,max=100"`
	FileURL    string `json:"file_url" binding:"omitempty,url,max=512"`
	ExpiryDate string `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateDocumentRequest struct {
	Name       string `json:"name" binding:"omitempty,min=2,max=255"`
	Type       string `json:"type" binding:"omitempty,max=100"`
	FileURL    string `json:"file_url" binding:"omitempty,url,max=512"`
	ExpiryDate string `json:"expiry_date" binding:"omitempty,datetime=2006-01-02"`
}

type DocumentService interface {
	Create(ctx context.Context, companyID uuid.UUID, actor *uuid.UUID, req CreateDocumentRequest) (*model.Document, error)
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Document, error)
	List(ctx context.Context, filter repository.DocumentFilter) ([]model.Document, int64, error)
	Update(ctx context.Context, companyID, id uuid.UUID, req UpdateDocumentRequest) (*model.Document, error)
	Delete(ctx context.Context, companyID, id uuid.UUID) error
	Expiring(ctx context.Context, companyID uuid.UUID, within time.Duration) ([]model.Document, error)
}

type documentService struct {
	documents repository.DocumentRepository
	employees repository.EmployeeRepository
}

func NewDocumentService(documents repository.DocumentRepository, employees repository.EmployeeRepository) DocumentService {
	return &documentService{documents: documents, employees: employees}
}

func (s *documentService) scoped(ctx context.Context, companyID, id uuid.UUID) (*model.Document, error) {
	document, err := s.documents.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("document not found")
		}
		return nil, apperrors.Internal(err)
	}
	if document.CompanyID != companyID {
		return nil, apperrors.NotFound("document not found")
	}
	return document, nil
}

func (s *documentService) Create(ctx context.Context, companyID uuid.UUID, actor *uuid.UUID, req CreateDocumentRequest) (*model.Document, error) {
	document := &model.Document{
		CompanyID:  companyID,
		Name:       req.Name,
		Type:       req.Type,
		FileURL:    req.FileURL,
		UploadedBy: actor,
	}
	if req.EmployeeID != "" {
		employee, err := employeeInCompany(ctx, s.employees, companyID, req.EmployeeID)
		if err != nil {
			return nil, err
		}
		document.EmployeeID = &employee.ID
	}
	if req.ExpiryDate != "" {
		d, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return nil, apperrors.Validation("invalid expiry_date")
		}
		document.ExpiryDate = &d
	}
	if err := s.documents.Create(ctx, document); err != nil {
		return nil, apperrors.Internal(err)
	}
	return document, nil
}

func (s *documentService) GetByID(ctx context.Context, companyID, id uuid.UUID) (*model.Document, error) {
	return s.scoped(ctx, companyID, id)
}

func (s *documentService) List(ctx context.Context, filter repository.DocumentFilter) ([]model.Document, int64, error) {
	rows, total, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.Internal(err)
	}
	return rows, total, nil
}

func (s *documentService) Update(ctx context.Context, companyID, id uuid.UUID, req UpdateDocumentRequest) (*model.Document, error) {
	document, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		document.Name = req.Name
	}
	if req.Type != "" {
		document.Type = req.Type
	}
	if req.FileURL != "" {
		document.FileURL = req.FileURL
	}
	if req.ExpiryDate != "" {
		d, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return nil, apperrors.Validation("invalid expiry_date")
		}
		document.ExpiryDate = &d
	}
	if err := s.documents.Update(ctx, document); err != nil {
		return nil, apperrors.Internal(err)
	}
	return document, nil
}

func (s *documentService) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	document, err := s.scoped(ctx, companyID, id)
	if err != nil {
		return err
	}
	if err := s.documents.Delete(ctx, document.ID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *documentService) Expiring(ctx context.Context, companyID uuid.UUID, within time.Duration) ([]model.Document, error) {
	rows, err := s.documents.ExpiringBefore(ctx, companyID, time.Now().Add(within))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return rows, nil
}
