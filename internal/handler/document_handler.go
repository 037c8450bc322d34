package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hrms/internal/auth"
	"hrms/internal/middleware"
	"hrms/internal/repository"
	"hrms/internal/service"
	"hrms/pkg/pagination"
	"hrms/pkg/response"
)

// DocumentListQuery is the validated query payload for document listings.
type DocumentListQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Type       string `form:"type" binding:"omitempty,max=100"`
}

type DocumentHandler struct {
	documentService service.DocumentService
	auth            *middleware.Auth
}

func NewDocumentHandler(documentService service.DocumentService, authMw *middleware.Auth) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, auth: authMw}
}

func (h *DocumentHandler) RegisterRoutes(router *gin.RouterGroup) {
	documents := router.Group("/documents")
	{
		documents.GET("", h.auth.RequirePermission(auth.PermDocumentsRead),
			middleware.ValidateQuery(func() interface{} { return &DocumentListQuery{} }),
			h.ListDocuments)
		documents.GET("/expiring", h.auth.RequirePermission(auth.PermDocumentsRead), h.ExpiringDocuments)
		documents.GET("/:id", h.auth.RequirePermission(auth.PermDocumentsRead), validateID(), h.GetDocument)
		documents.POST("", h.auth.RequirePermission(auth.PermDocumentsWrite),
			middleware.ValidateBody(func() interface{} { return &service.CreateDocumentRequest{} }),
			h.CreateDocument)
		documents.PUT("/:id", h.auth.RequirePermission(auth.PermDocumentsWrite),
			middleware.ValidateMultiple(middleware.MultiSpec{
				Params: func() interface{} { return &IDParams{} },
				Body:   func() interface{} { return &service.UpdateDocumentRequest{} },
			}),
			h.UpdateDocument)
		documents.DELETE("/:id", h.auth.RequirePermission(auth.PermDocumentsWrite), validateID(), h.DeleteDocument)
	}
}

// ListDocuments returns the active company's documents, paginated
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Param        employee_id  query     string  false  "Filter by employee"
// @Param        type         query     string  false  "Filter by type"
// @Success      200          {object}  response.Response
// @Router       /documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	q := middleware.QueryFrom[DocumentListQuery](c)

	filter := repository.DocumentFilter{CompanyID: companyID, Offset: p.Offset, Limit: p.Limit}
	if q != nil {
		filter.Type = q.Type
		if q.EmployeeID != "" {
			if id, err := uuid.Parse(q.EmployeeID); err == nil {
				filter.EmployeeID = &id
			}
		}
	}

	rows, total, err := h.documentService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, listEnvelope{Items: rows, Meta: p.MetaFor(total)}))
}

// ExpiringDocuments returns documents expiring within 30 days
// @Summary      Expiring documents
// @Tags         documents
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /documents/expiring [get]
func (h *DocumentHandler) ExpiringDocuments(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	rows, err := h.documentService.Expiring(c.Request.Context(), companyID, 30*24*time.Hour)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// GetDocument returns one document by id
// @Summary      Get document
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response{data=model.Document}
// @Router       /documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	document, err := h.documentService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, document))
}

// CreateDocument records a document
// @Summary      Create document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateDocumentRequest  true  "New document"
// @Success      201      {object}  response.Response{data=model.Document}
// @Router       /documents [post]
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.CreateDocumentRequest](c)
	document, err := h.documentService.Create(c.Request.Context(), companyID, actorID(c), *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, document))
}

// UpdateDocument edits a document
// @Summary      Update document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Document ID"
// @Param        payload  body      service.UpdateDocumentRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=model.Document}
// @Router       /documents/{id} [put]
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.UpdateDocumentRequest](c)
	document, err := h.documentService.Update(c.Request.Context(), companyID, id, *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, document))
}

// DeleteDocument removes a document record
// @Summary      Delete document
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.documentService.Delete(c.Request.Context(), companyID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
