package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hrms/internal/auth"
	"hrms/internal/middleware"
	"hrms/internal/service"
	"hrms/pkg/pagination"
	"hrms/pkg/response"
)

type CompanyHandler struct {
	companyService service.CompanyService
	auth           *middleware.Auth
}

func NewCompanyHandler(companyService service.CompanyService, authMw *middleware.Auth) *CompanyHandler {
	return &CompanyHandler{companyService: companyService, auth: authMw}
}

func (h *CompanyHandler) RegisterRoutes(router *gin.RouterGroup) {
	companies := router.Group("/companies")
	{
		companies.GET("", h.auth.RequirePermission(auth.PermCompaniesRead), h.ListCompanies)
		companies.GET("/:id", h.auth.RequirePermission(auth.PermCompaniesRead), validateID(), h.GetCompany)
		companies.POST("", h.auth.RequirePermission(auth.PermCompaniesWrite),
			middleware.ValidateBody(func() interface{} { return &service.CreateCompanyRequest{} }),
			h.CreateCompany)
		companies.PUT("/:id", h.auth.RequirePermission(auth.PermCompaniesWrite), validateID(),
			middleware.ValidateBody(func() interface{} { return &service.UpdateCompanyRequest{} }),
			h.UpdateCompany)
		companies.DELETE("/:id", h.auth.RequirePermission(auth.PermCompaniesWrite), validateID(), h.DeleteCompany)
	}
}

// ListCompanies returns all companies, paginated
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	p := pagination.Parse(c)
	companies, total, err := h.companyService.List(c.Request.Context(), p.Offset, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, listEnvelope{Items: companies, Meta: p.MetaFor(total)}))
}

// GetCompany returns one company by id
// @Summary      Get company
// @Tags         companies
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  response.Response{data=service.CompanyResponse}
// @Failure      404  {object}  response.Response
// @Router       /companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	company, err := h.companyService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}

// CreateCompany registers a company
// @Summary      Create company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCompanyRequest  true  "New company"
// @Success      201      {object}  response.Response{data=service.CompanyResponse}
// @Router       /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	req := middleware.BodyFrom[service.CreateCompanyRequest](c)
	company, err := h.companyService.Create(c.Request.Context(), *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, company))
}

// UpdateCompany edits a company
// @Summary      Update company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Company ID"
// @Param        payload  body      service.UpdateCompanyRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=service.CompanyResponse}
// @Router       /companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.UpdateCompanyRequest](c)
	company, err := h.companyService.Update(c.Request.Context(), id, *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}

// DeleteCompany removes a company
// @Summary      Delete company
// @Tags         companies
// @Produce      json
// @Param        id   path      string  true  "Company ID"
// @Success      200  {object}  response.Response
// @Router       /companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.companyService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
