package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hrms/internal/auth"
	"hrms/internal/middleware"
	"hrms/internal/repository"
	"hrms/internal/service"
	"hrms/pkg/pagination"
	"hrms/pkg/response"
)

// ViolationListQuery is the validated query payload for violation listings.
type ViolationListQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Severity   string `form:"severity" binding:"omitempty,oneof=minor major critical"`
}

type ViolationHandler struct {
	violationService service.ViolationService
	auth             *middleware.Auth
}

func NewViolationHandler(violationService service.ViolationService, authMw *middleware.Auth) *ViolationHandler {
	return &ViolationHandler{violationService: violationService, auth: authMw}
}

func (h *ViolationHandler) RegisterRoutes(router *gin.RouterGroup) {
	violations := router.Group("/violations")
	{
		violations.GET("", h.auth.RequirePermission(auth.PermViolationsRead),
			middleware.ValidateQuery(func() interface{} { return &ViolationListQuery{} }),
			h.ListViolations)
		violations.GET("/:id", h.auth.RequirePermission(auth.PermViolationsRead), validateID(), h.GetViolation)
		violations.POST("", h.auth.RequirePermission(auth.PermViolationsWrite),
			middleware.ValidateBody(func() interface{} { return &service.CreateViolationRequest{} }),
			h.CreateViolation)
		violations.PUT("/:id", h.auth.RequirePermission(auth.PermViolationsWrite),
			middleware.ValidateMultiple(middleware.MultiSpec{
				Params: func() interface{} { return &IDParams{} },
				Body:   func() interface{} { return &service.UpdateViolationRequest{} },
			}),
			h.UpdateViolation)
		violations.DELETE("/:id", h.auth.RequirePermission(auth.PermViolationsWrite), validateID(), h.DeleteViolation)
	}
}

// ListViolations returns the active company's violations, paginated
// @Summary      List violations
// @Tags         violations
// @Produce      json
// @Param        employee_id  query     string  false  "Filter by employee"
// @Param        severity     query     string  false  "minor, major or critical"
// @Success      200          {object}  response.Response
// @Router       /violations [get]
func (h *ViolationHandler) ListViolations(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	q := middleware.QueryFrom[ViolationListQuery](c)

	filter := repository.ViolationFilter{CompanyID: companyID, Offset: p.Offset, Limit: p.Limit}
	if q != nil {
		filter.Severity = q.Severity
		if q.EmployeeID != "" {
			if id, err := uuid.Parse(q.EmployeeID); err == nil {
				filter.EmployeeID = &id
			}
		}
	}

	rows, total, err := h.violationService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, listEnvelope{Items: rows, Meta: p.MetaFor(total)}))
}

// GetViolation returns one violation by id
// @Summary      Get violation
// @Tags         violations
// @Produce      json
// @Param        id   path      string  true  "Violation ID"
// @Success      200  {object}  response.Response{data=model.Violation}
// @Router       /violations/{id} [get]
func (h *ViolationHandler) GetViolation(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	violation, err := h.violationService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, violation))
}

// CreateViolation records a disciplinary violation
// @Summary      Create violation
// @Tags         violations
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateViolationRequest  true  "New violation"
// @Success      201      {object}  response.Response{data=model.Violation}
// @Router       /violations [post]
func (h *ViolationHandler) CreateViolation(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.CreateViolationRequest](c)
	violation, err := h.violationService.Create(c.Request.Context(), companyID, actorID(c), *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, violation))
}

// UpdateViolation edits a violation
// @Summary      Update violation
// @Tags         violations
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Violation ID"
// @Param        payload  body      service.UpdateViolationRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=model.Violation}
// @Router       /violations/{id} [put]
func (h *ViolationHandler) UpdateViolation(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	p := middleware.ParamsFrom[IDParams](c)
	id, err := uuid.Parse(p.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorCode(http.StatusBadRequest,
			"VALIDATION_ERROR", "invalid id"))
		return
	}
	req := middleware.BodyFrom[service.UpdateViolationRequest](c)
	violation, err := h.violationService.Update(c.Request.Context(), companyID, id, *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, violation))
}

// DeleteViolation removes a violation
// @Summary      Delete violation
// @Tags         violations
// @Produce      json
// @Param        id   path      string  true  "Violation ID"
// @Success      200  {object}  response.Response
// @Router       /violations/{id} [delete]
func (h *ViolationHandler) DeleteViolation(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.violationService.Delete(c.Request.Context(), companyID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
