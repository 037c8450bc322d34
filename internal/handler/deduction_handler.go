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

// DeductionListQuery is the validated query payload for deduction listings.
type DeductionListQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
}

type DeductionHandler struct {
	deductionService service.DeductionService
	auth             *middleware.Auth
}

func NewDeductionHandler(deductionService service.DeductionService, authMw *middleware.Auth) *DeductionHandler {
	return &DeductionHandler{deductionService: deductionService, auth: authMw}
}

func (h *DeductionHandler) RegisterRoutes(router *gin.RouterGroup) {
	deductions := router.Group("/deductions")
	{
		deductions.GET("", h.auth.RequirePermission(auth.PermDeductionsRead),
			middleware.ValidateQuery(func() interface{} { return &DeductionListQuery{} }),
			h.ListDeductions)
		deductions.GET("/:id", h.auth.RequirePermission(auth.PermDeductionsRead), validateID(), h.GetDeduction)
		deductions.POST("", h.auth.RequirePermission(auth.PermDeductionsWrite),
			middleware.ValidateBody(func() interface{} { return &service.CreateDeductionRequest{} }),
			h.CreateDeduction)
		deductions.PUT("/:id", h.auth.RequirePermission(auth.PermDeductionsWrite),
			middleware.ValidateMultiple(middleware.MultiSpec{
				Params: func() interface{} { return &IDParams{} },
				Body:   func() interface{} { return &service.UpdateDeductionRequest{} },
			}),
			h.UpdateDeduction)
		deductions.DELETE("/:id", h.auth.RequirePermission(auth.PermDeductionsWrite), validateID(), h.DeleteDeduction)
	}
}

// ListDeductions returns the active company's deductions, paginated
// @Summary      List deductions
// @Tags         deductions
// @Produce      json
// @Param        employee_id  query     string  false  "Filter by employee"
// @Success      200          {object}  response.Response
// @Router       /deductions [get]
func (h *DeductionHandler) ListDeductions(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	q := middleware.QueryFrom[DeductionListQuery](c)

	filter := repository.DeductionFilter{CompanyID: companyID, Offset: p.Offset, Limit: p.Limit}
	if q != nil && q.EmployeeID != "" {
		if id, err := uuid.Parse(q.EmployeeID); err == nil {
			filter.EmployeeID = &id
		}
	}

	rows, total, err := h.deductionService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, listEnvelope{Items: rows, Meta: p.MetaFor(total)}))
}

// GetDeduction returns one deduction by id
// @Summary      Get deduction
// @Tags         deductions
// @Produce      json
// @Param        id   path      string  true  "Deduction ID"
// @Success      200  {object}  response.Response{data=model.Deduction}
// @Router       /deductions/{id} [get]
func (h *DeductionHandler) GetDeduction(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	deduction, err := h.deductionService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, deduction))
}

// CreateDeduction records a deduction for an employee
// @Summary      Create deduction
// @Tags         deductions
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateDeductionRequest  true  "New deduction"
// @Success      201      {object}  response.Response{data=model.Deduction}
// @Router       /deductions [post]
func (h *DeductionHandler) CreateDeduction(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.CreateDeductionRequest](c)
	deduction, err := h.deductionService.Create(c.Request.Context(), companyID, actorID(c), *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, deduction))
}

// UpdateDeduction edits a deduction
// @Summary      Update deduction
// @Tags         deductions
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Deduction ID"
// @Param        payload  body      service.UpdateDeductionRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=model.Deduction}
// @Router       /deductions/{id} [put]
func (h *DeductionHandler) UpdateDeduction(c *gin.Context) {
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
	req := middleware.BodyFrom[service.UpdateDeductionRequest](c)
	deduction, err := h.deductionService.Update(c.Request.Context(), companyID, id, *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, deduction))
}

// DeleteDeduction removes a deduction
// @Summary      Delete deduction
// @Tags         deductions
// @Produce      json
// @Param        id   path      string  true  "Deduction ID"
// @Success      200  {object}  response.Response
// @Router       /deductions/{id} [delete]
func (h *DeductionHandler) DeleteDeduction(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.deductionService.Delete(c.Request.Context(), companyID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
