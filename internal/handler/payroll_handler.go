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

// PayrollListQuery is the validated query payload for payroll listings.
type PayrollListQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Period     string `form:"period" binding:"omitempty,len=7"`
	Status     string `form:"status" binding:"omitempty,oneof=draft final"`
}

type PayrollHandler struct {
	payrollService service.PayrollService
	auth           *middleware.Auth
}

func NewPayrollHandler(payrollService service.PayrollService, authMw *middleware.Auth) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService, auth: authMw}
}

func (h *PayrollHandler) RegisterRoutes(router *gin.RouterGroup) {
	payroll := router.Group("/payroll")
	{
		payroll.GET("", h.auth.RequirePermission(auth.PermPayrollRead),
			middleware.ValidateQuery(func() interface{} { return &PayrollListQuery{} }),
			h.ListPayrolls)
		payroll.GET("/:id", h.auth.RequirePermission(auth.PermPayrollRead), validateID(), h.GetPayroll)
		payroll.POST("/run", h.auth.RequirePermission(auth.PermPayrollRun),
			middleware.ValidateBody(func() interface{} { return &service.RunPayrollRequest{} }),
			h.RunPayroll)
		payroll.POST("/:id/finalize", h.auth.RequirePermission(auth.PermPayrollRun), validateID(), h.FinalizePayroll)
	}
}

// ListPayrolls returns the active company's payroll rows, paginated
// @Summary      List payroll
// @Tags         payroll
// @Produce      json
// @Param        period  query     string  false  "YYYY-MM"
// @Param        status  query     string  false  "draft or final"
// @Success      200     {object}  response.Response
// @Router       /payroll [get]
func (h *PayrollHandler) ListPayrolls(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	q := middleware.QueryFrom[PayrollListQuery](c)

	filter := repository.PayrollFilter{CompanyID: companyID, Offset: p.Offset, Limit: p.Limit}
	if q != nil {
		filter.Period = q.Period
		filter.Status = q.Status
		if q.EmployeeID != "" {
			if id, err := uuid.Parse(q.EmployeeID); err == nil {
				filter.EmployeeID = &id
			}
		}
	}

	rows, total, err := h.payrollService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, listEnvelope{Items: rows, Meta: p.MetaFor(total)}))
}

// GetPayroll returns one payroll row by id
// @Summary      Get payroll
// @Tags         payroll
// @Produce      json
// @Param        id   path      string  true  "Payroll ID"
// @Success      200  {object}  response.Response{data=model.Payroll}
// @Router       /payroll/{id} [get]
func (h *PayrollHandler) GetPayroll(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	payroll, err := h.payrollService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, payroll))
}

// RunPayroll settles a period for all active employees
// @Summary      Run payroll
// @Description  Creates draft settlements for every active employee not already settled for the period.
// @Tags         payroll
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RunPayrollRequest  true  "Period to settle"
// @Success      200      {object}  response.Response{data=service.PayrollRunResult}
// @Router       /payroll/run [post]
func (h *PayrollHandler) RunPayroll(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.RunPayrollRequest](c)
	result, err := h.payrollService.Run(c.Request.Context(), companyID, actorID(c), *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// FinalizePayroll finalizes a draft settlement
// @Summary      Finalize payroll
// @Tags         payroll
// @Produce      json
// @Param        id   path      string  true  "Payroll ID"
// @Success      200  {object}  response.Response{data=model.Payroll}
// @Failure      409  {object}  response.Response
// @Router       /payroll/{id}/finalize [post]
func (h *PayrollHandler) FinalizePayroll(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	payroll, err := h.payrollService.Finalize(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, payroll))
}
