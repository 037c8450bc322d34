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

// EmployeeListQuery is the validated query payload for employee listings.
type EmployeeListQuery struct {
	Status     string `form:"status" binding:"omitempty,oneof=active on_leave terminated"`
	Department string `form:"department" binding:"omitempty,max=100"`
}

type EmployeeHandler struct {
	employeeService service.EmployeeService
	auth            *middleware.Auth
}

func NewEmployeeHandler(employeeService service.EmployeeService, authMw *middleware.Auth) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, auth: authMw}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	employees := router.Group("/employees")
	{
		employees.GET("", h.auth.RequirePermission(auth.PermEmployeesRead),
			middleware.ValidateQuery(func() interface{} { return &EmployeeListQuery{} }),
			h.ListEmployees)
		employees.GET("/:id", h.auth.RequirePermission(auth.PermEmployeesRead), validateID(), h.GetEmployee)
		employees.POST("", h.auth.RequirePermission(auth.PermEmployeesWrite),
			middleware.ValidateBody(func() interface{} { return &service.CreateEmployeeRequest{} }),
			h.CreateEmployee)
		employees.PUT("/:id", h.auth.RequirePermission(auth.PermEmployeesWrite),
			middleware.ValidateMultiple(middleware.MultiSpec{
				Params: func() interface{} { return &IDParams{} },
				Body:   func() interface{} { return &service.UpdateEmployeeRequest{} },
			}),
			h.UpdateEmployee)
		employees.DELETE("/:id", h.auth.RequirePermission(auth.PermEmployeesDelete), validateID(), h.DeleteEmployee)
	}
}

// ListEmployees returns the active company's employees, paginated
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        status      query     string  false  "Filter by status"
// @Param        department  query     string  false  "Filter by department"
// @Success      200         {object}  response.Response
// @Router       /employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	q := middleware.QueryFrom[EmployeeListQuery](c)

	filter := repository.EmployeeFilter{
		CompanyID: companyID,
		Offset:    p.Offset,
		Limit:     p.Limit,
	}
	if q != nil {
		filter.Status = q.Status
		filter.Department = q.Department
	}

	employees, total, err := h.employeeService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, listEnvelope{Items: employees, Meta: p.MetaFor(total)}))
}

// GetEmployee returns one employee by id
// @Summary      Get employee
// @Tags         employees
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response{data=model.Employee}
// @Failure      404  {object}  response.Response
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	employee, err := h.employeeService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// CreateEmployee registers an employee in the active company
// @Summary      Create employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateEmployeeRequest  true  "New employee"
// @Success      201      {object}  response.Response{data=model.Employee}
// @Router       /employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.CreateEmployeeRequest](c)
	employee, err := h.employeeService.Create(c.Request.Context(), companyID, actorID(c), *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, employee))
}

// UpdateEmployee edits an employee
// @Summary      Update employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Employee ID"
// @Param        payload  body      service.UpdateEmployeeRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=model.Employee}
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
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
	req := middleware.BodyFrom[service.UpdateEmployeeRequest](c)
	employee, err := h.employeeService.Update(c.Request.Context(), companyID, id, actorID(c), *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, employee))
}

// DeleteEmployee removes an employee
// @Summary      Delete employee
// @Tags         employees
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.employeeService.Delete(c.Request.Context(), companyID, id, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
