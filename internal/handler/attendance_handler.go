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

// AttendanceListQuery is the validated query payload for attendance listings.
type AttendanceListQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

type AttendanceHandler struct {
	attendanceService service.AttendanceService
	auth              *middleware.Auth
}

func NewAttendanceHandler(attendanceService service.AttendanceService, authMw *middleware.Auth) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService, auth: authMw}
}

func (h *AttendanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	attendance := router.Group("/attendance")
	{
		attendance.GET("", h.auth.RequirePermission(auth.PermAttendanceRead),
			middleware.ValidateQuery(func() interface{} { return &AttendanceListQuery{} }),
			h.ListAttendance)
		attendance.POST("/check-in", h.auth.RequirePermission(auth.PermAttendanceWrite),
			middleware.ValidateBody(func() interface{} { return &service.CheckInRequest{} }),
			h.CheckIn)
		attendance.POST("/check-out", h.auth.RequirePermission(auth.PermAttendanceWrite),
			middleware.ValidateBody(func() interface{} { return &service.CheckOutRequest{} }),
			h.CheckOut)
	}
}

// ListAttendance returns attendance records, paginated
// @Summary      List attendance
// @Tags         attendance
// @Produce      json
// @Param        employee_id  query     string  false  "Filter by employee"
// @Param        from         query     string  false  "YYYY-MM-DD"
// @Param        to           query     string  false  "YYYY-MM-DD"
// @Success      200          {object}  response.Response
// @Router       /attendance [get]
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	q := middleware.QueryFrom[AttendanceListQuery](c)

	filter := repository.AttendanceFilter{CompanyID: companyID, Offset: p.Offset, Limit: p.Limit}
	if q != nil {
		filter.FromDay = q.From
		filter.ToDay = q.To
		if q.EmployeeID != "" {
			if id, err := uuid.Parse(q.EmployeeID); err == nil {
				filter.EmployeeID = &id
			}
		}
	}

	rows, total, err := h.attendanceService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, listEnvelope{Items: rows, Meta: p.MetaFor(total)}))
}

// CheckIn opens today's attendance record for an employee
// @Summary      Check in
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CheckInRequest  true  "Employee"
// @Success      201      {object}  response.Response{data=model.Attendance}
// @Failure      409      {object}  response.Response
// @Router       /attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.CheckInRequest](c)
	row, err := h.attendanceService.CheckIn(c.Request.Context(), companyID, *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, row))
}

// CheckOut closes today's attendance record for an employee
// @Summary      Check out
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CheckOutRequest  true  "Employee"
// @Success      200      {object}  response.Response{data=model.Attendance}
// @Failure      409      {object}  response.Response
// @Router       /attendance/check-out [post]
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.CheckOutRequest](c)
	row, err := h.attendanceService.CheckOut(c.Request.Context(), companyID, *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, row))
}
