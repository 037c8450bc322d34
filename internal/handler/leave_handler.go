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

// LeaveListQuery is the validated query payload for leave listings.
type LeaveListQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

type LeaveHandler struct {
	leaveService service.LeaveService
	auth         *middleware.Auth
}

func NewLeaveHandler(leaveService service.LeaveService, authMw *middleware.Auth) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService, auth: authMw}
}

func (h *LeaveHandler) RegisterRoutes(router *gin.RouterGroup) {
	leaves := router.Group("/leaves")
	{
		leaves.GET("", h.auth.RequirePermission(auth.PermLeavesRead),
			middleware.ValidateQuery(func() interface{} { return &LeaveListQuery{} }),
			h.ListLeaves)
		leaves.GET("/:id", h.auth.RequirePermission(auth.PermLeavesRead), validateID(), h.GetLeave)
		leaves.POST("", h.auth.RequirePermission(auth.PermLeavesWrite),
			middleware.ValidateBody(func() interface{} { return &service.CreateLeaveRequest{} }),
			h.CreateLeave)
		leaves.POST("/:id/approve", h.auth.RequirePermission(auth.PermLeavesApprove), validateID(), h.ApproveLeave)
		leaves.POST("/:id/reject", h.auth.RequirePermission(auth.PermLeavesApprove),
			middleware.ValidateMultiple(middleware.MultiSpec{
				Params: func() interface{} { return &IDParams{} },
				Body:   func() interface{} { return &service.RejectLeaveRequest{} },
			}),
			h.RejectLeave)
	}
}

// ListLeaves returns the active company's leave requests, paginated
// @Summary      List leaves
// @Tags         leaves
// @Produce      json
// @Param        status       query     string  false  "pending, approved or rejected"
// @Param        employee_id  query     string  false  "Filter by employee"
// @Success      200          {object}  response.Response
// @Router       /leaves [get]
func (h *LeaveHandler) ListLeaves(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	q := middleware.QueryFrom[LeaveListQuery](c)

	filter := repository.LeaveFilter{CompanyID: companyID, Offset: p.Offset, Limit: p.Limit}
	if q != nil {
		filter.Status = q.Status
		if q.EmployeeID != "" {
			id, err := uuid.Parse(q.EmployeeID)
			if err == nil {
				filter.EmployeeID = &id
			}
		}
	}

	leaves, total, err := h.leaveService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, listEnvelope{Items: leaves, Meta: p.MetaFor(total)}))
}

// GetLeave returns one leave request by id
// @Summary      Get leave
// @Tags         leaves
// @Produce      json
// @Param        id   path      string  true  "Leave ID"
// @Success      200  {object}  response.Response{data=model.Leave}
// @Failure      404  {object}  response.Response
// @Router       /leaves/{id} [get]
func (h *LeaveHandler) GetLeave(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	leave, err := h.leaveService.GetByID(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, leave))
}

// CreateLeave files a leave request
// @Summary      Create leave request
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateLeaveRequest  true  "Leave request"
// @Success      201      {object}  response.Response{data=model.Leave}
// @Router       /leaves [post]
func (h *LeaveHandler) CreateLeave(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.CreateLeaveRequest](c)
	leave, err := h.leaveService.Create(c.Request.Context(), companyID, actorID(c), *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, leave))
}

// ApproveLeave approves a pending leave request
// @Summary      Approve leave
// @Tags         leaves
// @Produce      json
// @Param        id   path      string  true  "Leave ID"
// @Success      200  {object}  response.Response{data=model.Leave}
// @Failure      409  {object}  response.Response
// @Router       /leaves/{id}/approve [post]
func (h *LeaveHandler) ApproveLeave(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	leave, err := h.leaveService.Approve(c.Request.Context(), companyID, id, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, leave))
}

// RejectLeave rejects a pending leave request
// @Summary      Reject leave
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Leave ID"
// @Param        payload  body      service.RejectLeaveRequest  true  "Rejection reason"
// @Success      200      {object}  response.Response{data=model.Leave}
// @Failure      409      {object}  response.Response
// @Router       /leaves/{id}/reject [post]
func (h *LeaveHandler) RejectLeave(c *gin.Context) {
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
	req := middleware.BodyFrom[service.RejectLeaveRequest](c)
	leave, err := h.leaveService.Reject(c.Request.Context(), companyID, id, currentUserID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, leave))
}
