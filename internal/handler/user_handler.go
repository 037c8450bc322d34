package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hrms/internal/auth"
	"hrms/internal/middleware"
	"hrms/internal/service"
	"hrms/pkg/pagination"
	"hrms/pkg/response"
)

type UserHandler struct {
	userService service.UserService
	auth        *middleware.Auth
}

func NewUserHandler(userService service.UserService, authMw *middleware.Auth) *UserHandler {
	return &UserHandler{userService: userService, auth: authMw}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.auth.RequirePermission(auth.PermUsersRead), h.ListUsers)
		users.GET("/:id", h.auth.RequirePermission(auth.PermUsersRead), validateID(), h.GetUser)
		users.POST("", h.auth.RequirePermission(auth.PermUsersWrite),
			middleware.ValidateBody(func() interface{} { return &service.CreateUserRequest{} }),
			h.CreateUser)
		users.PUT("/:id", h.auth.RequirePermission(auth.PermUsersWrite), validateID(),
			middleware.ValidateBody(func() interface{} { return &service.UpdateUserRequest{} }),
			h.UpdateUser)
		users.DELETE("/:id", h.auth.RequirePermission(auth.PermUsersDelete), validateID(), h.DeleteUser)
		users.POST("/:id/companies", h.auth.RequirePermission(auth.PermUsersWrite), validateID(),
			middleware.ValidateBody(func() interface{} { return &service.AssignCompanyRequest{} }),
			h.AssignCompany)
		users.DELETE("/:id/companies/:companyId", h.auth.RequirePermission(auth.PermUsersWrite), validateID(),
			h.RemoveCompany)
	}
}

// ListUsers returns all users, paginated
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := pagination.Parse(c)
	users, total, err := h.userService.List(c.Request.Context(), p.Offset, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, listEnvelope{Items: users, Meta: p.MetaFor(total)}))
}

// GetUser returns one user by id
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// CreateUser creates a user account
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateUserRequest  true  "New user"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      409      {object}  response.Response
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	req := middleware.BodyFrom[service.CreateUserRequest](c)
	user, err := h.userService.Create(c.Request.Context(), *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, user))
}

// UpdateUser edits a user account
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "User ID"
// @Param        payload  body      service.UpdateUserRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Router       /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.UpdateUserRequest](c)
	user, err := h.userService.Update(c.Request.Context(), id, *req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.auth.InvalidatePermissions(id)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// DeleteUser removes a user account
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.auth.InvalidatePermissions(id)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

// AssignCompany attaches a user to a company with role and overrides
// @Summary      Assign user to company
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "User ID"
// @Param        payload  body      service.AssignCompanyRequest  true  "Membership"
// @Success      200      {object}  response.Response
// @Router       /users/{id}/companies [post]
func (h *UserHandler) AssignCompany(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	req := middleware.BodyFrom[service.AssignCompanyRequest](c)
	if err := h.userService.AssignCompany(c.Request.Context(), id, *req); err != nil {
		respondError(c, err)
		return
	}
	h.auth.InvalidatePermissions(id)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"assigned": true}))
}

// RemoveCompany detaches a user from a company
// @Summary      Remove user from company
// @Tags         users
// @Produce      json
// @Param        id         path      string  true  "User ID"
// @Param        companyId  path      string  true  "Company ID"
// @Success      200        {object}  response.Response
// @Router       /users/{id}/companies/{companyId} [delete]
func (h *UserHandler) RemoveCompany(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	companyID, err := uuid.Parse(c.Param("companyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorCode(http.StatusBadRequest,
			"VALIDATION_ERROR", "invalid companyId"))
		return
	}
	if err := h.userService.RemoveCompany(c.Request.Context(), id, companyID); err != nil {
		respondError(c, err)
		return
	}
	h.auth.InvalidatePermissions(id)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"removed": true}))
}
