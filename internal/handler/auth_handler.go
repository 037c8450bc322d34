package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hrms/internal/middleware"
	"hrms/internal/service"
	"hrms/pkg/response"
)

type AuthHandler struct {
	authService service.AuthService
	auth        *middleware.Auth
}

func NewAuthHandler(authService service.AuthService, auth *middleware.Auth) *AuthHandler {
	return &AuthHandler{authService: authService, auth: auth}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login",
			middleware.ValidateBody(func() interface{} { return &service.LoginRequest{} }),
			h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", h.auth.RequireAuth(), h.Logout)
		authGroup.GET("/me", h.auth.RequireAuth(), h.Me)
		authGroup.GET("/permissions", h.auth.RequireAuth(), h.Permissions)
		authGroup.POST("/switch-company",
			h.auth.RequireAuth(),
			middleware.ValidateBody(func() interface{} { return &service.SwitchCompanyRequest{} }),
			h.SwitchCompany)
		authGroup.POST("/change-password",
			h.auth.RequireAuth(),
			middleware.ValidateBody(func() interface{} { return &service.ChangePasswordRequest{} }),
			h.ChangePassword)
		authGroup.PUT("/profile",
			h.auth.RequireAuth(),
			middleware.ValidateBody(func() interface{} { return &service.UpdateProfileRequest{} }),
			h.UpdateProfile)
	}
}

// Login authenticates a user and starts a session
// @Summary      Log in
// @Description  Verifies credentials and sets HttpOnly session cookies. Tokens never appear in the body.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Failure      401      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	req := middleware.BodyFrom[service.LoginRequest](c)
	user, pair, err := h.authService.Login(c.Request.Context(), *req)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetTokenCookies(c, pair.AccessToken, pair.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// Refresh rotates the session using the refresh cookie
// @Summary      Refresh session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(middleware.RefreshCookieName())
	if err != nil || refreshToken == "" {
		middleware.ClearTokenCookies(c)
		c.JSON(http.StatusUnauthorized, response.ErrorCode(http.StatusUnauthorized,
			"AUTHENTICATION_ERROR", "missing refresh token"))
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		middleware.ClearTokenCookies(c)
		respondError(c, err)
		return
	}

	middleware.SetTokenCookies(c, pair.AccessToken, pair.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"refreshed": true}))
}

// Logout ends the session
// @Summary      Log out
// @Description  Blacklists the access token, deletes the refresh token and clears cookies.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID := currentUserID(c)
	tokenID := c.MustGet(middleware.CtxTokenID).(string)
	tokenExp := c.MustGet(middleware.CtxTokenExp).(time.Time)
	refreshToken, _ := c.Cookie(middleware.RefreshCookieName())

	if err := h.authService.Logout(c.Request.Context(), userID, tokenID, tokenExp, refreshToken); err != nil {
		respondError(c, err)
		return
	}

	middleware.ClearTokenCookies(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"logged_out": true}))
}

// Me returns the authenticated user's profile
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.Request.Context(), currentUserID(c), currentCompanyID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// Permissions returns the caller's effective permission set
// @Summary      Effective permissions
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/permissions [get]
func (h *AuthHandler) Permissions(c *gin.Context) {
	perms, err := h.authService.PermissionsFor(c.Request.Context(), currentUserID(c), currentCompanyID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"permissions": perms}))
}

// SwitchCompany changes the active company context
// @Summary      Switch company
// @Description  Reissues the session for the requested company. Membership is enforced.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SwitchCompanyRequest  true  "Target company"
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Failure      403      {object}  response.Response
// @Router       /auth/switch-company [post]
func (h *AuthHandler) SwitchCompany(c *gin.Context) {
	req := middleware.BodyFrom[service.SwitchCompanyRequest](c)
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorCode(http.StatusBadRequest,
			"VALIDATION_ERROR", "invalid company_id"))
		return
	}

	userID := currentUserID(c)
	user, pair, err := h.authService.SwitchCompany(c.Request.Context(), userID, companyID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.auth.InvalidatePermissions(userID)
	middleware.SetTokenCookies(c, pair.AccessToken, pair.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}

// ChangePassword rotates the user's password and revokes the session
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ChangePasswordRequest  true  "Password change"
// @Success      200      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	req := middleware.BodyFrom[service.ChangePasswordRequest](c)
	tokenID := c.MustGet(middleware.CtxTokenID).(string)
	tokenExp := c.MustGet(middleware.CtxTokenExp).(time.Time)

	if err := h.authService.ChangePassword(c.Request.Context(), currentUserID(c), *req, tokenID, tokenExp); err != nil {
		respondError(c, err)
		return
	}

	middleware.ClearTokenCookies(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"password_changed": true}))
}

// UpdateProfile edits the caller's own name fields
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpdateProfileRequest  true  "Profile fields"
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	req := middleware.BodyFrom[service.UpdateProfileRequest](c)
	user, err := h.authService.UpdateProfile(c.Request.Context(), currentUserID(c), *req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, user))
}
