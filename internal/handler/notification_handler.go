package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hrms/internal/middleware"
	"hrms/internal/repository"
	"hrms/internal/service"
	"hrms/pkg/pagination"
	"hrms/pkg/response"
)

// NotificationListQuery is the validated query payload for notification
// listings.
type NotificationListQuery struct {
	UnreadOnly bool `form:"unread_only"`
}

type NotificationHandler struct {
	notificationService service.NotificationService
	auth                *middleware.Auth
}

func NewNotificationHandler(notificationService service.NotificationService, authMw *middleware.Auth) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, auth: authMw}
}

// Notification routes need only authentication: every operation is scoped
// to the caller's own rows.
func (h *NotificationHandler) RegisterRoutes(router *gin.RouterGroup) {
	notifications := router.Group("/notifications", h.auth.RequireAuth())
	{
		notifications.GET("",
			middleware.ValidateQuery(func() interface{} { return &NotificationListQuery{} }),
			h.ListNotifications)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/:id/read", validateID(), h.MarkAsRead)
		notifications.POST("/read-all", h.MarkAllAsRead)
		notifications.DELETE("/:id", validateID(), h.DeleteNotification)
	}
}

// ListNotifications returns the caller's notifications, paginated
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Param        unread_only  query     bool  false  "Only unread"
// @Success      200          {object}  response.Response
// @Router       /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	p := pagination.Parse(c)
	q := middleware.QueryFrom[NotificationListQuery](c)

	filter := repository.NotificationFilter{
		UserID: currentUserID(c),
		Offset: p.Offset,
		Limit:  p.Limit,
	}
	if q != nil {
		filter.UnreadOnly = q.UnreadOnly
	}

	rows, total, err := h.notificationService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, listEnvelope{Items: rows, Meta: p.MetaFor(total)}))
}

// UnreadCount returns the caller's unread notification count
// @Summary      Unread count
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	n, err := h.notificationService.UnreadCount(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"unread": n}))
}

// MarkAsRead marks one notification read. Marking an already-read
// notification succeeds without changing anything.
// @Summary      Mark notification read
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.notificationService.MarkAsRead(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"read": true}))
}

// MarkAllAsRead marks every unread notification read
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"read": true}))
}

// DeleteNotification removes one of the caller's notifications
// @Summary      Delete notification
// @Tags         notifications
// @Produce      json
// @Param        id   path      string  true  "Notification ID"
// @Success      200  {object}  response.Response
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.notificationService.Delete(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
