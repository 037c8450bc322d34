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

// AuditListQuery is the validated query payload for audit listings.
type AuditListQuery struct {
	Action string `form:"action" binding:"omitempty,max=50"`
}

type AuditHandler struct {
	auditService service.AuditService
	auth         *middleware.Auth
}

func NewAuditHandler(auditService service.AuditService, authMw *middleware.Auth) *AuditHandler {
	return &AuditHandler{auditService: auditService, auth: authMw}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/audit")
	{
		audit.GET("", h.auth.RequirePermission(auth.PermAuditRead),
			middleware.ValidateQuery(func() interface{} { return &AuditListQuery{} }),
			h.ListAuditLogs)
	}
}

// ListAuditLogs returns the active company's audit trail, paginated
// @Summary      List audit logs
// @Tags         audit
// @Produce      json
// @Param        action  query     string  false  "Filter by action"
// @Success      200     {object}  response.Response
// @Router       /audit [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	q := middleware.QueryFrom[AuditListQuery](c)

	action := ""
	if q != nil {
		action = q.Action
	}

	rows, total, err := h.auditService.List(c.Request.Context(), &companyID, action, p.Offset, p.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, listEnvelope{Items: rows, Meta: p.MetaFor(total)}))
}
