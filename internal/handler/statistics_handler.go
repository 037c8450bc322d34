package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hrms/internal/auth"
	"hrms/internal/middleware"
	"hrms/internal/service"
	"hrms/pkg/response"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
	auth              *middleware.Auth
}

func NewStatisticsHandler(statisticsService service.StatisticsService, authMw *middleware.Auth) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService, auth: authMw}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statistics := router.Group("/statistics")
	{
		statistics.GET("/company", h.auth.RequirePermission(auth.PermEmployeesRead), h.CompanyStatistics)
	}
}

// CompanyStatistics returns the dashboard snapshot for the active company
// @Summary      Company statistics
// @Tags         statistics
// @Produce      json
// @Success      200  {object}  response.Response{data=service.CompanyStatistics}
// @Router       /statistics/company [get]
func (h *StatisticsHandler) CompanyStatistics(c *gin.Context) {
	companyID, ok := requireCompany(c)
	if !ok {
		return
	}
	stats, err := h.statisticsService.ForCompany(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
