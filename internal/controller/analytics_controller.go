package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Service *service.AnalyticsService
}

func NewAnalyticsController(svc *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Service: svc}
}

// @Summary 课程统计
// @Tags 统计分析
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/analytics/courses/{courseId} [get]
func (c *AnalyticsController) GetCourseAnalytics(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))

	analytics, err := c.Service.GetCourseAnalytics(ctx.Request.Context(), courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, analytics)
}

// @Summary 平台概览
// @Tags 统计分析
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/analytics/overview [get]
func (c *AnalyticsController) GetPlatformOverview(ctx *gin.Context) {
	overview, err := c.Service.GetPlatformOverview(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, overview)
}
