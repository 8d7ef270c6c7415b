package controller

import (
	"errors"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	Service *service.LessonService
}

func NewLessonController(svc *service.LessonService) *LessonController {
	return &LessonController{Service: svc}
}

// @Summary 创建课时
// @Tags 课时管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param body body service.LessonRequest true "课时信息"
// @Success 201 {object} util.Response
// @Router /api/teacher/courses/{courseId}/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.Service.CreateLesson(courseID, req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, lesson)
}

// @Summary 更新课时
// @Tags 课时管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课时ID"
// @Param body body service.LessonRequest true "课时信息"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.Service.UpdateLesson(lessonID, req)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, lesson)
}

// @Summary 删除课时
// @Tags 课时管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))

	if err := c.Service.DeleteLesson(lessonID); err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 课时列表
// @Tags 课时
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/lessons [get]
func (c *LessonController) ListLessons(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))

	publishedOnly := true
	claims := util.GetUserFromContext(ctx)
	if claims != nil && claims.Role != "student" {
		publishedOnly = false
	}

	lessons, err := c.Service.ListLessons(courseID, publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, lessons)
}

// @Summary 上传课时视频
// @Tags 课时管理
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课时ID"
// @Param file formData file true "视频文件"
// @Success 200 {object} util.Response
// @Router /api/teacher/lessons/{id}/video [post]
func (c *LessonController) UploadVideo(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	lesson, err := c.Service.UploadVideo(ctx.Request.Context(), lessonID, fileHeader)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, lesson)
}
