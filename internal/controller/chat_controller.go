package controller

import (
	"errors"
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	Service *service.ChatService
}

func NewChatController(svc *service.ChatService) *ChatController {
	return &ChatController{Service: svc}
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// @Summary 发送课程讨论消息
// @Tags 课程讨论
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param body body SendMessageRequest true "消息内容"
// @Success 201 {object} util.Response
// @Router /api/courses/{courseId}/chat [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("courseId"))

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	message, err := c.Service.SendMessage(ctx.Request.Context(), claims.UserID, courseID, claims.Role, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotEnrolled):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, message)
}

// @Summary 课程讨论最新消息
// @Tags 课程讨论
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param limit query int false "条数，默认 50"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/chat/recent [get]
func (c *ChatController) RecentMessages(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	messages, err := c.Service.RecentMessages(ctx.Request.Context(), courseID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, messages)
}

// @Summary 课程讨论历史（分页）
// @Tags 课程讨论
// @Produce json
// @Security ApiKeyAuth
// @Param courseId path int true "课程ID"
// @Param page query int false "页码，默认 1"
// @Param limit query int false "每页条数，默认 20"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/chat/history [get]
func (c *ChatController) History(ctx *gin.Context) {
	courseID := util.MustParseUint(ctx.Param("courseId"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	messages, total, err := c.Service.History(courseID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  messages,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
