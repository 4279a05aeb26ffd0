package controller

import (
	"errors"
	"net/http"
	"strconv"

	"quiz_expleo_backend/internal/service"
	"quiz_expleo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizResultController struct {
	QuizResultService *service.QuizResultService
	StatsService      *service.StatsService
}

func NewQuizResultController(
	quizResultService *service.QuizResultService,
	statsService *service.StatsService,
) *QuizResultController {
	return &QuizResultController{
		QuizResultService: quizResultService,
		StatsService:      statsService,
	}
}

// targetUserID 解析路径中的用户 ID，协作者只能访问自己的成绩
func (c *QuizResultController) targetUserID(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}

	id, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return 0, false
	}

	if claims.Role != "admin" && uint(id) != claims.UserID {
		util.Forbidden(ctx)
		return 0, false
	}
	return uint(id), true
}

// CreateResult godoc
// @Summary 写入测验成绩
// @Description 直接写入一条成绩记录，遵循与提交相同的重玩规则
// @Tags 成绩
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateResultRequest true "成绩数据"
// @Success 201 {object} util.Response{data=model.QuizResult} "Created"
// @Failure 400 {object} util.Response "请求参数错误或测验不可重玩"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/quiz-results [post]
func (c *QuizResultController) CreateResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateResultRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 协作者只能写自己的成绩
	if claims.Role != "admin" && req.UserID != claims.UserID {
		util.Forbidden(ctx)
		return
	}

	result, err := c.QuizResultService.CreateResult(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.Error(ctx, http.StatusNotFound, "Quiz non trouvé")
		case errors.Is(err, util.ErrQuizNotReplayable):
			util.Error(ctx, http.StatusBadRequest, "Ce quiz a déjà été complété et ne peut pas être rejoué")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if _, err := c.StatsService.SyncUserStats(req.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// GetUserResults godoc
// @Summary 获取用户成绩列表
// @Description 获取指定用户的全部成绩，按完成时间倒序。协作者只能查自己
// @Tags 成绩
// @Produce  json
// @Security ApiKeyAuth
// @Param   userId path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.QuizResult} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/quiz-results/{userId} [get]
func (c *QuizResultController) GetUserResults(ctx *gin.Context) {
	userID, ok := c.targetUserID(ctx)
	if !ok {
		return
	}

	results, err := c.QuizResultService.GetUserResults(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, results)
}

// GetUserResultStats godoc
// @Summary 获取用户成绩统计
// @Description 基于全部成绩实时计算的统计摘要。协作者只能查自己
// @Tags 成绩
// @Produce  json
// @Security ApiKeyAuth
// @Param   userId path int true "用户ID"
// @Success 200 {object} util.Response{data=model.CalculatedStats} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/quiz-results/{userId}/stats [get]
func (c *QuizResultController) GetUserResultStats(ctx *gin.Context) {
	userID, ok := c.targetUserID(ctx)
	if !ok {
		return
	}

	stats, err := c.QuizResultService.GetUserResultStats(userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// DeleteUserResults godoc
// @Summary 清空用户成绩
// @Description 删除指定用户全部成绩并刷新统计。协作者只能清自己
// @Tags 成绩
// @Produce  json
// @Security ApiKeyAuth
// @Param   userId path int true "用户ID"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/quiz-results/{userId} [delete]
func (c *QuizResultController) DeleteUserResults(ctx *gin.Context) {
	userID, ok := c.targetUserID(ctx)
	if !ok {
		return
	}

	count, err := c.QuizResultService.DeleteUserResults(ctx, userID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if _, err := c.StatsService.SyncUserStats(userID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": count})
}
