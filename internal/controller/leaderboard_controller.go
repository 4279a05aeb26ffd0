package controller

import (
	"errors"
	"net/http"
	"strconv"

	"quiz_expleo_backend/internal/service"
	"quiz_expleo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// GetLeaderboard godoc
// @Summary 获取排行榜
// @Description 按平均分排序的排行榜，cbu 参数限定部门范围
// @Tags 排行榜
// @Produce  json
// @Param   cbu query string false "部门过滤"
// @Param   limit query int false "返回条数上限"
// @Param   minCompleted query int false "最少完成测验数"
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry} "Success"
// @Failure 500 {object} util.Response "Internal Server Error"
// @Router /api/leaderboard [get]
func (c *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	cbu := ctx.Query("cbu")
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	minCompleted, _ := strconv.Atoi(ctx.DefaultQuery("minCompleted", "0"))

	var currentUserID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		currentUserID = claims.UserID
	}

	entries, err := c.LeaderboardService.GetLeaderboard(ctx, cbu, limit, minCompleted, currentUserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}

// GetTopPlayers godoc
// @Summary 获取前 N 名
// @Description 返回排行榜前 limit 名
// @Tags 排行榜
// @Produce  json
// @Param   limit path int true "返回条数"
// @Param   cbu query string false "部门过滤"
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry} "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Router /api/leaderboard/top/{limit} [get]
func (c *LeaderboardController) GetTopPlayers(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.Param("limit"))
	if err != nil || limit <= 0 {
		util.BadRequest(ctx, "Invalid limit")
		return
	}

	var currentUserID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		currentUserID = claims.UserID
	}

	entries, err := c.LeaderboardService.GetLeaderboard(ctx, ctx.Query("cbu"), limit, 0, currentUserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, entries)
}

// GetUserRank godoc
// @Summary 获取用户名次
// @Description 返回指定用户在全局排行榜中的名次及统计
// @Tags 排行榜
// @Produce  json
// @Param   userId path int true "用户ID"
// @Success 200 {object} util.Response{data=service.UserRank} "Success"
// @Failure 404 {object} util.Response "用户没有成绩"
// @Router /api/leaderboard/user/{userId}/rank [get]
func (c *LeaderboardController) GetUserRank(ctx *gin.Context) {
	userID, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	rank, err := c.LeaderboardService.GetUserRank(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.Error(ctx, http.StatusNotFound, "Aucun résultat pour cet utilisateur")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, rank)
}

// GetGeneralStats godoc
// @Summary 获取平台统计
// @Description 返回参与人数、成绩总数、平均分、最高分等平台汇总
// @Tags 排行榜
// @Produce  json
// @Success 200 {object} util.Response{data=model.PlatformStats} "Success"
// @Failure 500 {object} util.Response "Internal Server Error"
// @Router /api/leaderboard/stats [get]
func (c *LeaderboardController) GetGeneralStats(ctx *gin.Context) {
	stats, err := c.LeaderboardService.GetGeneralStats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
