package controller

import (
	"errors"
	"net/http"
	"strconv"

	"quiz_expleo_backend/internal/service"
	"quiz_expleo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// GetUsersWithStats godoc
// @Summary 获取全部用户统计
// @Description 管理员视图，返回全部协作者及其冗余统计
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.UserWithStats} "Success"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/stats/users [get]
func (c *StatsController) GetUsersWithStats(ctx *gin.Context) {
	users, err := c.StatsService.GetAllUsersWithStats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, users)
}

// GetUserStats godoc
// @Summary 获取单个用户统计
// @Description 实时计算指定用户的统计数据
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.CalculatedStats} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/stats/user/{id} [get]
func (c *StatsController) GetUserStats(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	stats, err := c.StatsService.CalculateUserStats(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.Error(ctx, http.StatusNotFound, "Utilisateur non trouvé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, stats)
}

// SyncUserStats godoc
// @Summary 同步单个用户统计
// @Description 重新计算并落库指定用户的冗余统计
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.CalculatedStats} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/stats/sync/{id} [post]
func (c *StatsController) SyncUserStats(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	stats, err := c.StatsService.SyncUserStats(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.Error(ctx, http.StatusNotFound, "Utilisateur non trouvé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, stats)
}

// SyncAllStats godoc
// @Summary 同步全部用户统计
// @Description 重新计算并落库所有协作者的冗余统计
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/stats/sync-all [post]
func (c *StatsController) SyncAllStats(ctx *gin.Context) {
	synced, total, err := c.StatsService.SyncAllStats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"synced":  synced,
		"total":   total,
		"message": service.SyncSummary(synced, total),
	})
}
