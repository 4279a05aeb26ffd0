package controller

import (
	"time"

	"quiz_expleo_backend/internal/service"
	"quiz_expleo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService   *service.DashboardService
	AchievementService *service.AchievementService
}

func NewDashboardController(
	dashboardService *service.DashboardService,
	achievementService *service.AchievementService,
) *DashboardController {
	return &DashboardController{
		DashboardService:   dashboardService,
		AchievementService: achievementService,
	}
}

// GetDashboard godoc
// @Summary 获取仪表盘数据
// @Description 聚合统计、最近活动、学习路径、榜单、推荐等，子模块失败时降级为默认值
// @Tags 仪表盘
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.DashboardData} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, c.DashboardService.GetDashboardData(claims.UserID, claims.CBU))
}

// GetStats godoc
// @Summary 获取仪表盘统计
// @Description 当前用户的完成数、平均分、总时长与部门内名次
// @Tags 仪表盘
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.DashboardStats} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/dashboard/stats [get]
func (c *DashboardController) GetStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.DashboardService.GetUserStats(claims.UserID, claims.CBU)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// GetRecentActivities godoc
// @Summary 获取最近活动
// @Description 当前用户最近完成的测验活动流
// @Tags 仪表盘
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.RecentActivity} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/dashboard/recent-activities [get]
func (c *DashboardController) GetRecentActivities(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	activities, err := c.DashboardService.GetRecentActivities(claims.UserID, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, activities)
}

// GetRecommendations godoc
// @Summary 获取推荐测验
// @Description 为当前用户推荐未完成的已激活测验
// @Tags 仪表盘
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.RecommendedQuiz} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/dashboard/recommendations [get]
func (c *DashboardController) GetRecommendations(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	recommendations, err := c.DashboardService.GetRecommendations(claims.UserID, claims.CBU)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, recommendations)
}

// GetLearningPath godoc
// @Summary 获取学习路径
// @Description 按主题分组的学习进度路径
// @Tags 仪表盘
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.LearningStep} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/dashboard/learning-path [get]
func (c *DashboardController) GetLearningPath(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	path, err := c.DashboardService.GetLearningPath(claims.UserID, claims.CBU)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, path)
}

// GetTopPerformers godoc
// @Summary 获取部门榜单
// @Description 当前用户所在部门的前十名
// @Tags 仪表盘
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.LeaderboardEntry} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/dashboard/top-performers [get]
func (c *DashboardController) GetTopPerformers(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	performers, err := c.DashboardService.GetTopPerformers(claims.UserID, claims.CBU)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, performers)
}

// GetThemeStats godoc
// @Summary 获取主题统计
// @Description 当前用户按主题聚合的强弱项分析
// @Tags 仪表盘
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ThemeStat} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/dashboard/theme-stats [get]
func (c *DashboardController) GetThemeStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.DashboardService.GetThemeStats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}

// GetAchievements godoc
// @Summary 获取成就
// @Description 当前用户的成就进度与解锁状态
// @Tags 仪表盘
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Achievement} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/dashboard/achievements [get]
func (c *DashboardController) GetAchievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	achievements, err := c.AchievementService.GetUserAchievements(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, achievements)
}
