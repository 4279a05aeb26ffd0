package controller

import (
	"errors"
	"net/http"
	"strconv"

	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/service"
	"quiz_expleo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BadgeController struct {
	BadgeService *service.BadgeService
}

func NewBadgeController(badgeService *service.BadgeService) *BadgeController {
	return &BadgeController{BadgeService: badgeService}
}

// ListBadges godoc
// @Summary 获取徽章列表
// @Description 管理员可见全部徽章，协作者只能看到已激活的
// @Tags 徽章
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Badge} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/badges [get]
func (c *BadgeController) ListBadges(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	onlyActive := claims == nil || claims.Role != model.Admin

	badges, err := c.BadgeService.ListBadges(onlyActive)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, badges)
}

// BadgeRequest 创建/更新徽章请求
type BadgeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Criteria    string `json:"criteria"`
	Type        string `json:"type" binding:"omitempty,oneof=achievement milestone special"`
}

// CreateBadge godoc
// @Summary 创建徽章
// @Description 管理员创建新徽章
// @Tags 徽章
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body BadgeRequest true "徽章信息"
// @Success 201 {object} util.Response{data=model.Badge} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Router /api/badges [post]
func (c *BadgeController) CreateBadge(ctx *gin.Context) {
	var req BadgeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	badge := &model.Badge{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Criteria:    req.Criteria,
		Type:        model.BadgeType(req.Type),
		IsActive:    true,
	}

	if err := c.BadgeService.CreateBadge(badge); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, badge)
}

// UpdateBadge godoc
// @Summary 更新徽章
// @Description 管理员更新徽章信息
// @Tags 徽章
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "徽章ID"
// @Param   body body BadgeRequest true "徽章信息"
// @Success 200 {object} util.Response{data=model.Badge} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/badges/{id} [put]
func (c *BadgeController) UpdateBadge(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid badge ID")
		return
	}

	var req BadgeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	badge, err := c.BadgeService.UpdateBadge(uint(id), &model.Badge{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		Criteria:    req.Criteria,
		Type:        model.BadgeType(req.Type),
	})
	if err != nil {
		if errors.Is(err, util.ErrBadgeNotFound) {
			util.Error(ctx, http.StatusNotFound, "Badge non trouvé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, badge)
}

// DeleteBadge godoc
// @Summary 删除徽章
// @Description 管理员删除徽章及其授予记录
// @Tags 徽章
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "徽章ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/badges/{id} [delete]
func (c *BadgeController) DeleteBadge(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid badge ID")
		return
	}

	if err := c.BadgeService.DeleteBadge(uint(id)); err != nil {
		if errors.Is(err, util.ErrBadgeNotFound) {
			util.Error(ctx, http.StatusNotFound, "Badge non trouvé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Badge supprimé"})
}

// SetActivationRequest 徽章激活状态
type SetActivationRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SetActivation godoc
// @Summary 切换徽章激活状态
// @Description 管理员激活或停用徽章
// @Tags 徽章
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "徽章ID"
// @Param   body body SetActivationRequest true "激活状态"
// @Success 200 {object} util.Response{data=model.Badge} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/badges/{id}/activation [patch]
func (c *BadgeController) SetActivation(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid badge ID")
		return
	}

	var req SetActivationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	badge, err := c.BadgeService.SetActivation(uint(id), *req.IsActive)
	if err != nil {
		if errors.Is(err, util.ErrBadgeNotFound) {
			util.Error(ctx, http.StatusNotFound, "Badge non trouvé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, badge)
}

// AwardBadge godoc
// @Summary 授予徽章
// @Description 为当前用户记录一枚已获得的徽章
// @Tags 徽章
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "徽章ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Failure 409 {object} util.Response "徽章已获得"
// @Router /api/badges/{id}/award [post]
func (c *BadgeController) AwardBadge(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid badge ID")
		return
	}

	if err := c.BadgeService.AwardBadge(claims.UserID, uint(id)); err != nil {
		switch {
		case errors.Is(err, util.ErrBadgeNotFound):
			util.Error(ctx, http.StatusNotFound, "Badge non trouvé")
		case errors.Is(err, util.ErrBadgeAlreadyOwned):
			util.Error(ctx, http.StatusConflict, "Badge déjà obtenu")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Badge attribué"})
}

// GetMyBadges godoc
// @Summary 获取我的徽章
// @Description 当前用户已获得的徽章列表
// @Tags 徽章
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserBadge} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/badges/mine [get]
func (c *BadgeController) GetMyBadges(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	badges, err := c.BadgeService.GetUserBadges(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, badges)
}
