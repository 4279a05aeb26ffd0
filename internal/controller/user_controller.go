package controller

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/service"
	"quiz_expleo_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct {
	UserService    *service.UserService
	StorageService *service.StorageService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService) *UserController {
	return &UserController{
		UserService:    userService,
		StorageService: storageService,
	}
}

// ListUsers godoc
// @Summary 获取协作者列表
// @Description 获取全部协作者及其统计概览
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.UserProfile} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 500 {object} util.Response "Internal Server Error"
// @Router /api/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	profiles, err := c.UserService.ListCollaborators()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profiles)
}

// GetUser godoc
// @Summary 获取单个用户资料
// @Description 按 ID 获取用户及其统计概览
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=service.UserProfile} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	profile, err := c.UserService.GetUser(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.Error(ctx, http.StatusNotFound, "Utilisateur non trouvé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, profile)
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	CBU      string `json:"cbu" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=admin collaborator"`
}

// CreateUser godoc
// @Summary 创建用户
// @Description 管理员创建新用户
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateUserRequest true "用户信息"
// @Success 201 {object} util.Response{data=object} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role := model.Collaborator
	if req.Role == string(model.Admin) {
		role = model.Admin
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		CBU:      req.CBU,
		Role:     role,
	}

	if err := c.UserService.CreateUser(user); err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(ctx, http.StatusConflict, "Cet email est déjà utilisé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": user.ID})
}

// UpdateUserRequest 更新用户请求，零值字段不更新
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	CBU      *string `json:"cbu"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin collaborator"`
}

// UpdateUser godoc
// @Summary 更新用户
// @Description 管理员按字段更新用户信息
// @Tags 用户
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   body body UpdateUserRequest true "要更新的字段"
// @Success 200 {object} util.Response{data=service.UserProfile} "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 404 {object} util.Response "Not Found"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/users/{id} [patch]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	fields := map[string]interface{}{}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Password != nil {
		fields["password"] = *req.Password
	}
	if req.CBU != nil {
		fields["cbu"] = *req.CBU
	}
	if req.Role != nil {
		fields["role"] = *req.Role
	}

	profile, err := c.UserService.UpdateUser(uint(id), fields)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.Error(ctx, http.StatusNotFound, "Utilisateur non trouvé")
		case errors.Is(err, util.ErrEmailRegistered):
			util.Error(ctx, http.StatusConflict, "Cet email est déjà utilisé")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, profile)
}

// DeleteUser godoc
// @Summary 删除用户
// @Description 删除用户及其统计与徽章记录，成绩保留为历史数据
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	if err := c.UserService.DeleteUser(uint(id)); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.Error(ctx, http.StatusNotFound, "Utilisateur non trouvé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Utilisateur supprimé"})
}

// UploadAvatar godoc
// @Summary 上传头像
// @Description 当前用户上传头像图片
// @Tags 用户
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   avatar formData file true "头像图片"
// @Success 200 {object} util.Response{data=object} "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/users/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "Avatar file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedImageExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		util.BadRequest(ctx, "Format d'image non supporté")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		util.BadRequest(ctx, "Le fichier doit être une image")
		return
	}

	// ValidateMimeType 已消费前 512 字节，重新打开再上传
	src2, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src2.Close()

	filename := fmt.Sprintf("avatars/%d_%s%s", claims.UserID, uuid.New().String(), ext)
	url, err := c.StorageService.Upload(ctx, filename, src2, file.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	oldAvatar, err := c.UserService.UpdateAvatar(claims.UserID, url)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	// 旧头像尽力删除，失败不影响本次上传
	if prefix := c.StorageService.GetURL(""); oldAvatar != "" && strings.HasPrefix(oldAvatar, prefix) {
		_ = c.StorageService.Delete(ctx, strings.TrimPrefix(oldAvatar, prefix))
	}

	util.Success(ctx, gin.H{"avatar": url})
}
