package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/repository"
	"quiz_expleo_backend/internal/service"
	"quiz_expleo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService  *service.QuizService
	StatsService *service.StatsService
}

func NewQuizController(quizService *service.QuizService, statsService *service.StatsService) *QuizController {
	return &QuizController{
		QuizService:  quizService,
		StatsService: statsService,
	}
}

// ListQuizzes godoc
// @Summary 获取测验列表
// @Description 管理员可见全部测验，协作者只能看到已激活且对其部门开放的测验
// @Tags 测验
// @Produce  json
// @Param   theme query string false "主题过滤"
// @Param   status query string false "状态过滤（仅管理员生效）"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Failure 500 {object} util.Response "Internal Server Error"
// @Router /api/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	filter := repository.QuizFilter{
		Theme:  ctx.Query("theme"),
		Status: ctx.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	claims := util.GetUserFromContext(ctx)
	quizzes, total, err := c.QuizService.ListQuizzes(filter, claims)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  quizzes,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetQuiz godoc
// @Summary 获取测验详情
// @Description 按 ID 获取测验及其全部题目
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz ID")
		return
	}

	quiz, err := c.QuizService.GetQuiz(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.Error(ctx, http.StatusNotFound, "Quiz non trouvé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, quiz)
}

// GetQuizQuestions godoc
// @Summary 获取测验题目
// @Description 获取指定测验的题目列表
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.Question} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/quizzes/{id}/questions [get]
func (c *QuizController) GetQuizQuestions(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz ID")
		return
	}

	quiz, err := c.QuizService.GetQuiz(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.Error(ctx, http.StatusNotFound, "Quiz non trouvé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, quiz.Questions)
}

// GetCompletionStatus godoc
// @Summary 获取完成状态
// @Description 返回当前用户对指定测验的完成与可重玩状态
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.CompletionStatus} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/quizzes/{id}/completion-status [get]
func (c *QuizController) GetCompletionStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz ID")
		return
	}

	status, err := c.QuizService.GetCompletionStatus(claims.UserID, uint(id))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.Error(ctx, http.StatusNotFound, "Quiz non trouvé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, status)
}

// SubmitQuiz godoc
// @Summary 提交测验成绩
// @Description 提交当前用户的测验结果，不可重玩的测验重复提交返回 400
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body service.SubmitRequest true "成绩数据"
// @Success 201 {object} util.Response{data=model.QuizResult} "Created"
// @Failure 400 {object} util.Response "请求参数错误或测验不可重玩"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz ID")
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitResult(ctx, claims.UserID, uint(id), &req)
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

	// 提交后刷新该用户的冗余统计
	if _, err := c.StatsService.SyncUserStats(claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, result)
}

// QuizRequest 创建/更新测验请求
type QuizRequest struct {
	Title        string            `json:"title" binding:"required"`
	Description  string            `json:"description"`
	Theme        string            `json:"theme"`
	Status       string            `json:"status" binding:"omitempty,oneof=draft active archived"`
	CBUs         []string          `json:"cbus"`
	IsReplayable bool              `json:"isReplayable"`
	Difficulty   string            `json:"difficulty"`
	Duration     int               `json:"duration"`
	ImageURL     string            `json:"imageUrl"`
	Questions    []QuestionRequest `json:"questions"`
}

// QuestionRequest 题目请求
type QuestionRequest struct {
	Type          string          `json:"type" binding:"omitempty,oneof=qcm vrai-faux libre"`
	Text          string          `json:"question" binding:"required"`
	Options       []string        `json:"options"`
	CorrectAnswer json.RawMessage `json:"correctAnswer"`
	Points        int             `json:"points"`
	Explanation   string          `json:"explanation"`
}

func (r *QuizRequest) toModel() (*model.Quiz, []model.Question) {
	quiz := &model.Quiz{
		Title:        r.Title,
		Description:  r.Description,
		Theme:        r.Theme,
		Status:       model.QuizStatus(r.Status),
		CBUs:         r.CBUs,
		IsReplayable: r.IsReplayable,
		Difficulty:   r.Difficulty,
		Duration:     r.Duration,
		ImageURL:     r.ImageURL,
	}

	if r.Questions == nil {
		return quiz, nil
	}

	questions := make([]model.Question, 0, len(r.Questions))
	for _, q := range r.Questions {
		qType := model.QuestionType(q.Type)
		if qType == "" {
			qType = model.QuestionQCM
		}
		points := q.Points
		if points <= 0 {
			points = 1
		}
		// 正确答案允许字符串或布尔，统一存为字符串
		var answer string
		if len(q.CorrectAnswer) > 0 {
			if err := json.Unmarshal(q.CorrectAnswer, &answer); err != nil {
				answer = string(q.CorrectAnswer)
			}
		}
		questions = append(questions, model.Question{
			Type:          qType,
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: answer,
			Points:        points,
			Explanation:   q.Explanation,
		})
	}
	return quiz, questions
}

// CreateQuiz godoc
// @Summary 创建测验
// @Description 管理员创建测验及其题目，默认处于草稿状态
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body QuizRequest true "测验信息"
// @Success 201 {object} util.Response{data=model.Quiz} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, questions := req.toModel()
	quiz.Questions = questions

	if err := c.QuizService.CreateQuiz(quiz); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, quiz)
}

// UpdateQuiz godoc
// @Summary 更新测验
// @Description 管理员更新测验，携带 questions 时整体替换题目
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body QuizRequest true "测验信息"
// @Success 200 {object} util.Response{data=model.Quiz} "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz ID")
		return
	}

	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, questions := req.toModel()
	quiz, err := c.QuizService.UpdateQuiz(uint(id), updated, questions)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.Error(ctx, http.StatusNotFound, "Quiz non trouvé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Description 管理员删除测验及其题目
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz ID")
		return
	}

	if err := c.QuizService.DeleteQuiz(uint(id)); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.Error(ctx, http.StatusNotFound, "Quiz non trouvé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Quiz supprimé"})
}

// DuplicateQuiz godoc
// @Summary 复制测验
// @Description 管理员复制测验及其题目，副本回到草稿状态
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 201 {object} util.Response{data=model.Quiz} "Created"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/quizzes/{id}/duplicate [post]
func (c *QuizController) DuplicateQuiz(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz ID")
		return
	}

	quiz, err := c.QuizService.DuplicateQuiz(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.Error(ctx, http.StatusNotFound, "Quiz non trouvé")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, quiz)
}
