package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/service"
	"quiz_expleo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuizService *service.QuizService
}

func NewQuestionController(quizService *service.QuizService) *QuestionController {
	return &QuestionController{QuizService: quizService}
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Description 管理员更新单个题目
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Param   body body QuestionRequest true "题目信息"
// @Success 200 {object} util.Response{data=model.Question} "Success"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid question ID")
		return
	}

	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	qType := model.QuestionType(req.Type)
	if qType == "" {
		qType = model.QuestionQCM
	}
	points := req.Points
	if points <= 0 {
		points = 1
	}
	var answer string
	if len(req.CorrectAnswer) > 0 {
		if err := json.Unmarshal(req.CorrectAnswer, &answer); err != nil {
			answer = string(req.CorrectAnswer)
		}
	}

	question, err := c.QuizService.UpdateQuestion(uint(id), &model.Question{
		Type:          qType,
		Text:          req.Text,
		Options:       req.Options,
		CorrectAnswer: answer,
		Points:        points,
		Explanation:   req.Explanation,
	})
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.Error(ctx, http.StatusNotFound, "Question non trouvée")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Description 管理员删除单个题目
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid question ID")
		return
	}

	if err := c.QuizService.DeleteQuestion(uint(id)); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.Error(ctx, http.StatusNotFound, "Question non trouvée")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Question supprimée"})
}
