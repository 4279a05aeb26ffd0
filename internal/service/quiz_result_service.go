package service

import (
	"context"
	"time"

	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/util"
	"quiz_expleo_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type QuizResultService struct {
	ResultRepo  QuizResultStore
	QuizRepo    QuizStore
	Leaderboard *LeaderboardService
}

func NewQuizResultService(
	resultRepo QuizResultStore,
	quizRepo QuizStore,
	leaderboard *LeaderboardService,
) *QuizResultService {
	return &QuizResultService{
		ResultRepo:  resultRepo,
		QuizRepo:    quizRepo,
		Leaderboard: leaderboard,
	}
}

type CreateResultRequest struct {
	UserID         uint            `json:"userId" binding:"required"`
	QuizID         uint            `json:"quizId" binding:"required"`
	QuizTitle      string          `json:"quizTitle"`
	Theme          string          `json:"theme"`
	Score          int             `json:"score"`
	TotalQuestions int             `json:"totalQuestions" binding:"required"`
	CorrectAnswers int             `json:"correctAnswers"`
	Percentage     *float64        `json:"percentage"`
	TimeSpent      int             `json:"timeSpent"`
	PointsEarned   *int            `json:"pointsEarned"`
	Attempts       int             `json:"attempts"`
}

// CreateResult 直接写入一条成绩记录，适配同样的重玩规则与默认值推导
func (s *QuizResultService) CreateResult(ctx context.Context, req *CreateResultRequest) (*model.QuizResult, error) {
	quiz, err := s.QuizRepo.FindByID(req.QuizID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}

	if !quiz.IsReplayable {
		if _, err := s.ResultRepo.FindByUserAndQuiz(req.UserID, req.QuizID); err == nil {
			return nil, util.ErrQuizNotReplayable
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	quizTitle := req.QuizTitle
	if quizTitle == "" {
		quizTitle = quiz.Title
	}
	if quizTitle == "" {
		quizTitle = "Quiz sans titre"
	}
	theme := req.Theme
	if theme == "" {
		theme = quiz.Theme
	}
	if theme == "" {
		theme = "general"
	}
	pointsEarned := req.Score
	if req.PointsEarned != nil {
		pointsEarned = *req.PointsEarned
	}
	attempts := req.Attempts
	if attempts == 0 {
		attempts = 1
	}

	result := &model.QuizResult{
		UserID:         req.UserID,
		QuizID:         req.QuizID,
		QuizTitle:      quizTitle,
		Theme:          theme,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
		Percentage:     DerivePercentage(req.CorrectAnswers, req.TotalQuestions, req.Percentage),
		TimeSpent:      req.TimeSpent,
		PointsEarned:   pointsEarned,
		Attempts:       attempts,
		CompletedAt:    time.Now(),
	}

	if err := s.ResultRepo.Upsert(result); err != nil {
		return nil, err
	}
	if err := s.QuizRepo.UpdateAggregates(req.QuizID); err != nil {
		return nil, err
	}
	monitoring.QuizSubmissions.WithLabelValues(theme).Inc()
	s.Leaderboard.InvalidateCache(ctx)

	stored, err := s.ResultRepo.FindByUserAndQuiz(req.UserID, req.QuizID)
	if err != nil {
		return result, nil
	}
	return stored, nil
}

func (s *QuizResultService) GetUserResults(userID uint) ([]model.QuizResult, error) {
	return s.ResultRepo.FindByUser(userID)
}

// GetUserResultStats 基于成绩实时计算的统计（totalQuizzes 此处为完成数）
func (s *QuizResultService) GetUserResultStats(userID uint) (*model.CalculatedStats, error) {
	results, err := s.ResultRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(results, len(results))
	return &stats, nil
}

// DeleteUserResults 清空用户全部成绩，返回删除条数
func (s *QuizResultService) DeleteUserResults(ctx context.Context, userID uint) (int64, error) {
	count, err := s.ResultRepo.DeleteByUser(userID)
	if err != nil {
		return 0, err
	}
	s.Leaderboard.InvalidateCache(ctx)
	return count, nil
}
