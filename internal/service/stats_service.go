package service

import (
	"fmt"
	"math"

	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/repository"
	"quiz_expleo_backend/internal/util"
	"quiz_expleo_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StatsService struct {
	UserRepo   *repository.UserRepository
	QuizRepo   *repository.QuizRepository
	ResultRepo *repository.QuizResultRepository
	StatsRepo  *repository.UserStatsRepository
}

func NewStatsService(
	userRepo *repository.UserRepository,
	quizRepo *repository.QuizRepository,
	resultRepo *repository.QuizResultRepository,
	statsRepo *repository.UserStatsRepository,
) *StatsService {
	return &StatsService{
		UserRepo:   userRepo,
		QuizRepo:   quizRepo,
		ResultRepo: resultRepo,
		StatsRepo:  statsRepo,
	}
}

// ComputeStats 根据成绩列表与该用户可见的测验总数计算统计值
func ComputeStats(results []model.QuizResult, availableQuizzes int) model.CalculatedStats {
	stats := model.CalculatedStats{
		TotalQuizzes:     availableQuizzes,
		CompletedQuizzes: len(results),
	}

	if len(results) > 0 {
		var totalPercentage float64
		for _, r := range results {
			totalPercentage += r.Percentage
			if r.Percentage > stats.BestScore {
				stats.BestScore = r.Percentage
			}
			stats.TotalTimeSpent += r.TimeSpent
			stats.TotalCorrectAnswers += r.CorrectAnswers
			stats.TotalQuestions += r.TotalQuestions
			stats.TotalScore += r.PointsEarned
		}
		stats.AverageScore = math.Round(totalPercentage / float64(len(results)))
		stats.Badges = int(stats.AverageScore) / 10
	}

	if stats.TotalQuizzes > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.CompletedQuizzes) / float64(stats.TotalQuizzes) * 100))
	}
	return stats
}

// CalculateUserStats 从成绩表实时计算用户统计，绕过统计缓存
func (s *StatsService) CalculateUserStats(userID uint) (*model.CalculatedStats, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	available, err := s.QuizRepo.FindActiveForCBU(user.CBU)
	if err != nil {
		return nil, err
	}

	results, err := s.ResultRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	stats := ComputeStats(results, len(available))
	return &stats, nil
}

// SyncUserStats 重算并回写统计缓存行
func (s *StatsService) SyncUserStats(userID uint) (*model.CalculatedStats, error) {
	stats, err := s.CalculateUserStats(userID)
	if err != nil {
		return nil, err
	}

	err = s.StatsRepo.Upsert(&model.UserStats{
		UserID:         userID,
		QuizCompleted:  stats.CompletedQuizzes,
		TotalScore:     stats.TotalScore,
		TotalQuestions: stats.TotalQuestions,
		CorrectAnswers: stats.TotalCorrectAnswers,
		TotalTimeSpent: stats.TotalTimeSpent,
		AverageScore:   stats.AverageScore,
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// SyncAllStats 同步所有协作者的统计缓存，返回成功数与总数
func (s *StatsService) SyncAllStats() (int, int, error) {
	collaborators, err := s.UserRepo.FindByRole(model.Collaborator)
	if err != nil {
		return 0, 0, err
	}

	synced := 0
	for _, user := range collaborators {
		if _, err := s.SyncUserStats(user.ID); err != nil {
			logger.Log.Error("failed to sync user stats",
				zap.Uint("user_id", user.ID), zap.Error(err))
			continue
		}
		synced++
	}
	return synced, len(collaborators), nil
}

// UserWithStats 管理端用户列表条目
type UserWithStats struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar"`
	CBU          string `json:"cbu"`
	TotalPoints  int    `json:"totalPoints"`
	JoinedAt     string `json:"joinedAt"`
	LastActivity string `json:"lastActivity"`
	model.CalculatedStats
}

// GetAllUsersWithStats 返回所有协作者及其实时统计
func (s *StatsService) GetAllUsersWithStats() ([]UserWithStats, error) {
	collaborators, err := s.UserRepo.FindByRole(model.Collaborator)
	if err != nil {
		return nil, err
	}

	users := make([]UserWithStats, 0, len(collaborators))
	for _, user := range collaborators {
		stats, err := s.CalculateUserStats(user.ID)
		if err != nil {
			logger.Log.Error("failed to calculate user stats",
				zap.Uint("user_id", user.ID), zap.Error(err))
			continue
		}

		cbu := user.CBU
		if cbu == "" {
			cbu = "Non défini"
		}

		lastActivity := user.UpdatedAt.Format(util.TimeFormat)
		if recent, err := s.ResultRepo.FindRecentByUser(user.ID, 1); err == nil && len(recent) > 0 {
			lastActivity = recent[0].CompletedAt.Format(util.TimeFormat)
		}

		users = append(users, UserWithStats{
			ID:              user.ID,
			Username:        user.Username,
			Email:           user.Email,
			Avatar:          user.Avatar,
			CBU:             cbu,
			TotalPoints:     stats.TotalScore,
			JoinedAt:        user.CreatedAt.Format(util.TimeFormat),
			LastActivity:    lastActivity,
			CalculatedStats: *stats,
		})
	}
	return users, nil
}

// SyncSummary 供接口返回同步结果文案
func SyncSummary(synced, total int) string {
	return fmt.Sprintf("%d/%d utilisateurs synchronisés", synced, total)
}
