package service

import (
	"errors"
	"testing"
	"time"

	"quiz_expleo_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 成就子项失败时仪表盘其余子项保持完整
func TestGetDashboardDataAchievementsFailureIsIsolated(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	resultRepo := new(MockQuizResultRepo)
	svc := NewDashboardService(quizRepo, nil, resultRepo)

	now := time.Now()
	results := []model.QuizResult{
		{UserID: 7, QuizID: 1, QuizTitle: "Sécurité", Percentage: 80, TimeSpent: 600, CompletedAt: now.Add(-time.Hour)},
		{UserID: 7, QuizID: 2, QuizTitle: "Culture Générale", Percentage: 90, TimeSpent: 300, CompletedAt: now.Add(-2 * time.Hour)},
	}
	rows := []model.UserPerformance{
		{UserID: 7, Username: "lea", CBU: "qa", HasUser: true, AverageScore: 85, TotalScore: 170, CompletedQuizzes: 2},
	}

	// FindByUser 第一次服务于统计，第二次（成就）失败
	resultRepo.On("FindByUser", uint(7)).Return(results, nil).Once()
	resultRepo.On("FindByUser", uint(7)).Return(nil, errors.New("connection reset")).Once()
	resultRepo.On("AggregateByUser", "qa").Return(rows, nil)
	resultRepo.On("FindRecentByUser", uint(7), recentActivitiesLimit).Return(results, nil)
	resultRepo.On("DistinctQuizIDsByUser", uint(7)).Return([]uint{1, 2}, nil)
	resultRepo.On("FindByUserInWindow", uint(7), mock.Anything, mock.Anything).Return([]model.QuizResult{}, nil)
	quizRepo.On("FindActiveForCBU", "qa").Return([]model.Quiz{}, nil)

	data := svc.GetDashboardData(7, "qa")

	// 其余子项不受成就失败影响
	assert.Equal(t, 2, data.Stats.QuizCompleted)
	assert.Equal(t, 85, data.Stats.AverageScore)
	assert.Equal(t, 1, data.Stats.Ranking)
	assert.Len(t, data.RecentActivities, 2)
	require.Len(t, data.TopPerformers, 1)
	assert.Equal(t, uint(7), data.TopPerformers[0].UserID)

	// 失败的子项回退为空列表而不是 nil
	assert.NotNil(t, data.Achievements)
	assert.Empty(t, data.Achievements)
}
