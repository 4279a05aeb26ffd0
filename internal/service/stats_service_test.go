package service

import (
	"testing"

	"quiz_expleo_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, 5)

	assert.Equal(t, 5, stats.TotalQuizzes)
	assert.Equal(t, 0, stats.CompletedQuizzes)
	assert.Equal(t, float64(0), stats.AverageScore)
	assert.Equal(t, 0, stats.Badges)
	assert.Equal(t, 0, stats.CompletionRate)
}

func TestComputeStats(t *testing.T) {
	results := []model.QuizResult{
		{Percentage: 80, TimeSpent: 120, CorrectAnswers: 8, TotalQuestions: 10, PointsEarned: 80},
		{Percentage: 60, TimeSpent: 200, CorrectAnswers: 6, TotalQuestions: 10, PointsEarned: 60},
		{Percentage: 100, TimeSpent: 90, CorrectAnswers: 10, TotalQuestions: 10, PointsEarned: 100},
	}

	stats := ComputeStats(results, 4)

	assert.Equal(t, 4, stats.TotalQuizzes)
	assert.Equal(t, 3, stats.CompletedQuizzes)
	assert.Equal(t, float64(80), stats.AverageScore)
	assert.Equal(t, float64(100), stats.BestScore)
	assert.Equal(t, 410, stats.TotalTimeSpent)
	assert.Equal(t, 24, stats.TotalCorrectAnswers)
	assert.Equal(t, 30, stats.TotalQuestions)
	assert.Equal(t, 240, stats.TotalScore)
	assert.Equal(t, 8, stats.Badges)
	assert.Equal(t, 75, stats.CompletionRate)
}

func TestComputeStatsCompletionRateRounds(t *testing.T) {
	results := []model.QuizResult{{Percentage: 50, TotalQuestions: 10}}
	stats := ComputeStats(results, 3)
	// 1/3 -> 33%
	assert.Equal(t, 33, stats.CompletionRate)
}

func TestComputeStatsNoAvailableQuizzes(t *testing.T) {
	results := []model.QuizResult{{Percentage: 90, TotalQuestions: 10}}
	stats := ComputeStats(results, 0)
	assert.Equal(t, 0, stats.CompletionRate)
}

func TestSyncSummary(t *testing.T) {
	assert.Equal(t, "3/5 utilisateurs synchronisés", SyncSummary(3, 5))
}
