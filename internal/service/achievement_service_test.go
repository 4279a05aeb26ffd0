package service

import (
	"testing"

	"quiz_expleo_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultsWithPercentages(percentages ...float64) []model.QuizResult {
	results := make([]model.QuizResult, len(percentages))
	for i, p := range percentages {
		results[i] = model.QuizResult{Percentage: p}
	}
	return results
}

func TestEvaluateAchievementsEmpty(t *testing.T) {
	achievements := EvaluateAchievements(nil)
	require.Len(t, achievements, 4)

	for _, a := range achievements {
		assert.False(t, a.Earned)
		assert.NotEmpty(t, a.Progress)
		assert.Empty(t, a.Date)
	}
	assert.Equal(t, "0/1", achievements[0].Progress)
	assert.Equal(t, "0/1", achievements[1].Progress)
	assert.Equal(t, "0/10", achievements[2].Progress)
	assert.Equal(t, "0/85%", achievements[3].Progress)
}

func TestEvaluateAchievementsFirstQuiz(t *testing.T) {
	achievements := EvaluateAchievements(resultsWithPercentages(40))
	assert.True(t, achievements[0].Earned)
	assert.Equal(t, "Obtenu", achievements[0].Date)
	assert.Empty(t, achievements[0].Progress)
}

func TestEvaluateAchievementsPerfectScore(t *testing.T) {
	achievements := EvaluateAchievements(resultsWithPercentages(100, 50))
	assert.True(t, achievements[1].Earned)

	// 99.9 不算满分
	achievements = EvaluateAchievements(resultsWithPercentages(99.9))
	assert.False(t, achievements[1].Earned)
	assert.Equal(t, "0/1", achievements[1].Progress)
}

func TestEvaluateAchievementsDiligentBoundary(t *testing.T) {
	// 恰好 10 个测验且无满分：获得 Apprenant Assidu，Score Parfait 仍在进度中
	percentages := make([]float64, 10)
	for i := range percentages {
		percentages[i] = 75
	}
	achievements := EvaluateAchievements(resultsWithPercentages(percentages...))

	assert.True(t, achievements[2].Earned)
	assert.False(t, achievements[1].Earned)
	assert.Equal(t, "0/1", achievements[1].Progress)

	// 9 个还差一个
	achievements = EvaluateAchievements(resultsWithPercentages(percentages[:9]...))
	assert.False(t, achievements[2].Earned)
	assert.Equal(t, "9/10", achievements[2].Progress)
}

func TestEvaluateAchievementsExpert(t *testing.T) {
	achievements := EvaluateAchievements(resultsWithPercentages(90, 80))
	assert.True(t, achievements[3].Earned)

	achievements = EvaluateAchievements(resultsWithPercentages(80, 80))
	assert.False(t, achievements[3].Earned)
	assert.Equal(t, "80/85%", achievements[3].Progress)
}
