package service

import (
	"testing"
	"time"

	"quiz_expleo_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeScoreEvolution(t *testing.T) {
	currentWeek := resultsWithPercentages(80, 90)  // 平均 85
	previousWeek := resultsWithPercentages(70, 80) // 平均 75

	assert.Equal(t, 10, ComputeScoreEvolution(currentWeek, previousWeek))
}

func TestComputeScoreEvolutionEmptyCurrentWeek(t *testing.T) {
	previousWeek := resultsWithPercentages(95)
	assert.Equal(t, 0, ComputeScoreEvolution(nil, previousWeek))
}

func TestComputeScoreEvolutionEmptyPreviousWeek(t *testing.T) {
	// 上周没有成绩就没有比较基准
	currentWeek := resultsWithPercentages(60)
	assert.Equal(t, 0, ComputeScoreEvolution(currentWeek, nil))
}

func TestComputeScoreEvolutionNegative(t *testing.T) {
	currentWeek := resultsWithPercentages(50)
	previousWeek := resultsWithPercentages(90)
	assert.Equal(t, -40, ComputeScoreEvolution(currentWeek, previousWeek))
}

func TestActivityTier(t *testing.T) {
	cases := []struct {
		percentage float64
		wantType   string
		wantTitle  string
	}{
		{95, "success", "🌟 Score Excellent"},
		{90, "success", "🌟 Score Excellent"},
		{85, "success", "🏆 Très Bonne Performance"},
		{80, "success", "🏆 Très Bonne Performance"},
		{70, "info", "👍 Bonne Tentative"},
		{60, "info", "👍 Bonne Tentative"},
		{40, "warning", "💪 Quiz Terminé"},
	}
	for _, c := range cases {
		activityType, title := ActivityTier(c.percentage)
		assert.Equal(t, c.wantType, activityType, "percentage %v", c.percentage)
		assert.Equal(t, c.wantTitle, title, "percentage %v", c.percentage)
	}
}

func TestBuildRecentActivities(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	results := []model.QuizResult{
		{QuizTitle: "Sécurité niveau 1", Percentage: 92, CompletedAt: now.Add(-30 * time.Minute)},
		{QuizTitle: "", Percentage: 55, CompletedAt: now.Add(-48 * time.Hour)},
	}

	activities := BuildRecentActivities(results, now)
	require.Len(t, activities, 2)

	assert.Equal(t, "success", activities[0].Type)
	assert.Equal(t, "Sécurité niveau 1 - Score: 92%", activities[0].Description)
	assert.Equal(t, "Il y a 30min", activities[0].Time)

	// 测验标题缺失时使用占位名
	assert.Equal(t, "Quiz - Score: 55%", activities[1].Description)
	assert.Equal(t, "warning", activities[1].Type)
	assert.Equal(t, "Il y a 2j", activities[1].Time)
}

func quizWithTheme(id uint, theme string) model.Quiz {
	q := model.Quiz{Theme: theme}
	q.ID = id
	return q
}

func TestBuildLearningPathStatuses(t *testing.T) {
	quizzes := []model.Quiz{
		quizWithTheme(1, "technique"),
		quizWithTheme(2, "technique"),
		quizWithTheme(3, "securite"),
		quizWithTheme(4, "culture"),
	}
	completed := map[uint]bool{1: true, 2: true, 3: true}

	path := BuildLearningPath(quizzes, completed)
	require.Len(t, path, 3)

	assert.Equal(t, 1, path[0].Step)
	assert.Equal(t, "Technique", path[0].Title)
	assert.Equal(t, "completed", path[0].Status)
	assert.Equal(t, "Terminé", path[0].StatusText)

	assert.Equal(t, "Sécurité", path[1].Title)
	assert.Equal(t, "completed", path[1].Status)

	// 未开始且非第一步的主题保持锁定
	assert.Equal(t, "Culture Générale", path[2].Title)
	assert.Equal(t, "locked", path[2].Status)
	assert.Equal(t, "Verrouillé", path[2].StatusText)
}

func TestBuildLearningPathFirstStepAlwaysCurrent(t *testing.T) {
	quizzes := []model.Quiz{quizWithTheme(1, "management"), quizWithTheme(2, "management")}

	path := BuildLearningPath(quizzes, map[uint]bool{})
	require.Len(t, path, 1)
	assert.Equal(t, "current", path[0].Status)
	assert.Equal(t, "0/2 terminés", path[0].StatusText)
}

func TestBuildLearningPathCappedAtFour(t *testing.T) {
	quizzes := []model.Quiz{
		quizWithTheme(1, "technique"),
		quizWithTheme(2, "securite"),
		quizWithTheme(3, "culture"),
		quizWithTheme(4, "management"),
		quizWithTheme(5, "communication"),
	}

	path := BuildLearningPath(quizzes, map[uint]bool{})
	assert.Len(t, path, 4)
}

func TestBuildLearningPathEmpty(t *testing.T) {
	assert.Empty(t, BuildLearningPath(nil, nil))
}

func TestMapDifficulty(t *testing.T) {
	assert.Equal(t, "beginner", MapDifficulty("Facile"))
	assert.Equal(t, "intermediate", MapDifficulty("moyen"))
	assert.Equal(t, "expert", MapDifficulty("difficile"))
	assert.Equal(t, "intermediate", MapDifficulty(""))
	assert.Equal(t, "intermediate", MapDifficulty("autre"))
}

func TestThemeDisplayName(t *testing.T) {
	assert.Equal(t, "Culture Générale", ThemeDisplayName("culture"))
	assert.Equal(t, "Technique", ThemeDisplayName("technique"))
	// 未知主题首字母大写
	assert.Equal(t, "Finance", ThemeDisplayName("finance"))
	assert.Equal(t, "", ThemeDisplayName(""))
}
