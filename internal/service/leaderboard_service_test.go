package service

import (
	"testing"
	"time"

	"quiz_expleo_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perf(userID uint, avg float64, total int, completed int) model.UserPerformance {
	return model.UserPerformance{
		UserID:           userID,
		AverageScore:     avg,
		TotalScore:       total,
		CompletedQuizzes: completed,
		Username:         "user",
		HasUser:          true,
		LastActivity:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildLeaderboardOrdering(t *testing.T) {
	rows := []model.UserPerformance{
		perf(1, 70, 500, 3),
		perf(2, 90, 300, 2),
		perf(3, 90, 700, 5),
		perf(4, 80, 400, 4),
	}

	entries := BuildLeaderboard(rows, 0)
	require.Len(t, entries, 4)

	// 平均分优先，总分其次
	assert.Equal(t, uint(3), entries[0].UserID)
	assert.Equal(t, uint(2), entries[1].UserID)
	assert.Equal(t, uint(4), entries[2].UserID)
	assert.Equal(t, uint(1), entries[3].UserID)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 3, entries[2].Rank)
	assert.Equal(t, 4, entries[3].Rank)
}

func TestBuildLeaderboardConsecutiveRanksOnTies(t *testing.T) {
	rows := []model.UserPerformance{
		perf(5, 85, 200, 2),
		perf(2, 85, 200, 3),
		perf(9, 60, 100, 1),
	}

	entries := BuildLeaderboard(rows, 0)
	require.Len(t, entries, 3)

	// 同分用户按 ID 升序定先后，名次依然逐位递增不并列
	assert.Equal(t, uint(2), entries[0].UserID)
	assert.Equal(t, uint(5), entries[1].UserID)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
}

func TestBuildLeaderboardIdempotent(t *testing.T) {
	rows := []model.UserPerformance{
		perf(3, 77.5, 310, 2),
		perf(1, 92, 400, 4),
		perf(2, 77.5, 310, 2),
	}

	first := BuildLeaderboard(rows, 0)
	second := BuildLeaderboard(rows, 0)
	assert.Equal(t, first, second)
}

func TestBuildLeaderboardUnknownUserFallback(t *testing.T) {
	row := perf(7, 50, 100, 1)
	row.HasUser = false
	row.Username = ""

	entries := BuildLeaderboard([]model.UserPerformance{row}, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, "Utilisateur inconnu", entries[0].Name)
}

func TestBuildLeaderboardRounding(t *testing.T) {
	row := perf(1, 66.666666, 100, 3)
	row.BestScore = 83.333333

	entries := BuildLeaderboard([]model.UserPerformance{row}, 0)
	require.Len(t, entries, 1)
	assert.Equal(t, 66.67, entries[0].AverageScore)
	assert.Equal(t, 83.33, entries[0].BestScore)
}

func TestBuildLeaderboardCurrentUserFlag(t *testing.T) {
	rows := []model.UserPerformance{
		perf(1, 90, 100, 1),
		perf(2, 80, 100, 1),
	}

	entries := BuildLeaderboard(rows, 2)
	assert.False(t, entries[0].Current)
	assert.True(t, entries[1].Current)
}

func TestBuildLeaderboardEmpty(t *testing.T) {
	entries := BuildLeaderboard(nil, 0)
	assert.Empty(t, entries)
}

func TestFilterMinCompleted(t *testing.T) {
	rows := []model.UserPerformance{
		perf(1, 90, 100, 1),
		perf(2, 80, 200, 3),
		perf(3, 70, 300, 5),
	}

	filtered := FilterMinCompleted(rows, 3)
	require.Len(t, filtered, 2)
	assert.Equal(t, uint(2), filtered[0].UserID)
	assert.Equal(t, uint(3), filtered[1].UserID)

	// min <= 1 时不过滤
	all := FilterMinCompleted(rows, 1)
	assert.Len(t, all, 3)
}
