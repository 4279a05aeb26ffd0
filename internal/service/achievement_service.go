package service

import (
	"fmt"
	"math"

	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/repository"
)

type AchievementService struct {
	ResultRepo *repository.QuizResultRepository
}

func NewAchievementService(resultRepo *repository.QuizResultRepository) *AchievementService {
	return &AchievementService{ResultRepo: resultRepo}
}

// EvaluateAchievements 根据用户全部成绩计算固定的四个成就。
// 未达成的成就带有 progress 进度文案。
func EvaluateAchievements(results []model.QuizResult) []model.Achievement {
	totalQuizzes := len(results)
	perfectScores := 0
	var sum float64
	for _, r := range results {
		sum += r.Percentage
		if r.Percentage == 100 {
			perfectScores++
		}
	}
	averageScore := float64(0)
	if totalQuizzes > 0 {
		averageScore = sum / float64(totalQuizzes)
	}

	achievements := []model.Achievement{
		{
			Icon:        "🏆",
			Title:       "Premier Quiz",
			Description: "Terminer votre premier quiz",
			Earned:      totalQuizzes >= 1,
		},
		{
			Icon:        "🌟",
			Title:       "Score Parfait",
			Description: "Obtenir 100% à un quiz",
			Earned:      perfectScores >= 1,
		},
		{
			Icon:        "📚",
			Title:       "Apprenant Assidu",
			Description: "Terminer 10 quiz",
			Earned:      totalQuizzes >= 10,
		},
		{
			Icon:        "⚡",
			Title:       "Expert",
			Description: "Moyenne supérieure à 85%",
			Earned:      averageScore >= 85,
		},
	}

	progress := []string{
		"0/1",
		fmt.Sprintf("%d/1", perfectScores),
		fmt.Sprintf("%d/10", totalQuizzes),
		fmt.Sprintf("%d/85%%", int(math.Round(averageScore))),
	}
	for i := range achievements {
		if achievements[i].Earned {
			achievements[i].Date = "Obtenu"
		} else {
			achievements[i].Progress = progress[i]
		}
	}
	return achievements
}

func (s *AchievementService) GetUserAchievements(userID uint) ([]model.Achievement, error) {
	results, err := s.ResultRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	return EvaluateAchievements(results), nil
}
