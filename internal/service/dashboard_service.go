package service

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/util"
	"quiz_expleo_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	recentActivitiesLimit = 6
	learningPathLimit     = 4
	recommendationsLimit  = 6
	topPerformersLimit    = 10
)

type DashboardService struct {
	QuizRepo     QuizStore
	QuestionRepo QuestionStore
	ResultRepo   QuizResultStore
}

func NewDashboardService(
	quizRepo QuizStore,
	questionRepo QuestionStore,
	resultRepo QuizResultStore,
) *DashboardService {
	return &DashboardService{
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		ResultRepo:   resultRepo,
	}
}

// GetDashboardData 组装完整仪表盘。每个子项独立计算，
// 单项失败只记录日志并回退到默认值，不影响其他子项。
func (s *DashboardService) GetDashboardData(userID uint, cbu string) *model.DashboardData {
	now := time.Now()

	data := &model.DashboardData{
		Stats:              model.DashboardStats{TotalTime: "0min"},
		RecentActivities:   []model.RecentActivity{},
		RecommendedQuizzes: []model.RecommendedQuiz{},
		LearningPath:       []model.LearningStep{},
		TopPerformers:      []model.LeaderboardEntry{},
		Achievements:       []model.Achievement{},
		QuickActions:       QuickActions(),
	}

	if stats, err := s.GetUserStats(userID, cbu); err != nil {
		logger.Log.Error("dashboard stats failed", zap.Uint("user_id", userID), zap.Error(err))
	} else {
		data.Stats = *stats
	}

	if activities, err := s.GetRecentActivities(userID, now); err != nil {
		logger.Log.Error("dashboard recent activities failed", zap.Uint("user_id", userID), zap.Error(err))
	} else {
		data.RecentActivities = activities
	}

	if recommended, err := s.GetRecommendations(userID, cbu); err != nil {
		logger.Log.Error("dashboard recommendations failed", zap.Uint("user_id", userID), zap.Error(err))
	} else {
		data.RecommendedQuizzes = recommended
	}

	if path, err := s.GetLearningPath(userID, cbu); err != nil {
		logger.Log.Error("dashboard learning path failed", zap.Uint("user_id", userID), zap.Error(err))
	} else {
		data.LearningPath = path
	}

	if performers, err := s.GetTopPerformers(userID, cbu); err != nil {
		logger.Log.Error("dashboard top performers failed", zap.Uint("user_id", userID), zap.Error(err))
	} else {
		data.TopPerformers = performers
	}

	if results, err := s.ResultRepo.FindByUser(userID); err != nil {
		logger.Log.Error("dashboard achievements failed", zap.Uint("user_id", userID), zap.Error(err))
	} else {
		data.Achievements = EvaluateAchievements(results)
	}

	if weekly, err := s.getWeeklyProgress(userID, now); err != nil {
		logger.Log.Error("dashboard weekly progress failed", zap.Uint("user_id", userID), zap.Error(err))
	} else {
		data.QuizzesThisWeek = weekly.QuizzesCompleted
		data.ScoreEvolution = weekly.ScoreImprovement
		data.TimeSpentThisWeek = weekly.TimeSpent
	}

	return data
}

// GetUserStats 用户生涯统计，名次为其所在部门内的名次
func (s *DashboardService) GetUserStats(userID uint, cbu string) (*model.DashboardStats, error) {
	results, err := s.ResultRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	stats := &model.DashboardStats{TotalTime: "0min", Ranking: 1}
	if len(results) == 0 {
		return stats, nil
	}

	var totalPercentage float64
	totalSeconds := 0
	for _, r := range results {
		totalPercentage += r.Percentage
		totalSeconds += r.TimeSpent
	}

	stats.QuizCompleted = len(results)
	stats.AverageScore = int(math.Round(totalPercentage / float64(len(results))))
	stats.TotalTime = util.FormatMinutes(totalSeconds / 60)
	stats.Ranking = s.rankInCBU(userID, cbu)
	return stats, nil
}

// rankInCBU 计算用户在部门内的名次，无法确定时返回 1
func (s *DashboardService) rankInCBU(userID uint, cbu string) int {
	if cbu == "" {
		return 1
	}
	rows, err := s.ResultRepo.AggregateByUser(cbu)
	if err != nil {
		logger.Log.Warn("cbu ranking failed", zap.String("cbu", cbu), zap.Error(err))
		return 1
	}
	entries := BuildLeaderboard(rows, userID)
	for _, e := range entries {
		if e.UserID == userID {
			return e.Rank
		}
	}
	return len(entries) + 1
}

// ActivityTier 按成绩百分比返回活动文案
func ActivityTier(percentage float64) (activityType, title string) {
	switch {
	case percentage >= 90:
		return "success", "🌟 Score Excellent"
	case percentage >= 80:
		return "success", "🏆 Très Bonne Performance"
	case percentage >= 60:
		return "info", "👍 Bonne Tentative"
	default:
		return "warning", "💪 Quiz Terminé"
	}
}

// BuildRecentActivities 将最近的成绩映射为活动列表
func BuildRecentActivities(results []model.QuizResult, now time.Time) []model.RecentActivity {
	activities := make([]model.RecentActivity, 0, len(results))
	for _, r := range results {
		activityType, title := ActivityTier(r.Percentage)
		quizTitle := r.QuizTitle
		if quizTitle == "" {
			quizTitle = "Quiz"
		}
		activities = append(activities, model.RecentActivity{
			Type:        activityType,
			Title:       title,
			Description: fmt.Sprintf("%s - Score: %g%%", quizTitle, r.Percentage),
			Time:        util.TimeAgo(r.CompletedAt, now),
		})
	}
	return activities
}

func (s *DashboardService) GetRecentActivities(userID uint, now time.Time) ([]model.RecentActivity, error) {
	results, err := s.ResultRepo.FindRecentByUser(userID, recentActivitiesLimit)
	if err != nil {
		return nil, err
	}
	return BuildRecentActivities(results, now), nil
}

// GetThemeStats 按主题聚合的强弱项分析
func (s *DashboardService) GetThemeStats(userID uint) ([]model.ThemeStat, error) {
	stats, err := s.ResultRepo.ThemeAverages(userID)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].AverageScore = math.Round(stats[i].AverageScore*100) / 100
		stats[i].Theme = ThemeDisplayName(stats[i].Theme)
	}
	return stats, nil
}

// BuildLearningPath 将部门可见的激活测验按主题分组为学习路径，最多四步。
// 主题内全部完成为 completed，部分完成或第一步为 current，其余为 locked。
func BuildLearningPath(quizzes []model.Quiz, completedQuizIDs map[uint]bool) []model.LearningStep {
	themeOrder := []string{}
	themeGroups := map[string][]model.Quiz{}
	for _, quiz := range quizzes {
		if _, seen := themeGroups[quiz.Theme]; !seen {
			themeOrder = append(themeOrder, quiz.Theme)
		}
		themeGroups[quiz.Theme] = append(themeGroups[quiz.Theme], quiz)
	}

	path := make([]model.LearningStep, 0, len(themeOrder))
	step := 1
	for _, theme := range themeOrder {
		group := themeGroups[theme]
		completed := 0
		for _, quiz := range group {
			if completedQuizIDs[quiz.ID] {
				completed++
			}
		}

		status, statusText := "locked", "Verrouillé"
		if completed == len(group) && len(group) > 0 {
			status, statusText = "completed", "Terminé"
		} else if completed > 0 || step == 1 {
			status = "current"
			statusText = fmt.Sprintf("%d/%d terminés", completed, len(group))
		}

		path = append(path, model.LearningStep{
			Step:        step,
			Title:       ThemeDisplayName(theme),
			Description: fmt.Sprintf("Maîtrisez les concepts de %s", strings.ToLower(theme)),
			Status:      status,
			StatusText:  statusText,
		})
		step++
	}

	if len(path) > learningPathLimit {
		path = path[:learningPathLimit]
	}
	return path
}

func (s *DashboardService) GetLearningPath(userID uint, cbu string) ([]model.LearningStep, error) {
	if cbu == "" {
		return []model.LearningStep{}, nil
	}

	quizzes, err := s.QuizRepo.FindActiveForCBU(cbu)
	if err != nil {
		return nil, err
	}

	completedIDs, err := s.ResultRepo.DistinctQuizIDsByUser(userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	return BuildLearningPath(quizzes, completed), nil
}

// GetTopPerformers 部门内前十名，排序与排行榜一致
func (s *DashboardService) GetTopPerformers(userID uint, cbu string) ([]model.LeaderboardEntry, error) {
	if cbu == "" {
		return []model.LeaderboardEntry{}, nil
	}
	rows, err := s.ResultRepo.AggregateByUser(cbu)
	if err != nil {
		return nil, err
	}
	entries := BuildLeaderboard(rows, userID)
	if len(entries) > topPerformersLimit {
		entries = entries[:topPerformersLimit]
	}
	return entries, nil
}

// GetRecommendations 推荐该部门尚未完成的激活测验
func (s *DashboardService) GetRecommendations(userID uint, cbu string) ([]model.RecommendedQuiz, error) {
	if cbu == "" {
		return []model.RecommendedQuiz{}, nil
	}

	quizzes, err := s.QuizRepo.FindActiveForCBU(cbu)
	if err != nil {
		return nil, err
	}

	completedIDs, err := s.ResultRepo.DistinctQuizIDsByUser(userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}

	recommended := make([]model.RecommendedQuiz, 0, recommendationsLimit)
	for _, quiz := range quizzes {
		if completed[quiz.ID] {
			continue
		}

		description := quiz.Description
		if description == "" {
			description = "Quiz interactif pour tester vos connaissances"
		}
		duration := quiz.Duration
		if duration == 0 {
			duration = 15
		}
		questionCount, err := s.QuestionRepo.CountByQuizID(quiz.ID)
		if err != nil {
			questionCount = 0
		}

		recommended = append(recommended, model.RecommendedQuiz{
			ID:          quiz.ID,
			Title:       quiz.Title,
			Description: description,
			Difficulty:  MapDifficulty(quiz.Difficulty),
			Duration:    duration,
			Questions:   int(questionCount),
			Status:      "Non commencé",
		})
		if len(recommended) == recommendationsLimit {
			break
		}
	}
	return recommended, nil
}

type weeklyProgress struct {
	QuizzesCompleted int
	TimeSpent        int
	ScoreImprovement int
}

// ComputeScoreEvolution 本周平均分与上周平均分的差值。
// 任一窗口没有成绩时没有可比较的基准，返回 0。
func ComputeScoreEvolution(currentWeek, previousWeek []model.QuizResult) int {
	if len(currentWeek) == 0 || len(previousWeek) == 0 {
		return 0
	}
	return roundAverage(currentWeek) - roundAverage(previousWeek)
}

func roundAverage(results []model.QuizResult) int {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Percentage
	}
	return int(math.Round(sum / float64(len(results))))
}

func (s *DashboardService) getWeeklyProgress(userID uint, now time.Time) (*weeklyProgress, error) {
	oneWeekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	currentWeek, err := s.ResultRepo.FindByUserInWindow(userID, oneWeekAgo, now)
	if err != nil {
		return nil, err
	}
	previousWeek, err := s.ResultRepo.FindByUserInWindow(userID, twoWeeksAgo, oneWeekAgo)
	if err != nil {
		return nil, err
	}

	progress := &weeklyProgress{
		QuizzesCompleted: len(currentWeek),
		ScoreImprovement: ComputeScoreEvolution(currentWeek, previousWeek),
	}
	for _, r := range currentWeek {
		progress.TimeSpent += r.TimeSpent
	}
	return progress, nil
}

// QuickActions 仪表盘固定快捷入口
func QuickActions() []model.QuickAction {
	return []model.QuickAction{
		{Icon: "brain", Title: "Nouveau Quiz", Description: "Commencer un nouveau quiz", Route: "/quizzes"},
		{Icon: "chart", Title: "Mes Statistiques", Description: "Voir mes performances", Route: "/stats"},
		{Icon: "user", Title: "Mon Profil", Description: "Gérer mon compte", Route: "/profile"},
		{Icon: "settings", Title: "Paramètres", Description: "Configurer l'application", Route: "/settings"},
	}
}

// MapDifficulty 将法语难度标签映射为前端使用的等级
func MapDifficulty(difficulty string) string {
	switch strings.ToLower(difficulty) {
	case "facile":
		return "beginner"
	case "moyen":
		return "intermediate"
	case "difficile":
		return "expert"
	default:
		return "intermediate"
	}
}

// ThemeDisplayName 主题展示名
func ThemeDisplayName(theme string) string {
	names := map[string]string{
		"technique":     "Technique",
		"culture":       "Culture Générale",
		"securite":      "Sécurité",
		"general":       "Général",
		"management":    "Management",
		"communication": "Communication",
	}
	if name, ok := names[theme]; ok {
		return name
	}
	if theme == "" {
		return theme
	}
	runes := []rune(theme)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
