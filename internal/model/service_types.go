package model

import "time"

// UserPerformance 按用户聚合的成绩汇总行（关联用户信息用于展示与部门过滤）
type UserPerformance struct {
	UserID           uint      `json:"userId"`
	TotalScore       int       `json:"totalScore"`
	AverageScore     float64   `json:"averageScore"`
	CompletedQuizzes int       `json:"completedQuizzes"`
	BestScore        float64   `json:"bestScore"`
	TotalTimeSpent   int       `json:"totalTimeSpent"`
	LastActivity     time.Time `json:"lastActivity"`
	Username         string    `json:"username"`
	CBU              string    `json:"cbu"`
	Avatar           string    `json:"avatar"`
	HasUser          bool      `json:"hasUser"`
}

// LeaderboardEntry 排行榜条目，Rank 为稠密名次（并列同分同名次）
type LeaderboardEntry struct {
	Rank             int       `json:"rank"`
	UserID           uint      `json:"userId"`
	Name             string    `json:"name"`
	CBU              string    `json:"cbu"`
	Avatar           string    `json:"avatar"`
	AverageScore     float64   `json:"averageScore"`
	TotalScore       int       `json:"totalScore"`
	CompletedQuizzes int       `json:"completedQuizzes"`
	BestScore        float64   `json:"bestScore"`
	TotalTimeSpent   int       `json:"totalTimeSpent"`
	LastActivity     time.Time `json:"lastActivity"`
	Current          bool      `json:"current,omitempty"`
}

// ThemeStat 按主题聚合的用户成绩
type ThemeStat struct {
	Theme        string  `json:"theme"`
	AverageScore float64 `json:"averageScore"`
	QuizCount    int     `json:"quizCount"`
}

// Achievement 仪表盘成就视图
type Achievement struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
	Date        string `json:"date,omitempty"`
	Progress    string `json:"progress,omitempty"`
}

// RecentActivity 最近答题记录视图
type RecentActivity struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Time        string `json:"time"`
}

// LearningStep 学习路径步骤，按主题分组
type LearningStep struct {
	Step       int    `json:"step"`
	Title      string `json:"title"`
	Description string `json:"description"`
	Status     string `json:"status"`
	StatusText string `json:"statusText"`
}

// DashboardStats 仪表盘顶部统计
type DashboardStats struct {
	QuizCompleted int    `json:"quizCompleted"`
	AverageScore  int    `json:"averageScore"`
	TotalTime     string `json:"totalTime"`
	Ranking       int    `json:"ranking"`
}

// RecommendedQuiz 推荐测验视图
type RecommendedQuiz struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  string `json:"difficulty"`
	Duration    int    `json:"duration"`
	Questions   int    `json:"questions"`
	Status      string `json:"status"`
}

// QuickAction 仪表盘快捷入口
type QuickAction struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Route       string `json:"route"`
}

// DashboardData 仪表盘聚合响应，各子项独立计算，失败时退回默认值
type DashboardData struct {
	Stats              DashboardStats     `json:"stats"`
	RecentActivities   []RecentActivity   `json:"recentActivities"`
	RecommendedQuizzes []RecommendedQuiz  `json:"recommendedQuizzes"`
	LearningPath       []LearningStep     `json:"learningPath"`
	TopPerformers      []LeaderboardEntry `json:"topPerformers"`
	Achievements       []Achievement      `json:"achievements"`
	QuickActions       []QuickAction      `json:"quickActions"`
	QuizzesThisWeek    int                `json:"quizzesThisWeek"`
	ScoreEvolution     int                `json:"scoreEvolution"`
	RankingTrend       int                `json:"rankingTrend"`
	TimeSpentThisWeek  int                `json:"timeSpentThisWeek"`
}

// PlatformStats 全平台汇总统计
type PlatformStats struct {
	TotalQuizzes           int     `json:"totalQuizzes"`
	TotalUsers             int     `json:"totalUsers"`
	AverageScore           float64 `json:"averageScore"`
	BestScore              float64 `json:"bestScore"`
	TotalPointsDistributed int     `json:"totalPointsDistributed"`
	TotalTimeSpent         int     `json:"totalTimeSpent"`
}

// CalculatedStats 从成绩表实时计算的用户统计（stats 接口与同步任务共用）
type CalculatedStats struct {
	TotalQuizzes        int     `json:"totalQuizzes"`
	CompletedQuizzes    int     `json:"completedQuizzes"`
	AverageScore        float64 `json:"averageScore"`
	BestScore           float64 `json:"bestScore"`
	TotalTimeSpent      int     `json:"totalTimeSpent"`
	TotalCorrectAnswers int     `json:"totalCorrectAnswers"`
	TotalQuestions      int     `json:"totalQuestions"`
	TotalScore          int     `json:"totalScore"`
	Badges              int     `json:"badges"`
	CompletionRate      int     `json:"completionRate"`
}
