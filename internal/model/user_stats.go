package model

// UserStats 是按用户冗余存储的成绩汇总，仅作为可重算的缓存，
// 真实数据始终来自 quiz_results 表。
type UserStats struct {
	BaseModel
	UserID         uint    `gorm:"uniqueIndex;not null" json:"userId"`
	QuizCompleted  int     `gorm:"default:0" json:"quizCompleted"`
	TotalScore     int     `gorm:"default:0" json:"totalScore"`
	TotalQuestions int     `gorm:"default:0" json:"totalQuestions"`
	CorrectAnswers int     `gorm:"default:0" json:"correctAnswers"`
	TotalTimeSpent int     `gorm:"default:0" json:"totalTimeSpent"` // 秒
	AverageScore   float64 `gorm:"default:0" json:"averageScore"`
}

func (UserStats) TableName() string {
	return "user_stats"
}
