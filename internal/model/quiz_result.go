package model

import (
	"encoding/json"
	"time"
)

// QuizResult 存储用户的测验成绩，每个 (user, quiz) 组合只保留一条记录，
// 可重玩的测验在重新提交时原地覆盖。
type QuizResult struct {
	BaseModel
	UserID         uint            `gorm:"uniqueIndex:idx_user_quiz;not null" json:"userId"`
	QuizID         uint            `gorm:"uniqueIndex:idx_user_quiz;not null" json:"quizId"`
	QuizTitle      string          `gorm:"size:200" json:"quizTitle"`
	Theme          string          `gorm:"size:100" json:"theme"`
	Score          int             `gorm:"not null" json:"score"`
	TotalQuestions int             `gorm:"not null" json:"totalQuestions"`
	CorrectAnswers int             `gorm:"not null" json:"correctAnswers"`
	Percentage     float64         `gorm:"not null" json:"percentage"`
	TimeSpent      int             `gorm:"default:0" json:"timeSpent"` // 秒
	PointsEarned   int             `gorm:"default:0" json:"pointsEarned"`
	Attempts       int             `gorm:"default:1" json:"attempts"`
	Answers        json.RawMessage `gorm:"type:json" json:"answers,omitempty"`
	CompletedAt    time.Time       `gorm:"index" json:"completedAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
