package service

import (
	"time"

	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/repository"
)

// 测验相关服务依赖的存储接口，由 repository 包的具体类型满足

type QuizStore interface {
	Create(quiz *model.Quiz) error
	FindByID(id uint) (*model.Quiz, error)
	List(filter repository.QuizFilter) ([]model.Quiz, int64, error)
	Update(quiz *model.Quiz) error
	Delete(id uint) error
	FindActiveForCBU(cbu string) ([]model.Quiz, error)
	UpdateAggregates(quizID uint) error
}

type QuestionStore interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	Update(question *model.Question) error
	Delete(id uint) error
	FindByQuizID(quizID uint) ([]model.Question, error)
	ReplaceForQuiz(quizID uint, questions []model.Question) error
	CountByQuizID(quizID uint) (int64, error)
}

type QuizResultStore interface {
	Upsert(result *model.QuizResult) error
	FindByUserAndQuiz(userID, quizID uint) (*model.QuizResult, error)
	FindByUser(userID uint) ([]model.QuizResult, error)
	FindRecentByUser(userID uint, limit int) ([]model.QuizResult, error)
	FindByUserInWindow(userID uint, from, to time.Time) ([]model.QuizResult, error)
	DeleteByUser(userID uint) (int64, error)
	AggregateByUser(cbu string) ([]model.UserPerformance, error)
	DistinctQuizIDsByUser(userID uint) ([]uint, error)
	PlatformStats() (*model.PlatformStats, error)
	ThemeAverages(userID uint) ([]model.ThemeStat, error)
}
