package service

import (
	"context"
	"testing"
	"time"

	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/repository"
	"quiz_expleo_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockQuizRepo 实现 QuizStore，供本包服务测试复用
type MockQuizRepo struct {
	mock.Mock
}

func (m *MockQuizRepo) Create(quiz *model.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepo) FindByID(id uint) (*model.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quiz), args.Error(1)
}

func (m *MockQuizRepo) List(filter repository.QuizFilter) ([]model.Quiz, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Quiz), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuizRepo) Update(quiz *model.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockQuizRepo) FindActiveForCBU(cbu string) ([]model.Quiz, error) {
	args := m.Called(cbu)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Quiz), args.Error(1)
}

func (m *MockQuizRepo) UpdateAggregates(quizID uint) error {
	args := m.Called(quizID)
	return args.Error(0)
}

// MockQuizResultRepo 实现 QuizResultStore
type MockQuizResultRepo struct {
	mock.Mock
}

func (m *MockQuizResultRepo) Upsert(result *model.QuizResult) error {
	args := m.Called(result)
	return args.Error(0)
}

func (m *MockQuizResultRepo) FindByUserAndQuiz(userID, quizID uint) (*model.QuizResult, error) {
	args := m.Called(userID, quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.QuizResult), args.Error(1)
}

func (m *MockQuizResultRepo) FindByUser(userID uint) ([]model.QuizResult, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.QuizResult), args.Error(1)
}

func (m *MockQuizResultRepo) FindRecentByUser(userID uint, limit int) ([]model.QuizResult, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.QuizResult), args.Error(1)
}

func (m *MockQuizResultRepo) FindByUserInWindow(userID uint, from, to time.Time) ([]model.QuizResult, error) {
	args := m.Called(userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.QuizResult), args.Error(1)
}

func (m *MockQuizResultRepo) DeleteByUser(userID uint) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuizResultRepo) AggregateByUser(cbu string) ([]model.UserPerformance, error) {
	args := m.Called(cbu)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserPerformance), args.Error(1)
}

func (m *MockQuizResultRepo) DistinctQuizIDsByUser(userID uint) ([]uint, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockQuizResultRepo) PlatformStats() (*model.PlatformStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PlatformStats), args.Error(1)
}

func (m *MockQuizResultRepo) ThemeAverages(userID uint) ([]model.ThemeStat, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ThemeStat), args.Error(1)
}

func newSubmitTestService(quizRepo *MockQuizRepo, resultRepo *MockQuizResultRepo) *QuizService {
	return NewQuizService(quizRepo, nil, resultRepo, NewLeaderboardService(resultRepo, nil))
}

func TestSubmitResultNonReplayableRejected(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	resultRepo := new(MockQuizResultRepo)
	svc := newSubmitTestService(quizRepo, resultRepo)

	quiz := &model.Quiz{Title: "Sécurité", IsReplayable: false}
	quiz.ID = 3
	quizRepo.On("FindByID", uint(3)).Return(quiz, nil)

	existing := &model.QuizResult{UserID: 7, QuizID: 3, Score: 8, Attempts: 1}
	resultRepo.On("FindByUserAndQuiz", uint(7), uint(3)).Return(existing, nil)

	result, err := svc.SubmitResult(context.Background(), 7, 3, &SubmitRequest{
		Score:          10,
		TotalQuestions: 10,
		CorrectAnswers: 10,
	})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, util.ErrQuizNotReplayable)

	// 拒绝时已存储的成绩保持不变
	resultRepo.AssertNotCalled(t, "Upsert", mock.Anything)
	quizRepo.AssertNotCalled(t, "UpdateAggregates", mock.Anything)
}

func TestSubmitResultFirstAttemptAccepted(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	resultRepo := new(MockQuizResultRepo)
	svc := newSubmitTestService(quizRepo, resultRepo)

	quiz := &model.Quiz{Title: "Sécurité", Theme: "securite", IsReplayable: false}
	quiz.ID = 3
	quizRepo.On("FindByID", uint(3)).Return(quiz, nil)

	// 首次提交：没有历史成绩
	resultRepo.On("FindByUserAndQuiz", uint(7), uint(3)).Return(nil, gorm.ErrRecordNotFound).Once()
	resultRepo.On("Upsert", mock.AnythingOfType("*model.QuizResult")).Return(nil)
	quizRepo.On("UpdateAggregates", uint(3)).Return(nil)

	stored := &model.QuizResult{UserID: 7, QuizID: 3, Score: 7, Percentage: 70, Attempts: 1}
	resultRepo.On("FindByUserAndQuiz", uint(7), uint(3)).Return(stored, nil).Once()

	result, err := svc.SubmitResult(context.Background(), 7, 3, &SubmitRequest{
		Score:          7,
		TotalQuestions: 10,
		CorrectAnswers: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, stored, result)
	resultRepo.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestSubmitResultReplayableOverwrites(t *testing.T) {
	quizRepo := new(MockQuizRepo)
	resultRepo := new(MockQuizResultRepo)
	svc := newSubmitTestService(quizRepo, resultRepo)

	quiz := &model.Quiz{Title: "Culture Générale", Theme: "culture", IsReplayable: true}
	quiz.ID = 5
	quizRepo.On("FindByID", uint(5)).Return(quiz, nil)
	resultRepo.On("Upsert", mock.AnythingOfType("*model.QuizResult")).Return(nil)
	quizRepo.On("UpdateAggregates", uint(5)).Return(nil)

	// upsert 后重读得到覆盖成绩，尝试数加一
	stored := &model.QuizResult{UserID: 7, QuizID: 5, Score: 9, Percentage: 90, Attempts: 2}
	resultRepo.On("FindByUserAndQuiz", uint(7), uint(5)).Return(stored, nil)

	result, err := svc.SubmitResult(context.Background(), 7, 5, &SubmitRequest{
		Score:          9,
		TotalQuestions: 10,
		CorrectAnswers: 9,
	})
	require.NoError(t, err)

	// 单行 upsert，不追加新行
	resultRepo.AssertNumberOfCalls(t, "Upsert", 1)
	assert.Equal(t, stored, result)
	assert.Equal(t, 2, result.Attempts)
}
