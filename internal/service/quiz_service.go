package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/repository"
	"quiz_expleo_backend/internal/util"
	"quiz_expleo_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo     QuizStore
	QuestionRepo QuestionStore
	ResultRepo   QuizResultStore
	Leaderboard  *LeaderboardService
}

func NewQuizService(
	quizRepo QuizStore,
	questionRepo QuestionStore,
	resultRepo QuizResultStore,
	leaderboard *LeaderboardService,
) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		ResultRepo:   resultRepo,
		Leaderboard:  leaderboard,
	}
}

func (s *QuizService) CreateQuiz(quiz *model.Quiz) error {
	if quiz.Status == "" {
		quiz.Status = model.QuizDraft
	}
	return s.QuizRepo.Create(quiz)
}

func (s *QuizService) GetQuiz(id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotFound
	}
	return quiz, err
}

// ListQuizzes 管理员可见全部测验，其他访问者只看到已激活且对其部门开放的
func (s *QuizService) ListQuizzes(filter repository.QuizFilter, claims *util.Claims) ([]model.Quiz, int64, error) {
	if claims == nil || claims.Role != model.Admin {
		filter.Status = string(model.QuizActive)
		if claims != nil {
			filter.CBU = claims.CBU
		}
	}
	return s.QuizRepo.List(filter)
}

// UpdateQuiz 更新测验，questions 为 nil 时保留原有题目
func (s *QuizService) UpdateQuiz(id uint, updated *model.Quiz, questions []model.Question) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}

	quiz.Title = updated.Title
	quiz.Description = updated.Description
	quiz.Theme = updated.Theme
	if updated.Status != "" {
		quiz.Status = updated.Status
	}
	quiz.CBUs = updated.CBUs
	quiz.IsReplayable = updated.IsReplayable
	quiz.Difficulty = updated.Difficulty
	quiz.Duration = updated.Duration
	quiz.ImageURL = updated.ImageURL
	quiz.Questions = nil

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}

	if questions != nil {
		if err := s.QuestionRepo.ReplaceForQuiz(id, questions); err != nil {
			return nil, err
		}
	}

	return s.QuizRepo.FindByID(id)
}

func (s *QuizService) DeleteQuiz(id uint) error {
	if _, err := s.QuizRepo.FindByID(id); err == gorm.ErrRecordNotFound {
		return util.ErrQuizNotFound
	} else if err != nil {
		return err
	}
	return s.QuizRepo.Delete(id)
}

// DuplicateQuiz 复制测验及其全部题目，副本回到草稿状态
func (s *QuizService) DuplicateQuiz(id uint) (*model.Quiz, error) {
	original, err := s.QuizRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}

	copied := *original
	copied.BaseModel = model.BaseModel{}
	copied.Status = model.QuizDraft
	copied.Participants = 0
	copied.AverageScore = 0
	copied.Questions = nil

	if err := s.QuizRepo.Create(&copied); err != nil {
		return nil, err
	}

	questions, err := s.QuestionRepo.FindByQuizID(original.ID)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].BaseModel = model.BaseModel{}
		questions[i].QuizID = copied.ID
		if err := s.QuestionRepo.Create(&questions[i]); err != nil {
			return nil, err
		}
	}

	return s.QuizRepo.FindByID(copied.ID)
}

// UpdateQuestion 更新单个题目，题目所属测验不变
func (s *QuizService) UpdateQuestion(id uint, updated *model.Question) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuestionNotFound
	} else if err != nil {
		return nil, err
	}

	question.Type = updated.Type
	question.Text = updated.Text
	question.Options = updated.Options
	question.CorrectAnswer = updated.CorrectAnswer
	question.Points = updated.Points
	question.Explanation = updated.Explanation

	if err := s.QuestionRepo.Update(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuizService) DeleteQuestion(id uint) error {
	if _, err := s.QuestionRepo.FindByID(id); err == gorm.ErrRecordNotFound {
		return util.ErrQuestionNotFound
	} else if err != nil {
		return err
	}
	return s.QuestionRepo.Delete(id)
}

type CompletionStatus struct {
	Completed    bool       `json:"completed"`
	IsReplayable bool       `json:"isReplayable"`
	LastAttempt  *time.Time `json:"lastAttempt,omitempty"`
	Score        *int       `json:"score,omitempty"`
}

func (s *QuizService) GetCompletionStatus(userID, quizID uint) (*CompletionStatus, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}

	status := &CompletionStatus{IsReplayable: quiz.IsReplayable}

	result, err := s.ResultRepo.FindByUserAndQuiz(userID, quizID)
	if err == gorm.ErrRecordNotFound {
		return status, nil
	} else if err != nil {
		return nil, err
	}

	status.Completed = true
	status.LastAttempt = &result.CompletedAt
	status.Score = &result.Score
	return status, nil
}

type SubmitRequest struct {
	Score          int             `json:"score"`
	TotalQuestions int             `json:"totalQuestions" binding:"required"`
	CorrectAnswers int             `json:"correctAnswers"`
	TimeSpent      int             `json:"timeSpent"`
	Percentage     *float64        `json:"percentage"`
	PointsEarned   *int            `json:"pointsEarned"`
	Answers        json.RawMessage `json:"answers"`
}

// DerivePercentage 未提供百分比时按正确数/总题数推导，四舍五入为整数百分比
func DerivePercentage(correctAnswers, totalQuestions int, provided *float64) float64 {
	if provided != nil {
		return *provided
	}
	if totalQuestions <= 0 {
		return 0
	}
	return math.Round(float64(correctAnswers) / float64(totalQuestions) * 100)
}

// SubmitResult 提交测验成绩。不可重玩的测验重复提交会被拒绝，已存储的
// 成绩保持不变；可重玩的测验通过唯一索引上的原子 upsert 原地覆盖。
func (s *QuizService) SubmitResult(ctx context.Context, userID, quizID uint, req *SubmitRequest) (*model.QuizResult, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotFound
	} else if err != nil {
		return nil, err
	}

	if !quiz.IsReplayable {
		if _, err := s.ResultRepo.FindByUserAndQuiz(userID, quizID); err == nil {
			return nil, util.ErrQuizNotReplayable
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	pointsEarned := req.Score
	if req.PointsEarned != nil {
		pointsEarned = *req.PointsEarned
	}

	result := &model.QuizResult{
		UserID:         userID,
		QuizID:         quizID,
		QuizTitle:      quiz.Title,
		Theme:          quiz.Theme,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		CorrectAnswers: req.CorrectAnswers,
		Percentage:     DerivePercentage(req.CorrectAnswers, req.TotalQuestions, req.Percentage),
		TimeSpent:      req.TimeSpent,
		PointsEarned:   pointsEarned,
		Attempts:       1,
		Answers:        req.Answers,
		CompletedAt:    time.Now(),
	}

	if err := s.ResultRepo.Upsert(result); err != nil {
		return nil, err
	}

	if err := s.QuizRepo.UpdateAggregates(quizID); err != nil {
		return nil, err
	}

	monitoring.QuizSubmissions.WithLabelValues(quiz.Theme).Inc()
	s.Leaderboard.InvalidateCache(ctx)

	stored, err := s.ResultRepo.FindByUserAndQuiz(userID, quizID)
	if err != nil {
		return result, nil
	}
	return stored, nil
}
