package service

import (
	"math"

	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/repository"
	"quiz_expleo_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo  *repository.UserRepository
	StatsRepo *repository.UserStatsRepository
	QuizRepo  *repository.QuizRepository
}

func NewUserService(userRepo *repository.UserRepository, statsRepo *repository.UserStatsRepository, quizRepo *repository.QuizRepository) *UserService {
	return &UserService{
		UserRepo:  userRepo,
		StatsRepo: statsRepo,
		QuizRepo:  quizRepo,
	}
}

// UserProfile 管理端用户视图，统计来自 user_stats 缓存行
type UserProfile struct {
	ID               uint   `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Avatar           string `json:"avatar"`
	CBU              string `json:"cbu"`
	TotalPoints      int    `json:"totalPoints"`
	JoinedAt         string `json:"joinedAt"`
	TotalQuizzes     int    `json:"totalQuizzes"`
	CompletedQuizzes int    `json:"completedQuizzes"`
	AverageScore     int    `json:"averageScore"`
	Badges           int    `json:"badges"`
	Status           string `json:"status"`
	LastActivity     string `json:"lastActivity"`
}

func (s *UserService) buildProfile(user *model.User) *UserProfile {
	profile := &UserProfile{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Avatar:       user.Avatar,
		CBU:          user.CBU,
		JoinedAt:     user.CreatedAt.Format(util.TimeFormat),
		Status:       "active",
		LastActivity: user.UpdatedAt.Format(util.TimeFormat),
	}
	if profile.CBU == "" {
		profile.CBU = "Non défini"
	}

	if quizzes, err := s.QuizRepo.FindActiveForCBU(user.CBU); err == nil {
		profile.TotalQuizzes = len(quizzes)
	}

	stats, err := s.StatsRepo.FindByUserID(user.ID)
	if err != nil {
		return profile
	}

	profile.TotalPoints = stats.TotalScore
	profile.CompletedQuizzes = stats.QuizCompleted
	if stats.TotalQuestions > 0 {
		profile.AverageScore = int(math.Round(float64(stats.CorrectAnswers) / float64(stats.TotalQuestions) * 100))
	}
	profile.Badges = stats.QuizCompleted / 2
	return profile
}

func (s *UserService) GetUser(id uint) (*UserProfile, error) {
	user, err := s.UserRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return s.buildProfile(user), nil
}

// ListCollaborators 返回所有协作者及其缓存统计
func (s *UserService) ListCollaborators() ([]*UserProfile, error) {
	users, err := s.UserRepo.FindByRole(model.Collaborator)
	if err != nil {
		return nil, err
	}

	profiles := make([]*UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, s.buildProfile(&users[i]))
	}
	return profiles, nil
}

// CreateUser 管理员创建账号
func (s *UserService) CreateUser(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	if user.Role == "" {
		user.Role = model.Collaborator
	}

	if err := s.UserRepo.Create(user); err != nil {
		return err
	}
	return s.StatsRepo.Upsert(&model.UserStats{UserID: user.ID})
}

// UpdateUser 部分更新用户信息，修改邮箱时校验唯一性
func (s *UserService) UpdateUser(id uint, fields map[string]interface{}) (*UserProfile, error) {
	user, err := s.UserRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	if email, ok := fields["email"].(string); ok && email != user.Email {
		if _, err := s.UserRepo.FindByEmail(email); err == nil {
			return nil, util.ErrEmailRegistered
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	if password, ok := fields["password"].(string); ok && password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		fields["password"] = string(hashed)
	}

	if err := s.UserRepo.UpdateFields(id, fields); err != nil {
		return nil, err
	}

	updated, err := s.UserRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(updated), nil
}

// DeleteUser 删除用户并级联清理统计缓存，成绩保留为历史数据
func (s *UserService) DeleteUser(id uint) error {
	if _, err := s.UserRepo.FindByID(id); err == gorm.ErrRecordNotFound {
		return util.ErrUserNotFound
	} else if err != nil {
		return err
	}
	return s.UserRepo.Delete(id)
}

// UpdateAvatar 更新头像地址并返回旧地址，供调用方清理旧文件
func (s *UserService) UpdateAvatar(id uint, avatarURL string) (string, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return "", err
	}
	if err := s.UserRepo.UpdateFields(id, map[string]interface{}{"avatar": avatarURL}); err != nil {
		return "", err
	}
	return user.Avatar, nil
}
