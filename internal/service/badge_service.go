package service

import (
	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/internal/repository"
	"quiz_expleo_backend/internal/util"

	"gorm.io/gorm"
)

type BadgeService struct {
	BadgeRepo *repository.BadgeRepository
	UserRepo  *repository.UserRepository
}

func NewBadgeService(badgeRepo *repository.BadgeRepository, userRepo *repository.UserRepository) *BadgeService {
	return &BadgeService{
		BadgeRepo: badgeRepo,
		UserRepo:  userRepo,
	}
}

func (s *BadgeService) CreateBadge(badge *model.Badge) error {
	if badge.Type == "" {
		badge.Type = model.BadgeAchievement
	}
	return s.BadgeRepo.Create(badge)
}

func (s *BadgeService) ListBadges(onlyActive bool) ([]model.Badge, error) {
	return s.BadgeRepo.FindAll(onlyActive)
}

func (s *BadgeService) UpdateBadge(id uint, updated *model.Badge) (*model.Badge, error) {
	badge, err := s.BadgeRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrBadgeNotFound
	} else if err != nil {
		return nil, err
	}

	badge.Name = updated.Name
	badge.Description = updated.Description
	badge.Icon = updated.Icon
	badge.Color = updated.Color
	badge.Criteria = updated.Criteria
	if updated.Type != "" {
		badge.Type = updated.Type
	}

	if err := s.BadgeRepo.Update(badge); err != nil {
		return nil, err
	}
	return badge, nil
}

func (s *BadgeService) DeleteBadge(id uint) error {
	if _, err := s.BadgeRepo.FindByID(id); err == gorm.ErrRecordNotFound {
		return util.ErrBadgeNotFound
	} else if err != nil {
		return err
	}
	return s.BadgeRepo.Delete(id)
}

func (s *BadgeService) SetActivation(id uint, isActive bool) (*model.Badge, error) {
	badge, err := s.BadgeRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrBadgeNotFound
	} else if err != nil {
		return nil, err
	}

	badge.IsActive = isActive
	if err := s.BadgeRepo.Update(badge); err != nil {
		return nil, err
	}
	return badge, nil
}

// AwardBadge 给用户颁发徽章：重复颁发被拒绝，成功后原子递增 earned_by 计数
func (s *BadgeService) AwardBadge(userID, badgeID uint) error {
	if _, err := s.UserRepo.FindByID(userID); err == gorm.ErrRecordNotFound {
		return util.ErrUserNotFound
	} else if err != nil {
		return err
	}
	if _, err := s.BadgeRepo.FindByID(badgeID); err == gorm.ErrRecordNotFound {
		return util.ErrBadgeNotFound
	} else if err != nil {
		return err
	}

	owned, err := s.BadgeRepo.HasUserBadge(userID, badgeID)
	if err != nil {
		return err
	}
	if owned {
		return util.ErrBadgeAlreadyOwned
	}

	if err := s.BadgeRepo.CreateUserBadge(&model.UserBadge{UserID: userID, BadgeID: badgeID}); err != nil {
		return err
	}
	return s.BadgeRepo.IncrementEarnedBy(badgeID)
}

func (s *BadgeService) GetUserBadges(userID uint) ([]model.UserBadge, error) {
	if _, err := s.UserRepo.FindByID(userID); err == gorm.ErrRecordNotFound {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return s.BadgeRepo.FindUserBadges(userID)
}
