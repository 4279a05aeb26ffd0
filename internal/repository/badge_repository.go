package repository

import (
	"quiz_expleo_backend/internal/model"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) Create(badge *model.Badge) error {
	return r.DB.Create(badge).Error
}

func (r *BadgeRepository) FindByID(id uint) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.First(&badge, id).Error
	return &badge, err
}

func (r *BadgeRepository) FindAll(onlyActive bool) ([]model.Badge, error) {
	query := r.DB.Model(&model.Badge{})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var badges []model.Badge
	err := query.Order("created_at ASC").Find(&badges).Error
	return badges, err
}

func (r *BadgeRepository) Update(badge *model.Badge) error {
	return r.DB.Save(badge).Error
}

func (r *BadgeRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("badge_id = ?", id).Delete(&model.UserBadge{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Badge{}, id).Error
	})
}

func (r *BadgeRepository) IncrementEarnedBy(id uint) error {
	return r.DB.Model(&model.Badge{}).
		Where("id = ?", id).
		Update("earned_by", gorm.Expr("earned_by + ?", 1)).
		Error
}

func (r *BadgeRepository) CreateUserBadge(userBadge *model.UserBadge) error {
	return r.DB.Create(userBadge).Error
}

func (r *BadgeRepository) FindUserBadges(userID uint) ([]model.UserBadge, error) {
	var userBadges []model.UserBadge
	err := r.DB.Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&userBadges).Error
	return userBadges, err
}

func (r *BadgeRepository) HasUserBadge(userID, badgeID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error
	return count > 0, err
}
