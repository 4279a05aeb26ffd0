package repository

import (
	"quiz_expleo_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserStatsRepository struct {
	DB *gorm.DB
}

func NewUserStatsRepository(db *gorm.DB) *UserStatsRepository {
	return &UserStatsRepository{DB: db}
}

// Upsert 以 user_id 为键写入统计缓存
func (r *UserStatsRepository) Upsert(stats *model.UserStats) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"quiz_completed", "total_score", "total_questions",
			"correct_answers", "total_time_spent", "average_score", "updated_at",
		}),
	}).Create(stats).Error
}

func (r *UserStatsRepository) FindByUserID(userID uint) (*model.UserStats, error) {
	var stats model.UserStats
	err := r.DB.Where("user_id = ?", userID).First(&stats).Error
	return &stats, err
}
