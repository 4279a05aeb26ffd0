package repository

import (
	"quiz_expleo_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions").First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

// Delete 删除测验及其题目，历史成绩保留（成绩中冗余了测验标题）
func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, id).Error
	})
}

type QuizFilter struct {
	Status string
	Theme  string
	CBU    string
	Page   int
	Limit  int
}

func (r *QuizRepository) List(filter QuizFilter) ([]model.Quiz, int64, error) {
	query := r.DB.Model(&model.Quiz{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Theme != "" {
		query = query.Where("theme = ?", filter.Theme)
	}
	if filter.CBU != "" {
		// cbus 为空数组表示对所有部门开放
		query = query.Where("JSON_CONTAINS(cbus, JSON_QUOTE(?)) OR JSON_LENGTH(cbus) = 0 OR cbus IS NULL", filter.CBU)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var quizzes []model.Quiz
	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		query = query.Offset(offset).Limit(filter.Limit)
	}
	err := query.Find(&quizzes).Error
	return quizzes, total, err
}

// FindActiveForCBU 返回对指定部门开放的所有已激活测验
func (r *QuizRepository) FindActiveForCBU(cbu string) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.
		Where("status = ?", model.QuizActive).
		Where("JSON_CONTAINS(cbus, JSON_QUOTE(?)) OR JSON_LENGTH(cbus) = 0 OR cbus IS NULL", cbu).
		Find(&quizzes).Error
	return quizzes, err
}

// UpdateAggregates 在成绩提交后刷新测验的参与人数与平均分
func (r *QuizRepository) UpdateAggregates(quizID uint) error {
	sub := r.DB.Model(&model.QuizResult{}).Where("quiz_id = ?", quizID)

	var participants int64
	if err := sub.Session(&gorm.Session{}).Count(&participants).Error; err != nil {
		return err
	}

	var avg float64
	if err := sub.Session(&gorm.Session{}).Select("COALESCE(AVG(percentage), 0)").Scan(&avg).Error; err != nil {
		return err
	}

	return r.DB.Model(&model.Quiz{}).Where("id = ?", quizID).Updates(map[string]interface{}{
		"participants":  participants,
		"average_score": avg,
	}).Error
}
