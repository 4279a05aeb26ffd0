package repository

import (
	"time"

	"quiz_expleo_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizResultRepository struct {
	DB *gorm.DB
}

func NewQuizResultRepository(db *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: db}
}

// Upsert 原子写入成绩：(user_id, quiz_id) 上有唯一索引，
// 冲突时原地覆盖本次成绩并将 attempts 加一。
func (r *QuizResultRepository) Upsert(result *model.QuizResult) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "quiz_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quiz_title":      result.QuizTitle,
			"theme":           result.Theme,
			"score":           result.Score,
			"total_questions": result.TotalQuestions,
			"correct_answers": result.CorrectAnswers,
			"percentage":      result.Percentage,
			"time_spent":      result.TimeSpent,
			"points_earned":   result.PointsEarned,
			"answers":         result.Answers,
			"completed_at":    result.CompletedAt,
			"attempts":        gorm.Expr("attempts + 1"),
			"updated_at":      time.Now(),
		}),
	}).Create(result).Error
}

func (r *QuizResultRepository) FindByUserAndQuiz(userID, quizID uint) (*model.QuizResult, error) {
	var result model.QuizResult
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&result).Error
	return &result, err
}

func (r *QuizResultRepository) FindByUser(userID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ?", userID).Order("completed_at DESC").Find(&results).Error
	return results, err
}

func (r *QuizResultRepository) FindRecentByUser(userID uint, limit int) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

// FindByUserInWindow 返回 [from, to) 时间窗内的成绩
func (r *QuizResultRepository) FindByUserInWindow(userID uint, from, to time.Time) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ? AND completed_at >= ? AND completed_at < ?", userID, from, to).
		Find(&results).Error
	return results, err
}

// DeleteByUser 删除用户的全部成绩，返回删除条数
func (r *QuizResultRepository) DeleteByUser(userID uint) (int64, error) {
	res := r.DB.Where("user_id = ?", userID).Delete(&model.QuizResult{})
	return res.RowsAffected, res.Error
}

// AggregateByUser 按用户聚合全部成绩并关联用户信息。
// cbu 非空时只保留该部门的用户；已删除用户的历史成绩在全局聚合中保留，
// HasUser 为 false。
func (r *QuizResultRepository) AggregateByUser(cbu string) ([]model.UserPerformance, error) {
	query := r.DB.Model(&model.QuizResult{}).
		Select(`quiz_results.user_id,
			SUM(quiz_results.points_earned) AS total_score,
			AVG(quiz_results.percentage) AS average_score,
			COUNT(*) AS completed_quizzes,
			MAX(quiz_results.percentage) AS best_score,
			SUM(quiz_results.time_spent) AS total_time_spent,
			MAX(quiz_results.completed_at) AS last_activity,
			users.username AS username,
			users.cbu AS cbu,
			users.avatar AS avatar,
			users.id IS NOT NULL AS has_user`).
		Joins("LEFT JOIN users ON users.id = quiz_results.user_id AND users.deleted_at IS NULL").
		Group("quiz_results.user_id, users.id, users.username, users.cbu, users.avatar")

	if cbu != "" {
		query = query.Where("users.cbu = ?", cbu)
	}

	var rows []model.UserPerformance
	err := query.Scan(&rows).Error
	return rows, err
}

func (r *QuizResultRepository) DistinctQuizIDsByUser(userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.QuizResult{}).
		Where("user_id = ?", userID).
		Distinct("quiz_id").
		Pluck("quiz_id", &ids).Error
	return ids, err
}

// PlatformStats 全平台成绩汇总
func (r *QuizResultRepository) PlatformStats() (*model.PlatformStats, error) {
	var stats model.PlatformStats
	err := r.DB.Model(&model.QuizResult{}).
		Select(`COUNT(*) AS total_quizzes,
			COUNT(DISTINCT user_id) AS total_users,
			COALESCE(AVG(percentage), 0) AS average_score,
			COALESCE(MAX(percentage), 0) AS best_score,
			COALESCE(SUM(points_earned), 0) AS total_points_distributed,
			COALESCE(SUM(time_spent), 0) AS total_time_spent`).
		Scan(&stats).Error
	return &stats, err
}

// ThemeAverages 按测验主题聚合用户成绩，用于强弱项分析
func (r *QuizResultRepository) ThemeAverages(userID uint) ([]model.ThemeStat, error) {
	var stats []model.ThemeStat
	err := r.DB.Model(&model.QuizResult{}).
		Select("theme, AVG(percentage) AS average_score, COUNT(*) AS quiz_count").
		Where("user_id = ? AND theme <> ''", userID).
		Group("theme").
		Scan(&stats).Error
	return stats, err
}
