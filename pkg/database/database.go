package database

import (
	"fmt"
	"log"
	"os"

	"quiz_expleo_backend/internal/config"
	"quiz_expleo_backend/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认跳过自动迁移，除非显式指定 --migrate
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.UserBadge{},
			&model.UserStats{},
			&model.Quiz{},
			&model.Question{},
			&model.QuizResult{},
			&model.Badge{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")
	}

	// 默认徽章
	var count int64
	db.Model(&model.Badge{}).Count(&count)
	if count == 0 {
		defaultBadges := []model.Badge{
			{Name: "Premier Pas", Description: "Terminer son premier quiz", Icon: "🎯", Color: "#4CAF50", Criteria: "1 quiz complété", Type: model.BadgeMilestone, IsActive: true},
			{Name: "Sans Faute", Description: "Obtenir un score parfait de 100%", Icon: "💯", Color: "#FFD700", Criteria: "100% à un quiz", Type: model.BadgeAchievement, IsActive: true},
			{Name: "Marathonien", Description: "Compléter 10 quiz", Icon: "🏃", Color: "#2196F3", Criteria: "10 quiz complétés", Type: model.BadgeMilestone, IsActive: true},
			{Name: "Expert", Description: "Maintenir une moyenne de 85% ou plus", Icon: "🏆", Color: "#9C27B0", Criteria: "Moyenne >= 85%", Type: model.BadgeAchievement, IsActive: true},
		}
		for _, b := range defaultBadges {
			db.Create(&b)
		}
	}

	return db, nil
}

// SeedAdmin 若不存在管理员账号则创建一个，凭据来自配置或环境变量
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.Admin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := cfg.Admin.Email
	if email == "" {
		email = os.Getenv("ADMIN_EMAIL")
	}
	password := cfg.Admin.Password
	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}
	if email == "" || password == "" {
		log.Println("Admin seed skipped: missing admin email or password")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username: "Admin Farah",
		Email:    email,
		Password: string(hashed),
		CBU:      "admin",
		Role:     model.Admin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("Admin account created")
	return nil
}
