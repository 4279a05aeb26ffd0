// 手动创建管理员账号脚本
//
// 应用启动时已自动执行同样的初始化，此脚本仅用于手动触发，
// 例如修改 ADMIN_EMAIL / ADMIN_PASSWORD 后重建账号。
//
// 用法: ADMIN_EMAIL=... ADMIN_PASSWORD=... go run scripts/seed_admin.go

package main

import (
	"log"

	"quiz_expleo_backend/internal/config"
	"quiz_expleo_backend/pkg/database"
	"quiz_expleo_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	if err := database.SeedAdmin(db, cfg); err != nil {
		log.Fatalf("创建管理员失败: %v", err)
	}

	log.Println("管理员账号初始化完成")
}
