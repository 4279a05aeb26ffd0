package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz_expleo_backend/internal/config"
	"quiz_expleo_backend/internal/controller"
	"quiz_expleo_backend/internal/repository"
	"quiz_expleo_backend/internal/service"
	"quiz_expleo_backend/pkg/database"
	"quiz_expleo_backend/pkg/logger"
	"quiz_expleo_backend/pkg/monitoring"
	"quiz_expleo_backend/pkg/security"
	"quiz_expleo_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracerShutdown  func(context.Context) error
}

type repositories struct {
	user       *repository.UserRepository
	quiz       *repository.QuizRepository
	question   *repository.QuestionRepository
	quizResult *repository.QuizResultRepository
	badge      *repository.BadgeRepository
	userStats  *repository.UserStatsRepository
}

type services struct {
	storage     *service.StorageService
	auth        *service.AuthService
	user        *service.UserService
	quiz        *service.QuizService
	quizResult  *service.QuizResultService
	leaderboard *service.LeaderboardService
	dashboard   *service.DashboardService
	achievement *service.AchievementService
	stats       *service.StatsService
	badge       *service.BadgeService
}

type controllers struct {
	auth        *controller.AuthController
	user        *controller.UserController
	quiz        *controller.QuizController
	question    *controller.QuestionController
	quizResult  *controller.QuizResultController
	leaderboard *controller.LeaderboardController
	dashboard   *controller.DashboardController
	stats       *controller.StatsController
	badge       *controller.BadgeController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置文件热更新后应用新配置
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		quiz:       repository.NewQuizRepository(db),
		question:   repository.NewQuestionRepository(db),
		quizResult: repository.NewQuizResultRepository(db),
		badge:      repository.NewBadgeRepository(db),
		userStats:  repository.NewUserStatsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.userStats, cfg)
	s.user = service.NewUserService(repos.user, repos.userStats, repos.quiz)
	s.leaderboard = service.NewLeaderboardService(repos.quizResult, rdb)
	s.quiz = service.NewQuizService(repos.quiz, repos.question, repos.quizResult, s.leaderboard)
	s.quizResult = service.NewQuizResultService(repos.quizResult, repos.quiz, s.leaderboard)
	s.dashboard = service.NewDashboardService(repos.quiz, repos.question, repos.quizResult)
	s.achievement = service.NewAchievementService(repos.quizResult)
	s.stats = service.NewStatsService(repos.user, repos.quiz, repos.quizResult, repos.userStats)
	s.badge = service.NewBadgeService(repos.badge, repos.user)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		user:        controller.NewUserController(s.user, s.storage),
		quiz:        controller.NewQuizController(s.quiz, s.stats),
		question:    controller.NewQuestionController(s.quiz),
		quizResult:  controller.NewQuizResultController(s.quizResult, s.stats),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		dashboard:   controller.NewDashboardController(s.dashboard, s.achievement),
		stats:       controller.NewStatsController(s.stats),
		badge:       controller.NewBadgeController(s.badge),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	// 定期全量同步冗余统计，兜底修正遗漏的增量同步
	go func() {
		ticker := time.NewTicker(time.Hour)
		for range ticker.C {
			if synced, total, err := s.stats.SyncAllStats(); err != nil {
				logger.Log.Error("stats sync error", zap.Error(err))
			} else {
				logger.Log.Info("stats sync completed",
					zap.Int("synced", synced),
					zap.Int("total", total))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.SeedAdmin(db, cfg); err != nil {
		logger.Log.Error("Failed to seed admin account", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("quiz-platform", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		// 进程退出前由 Run 的优雅停机路径关闭
		app.tracerShutdown = tp.Shutdown
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
