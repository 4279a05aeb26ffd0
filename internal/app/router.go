package app

import (
	"quiz_expleo_backend/docs"
	"quiz_expleo_backend/internal/config"
	"quiz_expleo_backend/internal/middleware"
	"quiz_expleo_backend/internal/model"
	"quiz_expleo_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerCollaboratorRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)

		auth := public.Group("/auth")
		{
			auth.POST("/register", c.auth.Register)
			auth.POST("/login", c.auth.Login)
			auth.POST("/google", c.auth.GoogleLogin)
		}

		// 列表类：可选认证，游客只看到全局可见的已激活测验
		public.GET("/quizzes", middleware.TryAuthMiddleware(cfg), c.quiz.ListQuizzes)

		leaderboard := public.Group("/leaderboard")
		leaderboard.Use(middleware.TryAuthMiddleware(cfg))
		{
			leaderboard.GET("", c.leaderboard.GetLeaderboard)
			leaderboard.GET("/top/:limit", c.leaderboard.GetTopPlayers)
			leaderboard.GET("/user/:userId/rank", c.leaderboard.GetUserRank)
			leaderboard.GET("/stats", c.leaderboard.GetGeneralStats)
		}
	}
}

func (a *App) registerCollaboratorRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	quizzes := rg.Group("/quizzes")
	{
		quizzes.GET("/:id", c.quiz.GetQuiz)
		quizzes.GET("/:id/questions", c.quiz.GetQuizQuestions)
		quizzes.GET("/:id/completion-status", c.quiz.GetCompletionStatus)
		quizzes.POST("/:id/submit", c.quiz.SubmitQuiz)
	}

	results := rg.Group("/quiz-results")
	{
		results.POST("", c.quizResult.CreateResult)
		results.GET("/:userId", c.quizResult.GetUserResults)
		results.GET("/:userId/stats", c.quizResult.GetUserResultStats)
		results.DELETE("/:userId", c.quizResult.DeleteUserResults)
	}

	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("", c.dashboard.GetDashboard)
		dashboard.GET("/stats", c.dashboard.GetStats)
		dashboard.GET("/recent-activities", c.dashboard.GetRecentActivities)
		dashboard.GET("/recommendations", c.dashboard.GetRecommendations)
		dashboard.GET("/learning-path", c.dashboard.GetLearningPath)
		dashboard.GET("/top-performers", c.dashboard.GetTopPerformers)
		dashboard.GET("/theme-stats", c.dashboard.GetThemeStats)
		dashboard.GET("/achievements", c.dashboard.GetAchievements)
	}

	badges := rg.Group("/badges")
	{
		badges.GET("", c.badge.ListBadges)
		badges.GET("/mine", c.badge.GetMyBadges)
		badges.POST("/:id/award", c.badge.AwardBadge)
	}

	rg.POST("/users/avatar", c.user.UploadAvatar)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		quizzes := admin.Group("/quizzes")
		{
			quizzes.POST("", c.quiz.CreateQuiz)
			quizzes.PUT("/:id", c.quiz.UpdateQuiz)
			quizzes.DELETE("/:id", c.quiz.DeleteQuiz)
			quizzes.POST("/:id/duplicate", c.quiz.DuplicateQuiz)
		}

		questions := admin.Group("/questions")
		{
			questions.PUT("/:id", c.question.UpdateQuestion)
			questions.DELETE("/:id", c.question.DeleteQuestion)
		}

		users := admin.Group("/users")
		{
			users.GET("", c.user.ListUsers)
			users.POST("", c.user.CreateUser)
			users.GET("/:id", c.user.GetUser)
			users.PATCH("/:id", c.user.UpdateUser)
			users.DELETE("/:id", c.user.DeleteUser)
		}

		badges := admin.Group("/badges")
		{
			badges.POST("", c.badge.CreateBadge)
			badges.PUT("/:id", c.badge.UpdateBadge)
			badges.DELETE("/:id", c.badge.DeleteBadge)
			badges.PATCH("/:id/activation", c.badge.SetActivation)
		}

		stats := admin.Group("/stats")
		{
			stats.GET("/users", c.stats.GetUsersWithStats)
			stats.GET("/user/:id", c.stats.GetUserStats)
			stats.POST("/sync/:id", c.stats.SyncUserStats)
			stats.POST("/sync-all", c.stats.SyncAllStats)
		}
	}
}
