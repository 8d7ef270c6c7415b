package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	// 1. 公共路由（无需登录）
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)

	// 课程浏览与选课
	rg.GET("/courses", c.course.ListCourses)
	rg.GET("/courses/:courseId", c.course.GetCourse)
	rg.GET("/courses/:courseId/lessons", c.lesson.ListLessons)
	rg.POST("/courses/:courseId/enroll", c.enrollment.Enroll)
	rg.GET("/enrollments", c.enrollment.ListMyCourses)

	// 学习进度
	rg.POST("/lessons/:id/start", c.progress.StartLesson)
	rg.POST("/lessons/:id/complete", c.progress.CompleteLesson)
	rg.POST("/lessons/:id/time", c.progress.RecordTimeSpent)
	rg.GET("/courses/:courseId/completion", c.progress.GetCourseCompletion)
	rg.GET("/courses/:courseId/progress", c.progress.GetCourseProgress)

	// 测验作答
	rg.GET("/courses/:courseId/quizzes", c.quiz.ListQuizzes)
	rg.GET("/quizzes/:id", c.quiz.GetQuiz)
	rg.POST("/quizzes/:id/attempts", c.quiz.StartAttempt)
	rg.GET("/quizzes/:id/attempts/mine", c.quiz.GetMyAttempt)
	rg.POST("/attempts/:id/submit", c.quiz.SubmitAttempt)
	rg.GET("/attempts/:id", c.quiz.GetOutcome)

	// 课程讨论
	rg.POST("/courses/:courseId/chat", c.chat.SendMessage)
	rg.GET("/courses/:courseId/chat/recent", c.chat.RecentMessages)
	rg.GET("/courses/:courseId/chat/history", c.chat.History)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		// 课程管理
		teacher.POST("/courses", c.course.CreateCourse)
		teacher.PUT("/courses/:courseId", c.course.UpdateCourse)
		teacher.DELETE("/courses/:courseId", c.course.DeleteCourse)

		// 课时管理
		teacher.POST("/courses/:courseId/lessons", c.lesson.CreateLesson)
		teacher.PUT("/lessons/:id", c.lesson.UpdateLesson)
		teacher.DELETE("/lessons/:id", c.lesson.DeleteLesson)
		teacher.POST("/lessons/:id/video", c.lesson.UploadVideo)

		// 测验管理
		teacher.POST("/courses/:courseId/quizzes", c.quiz.CreateQuiz)
		teacher.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		teacher.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
	}

	// 统计分析（教师与管理员）
	analytics := rg.Group("/analytics")
	analytics.Use(middleware.RoleMiddleware(model.Teacher))
	{
		analytics.GET("/courses/:courseId", c.analytics.GetCourseAnalytics)
		analytics.GET("/overview", c.analytics.GetPlatformOverview)
	}
}
