package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tambongslade/LockBook/backend/config"
	"github.com/tambongslade/LockBook/backend/internal/api/handler"
	"github.com/tambongslade/LockBook/backend/internal/api/middleware"
	"github.com/tambongslade/LockBook/backend/internal/model"
	"github.com/tambongslade/LockBook/backend/pkg/jwt"
)

// Deps 路由依赖的基础设施；Blacklist 与 Limiter 可为 nil（Redis 不可用时降级）
type Deps struct {
	JWT       *jwt.Manager
	Blacklist middleware.TokenChecker
	Limiter   middleware.RateLimiter
	Logger    *zap.Logger
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	submitLimit := middleware.RateLimit(deps.Limiter, cfg.Logbook.SubmitRateLimit, time.Minute)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", submitLimit, h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(deps.JWT, deps.Blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 院系（只读）
			authorized.GET("/departments", h.Department.ListDepartments)
			authorized.GET("/departments/:id", h.Department.GetDepartment)

			// 课程详情与大纲：三种角色均可读，权限由服务层按课程判断
			courses := authorized.Group("/courses")
			{
				courses.GET("/:id", h.Course.GetDetail)
				courses.GET("/:id/progress", h.Course.GetProgress)
				courses.GET("/:id/outline", h.Outline.GetOutline)
				courses.POST("/:id/modules", middleware.RoleAuth(model.RoleAdmin, model.RoleTeacher), h.Outline.CreateModule)
			}

			// 大纲写操作：管理员或已分配教师
			outline := authorized.Group("")
			outline.Use(middleware.RoleAuth(model.RoleAdmin, model.RoleTeacher))
			{
				outline.PUT("/modules/:id", h.Outline.UpdateModule)
				outline.DELETE("/modules/:id", h.Outline.DeleteModule)
				outline.POST("/modules/:id/chapters", h.Outline.CreateChapter)

				outline.PUT("/chapters/:id", h.Outline.UpdateChapter)
				outline.DELETE("/chapters/:id", h.Outline.DeleteChapter)
				outline.POST("/chapters/:id/subtopics", h.Outline.CreateSubtopic)

				outline.PUT("/subtopics/:id", h.Outline.UpdateSubtopic)
				outline.DELETE("/subtopics/:id", h.Outline.DeleteSubtopic)
				outline.PATCH("/subtopics/:id/toggle", h.Outline.ToggleSubtopic)
			}

			// 课代表
			delegate := authorized.Group("/delegate")
			delegate.Use(middleware.RoleAuth(model.RoleDelegate))
			{
				delegate.GET("/schedule/today", h.Schedule.Today)
				delegate.GET("/courses/by-slot", h.Course.ListBySlot)
				delegate.GET("/calendar.ics", h.Export.ExportCalendar)

				delegate.POST("/logbook", submitLimit, h.Logbook.Submit)
				if cfg.Feature.TimeboxedSubmissionEnabled {
					delegate.POST("/logbook/timetable", submitLimit, h.Logbook.SubmitForTimetable)
				}
				delegate.GET("/logbook", h.Logbook.ListMine)
				delegate.GET("/logbook/corrections", h.Logbook.ListNeedingCorrection)
				delegate.GET("/logbook/:id", h.Logbook.GetMine)
				delegate.PUT("/logbook/:id", submitLimit, h.Logbook.Edit)
			}

			// 教师
			teacher := authorized.Group("/teacher")
			teacher.Use(middleware.RoleAuth(model.RoleTeacher))
			{
				teacher.GET("/courses", h.Course.ListMine)
				teacher.GET("/courses/progress", h.Course.ListMyProgress)
				teacher.GET("/calendar.ics", h.Export.ExportCalendar)
				teacher.GET("/export/progress", h.Export.ExportProgress)

				teacher.GET("/logbook/pending", h.Review.ListPending)
				teacher.GET("/logbook/history", h.Review.ListHistory)
				teacher.GET("/logbook/:id", h.Review.GetForReview)
				teacher.PUT("/logbook/:id/review", h.Review.Review)
			}

			// 管理员
			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth(model.RoleAdmin))
			{
				admin.POST("/users", h.User.CreateUser)
				admin.GET("/users", h.User.ListUsers)
				admin.GET("/users/:id", h.User.GetUser)

				admin.POST("/departments", h.Department.CreateDepartment)

				admin.POST("/courses", h.Course.CreateCourse)
				admin.GET("/courses", h.Course.ListAll)
				admin.GET("/courses/progress", h.Course.ListProgressAll)

				admin.POST("/schedule-entries", h.Schedule.CreateEntry)
				admin.GET("/schedule-entries", h.Schedule.ListEntries)
				admin.POST("/timetable-entries", h.Schedule.CreateTimetableEntry)

				admin.GET("/logbook/history", h.Review.ListAllHistory)
				admin.GET("/export/progress", h.Export.ExportProgress)
			}
		}
	}

	return r
}
