package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AlanDanielGC/hr-hub-main-sub001/config"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/api/handler"
	"github.com/AlanDanielGC/hr-hub-main-sub001/internal/api/middleware"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/jwt"
	"github.com/AlanDanielGC/hr-hub-main-sub001/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil，此时登录限流降级放行
func Setup(cfg *config.Config, h *handler.Handler, auth middleware.Authenticator, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	session := middleware.SessionAuth(auth)
	admin := middleware.RequireAdmin()

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（令牌校验在 Service 层完成，以区分首个用户注册）
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow), h.Auth.Login)
			authGroup.POST("/signup", h.Auth.Signup)
			authGroup.POST("/logout", h.Auth.Logout)
			authGroup.GET("/verify", h.Auth.Verify)
			authGroup.POST("/reset-password", h.Auth.ResetPassword)
		}

		biometric := v1.Group("/biometric")
		{
			// 考勤终端（设备 Token）
			device := biometric.Group("", middleware.DeviceAuth(jwtMgr))
			{
				device.GET("/poll-commands", h.Biometric.PollCommands)
				device.POST("/command-status", h.Biometric.CommandStatus)
				device.POST("/attendance", h.Biometric.Attendance)
			}

			// 人事管理员
			manage := biometric.Group("", session, admin)
			{
				manage.POST("/commands", h.Biometric.EnqueueEnroll)
				manage.GET("/templates", h.Biometric.ListTemplates)
				manage.PUT("/templates/:id/revoke", h.Biometric.RevokeTemplate)
				manage.GET("/events", h.Biometric.ListEvents)
			}
		}

		// 文档模块
		documents := v1.Group("/documents", session)
		{
			documents.POST("/vacation-pdf", h.Document.VacationPDF)
			documents.POST("/contracts", h.Document.GenerateContract)
		}

		// 考勤报表
		attendance := v1.Group("/attendance", session)
		{
			attendance.GET("", h.Attendance.List)
			attendance.GET("/export", admin, h.Attendance.Export)
		}

		// 假期日历
		vacations := v1.Group("/vacations", session)
		{
			vacations.GET("/calendar.ics", h.Vacation.Calendar)
		}
	}

	return r
}
