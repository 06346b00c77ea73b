package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/veritest/veritest-backend/internal/config"
	"github.com/veritest/veritest-backend/internal/handler"
	"github.com/veritest/veritest-backend/internal/middleware"
	"github.com/veritest/veritest-backend/internal/response"
	"github.com/veritest/veritest-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Booking  *handler.BookingHandler
	Test     *handler.TestHandler
	Proctor  *handler.ProctorHandler
	Result   *handler.ResultHandler
	Document *handler.DocumentHandler
	Monitor  *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so every response carries tracing metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/verify-otp", handlers.Auth.VerifyOTP)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/admin/login", handlers.Auth.LoginAdmin)
		auth.POST("/forgot-password", handlers.Auth.ForgotPassword)
		auth.POST("/reset-password", handlers.Auth.ResetPassword)

		auth.GET("/me", middleware.RequireStudentJWT(authService), handlers.Auth.Me)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.POST("/bookings", handlers.Booking.Create)
		studentAPI.GET("/bookings", handlers.Booking.ListMine)
		studentAPI.GET("/bookings/:id", handlers.Booking.GetMine)
		studentAPI.GET("/bookings/:id/result", handlers.Result.GetMine)
		studentAPI.GET("/bookings/:id/result/summary", handlers.Result.GetMineSummary)
		studentAPI.GET("/bookings/:id/result/emotions", handlers.Result.GetMineEmotions)

		studentAPI.POST("/tests/:bookingId/start", handlers.Test.Start)
		studentAPI.POST("/tests/:bookingId/submit", handlers.Test.Submit)

		studentAPI.POST("/proctor/events", handlers.Proctor.LogEvent)

		studentAPI.GET("/results", handlers.Result.ListMine)

		studentAPI.POST("/documents", handlers.Document.Upload)
		studentAPI.GET("/documents", handlers.Document.ListMine)
		studentAPI.GET("/documents/:id/download", handlers.Document.DownloadMine)
	}

	// ─── 3. Admin Group (Admin JWT) ────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.GET("/bookings", handlers.Booking.ListAll)
		adminAPI.PATCH("/bookings/:id/status", handlers.Booking.Review)
		adminAPI.POST("/bookings/:id/generate", handlers.Booking.GenerateTest)
		adminAPI.GET("/bookings/:id/events", handlers.Proctor.ListEvents)
		adminAPI.DELETE("/bookings/:id", handlers.Booking.Delete)

		adminAPI.GET("/results/pending", handlers.Result.ListPending)
		adminAPI.GET("/results/:id", handlers.Result.Get)
		adminAPI.POST("/results/:id/confirm", handlers.Result.Confirm)
		adminAPI.DELETE("/results/:id", handlers.Result.Delete)

		adminAPI.GET("/documents", handlers.Document.ListAll)
		adminAPI.PATCH("/documents/:id/status", handlers.Document.Review)
		adminAPI.GET("/documents/:id/download", handlers.Document.Download)
		adminAPI.DELETE("/documents/:id", handlers.Document.Delete)
	}

	// ─── 4. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/admin/monitor", handlers.Monitor.Stream)
	}

	return router
}
