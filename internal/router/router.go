package router

import (
	"net/http"
	"time"

	"github.com/LOAD-13/boc-forms-backend/internal/config"
	"github.com/LOAD-13/boc-forms-backend/internal/handler"
	"github.com/LOAD-13/boc-forms-backend/internal/middleware"
	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/LOAD-13/boc-forms-backend/internal/response"
	"github.com/LOAD-13/boc-forms-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Form       *handler.FormHandler
	Assignment *handler.AssignmentHandler
	Respond    *handler.RespondHandler
	Results    *handler.ResultsHandler
	User       *handler.UserHandler
	Media      *handler.MediaHandler
	Dashboard  *handler.DashboardHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
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

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded media files statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

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
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.GET("/me", middleware.RequireJWT(authService), middleware.CheckSingleSession(authService), handlers.Auth.Me)
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
	}

	// ─── 2. Respondent Group (Login Optional) ──────────────────────────
	// Anonymous access is allowed; forms that require login reject
	// unauthenticated callers inside the handlers.
	respondAPI := router.Group("/api/v1/respond")
	respondAPI.Use(middleware.OptionalJWT(authService))
	{
		respondAPI.GET("/invitations/:token", handlers.Respond.ResolveInvitation)
		respondAPI.GET("/forms/:form_id", handlers.Respond.GetFormPayload)
		respondAPI.POST("/forms/:form_id/start", handlers.Respond.StartResponse)
		respondAPI.PUT("/responses/:response_id/answers", handlers.Respond.Autosave)
		respondAPI.GET("/responses/:response_id/state", handlers.Respond.GetState)
		respondAPI.POST("/responses/:response_id/submit", handlers.Respond.Submit)
	}

	// ─── 3. Assignments (Authenticated Users) ──────────────────────────
	userAPI := router.Group("/api/v1")
	userAPI.Use(
		middleware.RequireJWT(authService),
		middleware.CheckSingleSession(authService),
	)
	{
		userAPI.GET("/assignments", handlers.Assignment.MyAssignments)
	}

	// ─── 4. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/admin/forms/:form_id/results", handlers.WS.ResultsStream)
	}

	// ─── 5. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(
		middleware.RequireJWT(authService),
		middleware.CheckSingleSession(authService),
		middleware.RequireRole(model.RoleAdmin),
	)
	{
		// Dashboard
		adminAPI.GET("/dashboard", handlers.Dashboard.GetDashboard)

		// Media upload
		adminAPI.POST("/media/upload", handlers.Media.UploadMedia)

		// User lookup (for assignment pickers)
		adminAPI.GET("/users", handlers.User.ListUsers)
		adminAPI.GET("/users/search", handlers.User.SearchUsers)
		adminAPI.PUT("/users/:user_id", handlers.User.UpdateUser)

		// Form management
		adminAPI.GET("/forms", handlers.Form.ListForms)
		adminAPI.POST("/forms", handlers.Form.CreateForm)
		adminAPI.GET("/forms/:form_id", handlers.Form.GetForm)
		adminAPI.PUT("/forms/:form_id", handlers.Form.UpdateForm)
		adminAPI.DELETE("/forms/:form_id", handlers.Form.DeleteForm)
		adminAPI.POST("/forms/:form_id/publish", handlers.Form.PublishForm)
		adminAPI.POST("/forms/:form_id/archive", handlers.Form.ArchiveForm)
		adminAPI.POST("/forms/:form_id/clone", handlers.Form.CloneForm)

		// Question management
		adminAPI.GET("/forms/:form_id/questions", handlers.Form.GetQuestions)
		adminAPI.PUT("/forms/:form_id/questions", handlers.Form.ReplaceQuestions)

		// Invitations
		adminAPI.POST("/forms/:form_id/invitations", handlers.Form.CreateInvitation)
		adminAPI.GET("/forms/:form_id/invitations", handlers.Form.ListInvitations)
		adminAPI.DELETE("/forms/:form_id/invitations/:invitation_id", handlers.Form.RevokeInvitation)

		// Assignments
		adminAPI.POST("/forms/:form_id/assignments", handlers.Assignment.AssignUsers)
		adminAPI.GET("/forms/:form_id/assignments", handlers.Assignment.ListAssignments)
		adminAPI.DELETE("/forms/:form_id/assignments/:user_id", handlers.Assignment.RemoveAssignment)

		// Results and review
		adminAPI.GET("/forms/:form_id/results", handlers.Results.ListResults)
		adminAPI.GET("/responses/:response_id/review", handlers.Results.ReviewResponse)
	}

	return router
}
