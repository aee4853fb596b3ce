package routes

import (
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/hiredvalley/career-server-go/internal/features/auth"
	"github.com/hiredvalley/career-server-go/internal/features/course"
	"github.com/hiredvalley/career-server-go/internal/features/enrollment"
	"github.com/hiredvalley/career-server-go/internal/features/module"
	"github.com/hiredvalley/career-server-go/internal/features/progress"
	"github.com/hiredvalley/career-server-go/internal/features/user"
	"github.com/hiredvalley/career-server-go/internal/middleware"
	"github.com/hiredvalley/career-server-go/pkg/cache"
	"github.com/hiredvalley/career-server-go/pkg/config"
	"github.com/hiredvalley/career-server-go/pkg/email"
	"github.com/hiredvalley/career-server-go/pkg/health"
	"github.com/hiredvalley/career-server-go/pkg/metrics"
	pkgmiddleware "github.com/hiredvalley/career-server-go/pkg/middleware"
	"github.com/hiredvalley/career-server-go/pkg/request"
	"github.com/hiredvalley/career-server-go/pkg/types"
)

// Dependencies carries everything route registration needs.
type Dependencies struct {
	DB       *gorm.DB
	Cache    cache.Client
	Email    *email.Client
	Config   *config.Config
	Logger   *slog.Logger
	Progress *progress.Service
}

// Setup builds the Gin engine with the full middleware chain and all routes.
func Setup(deps Dependencies) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(pkgmiddleware.Recovery(deps.Logger))
	router.Use(pkgmiddleware.RequestID())
	router.Use(pkgmiddleware.SecurityHeaders())
	router.Use(pkgmiddleware.RequestSizeLimit(10 << 20))
	router.Use(pkgmiddleware.CORS(deps.Config.AllowedOrigins))
	router.Use(pkgmiddleware.RequestLogger(deps.Logger))
	router.Use(request.Handler(deps.Logger))
	router.Use(metrics.Middleware())

	rateLimiter := pkgmiddleware.NewRateLimiter(300, time.Minute)
	router.Use(rateLimiter.Middleware())

	middleware.Initialize(deps.DB, deps.Config.JWTSecret, deps.Logger)

	healthHandler := health.NewHandler(deps.DB, deps.Logger)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/version", healthHandler.Version)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	allUsers := middleware.RequireRoles(types.UserTypeAll)
	adminOnly := middleware.RequireRoles(types.UserTypeAdmin)
	mentorOrAdmin := middleware.RequireRoles(types.UserTypeMentor, types.UserTypeAdmin)

	api := router.Group("/api/v1")
	{
		api.GET("/admin/db-stats", adminOnly, healthHandler.DBStats)

		auth.RegisterRoutes(api, auth.NewHandler(auth.NewService(deps.DB, deps.Config, deps.Email, deps.Logger), deps.Logger), allUsers)
		user.RegisterRoutes(api, user.NewHandler(deps.DB, deps.Logger), adminOnly, allUsers)
		course.RegisterRoutes(api, course.NewHandler(deps.DB, deps.Cache, deps.Logger), mentorOrAdmin, allUsers)
		module.RegisterRoutes(api, module.NewHandler(deps.DB, deps.Logger), mentorOrAdmin, allUsers)
		enrollment.RegisterRoutes(api, enrollment.NewHandler(deps.DB, deps.Email, deps.Logger), allUsers)
		progress.RegisterRoutes(api, progress.NewHandler(deps.Progress, deps.Logger), allUsers)
	}

	return router
}
