package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/edulane/edulane-server-go/internal/features/analytics"
	"github.com/edulane/edulane-server-go/internal/features/bookmark"
	"github.com/edulane/edulane-server-go/internal/features/certificate"
	"github.com/edulane/edulane-server-go/internal/features/course"
	"github.com/edulane/edulane-server-go/internal/features/enrollment"
	"github.com/edulane/edulane-server-go/internal/features/lesson"
	"github.com/edulane/edulane-server-go/internal/features/progress"
	"github.com/edulane/edulane-server-go/internal/features/rating"
	"github.com/edulane/edulane-server-go/internal/features/stream"
	"github.com/edulane/edulane-server-go/internal/features/video"
	"github.com/edulane/edulane-server-go/internal/middleware"
	"github.com/edulane/edulane-server-go/pkg/config"
	"github.com/edulane/edulane-server-go/pkg/health"
	"github.com/edulane/edulane-server-go/pkg/types"
)

// Register wires all feature routes onto the engine.
func Register(engine *gin.Engine, cfg *config.Config, db *gorm.DB, logger *slog.Logger, analyticsService *analytics.Service) {
	// Health check endpoints (no /api prefix for Kubernetes probes)
	healthHandler := health.NewHandler(db, logger)
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/version", healthHandler.Version)

	// Metrics endpoint for Prometheus
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if !cfg.IsProduction() {
		engine.GET("/debug/db-stats", healthHandler.DBStats)
	}

	api := engine.Group("/api")

	middleware.Initialize(db, cfg.JWTSecret, logger)

	// Admin always passes RequireRoles regardless of the listed roles.
	acUser := middleware.RequireRoles(types.UserTypeAll)
	acInstructor := middleware.RequireRoles(types.UserTypeInstructor)
	acAdmin := middleware.RequireRoles(types.UserTypeAdmin)

	courseHandler := course.NewHandler(db, logger)
	course.RegisterRoutes(api, courseHandler, acInstructor, acAdmin)

	lessonHandler := lesson.NewHandler(db, logger)
	lesson.RegisterRoutes(api, lessonHandler, acInstructor)

	enrollmentHandler := enrollment.NewHandler(db, logger)
	enrollment.RegisterRoutes(api, enrollmentHandler, acUser)

	progressHandler := progress.NewHandler(db, logger, cfg.Learning.CompletionThreshold)
	progress.RegisterRoutes(api, progressHandler, acUser)

	ratingHandler := rating.NewHandler(db, logger)
	rating.RegisterRoutes(api, ratingHandler, acUser)

	videoHandler := video.NewHandler(db, logger)
	video.RegisterRoutes(api, videoHandler, acUser, acInstructor)

	bookmarkHandler := bookmark.NewHandler(db, logger)
	bookmark.RegisterRoutes(api, bookmarkHandler, acUser)

	streamHandler := stream.NewHandler(db, logger, analyticsService)
	stream.RegisterRoutes(api, streamHandler, acUser, acInstructor)

	analyticsHandler := analytics.NewHandler(db, logger)
	analytics.RegisterRoutes(api, analyticsHandler, acInstructor)

	certificateHandler := certificate.NewHandler(db, logger)
	certificate.RegisterRoutes(api, certificateHandler, acUser)
}
