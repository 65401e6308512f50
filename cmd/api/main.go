package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/corsia-app/corsia-api/api/swagger"
	"github.com/corsia-app/corsia-api/internal/handler"
	"github.com/corsia-app/corsia-api/internal/middleware"
	"github.com/corsia-app/corsia-api/internal/repository"
	"github.com/corsia-app/corsia-api/internal/service"
	"github.com/corsia-app/corsia-api/pkg/cache"
	"github.com/corsia-app/corsia-api/pkg/config"
	"github.com/corsia-app/corsia-api/pkg/database"
	"github.com/corsia-app/corsia-api/pkg/events"
	"github.com/corsia-app/corsia-api/pkg/logger"
	corsmiddleware "github.com/corsia-app/corsia-api/pkg/middleware/cors"
	reqidmiddleware "github.com/corsia-app/corsia-api/pkg/middleware/requestid"
	"go.uber.org/zap"
)

// @title Corsia API
// @version 0.1.0
// @description Enrollment scheduling and attendance credit engine
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, location cache disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	bus := events.NewBus(events.BusConfig{Logger: logr})
	bus.Subscribe(events.TopicEnrollmentChanged, func(event events.Event) {
		logr.Debug("enrollment changed",
			zap.String("enrollment_id", event.EntityID),
			zap.Any("payload", event.Payload))
	})
	bus.Start()
	defer bus.Stop()

	enrollmentRepo := repository.NewEnrollmentRepository(db)
	locationRepo := repository.NewLocationRepository(db)

	metricsSvc := service.NewMetricsService()
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, locationRepo, bus, metricsSvc, nil, logr,
		service.EnrollmentConfig{SessionTTL: cfg.Sessions.TTL})
	attendanceSvc := service.NewAttendanceService(enrollmentRepo, locationRepo, bus, metricsSvc, nil, logr)
	var locationSvc *service.LocationService
	if redisClient != nil {
		locationSvc = service.NewLocationService(locationRepo, redisClient, cfg.Locations.CacheTTL, nil, logr)
	} else {
		// A nil typed pointer must not reach the cache interface.
		locationSvc = service.NewLocationService(locationRepo, nil, cfg.Locations.CacheTTL, nil, logr)
	}
	exportSvc := service.NewExportService(enrollmentRepo, cfg.Exports.Enabled, logr)

	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	locationHandler := handler.NewLocationHandler(locationSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	calendarHandler := handler.NewCalendarHandler()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/enrollments", enrollmentHandler.Create)
		api.GET("/enrollments", enrollmentHandler.List)
		api.GET("/enrollments/:id", enrollmentHandler.Get)
		api.DELETE("/enrollments/:id", enrollmentHandler.Delete)

		api.POST("/schedule/preview", enrollmentHandler.Preview)

		api.POST("/sessions", enrollmentHandler.StartSession)
		api.POST("/sessions/:id/appointments", enrollmentHandler.AddSingleSlot)
		api.POST("/sessions/:id/weekly", enrollmentHandler.AddWeeklySlots)
		api.DELETE("/sessions/:id/appointments/:lessonId", enrollmentHandler.RemoveSlot)
		api.POST("/sessions/:id/finalize", enrollmentHandler.FinalizeSession)

		api.POST("/enrollments/:id/appointments/:lessonId/present", attendanceHandler.MarkPresent)
		api.POST("/enrollments/:id/appointments/:lessonId/absent", attendanceHandler.MarkAbsent)
		api.POST("/enrollments/:id/appointments/:lessonId/revert", attendanceHandler.Revert)
		api.DELETE("/enrollments/:id/appointments/:lessonId", attendanceHandler.DeleteAppointment)
		api.POST("/attendance/bulk-absence", attendanceHandler.MarkAbsentBulk)

		api.GET("/locations", locationHandler.List)
		api.POST("/locations", locationHandler.Create)
		api.GET("/locations/:id", locationHandler.Get)
		api.PUT("/locations/:id", locationHandler.Update)

		api.GET("/calendar/holidays", calendarHandler.Holidays)

		api.GET("/exports/enrollments/:id/schedule", exportHandler.Schedule)
		api.GET("/exports/enrollments/:id/attendance", exportHandler.Attendance)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
