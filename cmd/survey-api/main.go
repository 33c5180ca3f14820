package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campus-pulse/course-eval-api/api/swagger"
	"github.com/campus-pulse/course-eval-api/internal/handler"
	"github.com/campus-pulse/course-eval-api/internal/middleware"
	"github.com/campus-pulse/course-eval-api/internal/repository"
	"github.com/campus-pulse/course-eval-api/internal/service"
	"github.com/campus-pulse/course-eval-api/pkg/cache"
	"github.com/campus-pulse/course-eval-api/pkg/config"
	"github.com/campus-pulse/course-eval-api/pkg/database"
	"github.com/campus-pulse/course-eval-api/pkg/logger"
	corsmiddleware "github.com/campus-pulse/course-eval-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-pulse/course-eval-api/pkg/middleware/requestid"
)

// @title Course Evaluation API
// @version 1.0.0
// @description Anonymous course and professor evaluation surveys
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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	// Redis only backs the report cache; the API stays up without it.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, report caching disabled", zap.Error(err))
		redisClient = nil
	}

	formRepo := repository.NewFormRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	surveyRepo := repository.NewSurveyRepository(db, cfg.Survey)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close()

	metricsSvc := service.NewMetricsService()
	guard := service.NewAntiSpamGuard(surveyRepo, cfg.AntiSpam, nil, logr)
	limits := service.LimitsFromConfig(cfg.Survey)
	submissionSvc := service.NewSubmissionService(formRepo, questionRepo, professorRepo, surveyRepo, guard, metricsSvc, cacheRepo, limits, nil, logr)
	formSvc := service.NewFormService(formRepo, questionRepo, professorRepo, nil, logr)
	reportSvc := service.NewReportService(reportRepo, cacheRepo, cfg.Reports.CacheTTL, nil, logr)

	surveyHandler := handler.NewSurveyHandler(submissionSvc)
	formHandler := handler.NewFormHandler(formSvc)
	reportHandler := handler.NewReportHandler(reportSvc)

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
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
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
		api.POST("/surveys", surveyHandler.Submit)

		api.GET("/forms", formHandler.List)
		api.GET("/forms/:id/questions", formHandler.Questions)
		api.GET("/forms/:id/professors", formHandler.Professors)

		if cfg.Reports.Enabled {
			api.GET("/reports/courses/:id", reportHandler.Course)
			api.GET("/reports/courses/:id/questions/:qid", reportHandler.Question)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
