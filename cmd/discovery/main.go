package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dodwmd/mediahost/api/swagger"
	"github.com/dodwmd/mediahost/internal/handler"
	"github.com/dodwmd/mediahost/internal/middleware"
	"github.com/dodwmd/mediahost/internal/repository"
	"github.com/dodwmd/mediahost/internal/service"
	"github.com/dodwmd/mediahost/pkg/cache"
	"github.com/dodwmd/mediahost/pkg/config"
	"github.com/dodwmd/mediahost/pkg/database"
	"github.com/dodwmd/mediahost/pkg/logger"
	corsmiddleware "github.com/dodwmd/mediahost/pkg/middleware/cors"
	reqidmiddleware "github.com/dodwmd/mediahost/pkg/middleware/requestid"
)

// @title MediaHost Discovery API
// @version 0.1.0
// @description Catalog search and personalized recommendation service.
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
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	// Redis is optional: when unavailable the cache services degrade to
	// pass-through and every lookup goes to postgres.
	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Recommendation.CacheTTL, logr, false)
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Recommendation.CacheTTL, logr, cfg.Recommendation.CacheEnabled)
	}

	eventRepo := repository.NewEventRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)

	validate := validator.New()

	searchSvc := service.NewSearchService(eventRepo, metricsSvc, validate, logr, cfg.Search)
	affinitySvc := service.NewAffinityService(engagementRepo, eventRepo, metricsSvc, logr,
		cfg.Recommendation.TopCategories, cfg.Recommendation.TopProviders)
	popularitySvc := service.NewPopularityService(eventRepo, metricsSvc, logr)
	recommendationSvc := service.NewRecommendationService(affinitySvc, popularitySvc, eventRepo,
		engagementRepo, cacheSvc, metricsSvc, logr, cfg.Recommendation)
	taxonomySvc := service.NewTaxonomyService(eventRepo, cacheSvc, metricsSvc, logr, cfg.Taxonomy)
	engagementSvc := service.NewEngagementService(engagementRepo, eventRepo, metricsSvc, logr)

	searchHandler := handler.NewSearchHandler(searchSvc)
	recommendationHandler := handler.NewRecommendationHandler(recommendationSvc)
	taxonomyHandler := handler.NewTaxonomyHandler(taxonomySvc)
	engagementHandler := handler.NewEngagementHandler(engagementSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

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
		api.GET("/events/search", searchHandler.Search)
		api.GET("/events/:id/similar", recommendationHandler.Similar)
		api.GET("/events/:id/engagement", engagementHandler.Engagement)
		api.GET("/users/:id/recommendations", recommendationHandler.Recommend)
		api.GET("/catalog/categories", taxonomyHandler.Categories)
		api.GET("/catalog/tags", taxonomyHandler.Tags)
		api.GET("/catalog/providers", taxonomyHandler.Providers)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
