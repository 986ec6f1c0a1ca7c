// Package router wires repositories, services and handlers into the
// catalog service's gin engine.
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"mediahub/internal/cache"
	"mediahub/internal/events"
	"mediahub/internal/microservices/http-api/dto"
	"mediahub/internal/microservices/http-api/handler"
	"mediahub/internal/microservices/http-api/middleware"
	"mediahub/internal/microservices/http-api/repository"
	"mediahub/internal/microservices/http-api/service"
)

type Deps struct {
	DB *gorm.DB
	// Cache may be nil, reads then always hit the database.
	Cache service.Cache
	// Events may be nil, changes are then not published.
	Events events.Publisher
}

func New(d Deps) *gin.Engine {
	if d.Cache == nil {
		d.Cache = (*cache.RedisCache)(nil)
	}
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	dto.RegisterValidators()

	mediaRepo := repository.NewMediaRepository(d.DB)
	userRepo := repository.NewUserRepository(d.DB)
	userMediaRepo := repository.NewUserMediaRepository(d.DB)

	mediaSvc := service.NewMediaService(mediaRepo, userMediaRepo, d.Cache, d.Events)
	userSvc := service.NewUserService(userRepo, userMediaRepo, d.Cache, d.Events)
	subSvc := service.NewSubscriptionService(userMediaRepo, userRepo, mediaRepo, d.Events)

	mediaHandler := handler.NewMediaHandler(mediaSvc)
	userHandler := handler.NewUserHandler(userSvc)
	subHandler := handler.NewSubscriptionHandler(subSvc)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.Metrics())

	r.GET("/health", healthHandler(d.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	media := r.Group("/media")
	mediaHandler.RegisterRoutes(media)
	subHandler.RegisterMediaRoutes(media)

	userHandler.RegisterRoutes(r.Group("/user"))
	subHandler.RegisterRoutes(r.Group("/user-media"))

	return r
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
