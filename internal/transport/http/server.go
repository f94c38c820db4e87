package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appsvc "applytrack/internal/app"
	"applytrack/internal/bootstrap"
	"applytrack/internal/cache"
	"applytrack/internal/platform/rabbitmq"
	"applytrack/internal/repository"
	"applytrack/internal/transport/http/handler"
	"applytrack/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.AccessLog(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	jobRepo := repository.NewJobRepository(app.MySQL)
	activityRepo := repository.NewActivityRepository(app.MySQL)

	jobListCache := cache.NewJobListCache(
		app.Redis,
		time.Duration(app.Config.Redis.JobListTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.DirtyMarkerSeconds)*time.Second,
	)
	activityPublisher := rabbitmq.NewActivityPublisher(app.MQConn, app.Config.RabbitMQ.ActivityQueue)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	jobService := appsvc.NewJobService(jobRepo, activityRepo, activityPublisher, jobListCache)

	authHandler := handler.NewAuthHandler(authService)
	jobHandler := handler.NewJobHandler(jobService)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	jobGroup := v1.Group("/jobs")
	jobGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	jobGroup.GET("", jobHandler.List)
	jobGroup.POST("", jobHandler.Create)
	jobGroup.PUT("/:id", jobHandler.Update)
	jobGroup.DELETE("/:id", jobHandler.Delete)
	jobGroup.GET("/activity", jobHandler.Activity)

	return router
}
