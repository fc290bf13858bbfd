package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"taskmanager/internal/handlers"
	"taskmanager/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	auth *middleware.Authenticator,
	taskHandler *handlers.TaskHandler,
	statsHandler *handlers.StatsHandler,
	subTaskHandler *handlers.SubTaskHandler,
	healthHandler *handlers.HealthHandler, // may be nil
) *gin.Engine {

	// ---- public
	if healthHandler != nil {
		r.GET("/healthz", healthHandler.Check)
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ---- protected
	r.Use(auth.AuthMiddleware())

	// TASKS
	tasks := r.Group("/tasks", middleware.RequireAuthenticated())
	{
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/", taskHandler.List)
	}

	// STATS (admin)
	stats := r.Group("/tasks/stats", middleware.RequireAdmin())
	{
		stats.GET("/", statsHandler.GetStats)
		stats.GET("/report", statsHandler.GetReport)
	}

	// SUBTASKS
	subtasks := r.Group("/subtasks", middleware.RequireAuthenticated())
	{
		subtasks.GET("/", subTaskHandler.List)
		subtasks.POST("/", subTaskHandler.Create)
		subtasks.GET("/:id", subTaskHandler.GetByID)
		subtasks.PUT("/:id", subTaskHandler.Update)
		subtasks.DELETE("/:id", subTaskHandler.Delete)
	}

	return r
}
