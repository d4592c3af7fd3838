package router

import (
	"time"

	"github.com/devpilot-dev/devpilot/internal/auth"
	"github.com/devpilot-dev/devpilot/internal/config"
	"github.com/devpilot-dev/devpilot/internal/handlers"
	"github.com/devpilot-dev/devpilot/internal/middleware"
	"github.com/devpilot-dev/devpilot/internal/services"
	"github.com/devpilot-dev/devpilot/internal/store"
	"github.com/devpilot-dev/devpilot/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config, st *store.Store) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	userService := services.NewUserService(st)
	projectService := services.NewProjectService(st)
	taskService := services.NewTaskService(st)

	var generator services.Generator
	if g := services.NewOpenAIGenerator(cfg.OpenAI); g != nil {
		generator = g
	}
	storyService := services.NewStoryService(st, generator)

	authHandler := handlers.NewAuthHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService, taskService)
	taskHandler := handlers.NewTaskHandler(taskService)
	adminHandler := handlers.NewAdminHandler(userService)
	storyHandler := handlers.NewStoryHandler(storyService)

	authRequired := middleware.AuthMiddleware(st.Users)
	managerOnly := middleware.RequireAnyRole(auth.RoleManager)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authRequired, authHandler.Me)
		}

		projects := api.Group("/projects", authRequired)
		{
			projects.GET("", projectHandler.List)
			projects.POST("", managerOnly, projectHandler.Create)
			projects.GET("/:id", projectHandler.Detail)
			projects.DELETE("/:id", managerOnly, projectHandler.Delete)
			projects.POST("/:id/members", projectHandler.AddMember)
			projects.GET("/:id/metrics", projectHandler.Metrics)

			// Task collection routes live under the owning project; gin
			// cannot mix a literal and a wildcard in the same segment of
			// the /tasks group.
			projects.POST("/:id/tasks", managerOnly, taskHandler.Create)
			projects.GET("/:id/tasks", taskHandler.List)
		}

		tasks := api.Group("/tasks", authRequired)
		{
			tasks.PUT("/task/:taskId", taskHandler.Update)
			tasks.DELETE("/task/:taskId", managerOnly, taskHandler.Delete)
		}

		ai := api.Group("/ai", authRequired)
		{
			ai.POST("/generate-user-stories", storyHandler.Generate)
		}

		admin := api.Group("/admin", authRequired, middleware.RequireRole(auth.RoleAdmin))
		{
			admin.GET("/metrics", adminHandler.Metrics)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
			admin.GET("/tasks", adminHandler.ListTasks)
		}
	}

	return r
}
