package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sigo-dev/sigo/internal/auth"
	"github.com/sigo-dev/sigo/internal/handlers"
	"github.com/sigo-dev/sigo/internal/middleware"
	"github.com/sigo-dev/sigo/internal/services"
	"github.com/sigo-dev/sigo/internal/store"
	"gorm.io/gorm"
)

// Dependencies carries everything the HTTP layer needs; the stores and
// handlers are built from these at startup.
type Dependencies struct {
	DB      *gorm.DB
	Issuer  *auth.TokenIssuer
	Gateway services.Gateway
}

func New(deps Dependencies) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	users := store.NewUserStore(deps.DB)
	groups := store.NewGroupStore(deps.DB)
	dashboards := store.NewDashboardStore(deps.DB)
	syncer := services.NewSyncer(deps.DB, deps.Gateway)

	authHandler := handlers.NewAuthHandler(users, deps.Issuer)
	userHandler := handlers.NewUserHandler(users)
	groupHandler := handlers.NewGroupHandler(groups)
	dashboardHandler := handlers.NewDashboardHandler(dashboards, deps.Gateway, syncer)

	r.GET("/", handlers.HealthCheck)

	v1 := r.Group("/v1")
	{
		v1.POST("/login", authHandler.Login)
		v1.POST("/users", userHandler.Create)

		protected := v1.Group("", middleware.AuthMiddleware(deps.Issuer, deps.DB))
		{
			protected.GET("/users/:user_id", userHandler.Get)
			protected.GET("/users", userHandler.List)
			protected.PUT("/users/:user_id", userHandler.Update)
			protected.DELETE("/users/:user_id", userHandler.Delete)

			protected.POST("/group", groupHandler.Create)
			protected.GET("/group/:group_id", groupHandler.Get)
			protected.GET("/group", groupHandler.List)
			protected.PATCH("/group/:group_id", groupHandler.Update)
			protected.DELETE("/group/:group_id", groupHandler.Delete)

			// Membership endpoints
			protected.GET("/user/:user_id/groups", groupHandler.ListUserGroups)
			protected.POST("/user/:user_id/groups", groupHandler.AddUserToGroup)
			protected.DELETE("/user/:user_id/groups", groupHandler.RemoveUserFromGroup)

			// Power BI endpoints
			protected.GET("/powerbi/dashboards", dashboardHandler.List)
			protected.GET("/powerbi/workspace/:workspace_id/dashboard/:dashboard_id", dashboardHandler.Get)
			protected.GET("/powerbi/dashboards/group/:group_id", dashboardHandler.ListByGroup)
			protected.PATCH("/powerbi/dashboard/:dashboard_id", dashboardHandler.Update)
			protected.DELETE("/powerbi/dashboard/:dashboard_id", dashboardHandler.Delete)
			protected.POST("/powerbi/dashboard/refresh", dashboardHandler.Refresh)
			protected.GET("/powerbi/dashboard/refresh-status", dashboardHandler.RefreshStatus)
			protected.POST("/powerbi/sync", dashboardHandler.Sync)
		}
	}

	return r
}
