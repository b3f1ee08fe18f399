package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/threads-api/internal/config"
	"github.com/yukikurage/threads-api/internal/handlers"
	"github.com/yukikurage/threads-api/internal/middleware"
	"github.com/yukikurage/threads-api/internal/services"
	"github.com/yukikurage/threads-api/internal/utils"
)

// Dependencies are the collaborators the router needs.
type Dependencies struct {
	Config      *config.Config
	Store       handlers.Pinger
	Threads     *services.ThreadService
	Users       *services.UserService
	Communities *services.CommunityService
}

// NewRouter builds the HTTP surface over the services.
func NewRouter(deps Dependencies) *gin.Engine {
	utils.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	if origins := deps.Config.Origins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	r.Use(cors.New(corsConfig))

	healthHandler := handlers.NewHealthHandler(deps.Store)
	threadHandler := handlers.NewThreadHandler(deps.Threads)
	userHandler := handlers.NewUserHandler(deps.Users)
	communityHandler := handlers.NewCommunityHandler(deps.Communities)

	// Health and metrics endpoints
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(deps.Config.JWTSecret)
	requireOnboarded := middleware.RequireOnboarded(deps.Users)

	// API routes
	api := r.Group("/api")
	{
		// Home feed (public)
		api.GET("/threads", threadHandler.ListThreads)

		// Profile setup is reachable before onboarding
		me := api.Group("/users/me")
		me.Use(requireAuth)
		{
			me.GET("", userHandler.GetMe)
			me.PUT("", userHandler.UpdateMe)
		}

		// Everything else needs a completed profile
		member := api.Group("")
		member.Use(requireAuth, requireOnboarded)
		{
			member.POST("/threads", threadHandler.CreateThread)
			member.GET("/threads/:id", threadHandler.GetThread)
			member.POST("/threads/:id/comments", threadHandler.AddComment)

			member.GET("/users", userHandler.ListUsers)
			member.GET("/users/:authId", userHandler.GetUser)
			member.GET("/users/:authId/threads", userHandler.GetUserThreads)

			member.GET("/activity", userHandler.GetActivity)

			member.GET("/communities/:id/threads", communityHandler.GetCommunityThreads)
		}
	}

	return r
}
