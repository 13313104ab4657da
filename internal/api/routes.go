package api

import (
	"github.com/gin-gonic/gin"

	"github.com/askwhyharsh/silverlink/internal/observability"
	"github.com/askwhyharsh/silverlink/internal/ratelimit"
	"github.com/askwhyharsh/silverlink/pkg/logger"
)

type RouteOptions struct {
	Logger        logger.Logger
	RateLimit     *ratelimit.Middleware
	RequireAuth   gin.HandlerFunc
	EnableMetrics bool
}

func SetupRoutes(r *gin.Engine, handler *Handler, opts RouteOptions) {
	// Apply global middleware
	r.Use(RecoveryMiddleware(opts.Logger))
	r.Use(RequestLogger(opts.Logger))
	r.Use(CORSMiddleware())
	if opts.EnableMetrics {
		r.Use(MetricsMiddleware())
		r.GET("/metrics", gin.WrapH(observability.Handler()))
	}

	api := r.Group("/api")

	// Health check (no rate limit)
	api.GET("/health", handler.Health)

	if opts.RateLimit != nil {
		api.Use(opts.RateLimit.IPRateLimit())
	}
	{
		api.GET("/categories", handler.ListCategories)

		activities := api.Group("/activities")
		{
			activities.GET("/:category", handler.ListActivities)
			activities.GET("/:category/:id", handler.GetActivity)
		}

		members := api.Group("/members")
		{
			members.GET("", handler.ListMembers)
			members.GET("/:id", handler.GetMember)
		}

		api.GET("/distance", handler.Distance)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", handler.Register)
			authGroup.POST("/login", handler.Login)
			authGroup.POST("/logout", opts.RequireAuth, handler.Logout)
		}

		api.GET("/profile/options", handler.ProfileOptions)

		profile := api.Group("/profile", opts.RequireAuth)
		{
			profile.GET("", handler.GetProfile)
			profile.PATCH("", handler.UpdateProfile)
			profile.POST("/interests/toggle", handler.ToggleInterest)
			profile.POST("/activities/toggle", handler.ToggleActivity)
		}
	}
}
