package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/scentvault/scentvault-backend/config"
	"github.com/scentvault/scentvault-backend/internal/app/controller"
	"github.com/scentvault/scentvault-backend/internal/middleware"
)

// Controllers HTTP handlers mounted by the router
type Controllers struct {
	Auth        *controller.AuthController
	Fragrance   *controller.FragranceController
	Comment     *controller.CommentController
	Taxonomy    *controller.TaxonomyController
	Retailer    *controller.RetailerController
	Maintenance *controller.MaintenanceController
	Upload      *controller.UploadController
	Feed        *controller.FeedController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
	config         *config.Config
}

func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", healthCheck)

	ctrl := r.controllers
	auth := r.authMiddleware

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/metrics", gin.WrapH(promhttp.Handler()))

		v1.GET("/fragrances", ctrl.Fragrance.ListFragrances)
		v1.GET("/fragrances/:id", ctrl.Fragrance.GetFragrance)
		v1.GET("/fragrances/:id/comments", ctrl.Comment.ListComments)
		v1.GET("/search", ctrl.Fragrance.Search)
		v1.GET("/brands", ctrl.Taxonomy.ListBrands)
		v1.GET("/notes", ctrl.Taxonomy.ListNotes)
		v1.GET("/notes/:id", ctrl.Taxonomy.GetNote)
		v1.GET("/ws/fragrances/:id", ctrl.Feed.Subscribe)

		authGroup := v1.Group("/auth")
		authGroup.Use(auth.Authenticate())
		{
			authGroup.POST("/sync", ctrl.Auth.Sync)
			authGroup.GET("/me", ctrl.Auth.GetMe)
		}

		me := v1.Group("/users/me")
		me.Use(auth.Authenticate())
		{
			me.POST("/avatar/presign", ctrl.Auth.PresignAvatar)
			me.PUT("/avatar", ctrl.Auth.UpdateAvatar)
			me.DELETE("/avatar", ctrl.Auth.RemoveAvatar)
		}

		comments := v1.Group("/comments")
		comments.Use(auth.Authenticate())
		{
			comments.POST("", r.rateLimiter.Middleware(), ctrl.Comment.CreateComment)
			comments.POST("/:id/helpful", r.rateLimiter.Middleware(), ctrl.Comment.MarkHelpful)
			comments.DELETE("/:id", auth.RequireAdmin(), ctrl.Comment.DeleteComment)
		}

		admin := v1.Group("/admin")
		admin.Use(auth.Authenticate(), auth.RequireAdmin())
		{
			admin.POST("/fragrances", ctrl.Fragrance.CreateFragrance)
			admin.PUT("/fragrances/:id", ctrl.Fragrance.UpdateFragrance)
			admin.DELETE("/fragrances/:id", ctrl.Fragrance.DeleteFragrance)
			admin.POST("/fragrances/:id/links", ctrl.Retailer.AddLink)
			admin.DELETE("/fragrances/:id/links/:linkId", ctrl.Retailer.DeleteLink)

			admin.POST("/notes", ctrl.Taxonomy.CreateNote)
			admin.PUT("/notes/:id", ctrl.Taxonomy.UpdateNote)
			admin.DELETE("/notes/:id", ctrl.Taxonomy.DeleteNote)

			admin.GET("/retailers", ctrl.Retailer.ListRetailers)
			admin.POST("/retailers", ctrl.Retailer.CreateRetailer)
			admin.PUT("/retailers/:id", ctrl.Retailer.UpdateRetailer)
			admin.DELETE("/retailers/:id", ctrl.Retailer.DeleteRetailer)

			admin.POST("/bulk-operations", ctrl.Maintenance.BulkOperation)
			admin.POST("/import", ctrl.Maintenance.Import)
			admin.POST("/uploads/presign", ctrl.Upload.PresignUpload)
		}
	}

	return router
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "ScentVault API is running",
	})
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
