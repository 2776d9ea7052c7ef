package router

import (
	"github.com/AndrewHnidets/demo-repositories/internal/auth"
	"github.com/AndrewHnidets/demo-repositories/internal/config"
	"github.com/AndrewHnidets/demo-repositories/internal/handler"
	"github.com/AndrewHnidets/demo-repositories/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires the HTTP surface.
func Setup(
	cfg *config.Config,
	db *gorm.DB,
	tokens *auth.Manager,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	projectHandler *handler.ProjectHandler,
) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		AllowCredentials: false,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "marketplace-service",
		})
	})

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Public listing and detail see only published projects; a token, when
		// present, unlocks the viewer-dependent parts.
		projects := v1.Group("/projects", middleware.OptionalAuth(tokens, db))
		{
			projects.GET("", projectHandler.List)
			projects.GET("/:slug", projectHandler.Get)
		}

		v1.GET("/filters/price-range", projectHandler.MaxPrice)

		owned := v1.Group("/my/projects", middleware.Auth(tokens, db))
		{
			owned.POST("", projectHandler.Create)
			owned.GET("/:slug", projectHandler.GetOwn)
			owned.PUT("/:id", projectHandler.Update)
			owned.DELETE("/:id", projectHandler.Delete)
			owned.DELETE("/:id/photos", projectHandler.CleanUpPhotos)
			owned.DELETE("/:id/photos/:photoId", projectHandler.RemovePhoto)
		}

		users := v1.Group("/users", middleware.Auth(tokens, db))
		{
			users.GET("/me", userHandler.GetProfile)
			users.PUT("/me", userHandler.UpdateProfile)
			users.PUT("/me/password", userHandler.UpdatePassword)
			users.PUT("/me/settings", userHandler.UpdateSettings)
			users.PUT("/me/persona", userHandler.SwitchPersona)
			users.POST("/me/avatar", userHandler.UpdateAvatar)
			users.DELETE("/me/avatar", userHandler.ResetAvatar)
			users.DELETE("/me", userHandler.DeleteAccount)
		}
	}

	return r
}
