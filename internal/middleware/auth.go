package middleware

import (
	"net/http"
	"strings"

	"github.com/AndrewHnidets/demo-repositories/internal/auth"
	"github.com/AndrewHnidets/demo-repositories/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ContextUserKey holds the authenticated *model.User in the gin context.
const ContextUserKey = "auth_user"

// Auth rejects requests without a valid bearer token and loads the user.
func Auth(manager *auth.Manager, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := resolveUser(c, manager, db)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// OptionalAuth loads the user when a valid token is present and passes the
// request through either way. Listing visibility depends on it.
func OptionalAuth(manager *auth.Manager, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := resolveUser(c, manager, db); ok {
			c.Set(ContextUserKey, user)
		}
		c.Next()
	}
}

func resolveUser(c *gin.Context, manager *auth.Manager, db *gorm.DB) (*model.User, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	claims, err := manager.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}
	var user model.User
	if err := db.Preload("Setting").First(&user, claims.UserID).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// CurrentUser returns the user set by Auth/OptionalAuth, nil for guests.
func CurrentUser(c *gin.Context) *model.User {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*model.User)
	return user
}
