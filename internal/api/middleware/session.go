package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const sessionKey = "db_session"

// Session gives every request its own storage session bound to the request
// context. Repository calls on it open and finish their own transactions.
func Session(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionKey, db.WithContext(c.Request.Context()))
		c.Next()
	}
}

// GetSession returns the storage session attached by Session.
func GetSession(c *gin.Context) *gorm.DB {
	return c.MustGet(sessionKey).(*gorm.DB)
}
