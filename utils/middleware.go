package utils

import (
	"net/http"

	"workcafe/model"

	"github.com/gin-gonic/gin"
)

// ContextUserKey holds the authenticated *model.User in the gin context.
const ContextUserKey = "current_user"

func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// AdminRequired rejects everyone but administrators before the handler
// runs, so a refused request never touches the store.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Forbidden: admin access required",
			})
			return
		}
		c.Next()
	}
}

// LoginRequired sends anonymous visitors to the login page.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
