package models

import "github.com/gin-gonic/gin"

const contextUserKey = "user"

// SetUserInContext stores the authenticated user on the gin context.
func SetUserInContext(c *gin.Context, u *User) {
	c.Set(contextUserKey, u)
}

// GetUserFromContext returns the authenticated user stored by SetUserInContext,
// or nil when the request is anonymous.
func GetUserFromContext(c *gin.Context) *User {
	if c == nil {
		return nil
	}
	v, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	u, _ := v.(*User)
	return u
}

// GetUsernameFromContext returns the authenticated username or "".
func GetUsernameFromContext(c *gin.Context) string {
	if u := GetUserFromContext(c); u != nil {
		return u.Username
	}
	return ""
}
