package models

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetUserFromContext(c))
	assert.Empty(t, GetUsernameFromContext(c))

	SetUserInContext(c, &User{ID: "1", Username: "alice"})
	assert.Equal(t, "1", GetUserFromContext(c).ID)
	assert.Equal(t, "alice", GetUsernameFromContext(c))

	c.Set(contextUserKey, "not a user")
	assert.Nil(t, GetUserFromContext(c))

	assert.Nil(t, GetUserFromContext(nil))
}
