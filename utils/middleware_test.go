package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"workcafe/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGuardedEngine(user *model.User, guard gin.HandlerFunc, reached *bool) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(ContextUserKey, user)
		}
		c.Next()
	})
	r.GET("/guarded", guard, func(c *gin.Context) {
		*reached = true
		c.Status(http.StatusOK)
	})
	return r
}

func TestAdminRequired(t *testing.T) {
	cases := []struct {
		name   string
		user   *model.User
		status int
	}{
		{"anonymous", nil, http.StatusForbidden},
		{"member", &model.User{ID: 1, Role: model.Member}, http.StatusForbidden},
		{"admin", &model.User{ID: 2, Role: model.Admin}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			w := httptest.NewRecorder()
			newGuardedEngine(tc.user, AdminRequired(), &reached).
				ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.status == http.StatusOK, reached)
		})
	}
}

func TestLoginRequiredRedirectsAnonymous(t *testing.T) {
	reached := false
	w := httptest.NewRecorder()
	newGuardedEngine(nil, LoginRequired(), &reached).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.False(t, reached)
}
