package controller

import (
	"net/http"
	"strconv"
	"strings"

	"workcafe/repository"
	"workcafe/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Report binding errors under the submitted input names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		repository.RegisterRules(v)
	}
}

// Renderer turns a page name and its data into a response: an HTML
// template when templates are loaded, a JSON page description otherwise.
type Renderer struct {
	HTML bool
}

func (r Renderer) page(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	user := utils.CurrentUser(c)
	data["current_user"] = user
	data["is_admin"] = user.IsAdmin()

	if r.HTML {
		c.HTML(status, name+".html", data)
		return
	}
	c.JSON(status, gin.H{"page": name, "data": data})
}

func (r Renderer) notFound(c *gin.Context, message string) {
	r.page(c, http.StatusNotFound, "not_found", gin.H{"error": message})
}

func serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Internal server error",
	})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// checked reads an HTML checkbox; an absent box is false.
func checked(c *gin.Context, name string) bool {
	return parseCheckbox(c.PostForm(name))
}

func parseCheckbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "on", "true", "1", "x":
		return true
	}
	return false
}

// fieldErrors returns per-field messages for a binding or store
// validation failure.
func fieldErrors(err error) map[string]string {
	return repository.NewValidationError(err).Fields
}
