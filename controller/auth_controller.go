package controller

import (
	"errors"
	"net/http"

	"workcafe/auth"
	"workcafe/model"
	"workcafe/repository"
	"workcafe/utils"

	"github.com/gin-gonic/gin"
)

const (
	msgEmailTaken     = "You've already signed up with that email, log in instead!"
	msgPasswordRepeat = "Passwords do not match."
	msgUnknownEmail   = "That email does not exist, please try again."
	msgWrongPassword  = "Password incorrect, please try again."
)

type AuthController struct {
	Renderer
	Users    *repository.UserRepository
	Sessions *auth.SessionManager
	Hasher   auth.Hasher
}

func (h *AuthController) Register(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.registerForm(c, http.StatusOK, model.RegisterForm{}, gin.H{})
		return
	}

	var form model.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		h.registerForm(c, http.StatusBadRequest, form, gin.H{"errors": fieldErrors(err)})
		return
	}

	ctx := c.Request.Context()
	_, err := h.Users.FindByEmail(ctx, form.Email)
	switch {
	case err == nil:
		h.registerForm(c, http.StatusConflict, form, gin.H{"message": msgEmailTaken})
		return
	case !errors.Is(err, repository.ErrNotFound):
		serverError(c, err)
		return
	}

	if form.Password != form.PasswordRepeat {
		h.registerForm(c, http.StatusBadRequest, form, gin.H{"message": msgPasswordRepeat})
		return
	}

	digest, err := h.Hasher.Hash(form.Password)
	if err != nil {
		serverError(c, err)
		return
	}

	user, err := h.Users.Create(ctx, form.Username, form.Email, digest)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			h.registerForm(c, http.StatusConflict, form, gin.H{"message": msgEmailTaken})
			return
		}
		serverError(c, err)
		return
	}
	utils.Log.WithField("user_id", user.ID).WithField("role", user.Role).Info("user registered")

	if err := h.Sessions.Login(c, user); err != nil {
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthController) Login(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		h.loginForm(c, http.StatusOK, model.LoginForm{}, gin.H{})
		return
	}

	var form model.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.loginForm(c, http.StatusBadRequest, form, gin.H{"errors": fieldErrors(err)})
		return
	}

	user, err := h.Users.FindByEmail(c.Request.Context(), form.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.loginForm(c, http.StatusUnauthorized, form, gin.H{"message": msgUnknownEmail})
			return
		}
		serverError(c, err)
		return
	}

	if !h.Hasher.Verify(user.Password, form.Password) {
		h.loginForm(c, http.StatusUnauthorized, form, gin.H{"message": msgWrongPassword})
		return
	}

	if err := h.Sessions.Login(c, user); err != nil {
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthController) Logout(c *gin.Context) {
	h.Sessions.Logout(c)
	c.Redirect(http.StatusFound, "/")
}

// Passwords are never echoed back into a form.
func (h *AuthController) registerForm(c *gin.Context, status int, form model.RegisterForm, data gin.H) {
	form.Password, form.PasswordRepeat = "", ""
	data["form"] = form
	h.page(c, status, "register", data)
}

func (h *AuthController) loginForm(c *gin.Context, status int, form model.LoginForm, data gin.H) {
	form.Password = ""
	data["form"] = form
	h.page(c, status, "login", data)
}
