package auth

import (
	"context"
	"net/http"
	"time"

	"workcafe/model"
	"workcafe/utils"

	"github.com/gin-gonic/gin"
)

// UserFinder is the part of the account store the session layer needs.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

type SessionOptions struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// SessionManager keeps the authenticated identity in a signed cookie.
type SessionManager struct {
	users UserFinder
	opts  SessionOptions
}

func NewSessionManager(users UserFinder, opts SessionOptions) *SessionManager {
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	return &SessionManager{users: users, opts: opts}
}

// Middleware resolves the session cookie to a user for every request.
// Broken, expired or orphaned sessions are dropped and the request goes on
// anonymously.
func (m *SessionManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(m.opts.CookieName)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		claims, err := utils.ValidateToken(m.opts.Secret, raw)
		if err != nil {
			utils.Log.WithError(err).Debug("dropping invalid session")
			m.clearCookie(c)
			c.Next()
			return
		}

		user, err := m.users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			utils.Log.WithError(err).WithField("user_id", claims.UserID).Debug("session user not loaded")
			m.clearCookie(c)
			c.Next()
			return
		}
		c.Set(utils.ContextUserKey, user)

		if claims.NeedsRenewal(m.opts.TTL, time.Now()) {
			if err := m.Login(c, user); err != nil {
				utils.Log.WithError(err).Warn("session renewal failed")
			}
		}
		c.Next()
	}
}

// Login marks user as the authenticated identity of this and later requests.
func (m *SessionManager) Login(c *gin.Context, user *model.User) error {
	token, err := utils.GenerateSessionToken(m.opts.Secret, user.ID, m.opts.TTL)
	if err != nil {
		return err
	}
	m.setCookie(c, token, int(m.opts.TTL.Seconds()))
	c.Set(utils.ContextUserKey, user)
	return nil
}

func (m *SessionManager) Logout(c *gin.Context) {
	m.clearCookie(c)
	c.Set(utils.ContextUserKey, (*model.User)(nil))
}

func (m *SessionManager) clearCookie(c *gin.Context) {
	m.setCookie(c, "", -1)
}

func (m *SessionManager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, value, maxAge, "/", "", m.opts.Secure, true)
}
