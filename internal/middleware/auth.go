package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/portfolio-cms/internal/constants"
	apierrors "github.com/yukikurage/portfolio-cms/internal/errors"
	"github.com/yukikurage/portfolio-cms/internal/flash"
	"github.com/yukikurage/portfolio-cms/internal/logger"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/services"
)

// SessionKeyRemember marks sessions that should outlive the browser.
const SessionKeyRemember = "remember"

// UserLoader resolves the session user.
type UserLoader interface {
	GetUser(ctx context.Context, id uint64) (*models.User, error)
}

// LoadPrincipal loads the signed-in user, if any, into the gin context. A
// session pointing at a deleted user is cleared; on other lookup failures the
// request continues anonymously and the session is kept.
func LoadPrincipal(users UserLoader, defaultMaxAge int, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if remember, _ := session.Get(SessionKeyRemember).(bool); remember {
			session.Options(CookieOptions(constants.RememberMeMaxAgeSecond, secure))
		} else {
			session.Options(CookieOptions(defaultMaxAge, secure))
		}

		id, ok := sessionUserID(session.Get(constants.ContextKeyUserID))
		if !ok {
			c.Next()
			return
		}

		user, err := users.GetUser(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, services.ErrUserNotFound) {
				logger.Log.Errorw("failed to load session user", "user_id", id, "error", err)
				c.Next()
				return
			}
			session.Delete(constants.ContextKeyUserID)
			session.Delete(SessionKeyRemember)
			_ = session.Save()
			c.Next()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// CookieOptions returns the session cookie options for maxAge seconds.
func CookieOptions(maxAge int, secure bool) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// RequireAuth checks if the user is authenticated. Pages redirect to the
// login form keeping the requested URI; API routes answer 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}

		if isAPIRequest(c) {
			apierrors.Unauthorized(c, "")
			return
		}

		flash.Add(c, flash.Info, "Please log in to access this page.")
		c.Redirect(http.StatusFound, "/auth/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// RequireAdmin only lets administrators through. Place it after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := CurrentUser(c); user != nil && user.IsAdmin {
			c.Next()
			return
		}

		if isAPIRequest(c) {
			apierrors.Forbidden(c, "")
			return
		}

		flash.Add(c, flash.Error, "Access denied. Only administrators can access this page.")
		c.Redirect(http.StatusFound, "/")
		c.Abort()
	}
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(constants.ContextKeyUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return sessionUserID(userID)
}

func sessionUserID(v interface{}) (uint64, bool) {
	switch id := v.(type) {
	case uint64:
		return id, id != 0
	case uint:
		return uint64(id), id != 0
	case int:
		if id <= 0 {
			return 0, false
		}
		return uint64(id), true
	default:
		return 0, false
	}
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}
