package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/portfolio-cms/internal/constants"
	"github.com/yukikurage/portfolio-cms/internal/logger"
	"github.com/yukikurage/portfolio-cms/internal/utils"
)

const (
	CSRFFormField = "csrf_token"
	CSRFHeader    = "X-CSRF-Token"
)

// CSRF keeps a per-session token in the gin context for templates and, when
// enforce is set, rejects unsafe requests that do not echo it back through
// the csrf_token form field or the X-CSRF-Token header.
func CSRF(enforce bool, onFailure gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, _ := session.Get(constants.SessionKeyCSRF).(string)
		if token == "" {
			var err error
			if token, err = utils.GenerateToken(32); err != nil {
				logger.Log.Errorw("failed to generate csrf token", "error", err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			session.Set(constants.SessionKeyCSRF, token)
			if err := session.Save(); err != nil {
				logger.Log.Errorw("failed to save session", "error", err)
			}
		}
		c.Set(constants.ContextKeyCSRFToken, token)

		if !enforce || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		sent := c.GetHeader(CSRFHeader)
		if sent == "" {
			sent = c.PostForm(CSRFFormField)
		}
		if subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
			logger.Log.Warnw("csrf token mismatch", "method", c.Request.Method, "path", c.Request.URL.Path)
			onFailure(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CSRFToken returns the token of the current session.
func CSRFToken(c *gin.Context) string {
	return c.GetString(constants.ContextKeyCSRFToken)
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
