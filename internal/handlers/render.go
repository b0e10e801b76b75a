package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/portfolio-cms/internal/errors"
	"github.com/yukikurage/portfolio-cms/internal/flash"
	"github.com/yukikurage/portfolio-cms/internal/forms"
	"github.com/yukikurage/portfolio-cms/internal/logger"
	"github.com/yukikurage/portfolio-cms/internal/middleware"
	"github.com/yukikurage/portfolio-cms/internal/services"
)

// render writes page with the fields every template expects: the current
// user, the CSRF token, pending flash messages and an error map.
func render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = middleware.CurrentUser(c)
	data["CSRFToken"] = middleware.CSRFToken(c)
	if _, ok := c.Get(sessions.DefaultKey); ok {
		data["Flashes"] = flash.Pop(c)
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.Errors{}
	}
	c.HTML(status, page, data)
}

func isAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// renderError shows the error page, or a JSON error under /api.
func renderError(c *gin.Context, status int, message string) {
	if isAPI(c) {
		apierrors.RespondWithError(c, status, apierrors.NewAPIError(errorCode(status), message))
		return
	}
	render(c, status, "error", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
	c.Abort()
}

func errorCode(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return apierrors.ErrCodeUnauthorized
	case http.StatusForbidden:
		return apierrors.ErrCodeForbidden
	case http.StatusNotFound:
		return apierrors.ErrCodeNotFound
	case http.StatusInternalServerError:
		return apierrors.ErrCodeInternalError
	default:
		return apierrors.ErrCodeInvalidInput
	}
}

func notFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "The page you are looking for does not exist.")
}

// serverError logs err and answers 500.
func serverError(c *gin.Context, err error) {
	logger.Log.Errorw("request failed",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", c.GetString(middleware.ContextKeyRequestID),
		"error", err,
	)
	if isAPI(c) {
		apierrors.InternalError(c, "")
		return
	}
	renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

// badForm answers a request whose body could not be parsed.
func badForm(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		renderError(c, http.StatusRequestEntityTooLarge, "The upload is too large.")
		return
	}
	logger.Log.Warnw("malformed form", "path", c.Request.URL.Path, "error", err)
	renderError(c, http.StatusBadRequest, "The request could not be read.")
}

// NotFound renders the 404 page for unmatched routes.
func NotFound(c *gin.Context) {
	notFound(c)
}

// Recovery renders the 500 page after a panic.
func Recovery(c *gin.Context, recovered any) {
	logger.Log.Errorw("panic recovered",
		"path", c.Request.URL.Path,
		"request_id", c.GetString(middleware.ContextKeyRequestID),
		"panic", recovered,
	)
	renderError(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

// CSRFFailure answers requests rejected by the CSRF check. Bodies over
// maxBytes never reach the token, so they are reported as too large.
func CSRFFailure(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.ContentLength > maxBytes {
			renderError(c, http.StatusRequestEntityTooLarge, "The upload is too large.")
			return
		}
		if isAPI(c) {
			apierrors.InvalidCSRFToken(c)
			return
		}
		renderError(c, http.StatusBadRequest, "The form has expired. Please go back, reload the page and try again.")
	}
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// toUpload adapts an uploaded file for the services; nil stays nil.
func toUpload(header *multipart.FileHeader) *services.Upload {
	if header == nil {
		return nil
	}
	return &services.Upload{
		Filename: header.Filename,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

// pathID reads the :id parameter.
func pathID(c *gin.Context) (uint64, bool) {
	return forms.ParseID(c.Param("id"))
}
