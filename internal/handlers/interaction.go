package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/portfolio-cms/internal/dto"
	apierrors "github.com/yukikurage/portfolio-cms/internal/errors"
	"github.com/yukikurage/portfolio-cms/internal/forms"
	"github.com/yukikurage/portfolio-cms/internal/middleware"
	"github.com/yukikurage/portfolio-cms/internal/services"
)

// InteractionHandler serves the JSON endpoints behind the like button and
// the comment form.
type InteractionHandler struct {
	interactionService *services.InteractionService
}

// NewInteractionHandler creates a new InteractionHandler.
func NewInteractionHandler(interactionService *services.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// ToggleLike likes or unlikes a project for the signed-in user.
func (h *InteractionHandler) ToggleLike(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	state, err := h.interactionService.ToggleLike(c.Request.Context(), middleware.CurrentUser(c), id)
	if errors.Is(err, services.ErrProjectNotFound) {
		apierrors.NotFound(c, "Project not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LikeResponse{Liked: state.Liked, LikesCount: state.LikesCount})
}

// AddComment posts a comment on a project.
func (h *InteractionHandler) AddComment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		apierrors.NotFound(c, "Project not found")
		return
	}

	var form forms.CommentForm
	errs, err := forms.Bind(c, &form)
	if err != nil {
		apierrors.BadRequest(c, "")
		return
	}
	if errs.Any() {
		apierrors.ValidationFailed(c, errs)
		return
	}

	comment, err := h.interactionService.AddComment(c.Request.Context(), middleware.CurrentUser(c), id, form.Content)
	if errors.Is(err, services.ErrProjectNotFound) {
		apierrors.NotFound(c, "Project not found")
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CommentResponse{Success: true, Comment: dto.ToCommentDTO(comment)})
}
