package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/portfolio-cms/internal/constants"
	"github.com/yukikurage/portfolio-cms/internal/forms"
	"github.com/yukikurage/portfolio-cms/internal/middleware"
	"github.com/yukikurage/portfolio-cms/internal/services"
	"github.com/yukikurage/portfolio-cms/internal/utils"
)

// ProjectHandler serves the public project listing and detail pages.
type ProjectHandler struct {
	projectService  *services.ProjectService
	categoryService *services.CategoryService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, categoryService *services.CategoryService) *ProjectHandler {
	return &ProjectHandler{
		projectService:  projectService,
		categoryService: categoryService,
	}
}

// projectFilter echoes the listing filters back into the page.
type projectFilter struct {
	CategoryID *uint64
	Tag        string
	Search     string
}

// List renders the published projects, filtered by category, tag or a
// search term.
func (h *ProjectHandler) List(c *gin.Context) {
	filter := projectFilter{
		Tag:    c.Query("tag"),
		Search: c.Query("search"),
	}
	if id, ok := forms.ParseID(c.Query("category")); ok {
		filter.CategoryID = &id
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	ctx := c.Request.Context()
	result, err := h.projectService.ListPublished(ctx, services.ListProjectsInput{
		CategoryID: filter.CategoryID,
		Tag:        filter.Tag,
		Search:     filter.Search,
		Page:       page,
	})
	if err != nil {
		serverError(c, err)
		return
	}
	categories, err := h.categoryService.List(ctx)
	if err != nil {
		serverError(c, err)
		return
	}
	tags, err := h.projectService.ListTags(ctx)
	if err != nil {
		serverError(c, err)
		return
	}

	render(c, http.StatusOK, "projects", gin.H{
		"Title":      "Projects",
		"Projects":   result.Projects,
		"Pagination": result.Pagination,
		"PageBase":   pageBase("/projects", filter),
		"Filter":     filter,
		"Categories": categories,
		"Tags":       tags,
	})
}

// Detail renders a project with its comments and related projects. Drafts
// are only visible to administrators.
func (h *ProjectHandler) Detail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		notFound(c)
		return
	}

	detail, err := h.projectService.Detail(c.Request.Context(), id, middleware.CurrentUser(c))
	if errors.Is(err, services.ErrProjectNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	pageURL := requestBaseURL(c) + "/project/" + strconv.FormatUint(id, 10)
	render(c, http.StatusOK, "project_detail", gin.H{
		"Title":      detail.Project.Title,
		"Detail":     detail,
		"ShareURL":   utils.LinkedInShareURL(detail.Project.Title, utils.Truncate(detail.Project.Description, 200), pageURL),
		"CommentMax": constants.CommentMaxLength,
	})
}

// pageBase returns the listing URL with the current filters, ready for a
// page parameter to be appended.
func pageBase(path string, filter projectFilter) string {
	q := url.Values{}
	if filter.CategoryID != nil {
		q.Set("category", strconv.FormatUint(*filter.CategoryID, 10))
	}
	if filter.Tag != "" {
		q.Set("tag", filter.Tag)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if len(q) == 0 {
		return path + "?"
	}
	return path + "?" + q.Encode() + "&"
}

func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
