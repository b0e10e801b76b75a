package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/portfolio-cms/internal/flash"
	"github.com/yukikurage/portfolio-cms/internal/forms"
	"github.com/yukikurage/portfolio-cms/internal/logger"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/services"
)

// AdminHandler serves the administration pages. Every route is behind
// RequireAdmin.
type AdminHandler struct {
	siteService        *services.SiteService
	projectService     *services.ProjectService
	categoryService    *services.CategoryService
	achievementService *services.AchievementService
	contactService     *services.ContactService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	siteService *services.SiteService,
	projectService *services.ProjectService,
	categoryService *services.CategoryService,
	achievementService *services.AchievementService,
	contactService *services.ContactService,
) *AdminHandler {
	return &AdminHandler{
		siteService:        siteService,
		projectService:     projectService,
		categoryService:    categoryService,
		achievementService: achievementService,
		contactService:     contactService,
	}
}

// Dashboard renders the counters and recent activity.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.siteService.Dashboard(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "admin/dashboard", gin.H{"Title": "Dashboard", "Dashboard": dashboard})
}

// Projects lists every project, drafts included.
func (h *AdminHandler) Projects(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	result, err := h.projectService.ListAll(c.Request.Context(), page)
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "admin/projects_list", gin.H{
		"Title":      "Projects",
		"Projects":   result.Projects,
		"Pagination": result.Pagination,
		"PageBase":   "/admin/projects?",
	})
}

// NewProject shows an empty project form.
func (h *AdminHandler) NewProject(c *gin.Context) {
	h.renderProjectForm(c, http.StatusOK, nil, forms.ProjectForm{}, nil)
}

// CreateProject saves a new project.
func (h *AdminHandler) CreateProject(c *gin.Context) {
	form, input, errs, ok := h.bindProject(c)
	if !ok {
		return
	}
	if errs.Any() {
		h.renderProjectForm(c, http.StatusBadRequest, nil, form, errs)
		return
	}

	result, err := h.projectService.Create(c.Request.Context(), input)
	if errors.Is(err, services.ErrCategoryNotFound) {
		errs.Add("category_id", "Invalid category.")
		h.renderProjectForm(c, http.StatusBadRequest, nil, form, errs)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	flashSkipped(c, result.ImageSkipped, result.VideoSkipped)
	flash.Add(c, flash.Success, "Project created successfully!")
	c.Redirect(http.StatusFound, "/admin/projects")
}

// EditProject shows the form of an existing project.
func (h *AdminHandler) EditProject(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	h.renderProjectForm(c, http.StatusOK, project, forms.ProjectFormFrom(project), nil)
}

// UpdateProject saves changes to a project.
func (h *AdminHandler) UpdateProject(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}

	form, input, errs, ok := h.bindProject(c)
	if !ok {
		return
	}
	if errs.Any() {
		h.renderProjectForm(c, http.StatusBadRequest, project, form, errs)
		return
	}

	result, err := h.projectService.Update(c.Request.Context(), project.ID, input)
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		notFound(c)
		return
	case errors.Is(err, services.ErrCategoryNotFound):
		errs.Add("category_id", "Invalid category.")
		h.renderProjectForm(c, http.StatusBadRequest, project, form, errs)
		return
	case err != nil:
		serverError(c, err)
		return
	}

	flashSkipped(c, result.ImageSkipped, result.VideoSkipped)
	flash.Add(c, flash.Success, "Project updated successfully!")
	c.Redirect(http.StatusFound, "/admin/projects")
}

// DeleteProject removes a project with its comments, likes and files.
func (h *AdminHandler) DeleteProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		notFound(c)
		return
	}

	err := h.projectService.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrProjectNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	flash.Add(c, flash.Success, "Project deleted successfully!")
	c.Redirect(http.StatusFound, "/admin/projects")
}

func (h *AdminHandler) loadProject(c *gin.Context) (*models.Project, bool) {
	id, ok := pathID(c)
	if !ok {
		notFound(c)
		return nil, false
	}
	project, err := h.projectService.Get(c.Request.Context(), id)
	if errors.Is(err, services.ErrProjectNotFound) {
		notFound(c)
		return nil, false
	}
	if err != nil {
		serverError(c, err)
		return nil, false
	}
	return project, true
}

func (h *AdminHandler) bindProject(c *gin.Context) (forms.ProjectForm, services.ProjectInput, forms.Errors, bool) {
	var form forms.ProjectForm
	errs, err := forms.Bind(c, &form)
	if err != nil {
		badForm(c, err)
		return form, services.ProjectInput{}, nil, false
	}

	image := forms.File(c, "image", errs, "Only image files are allowed.", forms.ProjectImageExtensions...)
	video := forms.File(c, "video", errs, "Only video files are allowed.", forms.ProjectVideoExtensions...)
	tags := forms.ParseTags(form.Tags)
	forms.CheckTags(tags, errs)

	return form, services.ProjectInput{
		Title:       form.Title,
		Description: form.Description,
		Content:     form.Content,
		CategoryID:  form.Category(),
		ProjectURL:  form.ProjectURL,
		GithubURL:   form.GithubURL,
		Tags:        tags,
		IsPublished: form.IsPublished,
		IsFeatured:  form.IsFeatured,
		Image:       toUpload(image),
		Video:       toUpload(video),
	}, errs, true
}

func (h *AdminHandler) renderProjectForm(c *gin.Context, status int, project *models.Project, form forms.ProjectForm, errs forms.Errors) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}

	data := gin.H{
		"Title":      "New project",
		"Action":     "/admin/projects/new",
		"Form":       form,
		"Errors":     errs,
		"Categories": categories,
	}
	if project != nil {
		data["Title"] = "Edit project"
		data["Action"] = "/admin/projects/" + strconv.FormatUint(project.ID, 10) + "/edit"
		data["Project"] = project
	}
	render(c, status, "admin/project_form", data)
}

func flashSkipped(c *gin.Context, imageSkipped, videoSkipped bool) {
	if imageSkipped {
		flash.Add(c, flash.Error, "The image could not be processed and was not saved.")
	}
	if videoSkipped {
		flash.Add(c, flash.Error, "The video could not be saved.")
	}
}

// Categories lists the categories.
func (h *AdminHandler) Categories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "admin/categories_list", gin.H{"Title": "Categories", "Categories": categories})
}

// NewCategory shows an empty category form.
func (h *AdminHandler) NewCategory(c *gin.Context) {
	renderCategoryForm(c, http.StatusOK, 0, forms.CategoryForm{}, nil)
}

// CreateCategory saves a new category.
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var form forms.CategoryForm
	errs, err := forms.Bind(c, &form)
	if err != nil {
		badForm(c, err)
		return
	}

	if !errs.Any() {
		_, err = h.categoryService.Create(c.Request.Context(), categoryInput(form))
		switch {
		case errors.Is(err, services.ErrCategoryExists):
			errs.Add("name", "A category with this name already exists.")
		case err != nil:
			serverError(c, err)
			return
		default:
			flash.Add(c, flash.Success, "Category created successfully!")
			c.Redirect(http.StatusFound, "/admin/categories")
			return
		}
	}
	renderCategoryForm(c, http.StatusBadRequest, 0, form, errs)
}

// EditCategory shows the form of an existing category.
func (h *AdminHandler) EditCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		notFound(c)
		return
	}
	category, err := h.categoryService.Get(c.Request.Context(), id)
	if errors.Is(err, services.ErrCategoryNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	renderCategoryForm(c, http.StatusOK, id, forms.CategoryFormFrom(category), nil)
}

// UpdateCategory saves changes to a category.
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		notFound(c)
		return
	}

	var form forms.CategoryForm
	errs, err := forms.Bind(c, &form)
	if err != nil {
		badForm(c, err)
		return
	}

	if !errs.Any() {
		_, err = h.categoryService.Update(c.Request.Context(), id, categoryInput(form))
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			notFound(c)
			return
		case errors.Is(err, services.ErrCategoryExists):
			errs.Add("name", "A category with this name already exists.")
		case err != nil:
			serverError(c, err)
			return
		default:
			flash.Add(c, flash.Success, "Category updated successfully!")
			c.Redirect(http.StatusFound, "/admin/categories")
			return
		}
	}
	renderCategoryForm(c, http.StatusBadRequest, id, form, errs)
}

// DeleteCategory removes a category; its projects are kept uncategorized.
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		notFound(c)
		return
	}

	err := h.categoryService.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrCategoryNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	flash.Add(c, flash.Success, "Category deleted successfully!")
	c.Redirect(http.StatusFound, "/admin/categories")
}

func categoryInput(form forms.CategoryForm) services.CategoryInput {
	return services.CategoryInput{Name: form.Name, Description: form.Description, Color: form.Color}
}

func renderCategoryForm(c *gin.Context, status int, id uint64, form forms.CategoryForm, errs forms.Errors) {
	data := gin.H{
		"Title":  "New category",
		"Action": "/admin/categories/new",
		"Form":   form,
		"Errors": errs,
	}
	if id != 0 {
		data["Title"] = "Edit category"
		data["Action"] = "/admin/categories/" + strconv.FormatUint(id, 10) + "/edit"
	}
	render(c, status, "admin/category_form", data)
}

// Achievements lists every achievement, drafts included.
func (h *AdminHandler) Achievements(c *gin.Context) {
	achievements, err := h.achievementService.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "admin/achievements_list", gin.H{"Title": "Achievements", "Achievements": achievements})
}

// NewAchievement shows an empty achievement form.
func (h *AdminHandler) NewAchievement(c *gin.Context) {
	renderAchievementForm(c, http.StatusOK, nil, forms.AchievementForm{}, nil)
}

// CreateAchievement saves a new achievement.
func (h *AdminHandler) CreateAchievement(c *gin.Context) {
	form, input, errs, ok := bindAchievement(c)
	if !ok {
		return
	}
	if errs.Any() {
		renderAchievementForm(c, http.StatusBadRequest, nil, form, errs)
		return
	}

	achievement, imageSkipped, err := h.achievementService.Create(c.Request.Context(), input)
	if err != nil {
		serverError(c, err)
		return
	}

	logger.Log.Infow("achievement created", "achievement_id", achievement.ID)
	flashSkipped(c, imageSkipped, false)
	flash.Add(c, flash.Success, "Achievement created successfully!")
	c.Redirect(http.StatusFound, "/admin/achievements")
}

// EditAchievement shows the form of an existing achievement.
func (h *AdminHandler) EditAchievement(c *gin.Context) {
	achievement, ok := h.loadAchievement(c)
	if !ok {
		return
	}
	renderAchievementForm(c, http.StatusOK, achievement, forms.AchievementFormFrom(achievement), nil)
}

// UpdateAchievement saves changes to an achievement.
func (h *AdminHandler) UpdateAchievement(c *gin.Context) {
	achievement, ok := h.loadAchievement(c)
	if !ok {
		return
	}

	form, input, errs, ok := bindAchievement(c)
	if !ok {
		return
	}
	if errs.Any() {
		renderAchievementForm(c, http.StatusBadRequest, achievement, form, errs)
		return
	}

	_, imageSkipped, err := h.achievementService.Update(c.Request.Context(), achievement.ID, input)
	if errors.Is(err, services.ErrAchievementNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	flashSkipped(c, imageSkipped, false)
	flash.Add(c, flash.Success, "Achievement updated successfully!")
	c.Redirect(http.StatusFound, "/admin/achievements")
}

// DeleteAchievement removes an achievement and its file.
func (h *AdminHandler) DeleteAchievement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		notFound(c)
		return
	}

	err := h.achievementService.Delete(c.Request.Context(), id)
	if errors.Is(err, services.ErrAchievementNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	flash.Add(c, flash.Success, "Achievement deleted successfully!")
	c.Redirect(http.StatusFound, "/admin/achievements")
}

func (h *AdminHandler) loadAchievement(c *gin.Context) (*models.Achievement, bool) {
	id, ok := pathID(c)
	if !ok {
		notFound(c)
		return nil, false
	}
	achievement, err := h.achievementService.Get(c.Request.Context(), id)
	if errors.Is(err, services.ErrAchievementNotFound) {
		notFound(c)
		return nil, false
	}
	if err != nil {
		serverError(c, err)
		return nil, false
	}
	return achievement, true
}

func bindAchievement(c *gin.Context) (forms.AchievementForm, services.AchievementInput, forms.Errors, bool) {
	var form forms.AchievementForm
	errs, err := forms.Bind(c, &form)
	if err != nil {
		badForm(c, err)
		return form, services.AchievementInput{}, nil, false
	}

	image := forms.File(c, "image", errs, "Only images or PDF files are allowed.", forms.AchievementImageExtensions...)

	input := services.AchievementInput{
		Title:          form.Title,
		Description:    form.Description,
		Issuer:         form.Issuer,
		CertificateURL: form.CertificateURL,
		IsPublished:    form.IsPublished,
		Image:          toUpload(image),
	}
	if form.DateAchieved != "" {
		if date, err := time.Parse("2006-01-02", form.DateAchieved); err == nil {
			input.DateAchieved = &date
		}
	}
	return form, input, errs, true
}

func renderAchievementForm(c *gin.Context, status int, achievement *models.Achievement, form forms.AchievementForm, errs forms.Errors) {
	data := gin.H{
		"Title":  "New achievement",
		"Action": "/admin/achievements/new",
		"Form":   form,
		"Errors": errs,
	}
	if achievement != nil {
		data["Title"] = "Edit achievement"
		data["Action"] = "/admin/achievements/" + strconv.FormatUint(achievement.ID, 10) + "/edit"
		data["Achievement"] = achievement
	}
	render(c, status, "admin/achievement_form", data)
}

// Messages lists contact messages, newest first.
func (h *AdminHandler) Messages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	result, err := h.contactService.List(c.Request.Context(), page)
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "admin/messages_list", gin.H{
		"Title":      "Messages",
		"Messages":   result.Messages,
		"Pagination": result.Pagination,
		"PageBase":   "/admin/messages?",
	})
}

// MarkMessageRead flags a contact message as read.
func (h *AdminHandler) MarkMessageRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		notFound(c)
		return
	}

	err := h.contactService.MarkRead(c.Request.Context(), id)
	if errors.Is(err, services.ErrMessageNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	flash.Add(c, flash.Success, "Message marked as read.")
	c.Redirect(http.StatusFound, "/admin/messages")
}
