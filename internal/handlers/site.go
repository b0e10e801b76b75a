package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/portfolio-cms/internal/flash"
	"github.com/yukikurage/portfolio-cms/internal/forms"
	"github.com/yukikurage/portfolio-cms/internal/services"
)

// UploadResolver maps a stored upload name to a file on disk.
type UploadResolver interface {
	Path(name string) (string, error)
}

// SiteHandler serves the public pages that are not about a single project.
type SiteHandler struct {
	siteService        *services.SiteService
	achievementService *services.AchievementService
	contactService     *services.ContactService
	uploads            UploadResolver
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(
	siteService *services.SiteService,
	achievementService *services.AchievementService,
	contactService *services.ContactService,
	uploads UploadResolver,
) *SiteHandler {
	return &SiteHandler{
		siteService:        siteService,
		achievementService: achievementService,
		contactService:     contactService,
		uploads:            uploads,
	}
}

// Home renders the landing page.
func (h *SiteHandler) Home(c *gin.Context) {
	home, err := h.siteService.Home(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "index", gin.H{"Home": home})
}

// About renders the about page with the published achievements.
func (h *SiteHandler) About(c *gin.Context) {
	achievements, err := h.achievementService.ListPublished(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	render(c, http.StatusOK, "about", gin.H{"Title": "About", "Achievements": achievements})
}

// ContactPage shows the contact form.
func (h *SiteHandler) ContactPage(c *gin.Context) {
	render(c, http.StatusOK, "contact", gin.H{"Title": "Contact", "Form": forms.ContactForm{}})
}

// Contact stores a contact message and notifies the owner by email. The
// message is kept even when the email cannot be sent.
func (h *SiteHandler) Contact(c *gin.Context) {
	var form forms.ContactForm
	errs, err := forms.Bind(c, &form)
	if err != nil {
		badForm(c, err)
		return
	}
	if errs.Any() {
		render(c, http.StatusBadRequest, "contact", gin.H{"Title": "Contact", "Form": form, "Errors": errs})
		return
	}

	notified, err := h.contactService.Submit(c.Request.Context(), services.ContactInput{
		Name:    form.Name,
		Email:   form.Email,
		Subject: form.Subject,
		Message: form.Message,
	})
	if err != nil {
		serverError(c, err)
		return
	}

	if notified {
		flash.Add(c, flash.Success, "Message sent! I will get back to you soon.")
	} else {
		flash.Add(c, flash.Info, "Message received! I will get back to you soon.")
	}
	c.Redirect(http.StatusFound, "/contact")
}

// Upload serves a stored upload by name.
func (h *SiteHandler) Upload(c *gin.Context) {
	path, err := h.uploads.Path(c.Param("filename"))
	if err != nil {
		notFound(c)
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		notFound(c)
		return
	}
	c.File(path)
}
