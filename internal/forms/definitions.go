package forms

import (
	"strconv"
	"strings"

	"github.com/yukikurage/portfolio-cms/internal/models"
)

// Allowed upload extensions per field.
var (
	ProjectImageExtensions     = []string{"jpg", "jpeg", "png", "gif", "webp"}
	ProjectVideoExtensions     = []string{"mp4", "avi", "mov", "webm"}
	AchievementImageExtensions = []string{"jpg", "jpeg", "png", "gif", "pdf"}
	ProfileImageExtensions     = []string{"jpg", "jpeg", "png", "gif"}
)

type LoginForm struct {
	Email      string `form:"email" binding:"required,email"`
	Password   string `form:"password" binding:"required"`
	RememberMe bool   `form:"remember_me"`
}

func (f *LoginForm) Normalize() { trim(&f.Email) }

type RegisterForm struct {
	Name      string `form:"name" binding:"required,min=2,max=100"`
	Email     string `form:"email" binding:"required,email,max=120"`
	Password  string `form:"password" binding:"required,min=6,max=72"`
	Password2 string `form:"password2" binding:"required,eqfield=Password"`
	Bio       string `form:"bio" binding:"max=500"`
}

func (f *RegisterForm) Normalize() { trim(&f.Name, &f.Email, &f.Bio) }

type ProjectForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description" binding:"required"`
	Content     string `form:"content"`
	CategoryID  uint64 `form:"category_id"`
	ProjectURL  string `form:"project_url" binding:"omitempty,url,max=300"`
	GithubURL   string `form:"github_url" binding:"omitempty,url,max=300"`
	Tags        string `form:"tags"`
	IsPublished bool   `form:"is_published"`
	IsFeatured  bool   `form:"is_featured"`
}

func (f *ProjectForm) Normalize() {
	trim(&f.Title, &f.Description, &f.Content, &f.ProjectURL, &f.GithubURL, &f.Tags)
}

// Category returns the selected category, nil for the "no category" choice.
func (f *ProjectForm) Category() *uint64 {
	if f.CategoryID == 0 {
		return nil
	}
	id := f.CategoryID
	return &id
}

// ProjectFormFrom prefills the form for editing p.
func ProjectFormFrom(p *models.Project) ProjectForm {
	form := ProjectForm{
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		ProjectURL:  p.ProjectURL,
		GithubURL:   p.GithubURL,
		Tags:        strings.Join(p.TagNames(), ", "),
		IsPublished: p.IsPublished,
		IsFeatured:  p.IsFeatured,
	}
	if p.CategoryID != nil {
		form.CategoryID = *p.CategoryID
	}
	return form
}

type AchievementForm struct {
	Title          string `form:"title" binding:"required,max=200"`
	Description    string `form:"description" binding:"required"`
	Issuer         string `form:"issuer" binding:"max=100"`
	DateAchieved   string `form:"date_achieved" binding:"omitempty,datetime=2006-01-02"`
	CertificateURL string `form:"certificate_url" binding:"omitempty,url,max=300"`
	IsPublished    bool   `form:"is_published"`
}

func (f *AchievementForm) Normalize() {
	trim(&f.Title, &f.Description, &f.Issuer, &f.DateAchieved, &f.CertificateURL)
}

// AchievementFormFrom prefills the form for editing a.
func AchievementFormFrom(a *models.Achievement) AchievementForm {
	form := AchievementForm{
		Title:          a.Title,
		Description:    a.Description,
		Issuer:         a.Issuer,
		CertificateURL: a.CertificateURL,
		IsPublished:    a.IsPublished,
	}
	if a.DateAchieved != nil {
		form.DateAchieved = a.DateAchieved.Format("2006-01-02")
	}
	return form
}

type CategoryForm struct {
	Name        string `form:"name" binding:"required,max=50"`
	Description string `form:"description" binding:"max=200"`
	Color       string `form:"color" binding:"omitempty,hexcolor"`
}

func (f *CategoryForm) Normalize() { trim(&f.Name, &f.Description, &f.Color) }

// CategoryFormFrom prefills the form for editing c.
func CategoryFormFrom(c *models.Category) CategoryForm {
	return CategoryForm{Name: c.Name, Description: c.Description, Color: c.Color}
}

type CommentForm struct {
	Content string `form:"content" binding:"required,max=1000"`
}

func (f *CommentForm) Normalize() { trim(&f.Content) }

type ContactForm struct {
	Name    string `form:"name" binding:"required,max=100"`
	Email   string `form:"email" binding:"required,email,max=120"`
	Subject string `form:"subject" binding:"required,max=200"`
	Message string `form:"message" binding:"required,min=10,max=2000"`
}

func (f *ContactForm) Normalize() { trim(&f.Name, &f.Email, &f.Subject, &f.Message) }

type ProfileForm struct {
	Name string `form:"name" binding:"required,min=2,max=100"`
	Bio  string `form:"bio" binding:"max=500"`
}

func (f *ProfileForm) Normalize() { trim(&f.Name, &f.Bio) }

// ProfileFormFrom prefills the form with the user's profile.
func ProfileFormFrom(u *models.User) ProfileForm {
	return ProfileForm{Name: u.Name, Bio: u.Bio}
}

// ParseID parses a positive path identifier.
func ParseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
