package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/portfolio-cms/internal/constants"
	"github.com/yukikurage/portfolio-cms/internal/flash"
	"github.com/yukikurage/portfolio-cms/internal/forms"
	"github.com/yukikurage/portfolio-cms/internal/logger"
	"github.com/yukikurage/portfolio-cms/internal/middleware"
	"github.com/yukikurage/portfolio-cms/internal/models"
	"github.com/yukikurage/portfolio-cms/internal/services"
	"github.com/yukikurage/portfolio-cms/internal/utils"
)

// AuthHandler serves registration, login and the user's own profile.
type AuthHandler struct {
	authService *services.AuthService
	maxAge      int
	secure      bool
}

// NewAuthHandler creates a new AuthHandler. maxAge is the lifetime of a
// session without "remember me"; secure marks the cookie Secure.
func NewAuthHandler(authService *services.AuthService, maxAge int, secure bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		maxAge:      maxAge,
		secure:      secure,
	}
}

// LoginPage shows the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, "login", gin.H{
		"Title": "Log in",
		"Form":  forms.LoginForm{},
		"Next":  c.Query("next"),
	})
}

// Login authenticates the user and starts the session.
func (h *AuthHandler) Login(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form forms.LoginForm
	errs, err := forms.Bind(c, &form)
	if err != nil {
		badForm(c, err)
		return
	}

	next := c.Query("next")
	if errs.Any() {
		render(c, http.StatusBadRequest, "login", gin.H{"Title": "Log in", "Form": form, "Errors": errs, "Next": next})
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    form.Email,
		Password: form.Password,
	})
	if errors.Is(err, services.ErrInvalidCredentials) {
		form.Password = ""
		flash.Add(c, flash.Error, "Invalid email or password.")
		render(c, http.StatusUnauthorized, "login", gin.H{"Title": "Log in", "Form": form, "Next": next})
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	if err := h.signIn(c, user, form.RememberMe); err != nil {
		serverError(c, err)
		return
	}

	flash.Add(c, flash.Success, "Welcome back, "+user.Name+"!")
	c.Redirect(http.StatusFound, utils.SafeRedirectTarget(next, "/"))
}

// RegisterPage shows the registration form.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, "register", gin.H{"Title": "Register", "Form": forms.RegisterForm{}})
}

// Register creates an account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	var form forms.RegisterForm
	errs, err := forms.Bind(c, &form)
	if err != nil {
		badForm(c, err)
		return
	}

	if !errs.Any() {
		user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
			Name:     form.Name,
			Email:    form.Email,
			Password: form.Password,
			Bio:      form.Bio,
		})
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			errs.Add("email", "This email is already registered.")
		case errors.Is(err, services.ErrPasswordTooShort):
			errs.Add("password", "Password is too short.")
		case errors.Is(err, services.ErrPasswordTooLong), errors.Is(err, services.ErrFailedToHashPassword):
			errs.Add("password", "Password is too long.")
		case err != nil:
			serverError(c, err)
			return
		default:
			if err := h.signIn(c, user, false); err != nil {
				serverError(c, err)
				return
			}
			flash.Add(c, flash.Success, "Account created. Welcome, "+user.Name+"!")
			c.Redirect(http.StatusFound, "/")
			return
		}
	}

	form.Password, form.Password2 = "", ""
	render(c, http.StatusBadRequest, "register", gin.H{"Title": "Register", "Form": form, "Errors": errs})
}

// Logout ends the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(constants.ContextKeyUserID)
	session.Delete(middleware.SessionKeyRemember)
	session.Options(middleware.CookieOptions(h.maxAge, h.secure))
	if err := session.Save(); err != nil {
		serverError(c, err)
		return
	}

	flash.Add(c, flash.Info, "You have been logged out.")
	c.Redirect(http.StatusFound, "/")
}

// Profile shows the profile form of the signed-in user.
func (h *AuthHandler) Profile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	render(c, http.StatusOK, "profile", gin.H{"Title": "My profile", "Form": forms.ProfileFormFrom(user)})
}

// UpdateProfile saves the profile form, including an optional new picture.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var form forms.ProfileForm
	errs, err := forms.Bind(c, &form)
	if err != nil {
		badForm(c, err)
		return
	}
	image := forms.File(c, "profile_image", errs, "Only image files are allowed.", forms.ProfileImageExtensions...)

	if errs.Any() {
		render(c, http.StatusBadRequest, "profile", gin.H{"Title": "My profile", "Form": form, "Errors": errs})
		return
	}

	updated, imageSkipped, err := h.authService.UpdateProfile(c.Request.Context(), user.ID, services.ProfileInput{
		Name:  form.Name,
		Bio:   form.Bio,
		Image: toUpload(image),
	})
	if err != nil {
		serverError(c, err)
		return
	}

	if imageSkipped {
		flash.Add(c, flash.Error, "The picture could not be processed and was not saved.")
	}
	logger.Log.Infow("profile updated", "user_id", updated.ID)
	flash.Add(c, flash.Success, "Profile updated.")
	c.Redirect(http.StatusFound, "/profile")
}

func (h *AuthHandler) signIn(c *gin.Context, user *models.User, remember bool) error {
	maxAge := h.maxAge
	if remember {
		maxAge = constants.RememberMeMaxAgeSecond
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	session.Set(middleware.SessionKeyRemember, remember)
	session.Options(middleware.CookieOptions(maxAge, h.secure))
	if err := session.Save(); err != nil {
		return err
	}

	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(constants.ContextKeyUser, user)
	return nil
}
