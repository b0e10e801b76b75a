// Package server assembles the HTTP routes of the site.
package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/portfolio-cms/internal/config"
	"github.com/yukikurage/portfolio-cms/internal/constants"
	"github.com/yukikurage/portfolio-cms/internal/handlers"
	"github.com/yukikurage/portfolio-cms/internal/logger"
	"github.com/yukikurage/portfolio-cms/internal/middleware"
	"github.com/yukikurage/portfolio-cms/internal/services"
	"github.com/yukikurage/portfolio-cms/internal/views"
)

// App holds the services the routes are built from.
type App struct {
	Config       *config.Config
	Auth         *services.AuthService
	Projects     *services.ProjectService
	Categories   *services.CategoryService
	Achievements *services.AchievementService
	Interactions *services.InteractionService
	Contact      *services.ContactService
	Site         *services.SiteService
	Uploads      handlers.UploadResolver
	Metrics      *middleware.Metrics
	// Store overrides the session store chosen from Config.
	Store sessions.Store
}

// NewSessionStore returns the configured session backend: signed cookies by
// default, Redis when SESSION_STORE=redis.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	secret := []byte(cfg.SessionSecret)

	switch cfg.SessionStore {
	case "", "cookie":
		return cookie.NewStore(secret), nil
	case "redis":
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		store, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // password (empty = no password)
			secret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis session store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

// NewRouter builds the gin engine with every route of the site.
func NewRouter(app *App) (*gin.Engine, error) {
	cfg := app.Config

	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, err
	}

	store := app.Store
	if store == nil {
		if store, err = NewSessionStore(cfg); err != nil {
			return nil, err
		}
	}
	store.Options(middleware.CookieOptions(cfg.SessionMaxAge, cfg.IsProduction()))

	metrics := app.Metrics
	if metrics == nil {
		metrics = middleware.NewMetrics()
	}

	r := gin.New()
	r.HTMLRender = renderer
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	r.Use(
		middleware.RequestLogger(logger.Log),
		metrics.Middleware(),
		gin.CustomRecovery(handlers.Recovery),
		middleware.BodyLimit(cfg.MaxUploadBytes),
		sessions.Sessions(constants.SessionCookieName, store),
		middleware.LoadPrincipal(app.Auth, cfg.SessionMaxAge, cfg.IsProduction()),
		middleware.CSRF(cfg.CSRFEnabled, handlers.CSRFFailure(cfg.MaxUploadBytes)),
	)
	r.NoRoute(handlers.NotFound)

	authHandler := handlers.NewAuthHandler(app.Auth, cfg.SessionMaxAge, cfg.IsProduction())
	siteHandler := handlers.NewSiteHandler(app.Site, app.Achievements, app.Contact, app.Uploads)
	projectHandler := handlers.NewProjectHandler(app.Projects, app.Categories)
	interactionHandler := handlers.NewInteractionHandler(app.Interactions)
	adminHandler := handlers.NewAdminHandler(app.Site, app.Projects, app.Categories, app.Achievements, app.Contact)

	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// Public pages
	r.GET("/", siteHandler.Home)
	r.GET("/about", siteHandler.About)
	r.GET("/contact", siteHandler.ContactPage)
	r.POST("/contact", siteHandler.Contact)
	r.GET("/uploads/:filename", siteHandler.Upload)
	r.GET("/projects", projectHandler.List)
	r.GET("/project/:id", projectHandler.Detail)

	auth := r.Group("/auth")
	{
		auth.GET("/login", authHandler.LoginPage)
		auth.POST("/login", authHandler.Login)
		auth.GET("/register", authHandler.RegisterPage)
		auth.POST("/register", authHandler.Register)
		auth.GET("/logout", authHandler.Logout)
		auth.POST("/logout", authHandler.Logout)
	}

	profile := r.Group("/profile")
	profile.Use(middleware.RequireAuth())
	{
		profile.GET("", authHandler.Profile)
		profile.GET("/edit", authHandler.Profile)
		profile.POST("/edit", authHandler.UpdateProfile)
	}

	api := r.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.POST("/like/:id", interactionHandler.ToggleLike)
		api.POST("/comment/:id", interactionHandler.AddComment)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth(), middleware.RequireAdmin())
	{
		admin.GET("", func(c *gin.Context) { c.Redirect(http.StatusFound, "/admin/dashboard") })
		admin.GET("/dashboard", adminHandler.Dashboard)

		admin.GET("/projects", adminHandler.Projects)
		admin.GET("/projects/new", adminHandler.NewProject)
		admin.POST("/projects/new", adminHandler.CreateProject)
		admin.GET("/projects/:id/edit", adminHandler.EditProject)
		admin.POST("/projects/:id/edit", adminHandler.UpdateProject)
		admin.POST("/projects/:id/delete", adminHandler.DeleteProject)

		admin.GET("/categories", adminHandler.Categories)
		admin.GET("/categories/new", adminHandler.NewCategory)
		admin.POST("/categories/new", adminHandler.CreateCategory)
		admin.GET("/categories/:id/edit", adminHandler.EditCategory)
		admin.POST("/categories/:id/edit", adminHandler.UpdateCategory)
		admin.POST("/categories/:id/delete", adminHandler.DeleteCategory)

		admin.GET("/achievements", adminHandler.Achievements)
		admin.GET("/achievements/new", adminHandler.NewAchievement)
		admin.POST("/achievements/new", adminHandler.CreateAchievement)
		admin.GET("/achievements/:id/edit", adminHandler.EditAchievement)
		admin.POST("/achievements/:id/edit", adminHandler.UpdateAchievement)
		admin.POST("/achievements/:id/delete", adminHandler.DeleteAchievement)

		admin.GET("/messages", adminHandler.Messages)
		admin.POST("/messages/:id/read", adminHandler.MarkMessageRead)
	}

	return r, nil
}
