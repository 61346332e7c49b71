package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"atelier/web/internal/config"
	"atelier/web/internal/content"
	"atelier/web/internal/middleware"
	"atelier/web/internal/service"
	"atelier/web/internal/session"
	"atelier/web/internal/work"
)

type HandlerSet struct {
	log    zerolog.Logger
	cfg    *config.AppConfig
	works  *service.WorkService
	client *content.Client
	guard  *session.Guard
	store  session.CredentialStore
	tmpl   map[string]*template.Template
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	works *service.WorkService,
	client *content.Client,
	guard *session.Guard,
	store session.CredentialStore,
) (HandlerSet, error) {
	templates, err := loadTemplates(cfg.TemplateDir)
	if err != nil {
		return HandlerSet{}, fmt.Errorf("load templates: %w", err)
	}

	return HandlerSet{
		log:    log,
		cfg:    cfg,
		works:  works,
		client: client,
		guard:  guard,
		store:  store,
		tmpl:   templates,
	}, nil
}

func (h HandlerSet) Register(engine *gin.Engine) {
	engine.GET("/", h.Home)
	engine.GET("/about", h.About)
	engine.GET("/contact", h.Contact)
	engine.GET("/works", h.Works)
	engine.GET("/works/:category", h.CategoryWorks)
	engine.GET("/works/:category/:id", h.WorkDetail)
	engine.NoRoute(h.NotFound)

	admin := engine.Group("/admin")
	admin.Use(middleware.CSRF(h.cfg.Session.CookieSecure))

	admin.GET("/login", h.LoginForm)
	admin.POST("/login", h.LoginSubmit)
	admin.GET("/logout", h.guard.Logout)

	protected := admin.Group("")
	protected.Use(h.guard.Middleware())
	protected.GET("/dashboard", h.Dashboard)
	protected.GET("/works", h.AdminWorks)
	protected.GET("/works/new", h.CreateWorkForm)
	protected.POST("/works", h.CreateWorkSubmit)
	protected.GET("/works/:id", h.AdminWorkDetail)
	protected.GET("/works/:id/edit", h.UpdateWorkForm)
	protected.POST("/works/:id", h.UpdateWorkSubmit)
	protected.POST("/works/:id/publish", h.TogglePublish)
	protected.POST("/works/:id/delete", h.DeleteWork)
	protected.GET("/profile", h.Profile)
	protected.GET("/profile/edit", h.UpdateProfileForm)
	protected.POST("/profile", h.UpdateProfileSubmit)
}

// loadTemplates parses layout+page pairs into a map keyed by page name, so
// each page renders inside the shared layout without block-name collisions.
func loadTemplates(dir string) (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
	}

	layout := filepath.Join(dir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}

	templates := map[string]*template.Template{}
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcs).ParseFiles(layout, page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = t
	}
	return templates, nil
}

func (h HandlerSet) render(c *gin.Context, status int, name string, data gin.H) {
	t, ok := h.tmpl[name]
	if !ok {
		h.log.Error().Str("template", name).Msg("template not found")
		c.String(http.StatusInternalServerError, "template not found")
		return
	}

	if data == nil {
		data = gin.H{}
	}
	data["SiteTitle"] = h.cfg.Site.Title
	if _, ok := data["CSRFToken"]; !ok {
		data["CSRFToken"] = middleware.CSRFToken(c)
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := t.ExecuteTemplate(c.Writer, "layout", data); err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("render failed")
	}
}

// imageURL resolves a stored image reference against the API's asset host.
func (h HandlerSet) imageURL(w work.Work) string {
	if w.ImagePath == nil || *w.ImagePath == "" {
		return ""
	}
	path := *w.ImagePath
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(h.cfg.ContentAPI.AssetBaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// errorMessage flattens the error taxonomy into something a person can act
// on. Nothing here is fatal: the page stays interactive after any of these.
func errorMessage(err error) string {
	var validationErr *work.ValidationError
	var apiErr *content.APIError
	var netErr *content.NetworkError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.Is(err, content.ErrUnauthorized):
		return "your session is no longer valid, please log in again"
	case errors.Is(err, content.ErrNotFound):
		return "the requested item no longer exists"
	case errors.Is(err, service.ErrOperationInFlight):
		return "the previous change is still being applied, try again in a moment"
	case errors.As(err, &apiErr):
		return "the content service rejected the request"
	case errors.As(err, &netErr):
		return "the content service is unreachable right now"
	}
	return "something went wrong"
}
