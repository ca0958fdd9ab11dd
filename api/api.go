// Package api serves the catalog pages over gin.
package api

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DeanThompson/ginpprof"
	"github.com/calventeramirez/baseDatos/apiexternal"
	"github.com/calventeramirez/baseDatos/catalog"
	"github.com/calventeramirez/baseDatos/logger"
	"github.com/calventeramirez/baseDatos/scheduler"
	"github.com/calventeramirez/baseDatos/session"
	"github.com/calventeramirez/baseDatos/syncops"
	"github.com/calventeramirez/baseDatos/web"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	ginlog "github.com/toorop/gin-logrus"
	"maragu.dev/gomponents"
)

const (
	ctxSession   = "session"
	ctxCSRF      = "csrf_token"
	ctxRequestID = "request_id"

	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = "X-Request-Id"

	// MinPasswordLength applies to the first administrator.
	MinPasswordLength = 4

	cookieMaxAge = 60 * 60 * 24 * 30
)

// Options configures the handlers.
type Options struct {
	PageSize      int
	SecureCookies bool
	CorsOrigins   []string
	Taxonomy      catalog.Taxonomy
	Debug         bool
	Jobs          *scheduler.Scheduler
}

// Handlers holds everything a request needs. No package level state.
type Handlers struct {
	Registry *catalog.Registry
	Clients  map[string]*apiexternal.EntityClient
	Auth     *apiexternal.AuthClient
	Sessions *session.Store
	Views    *syncops.Tracker
	Taxonomy catalog.Taxonomy
	Jobs     *scheduler.Scheduler

	PageSize      int
	SecureCookies bool
	CorsOrigins   []string
	Debug         bool

	backendURL *url.URL
	now        func() time.Time
}

// New builds the handlers for every entity of the default registry.
func New(backend *apiexternal.Backend, store *session.Store, opts Options) *Handlers {
	reg := catalog.DefaultRegistry()
	clients := make(map[string]*apiexternal.EntityClient, len(reg.All()))
	for _, s := range reg.All() {
		clients[s.Key] = apiexternal.NewEntityClient(backend, s)
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Handlers{
		Registry:      reg,
		Clients:       clients,
		Auth:          apiexternal.NewAuthClient(backend),
		Sessions:      store,
		Views:         syncops.NewTracker(),
		Taxonomy:      opts.Taxonomy,
		Jobs:          opts.Jobs,
		PageSize:      pageSize,
		SecureCookies: opts.SecureCookies,
		CorsOrigins:   opts.CorsOrigins,
		Debug:         opts.Debug,
		backendURL:    backend.BaseURL(),
		now:           time.Now,
	}
}

// NewRouter creates the engine with logging, recovery and every route.
func NewRouter(h *Handlers) *gin.Engine {
	if !h.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginlog.Logger(logger.Log), gin.Recovery(), requestID)
	h.Register(router)
	if h.Debug {
		ginpprof.Wrap(router)
	}
	return router
}

// Register adds the site, proxy and health routes to router.
func (h *Handlers) Register(router *gin.Engine) {
	router.GET("/healthz", h.health)
	AddProxyRoutes(router.Group("/api"), h.backendURL, h.CorsOrigins)

	site := router.Group("/", h.loadSession, h.setupGuard)
	site.GET("/", h.home)
	site.GET("/login", h.loginPage)
	site.POST("/login", h.requireCSRF, h.loginPost)
	site.POST("/logout", h.requireCSRF, h.logout)
	site.GET("/registro", h.setupPage)
	site.POST("/registro", h.requireCSRF, h.setupPost)

	for _, s := range h.Registry.All() {
		h.addEntityRoutes(site.Group(s.Route), s)
	}

	router.NoRoute(h.loadSession, h.notFound)
}

type jobStatus struct {
	Name      string     `json:"name"`
	Spec      string     `json:"spec"`
	Next      *time.Time `json:"next,omitempty"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// health reports liveness plus the state of the maintenance jobs.
func (h *Handlers) health(c *gin.Context) {
	if h.Jobs == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	jobs := h.Jobs.Jobs()
	out := make([]jobStatus, 0, len(jobs))
	for _, job := range jobs {
		st := jobStatus{Name: job.Name, Spec: job.Spec}
		if next := h.Jobs.Next(job.Name); !next.IsZero() {
			st.Next = &next
		}
		if !job.LastRun.IsZero() {
			last := job.LastRun
			st.LastRun = &last
		}
		if job.LastErr != nil {
			st.LastError = job.LastErr.Error()
		}
		out = append(out, st)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "jobs": out})
}

func (h *Handlers) home(c *gin.Context) {
	render(c, http.StatusOK, web.Home(h.chrome(c, "", "")))
}

func (h *Handlers) notFound(c *gin.Context) {
	render(c, http.StatusNotFound, web.NotFound(h.chrome(c, "Not found", ""), nil, "The page you are looking for does not exist."))
}

func (h *Handlers) chrome(c *gin.Context, title, active string) web.Chrome {
	return web.Chrome{
		Title:    title,
		Session:  currentSession(c),
		CSRF:     c.GetString(ctxCSRF),
		Active:   active,
		Path:     c.Request.URL.Path,
		Entities: h.Registry.All(),
	}
}

func render(c *gin.Context, status int, node gomponents.Node) {
	var buf strings.Builder
	if err := node.Render(&buf); err != nil {
		requestLog(c).WithError(err).Error("render page")
		c.String(http.StatusInternalServerError, "render error")
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(status, buf.String())
}

func currentSession(c *gin.Context) session.Session {
	if v, ok := c.Get(ctxSession); ok {
		if sess, ok := v.(session.Session); ok {
			return sess
		}
	}
	return session.Session{}
}

func requestLog(c *gin.Context) *logrus.Entry {
	return logger.Request(c.GetString(ctxRequestID))
}

// statusFor maps backend failures onto the status of the rendered page.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apiexternal.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apiexternal.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apiexternal.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apiexternal.ErrBusy):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
