// Package server is the portfolio's HTTP front end: the full page, the
// per-view event stream, the contact form, outbound link redirects and the
// admin dashboard.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/content"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/store"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Server wires the portfolio content, the view engine and the visit ledger
// to a gin engine.
type Server struct {
	engine  *gin.Engine
	tmpl    *template.Template
	content *content.Source
	ledger  *store.Store
	logger  *slog.Logger

	location    *time.Location
	now         func() time.Time
	visitorSeed int
	tunePage    func(view.Options) view.Options

	admin     *adminAuth
	retention time.Duration

	views sync.Map // page id -> *liveView
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option { return func(s *Server) { s.logger = l } }

// WithLedger enables visit tracking and outbound click counting.
func WithLedger(st *store.Store) Option { return func(s *Server) { s.ledger = st } }

// WithRetention sets how long ledger visits are kept by the privacy cleanup.
func WithRetention(d time.Duration) Option { return func(s *Server) { s.retention = d } }

// WithLocation sets the clock's time zone.
func WithLocation(loc *time.Location) Option { return func(s *Server) { s.location = loc } }

// WithClock replaces time.Now for the header clock.
func WithClock(now func() time.Time) Option { return func(s *Server) { s.now = now } }

// WithVisitorSeed sets the value the synthetic visitor counter starts at.
func WithVisitorSeed(n int) Option { return func(s *Server) { s.visitorSeed = n } }

// WithPageOptions lets the caller adjust every view's options, e.g. to speed
// up animations.
func WithPageOptions(fn func(view.Options) view.Options) Option {
	return func(s *Server) { s.tunePage = fn }
}

// WithAdmin enables the admin pages with the given credentials. An empty
// password leaves them disabled.
func WithAdmin(username, password string) Option {
	return func(s *Server) {
		if password == "" {
			return
		}
		s.admin = &adminAuth{username: username, password: password}
	}
}

// New builds the server and its routes.
func New(src *content.Source, opts ...Option) (*Server, error) {
	s := &Server{
		content:   src,
		logger:    slog.Default(),
		location:  time.UTC,
		now:       time.Now,
		retention: 365 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.tmpl = tmpl

	if s.admin != nil {
		if err := s.admin.init(); err != nil {
			return nil, err
		}
	}

	s.engine = gin.New()
	s.engine.SetHTMLTemplate(tmpl)
	s.engine.Use(requestLogger(s.logger), s.recovery())
	s.routes()
	return s, nil
}

// Handler returns the http.Handler serving every route.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	r := s.engine

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.StaticFS("/static", http.FS(static))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	site := r.Group("/")
	site.Use(s.visitTracking())
	site.GET("/", s.handleIndex)
	site.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{"title": "Privacy Policy", "Tracking": s.ledger != nil})
	})
	site.POST("/contact", s.handleContact)
	site.GET("/go/:name", s.handleLink)
	site.GET("/resume", s.handleResume)

	r.GET("/events", s.handleEvents)
	r.POST("/view/:id/menu", s.handleViewAction(func(p *view.Page) { p.ToggleMenu() }))
	r.POST("/view/:id/menu/close", s.handleViewAction(func(p *view.Page) { p.CloseMenu() }))
	r.POST("/view/:id/theme", s.handleViewAction(func(p *view.Page) { p.ToggleDarkMode() }))
	r.POST("/view/:id/contact", s.handleViewContact)

	if s.admin != nil {
		s.adminRoutes(r)
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"safe":  content.SanitizeHTML,
		"count": view.FormatCount,
		"comma": humanize.Comma,
		"ago":   humanize.Time,
		"bytes": func(n int64) string {
			if n < 0 {
				n = 0
			}
			return humanize.Bytes(uint64(n))
		},
	}
}

func (s *Server) pageOptions(pf *content.Portfolio) view.Options {
	opts := view.DefaultOptions(pf)
	opts.Location = s.location
	opts.Now = s.now
	if s.visitorSeed > 0 {
		opts.VisitorSeed = s.visitorSeed
	}
	if s.tunePage != nil {
		opts = s.tunePage(opts)
	}
	return opts
}
