package server

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/store"
)

const adminCookie = "admin_token"

// adminAuth holds the configured credentials and the session token handed
// out on login. The token changes on every restart.
type adminAuth struct {
	username string
	password string
	token    string
}

func (a *adminAuth) init() error {
	token, err := store.NewToken()
	if err != nil {
		return err
	}
	a.token = token
	return nil
}

func (a *adminAuth) check(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(a.username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(a.password))
	return u&p == 1
}

func (a *adminAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) clientHash(c *gin.Context) string {
	if s.ledger == nil {
		return "-"
	}
	return s.ledger.HashIP(c.ClientIP())
}

func (s *Server) adminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if !s.admin.check(c.PostForm("username"), c.PostForm("password")) {
			s.logger.Warn("admin: failed login", "client", s.clientHash(c))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}
		c.SetCookie(adminCookie, s.admin.token, int((24 * time.Hour).Seconds()), "/admin", "", false, true)
		s.logger.Info("admin: login", "client", s.clientHash(c))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	g := r.Group("/admin")
	g.Use(s.admin.middleware())

	g.GET("/dashboard", func(c *gin.Context) {
		if s.ledger == nil {
			c.HTML(http.StatusOK, "admin-error.html", gin.H{"error": "Visitor tracking is disabled."})
			return
		}
		stats, err := s.ledger.Stats(c.Request.Context())
		if err != nil {
			s.logger.Error("admin: load stats", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats, "now": s.now()})
	})

	g.GET("/api/stats", func(c *gin.Context) {
		stats, ok := s.adminStats(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	g.GET("/export/stats", func(c *gin.Context) {
		stats, ok := s.adminStats(c)
		if !ok {
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.logger.Info("admin: stats exported", "client", s.clientHash(c))
		c.JSON(http.StatusOK, stats)
	})

	g.POST("/privacy/cleanup", func(c *gin.Context) {
		if s.ledger == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "visitor tracking is disabled"})
			return
		}
		n, err := s.ledger.Cleanup(c.Request.Context(), s.retention)
		if err != nil {
			s.logger.Error("admin: privacy cleanup", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cleanup failed"})
			return
		}
		s.logger.Info("admin: privacy cleanup", "deleted", n)
		c.JSON(http.StatusOK, gin.H{"deleted": n})
	})
}

func (s *Server) adminStats(c *gin.Context) (*store.Stats, bool) {
	if s.ledger == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "visitor tracking is disabled"})
		return nil, false
	}
	stats, err := s.ledger.Stats(c.Request.Context())
	if err != nil {
		s.logger.Error("admin: load stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return nil, false
	}
	return stats, true
}
