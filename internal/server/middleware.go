package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/view"
)

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "http: request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"bytes", c.Writer.Size(),
		)
	}
}

// recovery turns a panic in any handler into the fault page.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		s.logger.Error("server: panic", "path", c.Request.URL.Path, "error", err)
		c.HTML(http.StatusInternalServerError, "fault.html", faultData())
		c.Abort()
	})
}

func faultData() gin.H {
	return gin.H{"Title": view.FallbackTitle, "Body": view.FallbackBody}
}

var untrackedPrefixes = []string{
	"/static/",
	"/admin",
	"/events",
	"/view/",
	"/healthz",
	"/favicon",
	"/privacy",
}

// visitTracking records each page view in the ledger with a hashed client
// address. Do Not Track is honored.
func (s *Server) visitTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if s.ledger == nil || c.GetHeader("DNT") == "1" {
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}
		ctx := context.WithoutCancel(c.Request.Context())
		if err := s.ledger.RecordVisit(ctx, c.ClientIP(), c.GetHeader("User-Agent"), path); err != nil {
			s.logger.Error("server: record visit", "error", err)
		}
	}
}
