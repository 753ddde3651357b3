package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/contact"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/content"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/view"
)

var (
	errUnknownLink = errors.New("no such link")
	errNoResume    = errors.New("no resume configured")
)

type indexData struct {
	P       *content.Portfolio
	View    view.Snapshot
	Clock   string
	Contact contactData
}

// contactData fills contact.html. Action is where the form posts; empty
// means /contact.
type contactData struct {
	Action string
	Form   contact.Form
	Notice contact.Notice
}

func (s *Server) handleIndex(c *gin.Context) {
	pf := s.content.Current()

	var root view.Root
	var buf bytes.Buffer
	err := root.Render(&buf,
		func(w io.Writer) error {
			page, err := view.NewPage(s.pageOptions(pf), nil)
			if err != nil {
				return fmt.Errorf("new page: %w", err)
			}
			return s.tmpl.ExecuteTemplate(w, "index.html", indexData{
				P:     pf,
				View:  page.Snapshot(),
				Clock: view.FormatClock(s.now(), s.location),
			})
		},
		func(w io.Writer) error {
			return s.tmpl.ExecuteTemplate(w, "fault.html", faultData())
		},
	)

	status := http.StatusOK
	if err != nil {
		s.logger.Error("server: render page", "error", err)
		status = http.StatusInternalServerError
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// handleContact validates the form and, on success, points the browser at
// the mailto link. It serves pages without a live view, such as browsers
// without JavaScript.
func (s *Server) handleContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		s.logger.Warn("server: bind contact form", "error", err)
	}

	var mailto string
	composer := &contact.Composer{
		To:     s.content.Current().Owner.Email,
		Logger: s.logger,
		Opener: contact.OpenerFunc(func(uri string) error {
			mailto = uri
			return nil
		}),
	}
	notice, err := composer.Submit(&form)
	s.respondContact(c, contactData{Form: form, Notice: notice}, mailto, err)
}

// respondContact answers a contact submission. On success a plain post is
// redirected to the mailto link; HTMX requests get the fragment back with
// an HX-Redirect header.
func (s *Server) respondContact(c *gin.Context, data contactData, mailto string, err error) {
	if err == nil && c.GetHeader("HX-Request") != "true" {
		c.Redirect(http.StatusSeeOther, mailto)
		return
	}
	if err == nil {
		c.Header("HX-Redirect", mailto)
	}
	c.HTML(http.StatusOK, "contact.html", data)
}

func (s *Server) handleLink(c *gin.Context) {
	name := c.Param("name")
	link, ok := s.content.Current().Link(name)
	if !ok {
		s.linkFailed(c, name, errUnknownLink)
		return
	}
	s.recordClick(c.Request.Context(), link.Name, link.URL)
	c.Redirect(http.StatusFound, link.URL)
}

func (s *Server) handleResume(c *gin.Context) {
	target := s.content.Current().Resume.DownloadURL()
	if target == "" {
		s.linkFailed(c, "resume", errNoResume)
		return
	}
	s.recordClick(c.Request.Context(), "resume", target)
	c.Redirect(http.StatusFound, target)
}

func (s *Server) linkFailed(c *gin.Context, name string, err error) {
	s.logger.Warn("server: open link", "link", name, "error", err)
	c.HTML(http.StatusNotFound, "notice.html", contact.Notice{
		Kind:    contact.NoticeError,
		Message: fmt.Sprintf("Failed to open %s link. Please try again later.", name),
	})
}

func (s *Server) recordClick(ctx context.Context, name, url string) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.RecordClick(context.WithoutCancel(ctx), name, url); err != nil {
		s.logger.Error("server: record click", "link", name, "error", err)
	}
}
