package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/contact"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/sched"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/view"
)

// eventBuffer is how many view events may wait for a slow client before
// frames are dropped.
const eventBuffer = 64

// liveView is a mounted page and the loop that owns it. mailto is the last
// link the page's composer opened; it is only touched on the loop.
type liveView struct {
	loop   *sched.Loop
	page   *view.Page
	done   <-chan struct{}
	mailto string
}

type eventPayload struct {
	Key   string `json:"key,omitempty"`
	Text  string `json:"text"`
	Count int    `json:"count"`
	On    bool   `json:"on"`
}

// handleEvents mounts a fresh view for the connection and streams its
// events as server-sent events until the client goes away.
func (s *Server) handleEvents(c *gin.Context) {
	pf := s.content.Current()
	loopDone := make(chan struct{})
	lv := &liveView{loop: sched.NewLoop(), done: loopDone}

	opts := s.pageOptions(pf)
	opts.Mail = &contact.Composer{
		To:     pf.Owner.Email,
		Logger: s.logger,
		Opener: contact.OpenerFunc(func(uri string) error {
			lv.mailto = uri
			return nil
		}),
	}
	events := make(chan view.Event, eventBuffer)
	page, err := view.NewPage(opts, func(e view.Event) {
		select {
		case events <- e:
		default:
		}
	})
	if err != nil {
		s.logger.Error("server: new view", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	lv.page = page

	loopCtx, stopLoop := context.WithCancel(context.Background())
	go func() {
		defer close(loopDone)
		_ = lv.loop.Run(loopCtx)
	}()

	s.views.Store(page.ID(), lv)
	s.logger.Debug("server: view mounted", "view", page.ID())
	defer func() {
		s.views.Delete(page.ID())
		unmounted := make(chan struct{})
		lv.loop.Post(func() {
			page.Unmount()
			close(unmounted)
		})
		select {
		case <-unmounted:
		case <-loopDone:
		}
		stopLoop()
		<-loopDone
		s.logger.Debug("server: view unmounted", "view", page.ID())
	}()

	lv.loop.Post(func() { page.Mount(lv.loop) })

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	c.SSEvent("view", gin.H{"id": page.ID()})
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-events:
			c.SSEvent(string(e.Kind), eventPayload{Key: e.Key, Text: e.Text, Count: e.Count, On: e.On})
			c.Writer.Flush()
		}
	}
}

// handleViewAction runs act on the view's own loop.
func (s *Server) handleViewAction(act func(*view.Page)) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := s.views.Load(c.Param("id"))
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		lv := v.(*liveView)
		lv.loop.Post(func() { act(lv.page) })
		c.Status(http.StatusNoContent)
	}
}

// handleViewContact fills the view's contact form from the posted fields and
// submits it on the view's loop. The response is the same as for /contact.
func (s *Server) handleViewContact(c *gin.Context) {
	v, ok := s.views.Load(c.Param("id"))
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	lv := v.(*liveView)

	var posted contact.Form
	if err := c.ShouldBind(&posted); err != nil {
		s.logger.Warn("server: bind contact form", "view", lv.page.ID(), "error", err)
	}

	type result struct {
		form   contact.Form
		notice contact.Notice
		mailto string
		err    error
	}
	res := make(chan result, 1)
	lv.loop.Post(func() {
		lv.mailto = ""
		fields := [...]struct{ name, value string }{
			{"name", posted.Name},
			{"email", posted.Email},
			{"message", posted.Message},
		}
		for _, f := range fields {
			if err := lv.page.SetField(f.name, f.value); err != nil {
				res <- result{err: err}
				return
			}
		}
		notice, err := lv.page.SubmitContact()
		res <- result{form: lv.page.Snapshot().Form, notice: notice, mailto: lv.mailto, err: err}
	})

	var r result
	select {
	case r = <-res:
	case <-lv.done:
		c.Status(http.StatusNotFound)
		return
	case <-c.Request.Context().Done():
		return
	}
	s.respondContact(c, contactData{
		Action: viewContactAction(lv.page.ID()),
		Form:   r.form,
		Notice: r.notice,
	}, r.mailto, r.err)
}

func viewContactAction(id string) string { return "/view/" + id + "/contact" }

// LiveViews reports how many event streams are open.
func (s *Server) LiveViews() int {
	n := 0
	s.views.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
