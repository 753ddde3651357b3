package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/i-am-a-shish/Ashish-portfolio/internal/contact"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/content"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/store"
	"github.com/i-am-a-shish/Ashish-portfolio/internal/view"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var (
	testNow = time.Date(2024, 1, 1, 15, 4, 5, 0, time.UTC)
	ist     = time.FixedZone("IST", 5*60*60+30*60)
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastPages(o view.Options) view.Options {
	o.Banner.TickInterval = time.Millisecond
	o.Banner.CompleteDelay = time.Millisecond
	o.Typewriter.TypeInterval = 20 * time.Millisecond
	o.Typewriter.DeleteInterval = 20 * time.Millisecond
	o.Stats = nil
	return o
}

type testEnv struct {
	srv    *Server
	ledger *store.Store
	pf     *content.Portfolio
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	pf, err := content.Default()
	if err != nil {
		t.Fatalf("default content: %v", err)
	}
	ledger, err := store.Open(":memory:", store.WithSalt("test"))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })

	base := []Option{
		WithLogger(quietLogger()),
		WithLedger(ledger),
		WithClock(func() time.Time { return testNow }),
		WithLocation(ist),
		WithPageOptions(fastPages),
		WithAdmin("admin", "secret"),
	}
	srv, err := New(content.NewStaticSource(pf), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return &testEnv{srv: srv, ledger: ledger, pf: pf}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t)
	w := env.get("/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		env.pf.Owner.Name,
		`id="boot"`,
		"08:34:05 PM",
		"1,247",
		`href="/go/github"`,
		`href="/go/swiftshop-code"`,
		`href="/go/swiftshop-live"`,
		`href="/go/profile-leetcode"`,
		`href="/resume"`,
		`data-stat="projects"`,
		`id="contact-form"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, view.FallbackTitle) {
		t.Fatal("page rendered the fallback")
	}
}

func TestIndex_LiveDemoOnlyWhenPresent(t *testing.T) {
	env := newTestEnv(t)
	body := env.get("/").Body.String()
	if got := strings.Count(body, "Live Demo"); got != 1 {
		t.Fatalf("live demo links = %d, want 1", got)
	}
}

func TestIndex_FaultBoundary(t *testing.T) {
	srv, err := New(content.NewStaticSource(&content.Portfolio{Banner: "x"}), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), view.FallbackTitle) {
		t.Fatalf("fallback not rendered: %s", w.Body.String())
	}
}

func TestRecovery(t *testing.T) {
	env := newTestEnv(t)
	env.srv.engine.GET("/boom", func(*gin.Context) { panic("boom") })
	w := env.get("/boom")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), view.FallbackTitle) {
		t.Fatal("panic did not render the fallback")
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	if w := env.get("/healthz"); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestStatic(t *testing.T) {
	env := newTestEnv(t)
	w := env.get("/static/app.js")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "EventSource") {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestContact_HTMXSuccess(t *testing.T) {
	env := newTestEnv(t)
	req := postForm("/contact", url.Values{"name": {"Ada"}, "email": {"a@b.co"}, "message": {"Hello"}})
	req.Header.Set("HX-Request", "true")
	w := env.do(req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	redirect := w.Header().Get("HX-Redirect")
	if want := contact.MailtoURI(env.pf.Owner.Email, contact.Form{Name: "Ada", Email: "a@b.co", Message: "Hello"}); redirect != want {
		t.Fatalf("HX-Redirect = %q, want %q", redirect, want)
	}
	body := w.Body.String()
	if !strings.Contains(body, contact.MsgSent) {
		t.Fatalf("missing success notice: %s", body)
	}
	if strings.Contains(body, "a@b.co") {
		t.Fatal("form was not cleared")
	}
}

func TestContact_ValidationKeepsInput(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		form url.Values
		want string
	}{
		{url.Values{"name": {""}, "email": {"a@b.co"}, "message": {"Hi"}}, contact.MsgMissing},
		{url.Values{"name": {"Ada"}, "email": {"foo@bar"}, "message": {"Hi"}}, contact.MsgInvalidMail},
	}
	for _, tt := range tests {
		req := postForm("/contact", tt.form)
		req.Header.Set("HX-Request", "true")
		w := env.do(req)
		if w.Header().Get("HX-Redirect") != "" {
			t.Fatalf("%v: mail client opened", tt.form)
		}
		body := w.Body.String()
		if !strings.Contains(body, tt.want) {
			t.Fatalf("%v: missing %q in %s", tt.form, tt.want, body)
		}
		if !strings.Contains(body, tt.form.Get("email")) {
			t.Fatalf("%v: email not retained", tt.form)
		}
	}
}

func TestContact_PlainPostRedirects(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(postForm("/contact", url.Values{"name": {"Ada"}, "email": {"a@b.co"}, "message": {"Hello"}}))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, "mailto:"+env.pf.Owner.Email+"?subject=") {
		t.Fatalf("Location = %q", loc)
	}
}

func TestLinks(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/go/github")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "https://github.com/i-am-a-shish" {
		t.Fatalf("github: %d %q", w.Code, w.Header().Get("Location"))
	}

	w = env.get("/resume")
	if w.Code != http.StatusFound || w.Header().Get("Location") != env.pf.Resume.DownloadURL() {
		t.Fatalf("resume: %d %q", w.Code, w.Header().Get("Location"))
	}

	w = env.get("/go/swiftshop-live")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "https://swiftshop-demo.com" {
		t.Fatalf("live demo: %d %q", w.Code, w.Header().Get("Location"))
	}

	w = env.get("/go/sahakar-live")
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Failed to open sahakar-live link.") {
		t.Fatalf("placeholder demo: %d %s", w.Code, w.Body.String())
	}

	w = env.get("/go/myspace")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown link status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Failed to open myspace link. Please try again later.") {
		t.Fatalf("notice = %s", w.Body.String())
	}

	stats, err := env.ledger.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalClicks != 3 {
		t.Fatalf("clicks = %d, want 3", stats.TotalClicks)
	}
}

func TestResume_Missing(t *testing.T) {
	pf, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	pf.Resume = content.Resume{}
	srv, err := New(content.NewStaticSource(pf), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resume", nil))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Failed to open resume link.") {
		t.Fatalf("%d %s", w.Code, w.Body.String())
	}
}

func TestVisitTracking(t *testing.T) {
	env := newTestEnv(t)
	env.get("/")
	env.get("/healthz")
	env.get("/static/app.css")
	env.get("/privacy")

	dnt := httptest.NewRequest(http.MethodGet, "/", nil)
	dnt.Header.Set("DNT", "1")
	env.do(dnt)

	visits, err := env.ledger.RecentVisits(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(visits) != 1 || visits[0].Path != "/" {
		t.Fatalf("visits = %+v", visits)
	}
	if strings.Contains(visits[0].HashedIP, "192.0.2.1") {
		t.Fatal("raw address stored")
	}
}

func TestAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.get("/")

	w := env.get("/admin/dashboard")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin/login" {
		t.Fatalf("unauthenticated dashboard: %d %q", w.Code, w.Header().Get("Location"))
	}

	w = env.do(postForm("/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}}))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", w.Code)
	}

	w = env.do(postForm("/admin/login", url.Values{"username": {"admin"}, "password": {"secret"}}))
	if w.Code != http.StatusFound {
		t.Fatalf("login status = %d", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie")
	}

	authed := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		return env.do(req)
	}

	w = authed(http.MethodGet, "/admin/dashboard")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Recent visits") {
		t.Fatalf("dashboard: %d", w.Code)
	}

	w = authed(http.MethodGet, "/admin/api/stats")
	var stats store.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalVisitors != 1 {
		t.Fatalf("visitors = %d", stats.TotalVisitors)
	}

	w = authed(http.MethodGet, "/admin/export/stats")
	if !strings.Contains(w.Header().Get("Content-Disposition"), "admin-stats.json") {
		t.Fatalf("export headers = %v", w.Header())
	}

	w = authed(http.MethodPost, "/admin/privacy/cleanup")
	if w.Code != http.StatusOK {
		t.Fatalf("cleanup status = %d", w.Code)
	}
}

func TestAdmin_DisabledWithoutPassword(t *testing.T) {
	pf, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	srv, err := New(content.NewStaticSource(pf), WithLogger(quietLogger()), WithAdmin("admin", ""))
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}
