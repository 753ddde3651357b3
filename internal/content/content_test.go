package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault_Parses(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("default content: %v", err)
	}
	if len(p.Titles) != 4 {
		t.Fatalf("titles = %v", p.Titles)
	}
	if len(p.TechStack) != 20 || len(p.Projects) != 3 || len(p.Profiles) != 3 {
		t.Fatalf("unexpected list sizes: tech=%d projects=%d profiles=%d", len(p.TechStack), len(p.Projects), len(p.Profiles))
	}
	if !strings.HasPrefix(p.Banner, "|| ") {
		t.Fatalf("banner = %q", p.Banner)
	}
	if p.TechStack[1].Icon != Glyph("🐍") {
		t.Fatalf("python icon = %+v", p.TechStack[1].Icon)
	}
	if !p.Profiles[0].Icon.IsImage() {
		t.Fatal("leetcode icon should be an image")
	}
	if p.Projects[0].HasLive() || !p.Projects[1].HasLive() {
		t.Fatal("live demo detection is wrong")
	}
	if _, ok := p.Link("github"); !ok {
		t.Fatal("github link missing")
	}
	if _, ok := p.Link("myspace"); ok {
		t.Fatal("unexpected link")
	}
}

func TestLink_ProjectsAndProfiles(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	tests := map[string]struct {
		name string
		url  string
		ok   bool
	}{
		"project code":     {"swiftshop-code", "https://github.com/i-am-a-shish/swiftshop", true},
		"project live":     {"swiftshop-live", "https://swiftshop-demo.com", true},
		"placeholder live": {"sahakar-live", "", false},
		"coding profile":   {"profile-leetcode", p.Profiles[0].Link, true},
		"unknown project":  {"nothing-code", "", false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			l, ok := p.Link(tt.name)
			if ok != tt.ok || l.URL != tt.url {
				t.Fatalf("Link(%q) = %q, %v", tt.name, l.URL, ok)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	for in, want := range map[string]string{
		"SwiftShop":          "swiftshop",
		"PICT INC Techfest!": "pict-inc-techfest",
		"  Hacker--Rank ":    "hacker-rank",
	} {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResume_DownloadURL(t *testing.T) {
	r := Resume{DriveFileID: "abc_123"}
	if got := r.DownloadURL(); got != "https://drive.google.com/uc?export=download&id=abc_123" {
		t.Fatalf("url = %s", got)
	}
	if (Resume{}).DownloadURL() != "" {
		t.Fatal("empty resume should have no url")
	}
}

func TestIcon_UnmarshalVariants(t *testing.T) {
	doc := `
banner: x
titles: [a]
owner: {email: a@b.co}
stats:
  - {id: a, icon: "🚀"}
  - {id: b, icon: {image: "https://example.com/x.png"}}
  - {id: c, icon: {glyph: "⭐"}}
`
	p, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	want := []Icon{Glyph("🚀"), ImageRef("https://example.com/x.png"), Glyph("⭐")}
	for i, w := range want {
		if p.Stats[i].Icon != w {
			t.Fatalf("icon %d = %+v, want %+v", i, p.Stats[i].Icon, w)
		}
	}

	bad := "banner: x\ntitles: [a]\nowner: {email: a@b.co}\nstats:\n  - {id: a, icon: {glyph: x, image: y}}\n"
	if _, err := Load(strings.NewReader(bad)); err == nil {
		t.Fatal("expected error for icon with both variants")
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]string{
		"no banner":    "titles: [a]\nowner: {email: a@b.co}\n",
		"no titles":    "banner: x\nowner: {email: a@b.co}\n",
		"bad link":     "banner: x\ntitles: [a]\nowner: {email: a@b.co}\nlinks:\n  - {name: gh, url: 'javascript:alert(1)'}\n",
		"no owner":     "banner: x\ntitles: [a]\n",
		"unknown keys": "banner: x\ntitles: [a]\nowner: {email: a@b.co}\nsurprise: 1\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	_, err := Load(strings.NewReader("titles: [a]\nowner: {email: a@b.co}\n"))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestSanitizeHTML(t *testing.T) {
	got := string(SanitizeHTML(`<strong>Win</strong><script>alert(1)</script><br>`))
	if strings.Contains(got, "script") {
		t.Fatalf("script survived: %s", got)
	}
	if !strings.Contains(got, "<strong>Win</strong>") {
		t.Fatalf("formatting lost: %s", got)
	}
}

func TestSource_ReloadKeepsLastGood(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	write := func(s string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(s), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("banner: one\ntitles: [a]\nowner: {email: a@b.co}\n")
	src, err := OpenFile(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if src.Current().Banner != "one" {
		t.Fatalf("banner = %q", src.Current().Banner)
	}

	write("banner: [not, a, string\n")
	if err := src.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if src.Current().Banner != "one" {
		t.Fatal("bad reload replaced content")
	}

	write("banner: two\ntitles: [a]\nowner: {email: a@b.co}\n")
	if err := src.Reload(); err != nil {
		t.Fatal(err)
	}
	if src.Current().Banner != "two" {
		t.Fatalf("banner = %q", src.Current().Banner)
	}
}

func TestSource_WatchPicksUpEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	os.WriteFile(path, []byte("banner: one\ntitles: [a]\nowner: {email: a@b.co}\n"), 0o644)

	src, err := OpenFile(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Watch(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		os.WriteFile(path, []byte("banner: edited\ntitles: [a]\nowner: {email: a@b.co}\n"), 0o644)
		if src.Current().Banner == "edited" {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("watch never reloaded the edited file")
}

func TestStaticSource(t *testing.T) {
	p := &Portfolio{Banner: "x"}
	src := NewStaticSource(p)
	if src.Current() != p || src.Path() != "" {
		t.Fatal("static source should serve the given portfolio")
	}
	if err := src.Reload(); err != nil {
		t.Fatal(err)
	}
}
