// Package content is the static data shown on the portfolio: who the owner
// is, what they built and where to reach them. The default document is
// embedded in the binary; an override file can replace it at runtime.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed portfolio.yaml
var defaultDocument []byte

// ErrInvalid wraps every content validation failure.
var ErrInvalid = errors.New("invalid portfolio content")

type Portfolio struct {
	Owner        Owner           `yaml:"owner"`
	Banner       string          `yaml:"banner"`
	Titles       []string        `yaml:"titles"`
	Nav          []NavItem       `yaml:"nav"`
	About        About           `yaml:"about"`
	Stats        []Stat          `yaml:"stats"`
	TechStack    []TechItem      `yaml:"tech_stack"`
	Profiles     []CodingProfile `yaml:"coding_profiles"`
	Projects     []Project       `yaml:"projects"`
	Experience   []Experience    `yaml:"experience"`
	Achievements []Achievement   `yaml:"achievements"`
	Blog         Blog            `yaml:"blog"`
	Links        []Link          `yaml:"links"`
	Resume       Resume          `yaml:"resume"`
	Newsletter   Newsletter      `yaml:"newsletter"`
	Location     Location        `yaml:"location"`
	Footer       string          `yaml:"footer"`
}

type Owner struct {
	Name      string `yaml:"name"`
	ShortName string `yaml:"short_name"`
	Handle    string `yaml:"handle"`
	Specialty string `yaml:"specialty"`
	Education string `yaml:"education"`
	Intro     string `yaml:"intro"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Photo     string `yaml:"photo"`
	Available string `yaml:"available"`
}

type NavItem struct {
	Name string `yaml:"name"`
	ID   string `yaml:"id"`
}

// About holds HTML snippets; render them through SanitizeHTML.
type About struct {
	WhoIAm   string   `yaml:"who_i_am"`
	Achieved []string `yaml:"achieved"`
	Drives   string   `yaml:"drives"`
}

type Stat struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Value int    `yaml:"value"`
	Icon  Icon   `yaml:"icon"`
}

type TechItem struct {
	Name     string `yaml:"name"`
	Icon     Icon   `yaml:"icon"`
	Category string `yaml:"category"`
}

type CodingProfile struct {
	Platform string `yaml:"platform"`
	Username string `yaml:"username"`
	Stats    string `yaml:"stats"`
	Rating   string `yaml:"rating"`
	Icon     Icon   `yaml:"icon"`
	Link     string `yaml:"link"`
	Color    string `yaml:"color"`
}

// LinkName is the outbound link name of the profile page.
func (c CodingProfile) LinkName() string { return "profile-" + slug(c.Platform) }

type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tech        []string `yaml:"tech"`
	Images      []string `yaml:"images"`
	GitHub      string   `yaml:"github"`
	Live        string   `yaml:"live"`
	Period      string   `yaml:"period"`
	Impact      string   `yaml:"impact"`
}

// HasLive reports whether the project has a live demo; "#" marks none.
func (p Project) HasLive() bool { return p.Live != "" && p.Live != "#" }

// CodeLink and LiveLink are the outbound link names of the project's
// repository and demo.
func (p Project) CodeLink() string { return slug(p.Title) + "-code" }
func (p Project) LiveLink() string { return slug(p.Title) + "-live" }

type Experience struct {
	Title       string `yaml:"title"`
	Company     string `yaml:"company"`
	Duration    string `yaml:"duration"`
	Location    string `yaml:"location"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
}

type Achievement struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Icon        Icon   `yaml:"icon"`
	Type        string `yaml:"type"`
	Image       string `yaml:"image"`
}

type Blog struct {
	Heading string      `yaml:"heading"`
	Intro   string      `yaml:"intro"`
	Topics  []BlogTopic `yaml:"topics"`
}

type BlogTopic struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
}

// Link is a named outbound destination served through /go/<name>.
type Link struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Resume points at a Google Drive file.
type Resume struct {
	DriveFileID string `yaml:"drive_file_id"`
	FileName    string `yaml:"file_name"`
}

// DownloadURL is the direct-download form of the Drive file, or "" when no
// file is configured.
func (r Resume) DownloadURL() string {
	if r.DriveFileID == "" {
		return ""
	}
	return "https://drive.google.com/uc?export=download&id=" + url.QueryEscape(r.DriveFileID)
}

// Newsletter is the hosted form relay the signup box posts to directly.
type Newsletter struct {
	Action string `yaml:"action"`
	Next   string `yaml:"next"`
}

type Location struct {
	Place    string   `yaml:"place"`
	Notes    []string `yaml:"notes"`
	MapEmbed string   `yaml:"map_embed"`
}

// Link returns the outbound link registered under name. Besides the
// top-level links it resolves project code and demo links and coding
// profiles. A project without a live demo has no live link.
func (p *Portfolio) Link(name string) (Link, bool) {
	for _, l := range p.Links {
		if l.Name == name {
			return l, true
		}
	}
	for _, pr := range p.Projects {
		switch name {
		case pr.CodeLink():
			if isWebURL(pr.GitHub) {
				return Link{Name: name, Label: "Code", URL: pr.GitHub}, true
			}
		case pr.LiveLink():
			if pr.HasLive() && isWebURL(pr.Live) {
				return Link{Name: name, Label: "Live Demo", URL: pr.Live}, true
			}
		}
	}
	for _, c := range p.Profiles {
		if name == c.LinkName() && isWebURL(c.Link) {
			return Link{Name: name, Label: c.Platform, URL: c.Link}, true
		}
	}
	return Link{}, false
}

// slug lowercases s and joins its letter and digit runs with dashes.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}

// Validate checks what the site cannot run without.
func (p *Portfolio) Validate() error {
	if p.Banner == "" {
		return fmt.Errorf("%w: banner is empty", ErrInvalid)
	}
	if len(p.Titles) == 0 {
		return fmt.Errorf("%w: no titles", ErrInvalid)
	}
	if p.Owner.Email == "" {
		return fmt.Errorf("%w: owner email is empty", ErrInvalid)
	}
	for _, l := range p.Links {
		if l.Name == "" {
			return fmt.Errorf("%w: link without a name", ErrInvalid)
		}
		if !isWebURL(l.URL) {
			return fmt.Errorf("%w: link %q has url %q", ErrInvalid, l.Name, l.URL)
		}
	}
	return nil
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load parses and validates a portfolio document.
func Load(r io.Reader) (*Portfolio, error) {
	var p Portfolio
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode portfolio: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Default returns the embedded portfolio.
func Default() (*Portfolio, error) {
	return Load(bytes.NewReader(defaultDocument))
}
