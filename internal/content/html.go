package content

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

var snippetPolicy = bluemonday.UGCPolicy()

// SanitizeHTML strips everything but basic formatting from an about-section
// snippet so it can be rendered unescaped.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(snippetPolicy.Sanitize(s))
}
