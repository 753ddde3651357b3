package contact

import (
	"fmt"
	"net/url"
	"strings"
)

// Subject is the mail subject for a submission.
func Subject(f Form) string {
	return "Portfolio Contact from " + f.Name
}

// Body is the mail body for a submission.
func Body(f Form) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s", f.Name, f.Email, f.Message)
}

// MailtoURI builds mailto:<to>?subject=...&body=... for f.
func MailtoURI(to string, f Form) string {
	return "mailto:" + to + "?subject=" + encodeComponent(Subject(f)) + "&body=" + encodeComponent(Body(f))
}

// componentUnescape turns QueryEscape output into the URI component form:
// spaces are %20 because mail clients do not decode '+', and the marks
// !'()* stay literal.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes s for use inside a URI query value.
func encodeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}
