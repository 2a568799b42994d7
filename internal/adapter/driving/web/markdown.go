package web

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// descriptionMarkdown renders repository descriptions. Raw HTML in the source
// is dropped by goldmark; bluemonday is the second line for anything left.
var descriptionMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// descriptionPolicy opens absolute links in a new tab with rel="nofollow
// noopener", matching the issue title links on the same page.
var descriptionPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}()

// RenderMarkdown converts a repository description to sanitized HTML.
// Returns empty string for blank input.
func RenderMarkdown(src string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := descriptionMarkdown.Convert([]byte(src), &buf); err != nil {
		return descriptionPolicy.Sanitize(src)
	}

	return descriptionPolicy.Sanitize(buf.String())
}
