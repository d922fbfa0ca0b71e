package cms

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown (or raw HTML) bodies into sanitized HTML.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRenderer builds a Renderer with GFM enabled. Raw HTML in markdown is
// allowed through goldmark and then filtered by the UGC policy.
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Typographer),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(goldhtml.WithUnsafe()),
	)
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4")
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("div", "section", "p", "ul", "li")
	return &Renderer{md: md, policy: policy}
}

// Render returns the sanitized HTML for body. format is "markdown" or "html".
func (r *Renderer) Render(body, format string) (template.HTML, error) {
	var raw []byte
	if format == "html" {
		raw = []byte(body)
	} else {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(body), &buf); err != nil {
			return "", err
		}
		raw = buf.Bytes()
	}
	return template.HTML(r.policy.SanitizeBytes(raw)), nil
}
