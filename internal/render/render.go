// Package render turns user supplied post text into safe HTML.
package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var hashtagRegex = regexp.MustCompile(`(^|[\s>(])#([A-Za-z0-9_]+)`)

type TextProcessor struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *TextProcessor {
	md := goldmark.New(
		goldmark.WithRendererOptions(html.WithHardWraps()),
		goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	)

	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile("^hashtag$")).OnElements("a")
	p.AllowRelativeURLs(true)

	return &TextProcessor{md: md, policy: p}
}

// Render converts markdown to HTML, links #hashtags, and sanitizes the result.
// Text that fails to render is escaped and returned as a single paragraph.
func (tp *TextProcessor) Render(text string) string {
	var buf bytes.Buffer
	out := ""
	if err := tp.md.Convert([]byte(text), &buf); err != nil {
		out = "<p>" + bluemonday.StrictPolicy().Sanitize(text) + "</p>"
	} else {
		out = strings.TrimSpace(buf.String())
	}
	out = hashtagRegex.ReplaceAllString(out, `$1<a class="hashtag" href="/?tag=$2">#$2</a>`)
	return tp.policy.Sanitize(out)
}
