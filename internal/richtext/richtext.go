package richtext

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer turns untrusted markdown into HTML that passes an allow-list.
// Safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: Policy(),
	}
}

// Policy is the allow-list applied to rendered markdown: block and inline
// formatting, tables, and http/https/mailto links that open in a new tab
// with rel="nofollow noopener". Everything else is stripped.
func Policy() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AllowElements("p", "br", "hr", "strong", "em", "del", "code", "pre", "blockquote")
	p.AllowElements("ul", "ol", "li")
	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowElements("table", "thead", "tbody", "tr", "th", "td")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireParseableURLs(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoFollowOnLinks(true)
	return p
}

// Markdown renders src and sanitizes the result. Raw HTML embedded in the
// markdown is never passed through.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		// goldmark only fails on writer errors; fall back to escaped text
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes()))
}

// SafeURL returns u when the policy would keep it as a link target, else "".
func (r *Renderer) SafeURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	out := r.policy.Sanitize(`<a href="` + template.HTMLEscapeString(u) + `">x</a>`)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		return ""
	}
	href, ok := doc.Find("a").Attr("href")
	if !ok {
		return ""
	}
	return href
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// PlainText flattens rendered HTML into terminal-friendly text: one line
// per block, list items prefixed with "- ".
func PlainText(html template.HTML) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return ""
	}
	var lines []string
	add := func(prefix, s string) {
		s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
		if s != "" {
			lines = append(lines, prefix+s)
		}
	}
	doc.Find("body").Children().Each(func(i int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "ul", "ol":
			s.Children().Filter("li").Each(func(j int, li *goquery.Selection) {
				add("- ", li.Text())
			})
		case "pre":
			if t := strings.TrimRight(s.Text(), "\n"); t != "" {
				lines = append(lines, t)
			}
		case "hr":
		default:
			add("", s.Text())
		}
	})
	return strings.Join(lines, "\n")
}
