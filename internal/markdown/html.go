package markdown

import (
	"fmt"
	"html"
	"strings"
)

// imageClass matches the reading view's article image styling.
const imageClass = "rounded-lg my-6 shadow-lg w-full object-cover"

// RenderHTML segments a raw document body and serializes it to HTML, one
// element per block, in source order.
func RenderHTML(content string) string {
	blocks := Segment(content)
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, RenderBlock(b))
	}
	return strings.Join(parts, "\n")
}

// RenderBlock serializes a single block.
func RenderBlock(b Block) string {
	switch b.Kind {
	case BlockHeading:
		return fmt.Sprintf("<h%d>%s</h%d>", b.Level, RenderSpans(b.Spans), b.Level)
	case BlockCode:
		return "<pre><code>" + html.EscapeString(b.Code) + "</code></pre>"
	case BlockQuote:
		return "<blockquote>" + RenderSpans(b.Spans) + "</blockquote>"
	case BlockList:
		var sb strings.Builder
		sb.WriteString("<ul>")
		for _, item := range b.Items {
			sb.WriteString("<li>")
			sb.WriteString(RenderSpans(item))
			sb.WriteString("</li>")
		}
		sb.WriteString("</ul>")
		return sb.String()
	default:
		return "<p>" + RenderSpans(b.Spans) + "</p>"
	}
}

// RenderSpans serializes an inline span tree. All literal text and attribute
// values are entity-escaped here, so raw markup in the source can never
// reach the output as structure.
func RenderSpans(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		renderSpan(&sb, s)
	}
	return sb.String()
}

func renderSpan(sb *strings.Builder, s Span) {
	switch s.Kind {
	case SpanText:
		sb.WriteString(html.EscapeString(s.Text))
	case SpanBold:
		sb.WriteString("<strong>")
		sb.WriteString(RenderSpans(s.Children))
		sb.WriteString("</strong>")
	case SpanItalic:
		sb.WriteString("<em>")
		sb.WriteString(RenderSpans(s.Children))
		sb.WriteString("</em>")
	case SpanCode:
		sb.WriteString("<code>")
		sb.WriteString(html.EscapeString(s.Text))
		sb.WriteString("</code>")
	case SpanLink:
		fmt.Fprintf(sb, `<a href="%s" target="_blank" rel="noopener noreferrer">`, html.EscapeString(s.URL))
		sb.WriteString(RenderSpans(s.Children))
		sb.WriteString("</a>")
	case SpanImage:
		fmt.Fprintf(sb, `<img src="%s" alt="%s" loading="lazy" decoding="async" class="%s" />`,
			html.EscapeString(s.URL), html.EscapeString(s.Text), imageClass)
	}
}
