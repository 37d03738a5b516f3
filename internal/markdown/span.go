package markdown

import "regexp"

// SpanKind identifies an inline node type.
type SpanKind int

const (
	SpanText SpanKind = iota
	SpanBold
	SpanItalic
	SpanCode
	SpanLink
	SpanImage
)

// Span is one node of the inline tree for a single line of text.
// Text holds literal content for SpanText and SpanCode, and the alt text for
// SpanImage. URL is set for SpanLink and SpanImage. Children carry the parsed
// inner content of SpanBold, SpanItalic, and SpanLink.
type Span struct {
	Kind     SpanKind
	Text     string
	URL      string
	Children []Span
}

var (
	imageRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	linkRe  = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	boldRe  = regexp.MustCompile(`\*\*(.*?)\*\*`)
	codeRe  = regexp.MustCompile("`(.*?)`")
)

// ParseInline converts one logical line (newline-free) into a span tree.
// Substitutions apply in a fixed order: image, link, bold, italic, code.
// Each pass only descends into text produced by earlier passes, so injected
// structure is never re-matched. Unmatched or partial syntax stays literal.
func ParseInline(line string) []Span {
	return parseFrom(line, 0)
}

// passes are indexed so that the content of a matched span is parsed only by
// the passes that come after it.
const (
	passImage = iota
	passLink
	passBold
	passItalic
	passCode
	passDone
)

func parseFrom(text string, pass int) []Span {
	if text == "" {
		return nil
	}
	switch pass {
	case passImage:
		return splitByRegexp(text, imageRe, pass, func(m []string) Span {
			// alt text is literal, not parsed further
			return Span{Kind: SpanImage, Text: m[1], URL: m[2]}
		})
	case passLink:
		return splitByRegexp(text, linkRe, pass, func(m []string) Span {
			return Span{Kind: SpanLink, URL: m[2], Children: parseFrom(m[1], passBold)}
		})
	case passBold:
		return splitByRegexp(text, boldRe, pass, func(m []string) Span {
			return Span{Kind: SpanBold, Children: parseFrom(m[1], passItalic)}
		})
	case passItalic:
		return parseItalic(text)
	case passCode:
		return splitByRegexp(text, codeRe, pass, func(m []string) Span {
			return Span{Kind: SpanCode, Text: m[1]}
		})
	default:
		return []Span{{Kind: SpanText, Text: text}}
	}
}

// splitByRegexp slices text around re's matches; matched segments become
// spans via mk, the segments between them continue to the next pass.
func splitByRegexp(text string, re *regexp.Regexp, pass int, mk func(m []string) Span) []Span {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return parseFrom(text, pass+1)
	}
	var out []Span
	prev := 0
	for _, loc := range locs {
		out = append(out, parseFrom(text[prev:loc[0]], pass+1)...)
		groups := make([]string, 0, len(loc)/2)
		for g := 0; g < len(loc); g += 2 {
			if loc[g] < 0 {
				groups = append(groups, "")
				continue
			}
			groups = append(groups, text[loc[g]:loc[g+1]])
		}
		out = append(out, mk(groups))
		prev = loc[1]
	}
	out = append(out, parseFrom(text[prev:], pass+1)...)
	return out
}

// parseItalic matches *text* pairs whose asterisks are not part of a **
// sequence on either side. Bold pairs were consumed by the previous pass, so
// any ** still present here belongs to unmatched syntax and stays literal.
func parseItalic(text string) []Span {
	var out []Span
	prev := 0
	for i := 0; i < len(text); i++ {
		if !isSingleStar(text, i) {
			continue
		}
		j := closingStar(text, i)
		if j < 0 {
			continue
		}
		out = append(out, parseFrom(text[prev:i], passCode)...)
		out = append(out, Span{Kind: SpanItalic, Children: parseFrom(text[i+1:j], passCode)})
		prev = j + 1
		i = j
	}
	out = append(out, parseFrom(text[prev:], passCode)...)
	return out
}

// isSingleStar reports whether text[i] is a '*' with no '*' adjacent.
func isSingleStar(text string, i int) bool {
	if text[i] != '*' {
		return false
	}
	if i > 0 && text[i-1] == '*' {
		return false
	}
	return i+1 >= len(text) || text[i+1] != '*'
}

// closingStar finds the matching single '*' after an opener at i, requiring
// non-empty, asterisk-free inner content. The first '*' after the opener
// must be the closer; an inner '*' run (as in "*a**b*") voids the pair and
// the whole run stays literal. Returns -1 when the opener has no closer.
func closingStar(text string, i int) int {
	for j := i + 1; j < len(text); j++ {
		if text[j] != '*' {
			continue
		}
		if isSingleStar(text, j) && j > i+1 {
			return j
		}
		return -1
	}
	return -1
}
