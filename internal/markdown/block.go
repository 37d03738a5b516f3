package markdown

import "strings"

// BlockKind identifies a top-level block type.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockCode
	BlockQuote
	BlockList
	BlockParagraph
)

// Block is one typed unit of a segmented document, in source order.
type Block struct {
	Kind  BlockKind
	Level int      // heading level 1-3
	Code  string   // verbatim fenced content, newline-joined
	Spans []Span   // heading, quote, and paragraph content
	Items [][]Span // list items, one span tree per bullet
}

// Segment splits a raw document body into typed blocks in a single forward
// pass. Classification order: blank, heading, fence, blockquote, list,
// paragraph; a line belongs to the first rule that matches.
func Segment(content string) []Block {
	lines := strings.Split(content, "\n")
	var blocks []Block
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, Block{Kind: BlockHeading, Level: 3, Spans: ParseInline(line[4:])})
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, Block{Kind: BlockHeading, Level: 2, Spans: ParseInline(line[3:])})
		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, Block{Kind: BlockHeading, Level: 1, Spans: ParseInline(line[2:])})
		case strings.HasPrefix(line, "```"):
			var code []string
			i++
			for i < len(lines) && !strings.HasPrefix(lines[i], "```") {
				code = append(code, lines[i])
				i++
			}
			// code is literal, never inline-parsed
			blocks = append(blocks, Block{Kind: BlockCode, Code: strings.Join(code, "\n")})
		case strings.HasPrefix(line, "> "):
			quote := []string{line[2:]}
			for i+1 < len(lines) && strings.HasPrefix(lines[i+1], "> ") {
				i++
				quote = append(quote, lines[i][2:])
			}
			blocks = append(blocks, Block{Kind: BlockQuote, Spans: ParseInline(strings.Join(quote, " "))})
		case isBullet(line):
			var items [][]Span
			items = append(items, ParseInline(line[2:]))
			for i+1 < len(lines) && isBullet(lines[i+1]) {
				i++
				items = append(items, ParseInline(lines[i][2:]))
			}
			blocks = append(blocks, Block{Kind: BlockList, Items: items})
		default:
			para := []string{line}
			for i+1 < len(lines) && continuesParagraph(lines[i+1]) {
				i++
				para = append(para, lines[i])
			}
			blocks = append(blocks, Block{Kind: BlockParagraph, Spans: ParseInline(strings.Join(para, " "))})
		}
	}
	return blocks
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "- ")
}

// continuesParagraph reports whether a line extends the current paragraph:
// non-blank and not opening any other block type.
func continuesParagraph(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	return !strings.HasPrefix(line, "#") &&
		!strings.HasPrefix(line, "```") &&
		!strings.HasPrefix(line, ">") &&
		!isBullet(line)
}
