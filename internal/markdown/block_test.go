package markdown

import (
	"strings"
	"testing"
)

func TestSegmentDocumentOrder(t *testing.T) {
	doc := strings.Join([]string{
		"## The Heading",
		"",
		"First paragraph",
		"continues here.",
		"",
		"Second paragraph.",
		"",
		"* one",
		"- two",
		"* three",
	}, "\n")

	blocks := Segment(doc)
	if len(blocks) != 4 {
		t.Fatalf("want 4 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].Kind != BlockHeading || blocks[0].Level != 2 {
		t.Errorf("block 0: want h2, got %+v", blocks[0])
	}
	if blocks[1].Kind != BlockParagraph || blocks[2].Kind != BlockParagraph {
		t.Errorf("blocks 1-2: want paragraphs, got %v %v", blocks[1].Kind, blocks[2].Kind)
	}
	if got := RenderSpans(blocks[1].Spans); got != "First paragraph continues here." {
		t.Errorf("continuation lines not joined with single space: %q", got)
	}
	if blocks[3].Kind != BlockList || len(blocks[3].Items) != 3 {
		t.Errorf("block 3: want one list with 3 items, got %+v", blocks[3])
	}
}

func TestFencedCodeIsVerbatim(t *testing.T) {
	doc := "```\n**not bold** <tag>\nsecond line\n```\nafter"
	blocks := Segment(doc)
	if len(blocks) != 2 {
		t.Fatalf("want 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Kind != BlockCode {
		t.Fatalf("want code block first, got %v", blocks[0].Kind)
	}
	if blocks[0].Code != "**not bold** <tag>\nsecond line" {
		t.Errorf("code content altered: %q", blocks[0].Code)
	}
	if out := RenderBlock(blocks[0]); strings.Contains(out, "<strong>") {
		t.Errorf("inline substitution leaked into fence: %q", out)
	}
}

func TestUnclosedFenceRunsToEnd(t *testing.T) {
	blocks := Segment("```\nline one\nline two")
	if len(blocks) != 1 || blocks[0].Kind != BlockCode {
		t.Fatalf("want single code block, got %+v", blocks)
	}
	if blocks[0].Code != "line one\nline two" {
		t.Errorf("got %q", blocks[0].Code)
	}
}

func TestBlockquoteJoinsLines(t *testing.T) {
	blocks := Segment("> first\n> second\nplain")
	if len(blocks) != 2 {
		t.Fatalf("want 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Kind != BlockQuote {
		t.Fatalf("want quote, got %v", blocks[0].Kind)
	}
	if got := RenderSpans(blocks[0].Spans); got != "first second" {
		t.Errorf("quote lines not joined: %q", got)
	}
}

func TestHeadingCheckedBeforeParagraph(t *testing.T) {
	blocks := Segment("# One\n### Three\nplain text")
	if len(blocks) != 3 {
		t.Fatalf("want 3 blocks, got %d", len(blocks))
	}
	if blocks[0].Level != 1 || blocks[1].Level != 3 {
		t.Errorf("heading levels wrong: %+v", blocks[:2])
	}
	if blocks[2].Kind != BlockParagraph {
		t.Errorf("want trailing paragraph, got %v", blocks[2].Kind)
	}
}

func TestParagraphStopsAtBlockMarkers(t *testing.T) {
	blocks := Segment("text line\n> quoted")
	if len(blocks) != 2 {
		t.Fatalf("paragraph swallowed following block: %+v", blocks)
	}
	if blocks[1].Kind != BlockQuote {
		t.Errorf("want quote second, got %v", blocks[1].Kind)
	}
}

func TestRenderHTMLComposesInOrder(t *testing.T) {
	out := RenderHTML("# Title\n\nBody with **bold**.")
	want := "<h1>Title</h1>\n<p>Body with <strong>bold</strong>.</p>"
	if out != want {
		t.Fatalf("want %q, got %q", want, out)
	}
}
