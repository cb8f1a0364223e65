package render

import (
	"strings"

	"golang.org/x/net/html"
)

// BlockKind distinguishes paragraph flavors in the rendered document.
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindBulletItem
	KindNumberItem
)

// RunStyle is the inline formatting applied to a run. Styles compose.
type RunStyle struct {
	Bold      bool
	Italic    bool
	Underline bool
}

// Run is a contiguous stretch of text with one style, or a line break.
type Run struct {
	Text  string
	Style RunStyle
	Break bool
}

// Block is one output paragraph. Level is the heading level (1..6) for
// KindHeading and zero otherwise.
type Block struct {
	Kind  BlockKind
	Level int
	Runs  []Run
}

var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// ParseBlocks converts sanitized HTML into an ordered block list. The mapping
// is deterministic: p and h1..h6 start blocks, strong/b, em/i and u set run
// styles, ul/ol li become single-level list items (nesting flattened), br is
// a line break, and unknown tags contribute bare text. Parsing never fails;
// malformed input degrades to plain paragraphs.
func ParseBlocks(content string) []Block {
	tokenizer := html.NewTokenizer(strings.NewReader(content))

	var blocks []Block
	var current *Block
	var style RunStyle
	var styleStack []RunStyle
	var listStack []BlockKind

	flush := func() {
		if current != nil && len(current.Runs) > 0 {
			blocks = append(blocks, *current)
		}
		current = nil
	}
	open := func(kind BlockKind, level int) {
		flush()
		current = &Block{Kind: kind, Level: level}
	}
	ensure := func() {
		if current == nil {
			current = &Block{Kind: KindParagraph}
		}
	}

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			switch {
			case tag == "p":
				open(KindParagraph, 0)
			case headingLevels[tag] > 0:
				open(KindHeading, headingLevels[tag])
			case tag == "ul":
				listStack = append(listStack, KindBulletItem)
			case tag == "ol":
				listStack = append(listStack, KindNumberItem)
			case tag == "li":
				kind := KindBulletItem
				if len(listStack) > 0 {
					kind = listStack[len(listStack)-1]
				}
				open(kind, 0)
			case tag == "br":
				ensure()
				current.Runs = append(current.Runs, Run{Break: true})
			case tag == "strong" || tag == "b":
				styleStack = append(styleStack, style)
				style.Bold = true
			case tag == "em" || tag == "i":
				styleStack = append(styleStack, style)
				style.Italic = true
			case tag == "u":
				styleStack = append(styleStack, style)
				style.Underline = true
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			switch {
			case tag == "p" || headingLevels[tag] > 0 || tag == "li":
				flush()
			case tag == "ul" || tag == "ol":
				flush()
				if len(listStack) > 0 {
					listStack = listStack[:len(listStack)-1]
				}
			case tag == "strong" || tag == "b" || tag == "em" || tag == "i" || tag == "u":
				if len(styleStack) > 0 {
					style = styleStack[len(styleStack)-1]
					styleStack = styleStack[:len(styleStack)-1]
				}
			}
		case html.TextToken:
			text := collapseSpace(string(tokenizer.Text()))
			if text == "" {
				continue
			}
			ensure()
			current.Runs = append(current.Runs, Run{Text: text, Style: style})
		}
	}
	flush()

	return blocks
}

// collapseSpace trims a text node and folds internal whitespace runs into
// single spaces, keeping inter-word spacing across element boundaries.
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	out := strings.Join(fields, " ")
	if strings.HasPrefix(s, " ") || strings.HasPrefix(s, "\n") || strings.HasPrefix(s, "\t") {
		out = " " + out
	}
	if strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\t") {
		out += " "
	}
	return out
}
