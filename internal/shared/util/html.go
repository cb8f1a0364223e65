package util

import (
	"strings"

	"golang.org/x/net/html"
)

// Tags letter content may carry after sanitization. Anything else is
// reduced to its text so downstream rendering never sees stray markup.
var allowedTags = map[string]bool{
	"p": true, "br": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"strong": true, "em": true, "b": true, "i": true, "u": true,
	"ul": true, "ol": true, "li": true,
}

// Tags whose text content is dropped entirely, not just the markup.
var droppedContentTags = map[string]bool{
	"script": true,
	"style":  true,
}

// AllowedHTMLTag reports whether the tag survives sanitization.
func AllowedHTMLTag(tag string) bool {
	return allowedTags[strings.ToLower(tag)]
}

// SanitizeHTML reduces markup to the letter-content tag allow-list.
// Attributes are stripped, disallowed tags contribute only their text,
// and script/style bodies are removed.
func SanitizeHTML(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	z := html.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder
	skipDepth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			// Tokenizer reports io.EOF as an error token at end of input.
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := strings.ToLower(string(name))
			if droppedContentTags[tag] {
				skipDepth++
				continue
			}
			if skipDepth > 0 {
				continue
			}
			if allowedTags[tag] {
				b.WriteString("<" + tag + ">")
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := strings.ToLower(string(name))
			if skipDepth > 0 {
				continue
			}
			if allowedTags[tag] {
				b.WriteString("<" + tag + "/>")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := strings.ToLower(string(name))
			if droppedContentTags[tag] {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			if allowedTags[tag] && tag != "br" {
				b.WriteString("</" + tag + ">")
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			b.WriteString(html.EscapeString(string(z.Text())))
		}
	}
}
