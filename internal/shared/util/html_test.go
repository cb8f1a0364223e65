package util

import (
	"strings"
	"testing"
)

func TestSanitizeHTMLKeepsAllowedTags(t *testing.T) {
	in := `<h2>Facts</h2><p>The claimant was <strong>injured</strong> on <em>June 1</em>.</p><ul><li>Item one</li></ul>`
	got := SanitizeHTML(in)
	if got != in {
		t.Fatalf("expected allow-listed markup unchanged, got %q", got)
	}
}

func TestSanitizeHTMLStripsAttributes(t *testing.T) {
	got := SanitizeHTML(`<p style="color:red" onclick="alert(1)">hello</p>`)
	if got != "<p>hello</p>" {
		t.Fatalf("expected attributes stripped, got %q", got)
	}
}

func TestSanitizeHTMLDropsDisallowedTagsKeepingText(t *testing.T) {
	got := SanitizeHTML(`<div><p>kept <span>inline</span></p></div><a href="https://example.com">link text</a>`)
	if got != "<p>kept inline</p>link text" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeHTMLRemovesScriptBodies(t *testing.T) {
	got := SanitizeHTML(`<p>before</p><script>alert("xss")</script><p>after</p>`)
	if strings.Contains(got, "alert") {
		t.Fatalf("script body leaked: %q", got)
	}
	if got != "<p>before</p><p>after</p>" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeHTMLEscapesText(t *testing.T) {
	got := SanitizeHTML(`<p>5 &lt; 6 &amp; 7 > 2</p>`)
	if !strings.Contains(got, "&lt;") || !strings.Contains(got, "&amp;") {
		t.Fatalf("expected entities preserved, got %q", got)
	}
}

func TestSanitizeHTMLEmptyInput(t *testing.T) {
	if got := SanitizeHTML("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
