package llm

import (
	"strings"
	"testing"
)

func TestBuildPromptLabelsDocumentsInOrder(t *testing.T) {
	input := GenerateInput{
		Template: TemplateData{
			LetterheadText:   "Smith & Jones LLP",
			OpeningParagraph: "We represent the claimant.",
			ClosingParagraph: "Govern yourselves accordingly.",
			Sections:         []string{"Facts", "Damages"},
		},
		Documents: []DocumentText{
			{DocumentID: "doc-a", Text: "police report text"},
			{DocumentID: "doc-b", Text: "medical bill text"},
		},
	}

	messages := BuildPrompt(input)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != "system" {
		t.Fatalf("expected system message first, got %s", messages[0].Role)
	}

	user := messages[1].Content
	firstLabel := strings.Index(user, "### Document 1 (ID: doc-a)")
	secondLabel := strings.Index(user, "### Document 2 (ID: doc-b)")
	if firstLabel < 0 || secondLabel < 0 {
		t.Fatalf("missing document labels in prompt:\n%s", user)
	}
	if firstLabel > secondLabel {
		t.Fatal("document labels out of order")
	}
	if !strings.Contains(user, "- Facts\n- Damages\n") {
		t.Fatalf("missing section list in prompt")
	}
	if !strings.Contains(user, "Smith & Jones LLP") {
		t.Fatalf("missing letterhead in prompt")
	}
	if !strings.Contains(user, "\n---\n") {
		t.Fatalf("missing document separator in prompt")
	}
}

func TestBuildPromptOmitsEmptyTemplateFields(t *testing.T) {
	messages := BuildPrompt(GenerateInput{
		Documents: []DocumentText{{DocumentID: "doc-1", Text: "text"}},
	})
	user := messages[1].Content
	if strings.Contains(user, "**Letterhead:**") {
		t.Fatal("letterhead block should be omitted when empty")
	}
	if strings.Contains(user, "**Sections to include:**") {
		t.Fatal("sections block should be omitted when empty")
	}
}
