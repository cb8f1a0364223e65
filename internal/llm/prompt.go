package llm

import (
	"fmt"
	"strings"
)

// Message is a provider-neutral chat message.
type Message struct {
	Role    string
	Content string
}

const systemPrompt = `You are an expert legal writer specializing in personal injury demand letters.
Your role is to draft professional, persuasive demand letters that attorneys can use in settlement negotiations.
You have access to source documents (medical records, police reports, bills, etc.) and a firm-specific template
that defines the structure and style for the letter.

GUIDELINES:
- Follow the template's section organization exactly; use the provided letterhead, opening, and closing paragraphs as guides.
- Use specific facts and figures from the source documents; only include information they support.
- Maintain a formal, assertive tone without being aggressive.
- Address all elements of damages (economic and non-economic) and state a clear demand.

OUTPUT FORMAT:
- Generate HTML content only (no markdown, no explanations).
- Use semantic HTML tags: <h1>, <h2>, <h3> for headings; <p> for paragraphs; <strong>, <em> for emphasis; <ul>, <ol>, <li> for lists.
- Make the letter ready for attorney review and finalization.`

// BuildPrompt assembles the chat messages for one generation call: the system
// prompt, then a user prompt carrying the template structure, the labelled
// document texts, and the output requirements.
func BuildPrompt(input GenerateInput) []Message {
	var user strings.Builder

	user.WriteString(templateInstructions(input.Template))
	user.WriteString("\n## SOURCE DOCUMENTS\n\n")
	user.WriteString(documentContext(input.Documents))
	user.WriteString("\n## OUTPUT REQUIREMENTS\n\n")
	user.WriteString("Generate a complete demand letter in HTML format following the template structure above, ")
	user.WriteString("incorporating relevant information from the source documents. ")
	user.WriteString("Output only the HTML content of the letter, without any additional explanation or markdown formatting.")

	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user.String()},
	}
}

func templateInstructions(tpl TemplateData) string {
	var b strings.Builder
	b.WriteString("## TEMPLATE STRUCTURE\n\n")

	if tpl.LetterheadText != "" {
		b.WriteString("**Letterhead:**\n")
		b.WriteString(tpl.LetterheadText)
		b.WriteString("\n\n")
	}
	if tpl.OpeningParagraph != "" {
		b.WriteString("**Opening Paragraph:**\n")
		b.WriteString(tpl.OpeningParagraph)
		b.WriteString("\n\n")
	}
	if len(tpl.Sections) > 0 {
		b.WriteString("**Sections to include:**\n")
		for _, section := range tpl.Sections {
			b.WriteString("- ")
			b.WriteString(section)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if tpl.ClosingParagraph != "" {
		b.WriteString("**Closing Paragraph:**\n")
		b.WriteString(tpl.ClosingParagraph)
		b.WriteString("\n\n")
	}

	return b.String()
}

func documentContext(docs []DocumentText) string {
	var b strings.Builder
	for idx, doc := range docs {
		fmt.Fprintf(&b, "### Document %d (ID: %s)\n\n", idx+1, doc.DocumentID)
		b.WriteString(doc.Text)
		b.WriteString("\n\n---\n\n")
	}
	return b.String()
}
