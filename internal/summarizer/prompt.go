package summarizer

import (
	"strings"

	"github.com/starford/nerdnotes/internal/models"
)

// SystemInstruction frames every summarization request.
const SystemInstruction = "You are an assistant that summarizes personal notes. " +
	"Write a concise summary in Markdown followed by a short list of action items. " +
	"Do not use level-1 headings."

// BuildPrompt assembles the user prompt from the three source sections.
// Empty sections are kept so the model sees the full structure.
func BuildPrompt(raw, processing, connecting string) string {
	var b strings.Builder
	b.WriteString("Summarize the following note and list its action items.\n")
	for _, part := range []struct{ name, body string }{
		{models.SectionRawNotes, raw},
		{models.SectionProcessing, processing},
		{models.SectionConnecting, connecting},
	} {
		b.WriteString("\n## ")
		b.WriteString(part.name)
		b.WriteString("\n")
		if body := strings.TrimSpace(part.body); body != "" {
			b.WriteString(body)
		} else {
			b.WriteString("(empty)")
		}
		b.WriteString("\n")
	}
	return b.String()
}
