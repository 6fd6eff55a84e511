package llm

import (
	"fmt"

	"PublicationsImporter/internal/domain"
	"PublicationsImporter/pkg/textutil"
)

const promptTemplate = `You are an assistant that summarizes NASA bioscience publications for mission planners and scientists.
Summarize the following Results + Conclusions into 3-5 short actionable bullet points (8-18 words each). Keep bullets concise and focused on actionable outcomes.

Title: %s

Text:
%s

Output format:
- Bullet 1
- Bullet 2
- Bullet 3
`

// BuildPrompt renders the summarization prompt. The excerpt is cut to
// domain.MaxSummaryInput characters first.
func BuildPrompt(title, excerpt string) string {
	return fmt.Sprintf(promptTemplate, title, textutil.Head(excerpt, domain.MaxSummaryInput))
}
