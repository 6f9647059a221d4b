package grounding

import (
	"fmt"
	"strings"

	"course-chatbot-be/pkg/store"
)

// Assembler merges the static business profile with ranked candidates from
// both retrievers into the grounding block for a single turn. The result is
// sent as a system-role message and is never written to the session.
type Assembler struct {
	profile      string
	instructions string
}

func NewAssembler(profile, instructions string) *Assembler {
	return &Assembler{
		profile:      profile,
		instructions: instructions,
	}
}

// Build concatenates, in order: the business profile, a labeled block of
// file candidates (name + content), a labeled numbered block of document
// candidates (markdown link + excerpt), and the fixed response instructions.
func (a *Assembler) Build(fileCandidates, docCandidates []store.Candidate) string {
	var sb strings.Builder
	sb.WriteString(a.profile)

	if len(fileCandidates) > 0 {
		sb.WriteString("\n\nRelevant course files:\n")
		for _, file := range fileCandidates {
			sb.WriteString(fmt.Sprintf("\n--- %s ---\n%s\n", file.Title, file.Content))
		}
	}

	if len(docCandidates) > 0 {
		sb.WriteString("\n\nAvailable courses on the website:\n")
		for i, doc := range docCandidates {
			sb.WriteString(fmt.Sprintf("%d. [%s](%s)\n   %s\n", i+1, doc.Title, doc.URL, doc.Content))
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(a.instructions)
	return sb.String()
}
