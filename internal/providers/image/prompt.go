package image

import (
	"fmt"
	"strings"

	"banksy/internal/reference"
)

// DescriptionLead introduces the user prompt, which always closes the final prompt.
const DescriptionLead = "Follow this description to generate the image:"

// InlineReferenceLine is used when the reference travels as an attached image.
const InlineReferenceLine = "Use the attached reference image as guidance for style and composition."

// BuildPrompt joins the style block, the reference guidance and the user
// prompt, one per line.
func BuildPrompt(style string, ref *reference.Reference, userPrompt string) string {
	var lines []string

	if style = strings.TrimSpace(style); style != "" {
		lines = append(lines, style)
	}

	switch {
	case ref == nil:
	case ref.Inline():
		lines = append(lines, InlineReferenceLine)
	case strings.TrimSpace(ref.URL) != "":
		lines = append(lines, fmt.Sprintf("Reference image for style guidance: %s", strings.TrimSpace(ref.URL)))
	}

	lines = append(lines, DescriptionLead+" "+strings.TrimSpace(userPrompt))
	return strings.Join(lines, "\n")
}
