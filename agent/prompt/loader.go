package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/assistant.txt
var assistantRaw string

const toolsMarker = "<<TOOLS>>"

// AssistantPrompt renders the routing system prompt with the capability list
// injected. The template is brace-free so it can be embedded into a prompt
// graph without clashing with placeholder syntax.
func AssistantPrompt(toolDescriptions string) string {
	text := strings.TrimSpace(assistantRaw)
	return strings.ReplaceAll(text, toolsMarker, strings.TrimSpace(toolDescriptions))
}
