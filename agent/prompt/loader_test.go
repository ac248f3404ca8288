package prompt

import (
	"strings"
	"testing"
)

func TestAssistantPromptInjectsTools(t *testing.T) {
	t.Parallel()

	descriptions := "translate: translate english text\nabout_me_search: personal facts"
	rendered := AssistantPrompt(descriptions)

	if strings.Contains(rendered, toolsMarker) {
		t.Fatal("rendered prompt still contains the tools marker")
	}
	if !strings.Contains(rendered, descriptions) {
		t.Fatal("rendered prompt does not contain the capability list")
	}
	// The prompt is embedded into an FString template; stray braces would be
	// parsed as placeholders.
	if strings.ContainsAny(rendered, "{}") {
		t.Fatal("rendered prompt contains braces")
	}
}
