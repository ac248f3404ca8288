// Package router implements the deterministic rule layer that decides, per
// incoming message, which capability (if any) must handle the request. The
// rules constrain the reasoning step rather than replace it: only the
// residual case is left to the model's own judgment.
package router

import (
	"strings"

	langx "github.com/tasia-assistant/tasia/agent/lang"
	sessionx "github.com/tasia-assistant/tasia/agent/session"
	toolx "github.com/tasia-assistant/tasia/agent/tool"
)

type Route string

const (
	// RouteNone is the blank-input no-op.
	RouteNone Route = "none"
	// RouteTranslate forces the translation capability; its output is
	// returned to the caller unmodified.
	RouteTranslate Route = "translate"
	// RouteAboutMe consults the retrieval capability first; history is a
	// secondary fallback.
	RouteAboutMe Route = "about_me"
	// RouteAcknowledge answers a declarative new-fact statement with a fixed
	// localized acknowledgement. Storage is out of band, not ours.
	RouteAcknowledge Route = "acknowledge"
	// RouteModel defers to the reasoning step's own judgment.
	RouteModel Route = "model"
)

// Decision is produced fresh per request and never persisted.
type Decision struct {
	Route      Route
	Capability string
	Args       map[string]any
	Reply      string
	Language   langx.Language
}

const (
	ackEN = "Got it, saved."
	ackUK = "Дякую, запам'ятав."
)

// translationKeywords map each trigger to the language its instruction is
// written in. Longer triggers come first so "translate to ukrainian" wins
// over "translate". Matching is case-insensitive.
var translationKeywords = []struct {
	keyword     string
	instruction langx.Language
}{
	{"translate to ukrainian", langx.EN},
	{"to ukrainian:", langx.EN},
	{"з англійської:", langx.UK},
	{"перекладіть", langx.UK},
	{"перекласти", langx.UK},
	{"переклади", langx.UK},
	{"translate", langx.EN},
	{"укр:", langx.UK},
}

var firstPersonMarkers = []string{
	" my ", " mine ", " i ", " i'm ", " i am ", " me ",
	" мій ", " моя ", " моє ", " мої ", " мене ", " я ", " у мене ", " звати ",
}

// Decide applies the routing rules in priority order; first match wins. The
// translation override takes precedence over any competing biography or
// fact-statement signal in the same message.
func Decide(text string, history []sessionx.Message) Decision {
	_ = history // history participates downstream; rules fire on the text alone

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Decision{Route: RouteNone}
	}

	language := langx.Detect(trimmed)

	if payload, instruction, ok := matchTranslation(trimmed); ok {
		return Decision{
			Route:      RouteTranslate,
			Capability: toolx.CapabilityTranslate,
			Args: map[string]any{
				"user_input": payload,
				"language":   string(instruction),
			},
			Language: instruction,
		}
	}

	question := isQuestion(trimmed)
	personal := hasFirstPersonMarker(trimmed)

	if question && personal {
		return Decision{
			Route:      RouteAboutMe,
			Capability: toolx.CapabilityAboutMe,
			Args:       map[string]any{"question": trimmed},
			Language:   language,
		}
	}

	if personal && !question {
		return Decision{
			Route:    RouteAcknowledge,
			Reply:    langx.Pick(ackEN, ackUK, language),
			Language: language,
		}
	}

	return Decision{Route: RouteModel, Language: language}
}

// matchTranslation finds the first trigger keyword and extracts the payload
// verbatim: everything after the keyword with only the separator (colon and
// surrounding spaces) stripped. The target-language tag comes from the
// language the instruction keyword is written in, not from the payload.
func matchTranslation(text string) (payload string, instruction langx.Language, ok bool) {
	lowered := strings.ToLower(text)
	for _, entry := range translationKeywords {
		idx := strings.Index(lowered, entry.keyword)
		if idx < 0 {
			continue
		}
		rest := text[idx+len(entry.keyword):]
		rest = strings.TrimLeft(rest, " ")
		rest = strings.TrimPrefix(rest, ":")
		rest = strings.TrimLeft(rest, " ")
		return rest, entry.instruction, true
	}
	return "", "", false
}

func isQuestion(text string) bool {
	return strings.Contains(text, "?")
}

func hasFirstPersonMarker(text string) bool {
	padded := " " + strings.ToLower(text) + " "
	for _, marker := range firstPersonMarkers {
		if strings.Contains(padded, marker) {
			return true
		}
	}
	return false
}
