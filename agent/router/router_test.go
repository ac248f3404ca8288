package router

import (
	"testing"

	langx "github.com/tasia-assistant/tasia/agent/lang"
	toolx "github.com/tasia-assistant/tasia/agent/tool"
)

func TestDecideTranslation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		text        string
		wantPayload string
		wantLang    langx.Language
	}{
		{
			name:        "ukrainian keyword with colon",
			text:        "переклади: good morning",
			wantPayload: "good morning",
			wantLang:    langx.UK,
		},
		{
			name:        "ukrainian keyword without colon",
			text:        "переклади good morning",
			wantPayload: "good morning",
			wantLang:    langx.UK,
		},
		{
			name:        "english keyword",
			text:        "translate: good morning",
			wantPayload: "good morning",
			wantLang:    langx.EN,
		},
		{
			name:        "long english trigger wins over short",
			text:        "translate to ukrainian: good morning",
			wantPayload: "good morning",
			wantLang:    langx.EN,
		},
		{
			name:        "short ukrainian prefix",
			text:        "укр: good morning",
			wantPayload: "good morning",
			wantLang:    langx.UK,
		},
		{
			name:        "case insensitive trigger",
			text:        "Translate: Good Morning",
			wantPayload: "Good Morning",
			wantLang:    langx.EN,
		},
		{
			name:        "empty payload after keyword",
			text:        "переклади:",
			wantPayload: "",
			wantLang:    langx.UK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := Decide(tc.text, nil)
			if d.Route != RouteTranslate {
				t.Fatalf("Decide(%q).Route = %q, want %q", tc.text, d.Route, RouteTranslate)
			}
			if d.Capability != toolx.CapabilityTranslate {
				t.Fatalf("capability = %q, want %q", d.Capability, toolx.CapabilityTranslate)
			}
			if got := d.Args["user_input"]; got != tc.wantPayload {
				t.Fatalf("payload = %q, want %q", got, tc.wantPayload)
			}
			if got := d.Args["language"]; got != string(tc.wantLang) {
				t.Fatalf("language = %q, want %q", got, tc.wantLang)
			}
		})
	}
}

func TestDecideTranslationOverridesBiographySignal(t *testing.T) {
	t.Parallel()

	// The message carries both a first-person question and a translation
	// keyword; the translation rule must win.
	d := Decide("translate: what is my name?", nil)
	if d.Route != RouteTranslate {
		t.Fatalf("route = %q, want %q", d.Route, RouteTranslate)
	}
	if got := d.Args["user_input"]; got != "what is my name?" {
		t.Fatalf("payload = %q, want the full remainder", got)
	}
}

func TestDecideAboutMe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		lang langx.Language
	}{
		{name: "english bio question", text: "what is my name?", lang: langx.EN},
		{name: "ukrainian bio question", text: "як мене звати?", lang: langx.UK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := Decide(tc.text, nil)
			if d.Route != RouteAboutMe {
				t.Fatalf("Decide(%q).Route = %q, want %q", tc.text, d.Route, RouteAboutMe)
			}
			if d.Capability != toolx.CapabilityAboutMe {
				t.Fatalf("capability = %q, want %q", d.Capability, toolx.CapabilityAboutMe)
			}
			if got := d.Args["question"]; got != tc.text {
				t.Fatalf("question = %q, want the original text", got)
			}
			if d.Language != tc.lang {
				t.Fatalf("language = %q, want %q", d.Language, tc.lang)
			}
		})
	}
}

func TestDecideAcknowledge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		wantReply string
	}{
		{name: "ukrainian fact", text: "мене звати Тарас", wantReply: ackUK},
		{name: "english fact", text: "my favourite color is green", wantReply: ackEN},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			d := Decide(tc.text, nil)
			if d.Route != RouteAcknowledge {
				t.Fatalf("Decide(%q).Route = %q, want %q", tc.text, d.Route, RouteAcknowledge)
			}
			if d.Reply != tc.wantReply {
				t.Fatalf("reply = %q, want %q", d.Reply, tc.wantReply)
			}
		})
	}
}

func TestDecideDefaultsToModel(t *testing.T) {
	t.Parallel()

	d := Decide("what is the capital of France?", nil)
	if d.Route != RouteModel {
		t.Fatalf("route = %q, want %q", d.Route, RouteModel)
	}
	if d.Capability != "" {
		t.Fatalf("capability = %q, want empty", d.Capability)
	}
}

func TestDecideBlankInput(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "   ", "\n\t"} {
		if d := Decide(text, nil); d.Route != RouteNone {
			t.Fatalf("Decide(%q).Route = %q, want %q", text, d.Route, RouteNone)
		}
	}
}
