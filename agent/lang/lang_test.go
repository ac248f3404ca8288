package lang

import "testing"

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want Language
	}{
		{name: "english sentence", text: "good morning", want: EN},
		{name: "ukrainian sentence", text: "доброго ранку", want: UK},
		{name: "mixed script counts as ukrainian", text: "hello світ", want: UK},
		{name: "digits only fall through to english", text: "12345", want: EN},
		{name: "empty string", text: "", want: EN},
		{name: "uppercase ukrainian letters", text: "ПРИВІТ", want: UK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Detect(tc.text); got != tc.want {
				t.Fatalf("Detect(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestIsEnglish(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "plain english", text: "good morning", want: true},
		{name: "ukrainian", text: "доброго ранку", want: false},
		{name: "mixed script", text: "hello світ", want: false},
		{name: "digits and punctuation only", text: "42!?", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsEnglish(tc.text); got != tc.want {
				t.Fatalf("IsEnglish(%q) = %t, want %t", tc.text, got, tc.want)
			}
		})
	}
}

func TestPick(t *testing.T) {
	t.Parallel()

	if got := Pick("en", "uk", UK); got != "uk" {
		t.Fatalf("Pick with UK = %q, want uk", got)
	}
	if got := Pick("en", "uk", EN); got != "en" {
		t.Fatalf("Pick with EN = %q, want en", got)
	}
	if got := Pick("en", "uk", Language("")); got != "en" {
		t.Fatalf("Pick with empty tag = %q, want en", got)
	}
}
