package tool

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/tasia-assistant/tasia/agent/contract"
)

func newCapabilityServer(t *testing.T, name, description string, invoke func(args map[string]any) (string, string)) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /descriptor", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"name":        name,
			"description": description,
		})
	})
	mux.HandleFunc("POST /invoke", func(w http.ResponseWriter, r *http.Request) {
		var req invokeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result, errMsg := invoke(req.Arguments)
		_ = json.NewEncoder(w).Encode(invokeResponse{Result: result, Error: errMsg})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func discoverAboutMe(t *testing.T, srv *httptest.Server) *AboutMeCapability {
	t.Helper()

	svc, err := Discover(context.Background(), ServiceConfig{URL: srv.URL})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	c, err := NewAboutMeCapability(svc)
	if err != nil {
		t.Fatalf("NewAboutMeCapability: %v", err)
	}
	return c
}

func TestAboutMeAnswer(t *testing.T) {
	t.Parallel()

	srv := newCapabilityServer(t, CapabilityAboutMe, "personal facts", func(args map[string]any) (string, string) {
		if args["question"] != "what is my name?" {
			t.Errorf("question = %v, want the original question", args["question"])
		}
		return "Your name is Taras.", ""
	})

	c := discoverAboutMe(t, srv)
	out, err := c.Invoke(context.Background(), map[string]any{"question": "what is my name?"})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.Kind != contractx.OutcomeAnswer || out.Text != "Your name is Taras." {
		t.Fatalf("outcome = %+v, want the service answer", out)
	}
}

func TestAboutMeNoData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   string
		question string
		want     string
	}{
		{name: "empty result, english question", result: "", question: "what is my name?", want: noDataEN},
		{name: "empty result, ukrainian question", result: "", question: "як мене звати?", want: noDataUK},
		{name: "sentinel passthrough", result: noDataEN, question: "what is my name?", want: noDataEN},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := newCapabilityServer(t, CapabilityAboutMe, "personal facts", func(map[string]any) (string, string) {
				return tc.result, ""
			})

			c := discoverAboutMe(t, srv)
			out, err := c.Invoke(context.Background(), map[string]any{"question": tc.question})
			if err != nil {
				t.Fatalf("Invoke: %v", err)
			}
			if out.Kind != contractx.OutcomeNoData {
				t.Fatalf("kind = %v, want no_data", out.Kind)
			}
			if out.Text != tc.want {
				t.Fatalf("sentinel = %q, want %q", out.Text, tc.want)
			}
		})
	}
}

func TestAboutMeDownstreamError(t *testing.T) {
	t.Parallel()

	srv := newCapabilityServer(t, CapabilityAboutMe, "personal facts", func(map[string]any) (string, string) {
		return "", "index unavailable"
	})

	c := discoverAboutMe(t, srv)
	out, err := c.Invoke(context.Background(), map[string]any{"question": "what is my name?"})
	if !errors.Is(err, contractx.ErrCapabilityInvoke) {
		t.Fatalf("err = %v, want ErrCapabilityInvoke", err)
	}
	if !out.IsFailure() {
		t.Fatalf("outcome kind = %v, want failure", out.Kind)
	}
}

func TestAboutMeRequiresQuestion(t *testing.T) {
	t.Parallel()

	srv := newCapabilityServer(t, CapabilityAboutMe, "personal facts", func(map[string]any) (string, string) {
		t.Error("service must not be called for a blank question")
		return "", ""
	})

	c := discoverAboutMe(t, srv)
	if _, err := c.Invoke(context.Background(), map[string]any{"question": "  "}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestDiscoverRejectsWrongCapabilityName(t *testing.T) {
	t.Parallel()

	srv := newCapabilityServer(t, "something_else", "other", func(map[string]any) (string, string) {
		return "", ""
	})

	svc, err := Discover(context.Background(), ServiceConfig{URL: srv.URL})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if _, err := NewAboutMeCapability(svc); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation for the name mismatch", err)
	}
}
