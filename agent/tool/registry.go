package tool

import (
	"fmt"
	"strings"

	contractx "github.com/tasia-assistant/tasia/agent/contract"
)

const (
	CapabilityTranslate = "translate"
	CapabilityAboutMe   = "about_me_search"
)

// Registry enumerates the capabilities available to routing. It is populated
// once at startup; List and Resolve are safe for concurrent use afterwards.
type Registry struct {
	ordered []contractx.Capability
	byName  map[string]contractx.Capability
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]contractx.Capability, 4),
	}
}

func (r *Registry) Register(c contractx.Capability) error {
	if c == nil {
		return fmt.Errorf("%w: capability is nil", contractx.ErrValidation)
	}
	name := strings.TrimSpace(c.Name())
	if name == "" {
		return fmt.Errorf("%w: capability name is empty", contractx.ErrValidation)
	}
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %s", contractx.ErrDuplicateCapability, name)
	}
	r.byName[name] = c
	r.ordered = append(r.ordered, c)
	return nil
}

// List returns capabilities in routing order: the translation capability
// always first, the rest in registration order. The ordering biases the
// candidate list presented to the reasoning step.
func (r *Registry) List() []contractx.Capability {
	out := make([]contractx.Capability, 0, len(r.ordered))
	if c, ok := r.byName[CapabilityTranslate]; ok {
		out = append(out, c)
	}
	for _, c := range r.ordered {
		if c.Name() == CapabilityTranslate {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *Registry) Resolve(name string) (contractx.Capability, error) {
	c, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", contractx.ErrCapabilityNotFound, name)
	}
	return c, nil
}

// Descriptions renders "name: description" lines for the routing prompt.
func (r *Registry) Descriptions() string {
	var b strings.Builder
	for i, c := range r.List() {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c.Name())
		b.WriteString(": ")
		b.WriteString(c.Description())
	}
	return b.String()
}
