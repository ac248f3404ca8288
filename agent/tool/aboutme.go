package tool

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tasia-assistant/tasia/agent/contract"
	langx "github.com/tasia-assistant/tasia/agent/lang"
)

const (
	noDataEN = "No data available."
	noDataUK = "Немає даних"
)

// NoDataSentinel returns the localized no-data reply for the given language.
func NoDataSentinel(l langx.Language) string {
	return langx.Pick(noDataEN, noDataUK, l)
}

// IsNoDataSentinel reports whether text is the sentinel in either language.
func IsNoDataSentinel(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == noDataEN || trimmed == noDataUK
}

// AboutMeCapability queries the retrieval service for recorded personal
// facts. The service never invents content; an empty or sentinel reply maps
// to a NoData outcome so the router can fall back to conversation history.
type AboutMeCapability struct {
	svc         *RemoteService
	name        string
	description string
}

func NewAboutMeCapability(svc *RemoteService) (*AboutMeCapability, error) {
	if svc == nil {
		return nil, fmt.Errorf("%w: retrieval service is required", contractx.ErrValidation)
	}
	if svc.Name() != CapabilityAboutMe {
		return nil, fmt.Errorf("%w: expected capability %q, got %q", contractx.ErrValidation, CapabilityAboutMe, svc.Name())
	}
	return &AboutMeCapability{
		svc:         svc,
		name:        svc.Name(),
		description: svc.Description(),
	}, nil
}

func (c *AboutMeCapability) Name() string        { return c.name }
func (c *AboutMeCapability) Description() string { return c.description }

func (c *AboutMeCapability) Invoke(ctx context.Context, args map[string]any) (contractx.Outcome, error) {
	question, _ := args["question"].(string)
	question = strings.TrimSpace(question)
	if question == "" {
		return contractx.Outcome{}, fmt.Errorf("%w: question is required", contractx.ErrValidation)
	}

	result, err := c.svc.Invoke(ctx, map[string]any{"question": question})
	if err != nil {
		return contractx.Failure(err.Error()), err
	}

	answer := strings.TrimSpace(result)
	if answer == "" || IsNoDataSentinel(answer) {
		return contractx.NoData(NoDataSentinel(langx.Detect(question))), nil
	}
	return contractx.Answer(answer), nil
}
