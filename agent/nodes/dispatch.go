package nodes

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tasia-assistant/tasia/agent/contract"
	routerx "github.com/tasia-assistant/tasia/agent/router"
	toolx "github.com/tasia-assistant/tasia/agent/tool"
)

// Dispatch executes the routing decision: a forced capability call, a fixed
// direct reply, or the model's own judgment. Infrastructure failures surface
// once, without retry; user-facing capability outcomes are normal replies.
func Dispatch(
	ctx context.Context,
	in *GraphState,
	registry *toolx.Registry,
	responder contractx.Responder,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	switch in.Decision.Route {
	case routerx.RouteTranslate:
		return dispatchTranslate(ctx, in, registry)
	case routerx.RouteAboutMe:
		return dispatchAboutMe(ctx, in, registry, responder)
	case routerx.RouteAcknowledge:
		in.Reply = in.Decision.Reply
		return in, nil
	case routerx.RouteModel:
		reply, err := responder.Respond(ctx, contractx.ResponderRequest{
			UserMessage: in.Text,
			History:     in.History,
		})
		if err != nil {
			return nil, err
		}
		in.Reply = reply
		return in, nil
	default:
		return nil, fmt.Errorf("%w: route=%q", ErrNoDecision, in.Decision.Route)
	}
}

// dispatchTranslate returns the capability output verbatim. The router never
// edits or summarizes a translation result.
func dispatchTranslate(ctx context.Context, in *GraphState, registry *toolx.Registry) (*GraphState, error) {
	capability, err := registry.Resolve(in.Decision.Capability)
	if err != nil {
		return nil, err
	}

	out, err := capability.Invoke(ctx, in.Decision.Args)
	if err != nil {
		return nil, err
	}
	if out.IsFailure() {
		return nil, fmt.Errorf("%w: %s: %s", contractx.ErrCapabilityInvoke, capability.Name(), out.Detail)
	}

	in.Reply = out.Text
	in.AllowEmptyReply = true
	return in, nil
}

// dispatchAboutMe consults retrieval first; history is a secondary fallback.
// With no retrieval data and no history, the localized sentinel is the final
// answer. Inventing facts is forbidden.
func dispatchAboutMe(
	ctx context.Context,
	in *GraphState,
	registry *toolx.Registry,
	responder contractx.Responder,
) (*GraphState, error) {
	capability, err := registry.Resolve(in.Decision.Capability)
	if err != nil {
		return nil, err
	}

	out, err := capability.Invoke(ctx, in.Decision.Args)
	if err != nil {
		return nil, err
	}
	if out.IsFailure() {
		return nil, fmt.Errorf("%w: %s: %s", contractx.ErrCapabilityInvoke, capability.Name(), out.Detail)
	}

	if out.Kind == contractx.OutcomeNoData && len(in.History) == 0 {
		in.Reply = out.Text
		return in, nil
	}

	toolResult := contractx.ToolResult{Tool: capability.Name(), Result: out.Text}
	if out.Kind == contractx.OutcomeNoData {
		toolResult.Result = ""
		toolResult.Error = strings.TrimSpace(out.Text)
	}

	reply, err := responder.Respond(ctx, contractx.ResponderRequest{
		UserMessage: in.Text,
		History:     in.History,
		ToolResults: []contractx.ToolResult{toolResult},
	})
	if err != nil {
		return nil, err
	}
	in.Reply = reply
	return in, nil
}
