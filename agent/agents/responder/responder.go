// Package responder is the residual reasoning step of the pipeline: when no
// routing rule forces a capability, the chat model answers directly or picks
// a capability on its own judgment. Forced routes bypass it entirely.
package responder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tasia-assistant/tasia/agent/contract"
	toolx "github.com/tasia-assistant/tasia/agent/tool"
)

type Responder struct {
	chatRunner   compose.Runnable[map[string]any, *schema.Message]
	toolRunner   compose.Runnable[map[string]any, *schema.Message]
	registry     *toolx.Registry
	allowedTools map[string]struct{}
}

var _ contractx.Responder = (*Responder)(nil)

func New(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	registry *toolx.Registry,
) (*Responder, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: capability registry is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: system prompt is required", contractx.ErrValidation)
	}

	chatRunner, err := compileMessageGraph(ctx, chatModel, systemPrompt, "responder.chat_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile chat graph: %v", contractx.ErrModelInvoke, err)
	}

	infos := toolInfos(registry)
	toolModel, err := chatModel.WithTools(infos)
	if err != nil {
		return nil, fmt.Errorf("%w: bind capability tools: %v", contractx.ErrModelInvoke, err)
	}
	toolRunner, err := compileMessageGraph(ctx, toolModel, systemPrompt, "responder.tool_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile tool graph: %v", contractx.ErrModelInvoke, err)
	}

	allowed := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		if info != nil && strings.TrimSpace(info.Name) != "" {
			allowed[info.Name] = struct{}{}
		}
	}

	return &Responder{
		chatRunner:   chatRunner,
		toolRunner:   toolRunner,
		registry:     registry,
		allowedTools: allowed,
	}, nil
}

func (r *Responder) Respond(ctx context.Context, req contractx.ResponderRequest) (string, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return "", fmt.Errorf("%w: user message is required", contractx.ErrValidation)
	}

	// Pre-supplied tool results (the retrieval-first path) skip planning and
	// go straight to composition.
	if len(req.ToolResults) > 0 {
		return r.compose(ctx, req)
	}

	msg, err := r.invokeRunner(ctx, r.toolRunner, req)
	if err != nil {
		return "", err
	}

	calls, err := toToolCalls(msg.ToolCalls)
	if err != nil {
		return "", err
	}
	if len(calls) == 0 {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			return "", fmt.Errorf("%w: model returned an empty message", contractx.ErrSchemaViolation)
		}
		return content, nil
	}

	results := make([]contractx.ToolResult, 0, len(calls))
	for _, call := range calls {
		if _, ok := r.allowedTools[call.Tool]; !ok {
			return "", fmt.Errorf("%w: tool=%s is not registered", contractx.ErrSchemaViolation, call.Tool)
		}

		capability, err := r.registry.Resolve(call.Tool)
		if err != nil {
			return "", err
		}
		out, err := capability.Invoke(ctx, call.Args)
		if err != nil {
			return "", err
		}
		if out.IsFailure() {
			return "", fmt.Errorf("%w: %s: %s", contractx.ErrCapabilityInvoke, call.Tool, out.Detail)
		}

		// A translation result is final user-facing text and is returned
		// verbatim, no matter what else the model planned.
		if call.Tool == toolx.CapabilityTranslate {
			return out.Text, nil
		}

		result := contractx.ToolResult{Tool: call.Tool, Result: out.Text}
		if out.Kind == contractx.OutcomeNoData {
			result.Result = ""
			result.Error = strings.TrimSpace(out.Text)
		}
		results = append(results, result)
	}

	req.ToolResults = results
	return r.compose(ctx, req)
}

func (r *Responder) compose(ctx context.Context, req contractx.ResponderRequest) (string, error) {
	msg, err := r.invokeRunner(ctx, r.chatRunner, req)
	if err != nil {
		return "", err
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return "", fmt.Errorf("%w: model returned an empty message", contractx.ErrSchemaViolation)
	}
	return content, nil
}

func (r *Responder) invokeRunner(
	ctx context.Context,
	runner compose.Runnable[map[string]any, *schema.Message],
	req contractx.ResponderRequest,
) (*schema.Message, error) {
	payload := map[string]any{
		"user_message": req.UserMessage,
		"chat_history": req.History,
		"tool_results": req.ToolResults,
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal responder payload: %v", contractx.ErrValidation, err)
	}

	msg, err := runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: responder invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)
	}
	return msg, nil
}

type toolCall struct {
	Tool string
	Args map[string]any
}

func toToolCalls(calls []schema.ToolCall) ([]toolCall, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	out := make([]toolCall, 0, len(calls))
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}

		out = append(out, toolCall{Tool: tool, Args: args})
	}
	return out, nil
}
