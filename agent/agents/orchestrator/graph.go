package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"

	contractx "github.com/tasia-assistant/tasia/agent/contract"
	nodesx "github.com/tasia-assistant/tasia/agent/nodes"
	sessionx "github.com/tasia-assistant/tasia/agent/session"
	toolx "github.com/tasia-assistant/tasia/agent/tool"
)

// compilePipelineGraph wires the request pipeline as a linear graph:
// validate, load history, route, dispatch, append history, finalize.
func compilePipelineGraph(
	ctx context.Context,
	store sessionx.Store,
	registry *toolx.Registry,
	responder contractx.Responder,
	archive *sessionx.TranscriptArchive,
	nowFn func() time.Time,
	logger zerolog.Logger,
) (compose.Runnable[nodesx.GraphInput, nodesx.GraphOutput], error) {
	graph := compose.NewGraph[nodesx.GraphInput, nodesx.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request", compose.InvokableLambda(
		func(_ context.Context, in nodesx.GraphInput) (*nodesx.GraphState, error) {
			return nodesx.ValidateRequest(in, nowFn)
		},
	)); err != nil {
		return nil, fmt.Errorf("add validate_request node: %w", err)
	}

	if err := graph.AddLambdaNode("load_history", compose.InvokableLambda(
		func(ctx context.Context, in *nodesx.GraphState) (*nodesx.GraphState, error) {
			return nodesx.LoadHistory(ctx, in, store)
		},
	)); err != nil {
		return nil, fmt.Errorf("add load_history node: %w", err)
	}

	if err := graph.AddLambdaNode("route_intent", compose.InvokableLambda(
		func(_ context.Context, in *nodesx.GraphState) (*nodesx.GraphState, error) {
			return nodesx.RouteIntent(in)
		},
	)); err != nil {
		return nil, fmt.Errorf("add route_intent node: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch", compose.InvokableLambda(
		func(ctx context.Context, in *nodesx.GraphState) (*nodesx.GraphState, error) {
			return nodesx.Dispatch(ctx, in, registry, responder)
		},
	)); err != nil {
		return nil, fmt.Errorf("add dispatch node: %w", err)
	}

	if err := graph.AddLambdaNode("append_history", compose.InvokableLambda(
		func(ctx context.Context, in *nodesx.GraphState) (*nodesx.GraphState, error) {
			return nodesx.AppendHistory(ctx, in, store, archive, logger)
		},
	)); err != nil {
		return nil, fmt.Errorf("add append_history node: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply", compose.InvokableLambda(
		func(_ context.Context, in *nodesx.GraphState) (nodesx.GraphOutput, error) {
			return nodesx.FinalizeReply(in)
		},
	)); err != nil {
		return nil, fmt.Errorf("add finalize_reply node: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "load_history"},
		{"load_history", "route_intent"},
		{"route_intent", "dispatch"},
		{"dispatch", "append_history"},
		{"append_history", "finalize_reply"},
		{"finalize_reply", compose.END},
	}
	for _, e := range edges {
		if err := graph.AddEdge(e[0], e[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", e[0], e[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.pipeline"))
	if err != nil {
		return nil, fmt.Errorf("compile pipeline graph: %w", err)
	}
	return runner, nil
}
