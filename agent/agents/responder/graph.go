package responder

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	toolx "github.com/tasia-assistant/tasia/agent/tool"
)

func compileMessageGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
	graphName string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", graphName, err)
	}
	return runner, nil
}

// toolInfos presents the registered capabilities to the model. Registry
// ordering applies, so the translation capability always comes first in the
// candidate list.
func toolInfos(registry *toolx.Registry) []*schema.ToolInfo {
	capabilities := registry.List()
	infos := make([]*schema.ToolInfo, 0, len(capabilities))
	for _, c := range capabilities {
		infos = append(infos, &schema.ToolInfo{
			Name:        c.Name(),
			Desc:        c.Description(),
			ParamsOneOf: paramsFor(c.Name()),
		})
	}
	return infos
}

func paramsFor(name string) *schema.ParamsOneOf {
	switch name {
	case toolx.CapabilityTranslate:
		return schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"user_input": {Type: schema.String, Desc: "Source text to translate, verbatim", Required: true},
			"language":   {Type: schema.String, Desc: "Language of the instruction: uk or en"},
		})
	case toolx.CapabilityAboutMe:
		return schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"question": {Type: schema.String, Desc: "Focused query about the user's recorded facts", Required: true},
		})
	default:
		return schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"input": {Type: schema.String, Desc: "Free-form input", Required: true},
		})
	}
}
