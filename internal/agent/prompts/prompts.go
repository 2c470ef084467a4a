package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/tools"
)

//go:embed template/planner_prompt.txt
var plannerSystemPrompt string

//go:embed template/structured_prompt.txt
var structuredSystemPrompt string

// RenderPlannerSystem renders the tool-enabling system prompt for the
// round controller via the Eino prompt component.
func RenderPlannerSystem(ctx context.Context) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(plannerSystemPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"RouteTool":         tools.ToolGetRoute,
		"AccommodationTool": tools.ToolFindAccommodation,
		"WeatherTool":       tools.ToolGetWeather,
	})
	if err != nil {
		return "", fmt.Errorf("planner prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("planner prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// RenderStructuredSystem returns the fixed-shape instruction prompt for
// the tool-free structured parse call. The template contains literal
// JSON braces, so it is passed through a messages placeholder instead of
// the Go template renderer.
func RenderStructuredSystem(ctx context.Context) (string, error) {
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(structuredSystemPrompt)},
	})
	if err != nil {
		return "", fmt.Errorf("structured prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("structured prompt render: empty result")
	}
	return msgs[0].Content, nil
}
