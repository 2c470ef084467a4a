package chatmodels

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
	logx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/pkg/logger"
)

// ChatModel is the language-model service contract consumed by the loop
// controller and the structured parser: one call in, one message out.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

// Config holds the configuration for chat model creation.
type Config struct {
	APIKey  string
	BaseURL string
	Planner *model.PlannerModelConfig
	Parser  *model.ParserModelConfig
}

// ChatModels holds the planner model (tools bound) and the parser model
// (tool-free, used for the structured parse).
type ChatModels struct {
	Planner          *gemini.ChatModel
	Parser           *gemini.ChatModel
	PlannerModelName string
	ParserModelName  string
}

// New creates both chat models against the Gemini API.
func New(ctx context.Context, config Config) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	planner, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Planner.Model,
		Temperature: &config.Planner.Temperature,
		MaxTokens:   &config.Planner.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating planner model")
		return nil, fmt.Errorf("error creating planner model: %w", err)
	}

	parser, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Parser.Model,
		Temperature: &config.Parser.Temperature,
		MaxTokens:   &config.Parser.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating parser model")
		return nil, fmt.Errorf("error creating parser model: %w", err)
	}

	return &ChatModels{
		Planner:          planner,
		Parser:           parser,
		PlannerModelName: config.Planner.Model,
		ParserModelName:  config.Parser.Model,
	}, nil
}

// BindToolsToPlanner binds the registry-derived tool specs to the
// planner model. The parser model stays tool-free on purpose.
func (cm *ChatModels) BindToolsToPlanner(ctx context.Context, tools []*schema.ToolInfo) error {
	if err := cm.Planner.BindTools(tools); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools to planner model")
		return fmt.Errorf("failed to bind tools: %w", err)
	}
	logx.Debug().Int("tool_count", len(tools)).Msg("Bound tools to planner model")
	return nil
}
