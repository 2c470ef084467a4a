package parsers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/chatmodels"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/prompts"
	errx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/core/error"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/observability"
	logx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/pkg/logger"
)

// basic safety limit to avoid pathological model outputs
const maxContentLen = 128 * 1024

// DefaultQuestions are substituted when no plan could be assembled and
// the structured parse produced nothing usable.
var DefaultQuestions = []string{
	"Where does your trip start and end?",
	"How far would you like to cycle per day (km)?",
	"What are your travel dates?",
	"Do you have a lodging preference (hostel, BnB, hotel)?",
	"Any weather constraints we should plan around?",
}

// Parser issues the second, tool-free model call that turns the
// sanitized transcript into a fixed-shape ChatLLMResponse.
type Parser struct {
	model   chatmodels.ChatModel
	enabled bool
}

// NewParser builds a structured parser. enabled mirrors the
// FEATURE_STRUCTURED_PARSE flag: when false, Parse always reports a
// parse error so callers go straight to fallback synthesis.
func NewParser(m chatmodels.ChatModel, enabled bool) *Parser {
	return &Parser{model: m, enabled: enabled}
}

// Parse runs the structured parse over a sanitized transcript. The
// transcript must contain no dangling tool calls. A non-nil error is
// always a recoverable errx.KindParse error.
func (p *Parser) Parse(ctx context.Context, transcript []*schema.Message) (*model.ChatLLMResponse, error) {
	if !p.enabled {
		return nil, errx.NewKind(fmt.Errorf("structured parse disabled"), errx.KindParse, "structured parse skipped")
	}

	sysPrompt, err := prompts.RenderStructuredSystem(ctx)
	if err != nil {
		return nil, errx.NewKind(err, errx.KindParse, "structured prompt render failed")
	}

	msgs := make([]*schema.Message, 0, len(transcript)+1)
	msgs = append(msgs, schema.SystemMessage(sysPrompt))
	for _, m := range transcript {
		if m == nil || m.Role == schema.System {
			continue
		}
		msgs = append(msgs, m)
	}

	start := time.Now()
	resp, err := p.model.Generate(ctx, msgs)
	observability.ObserveLLMLatency("parse", time.Since(start))
	if err != nil {
		logx.Warn().Err(err).Msg("Structured parse call failed")
		return nil, errx.NewKind(err, errx.KindParse, "structured parse call failed")
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return nil, errx.NewKind(fmt.Errorf("empty structured response"), errx.KindParse, "structured parse empty")
	}

	parsed, err := ParseStructured(resp.Content)
	if err != nil {
		logx.Warn().Err(err).Msg("Structured response malformed")
		return nil, err
	}
	return parsed, nil
}

// ParseStructured decodes the model's structured output. It tolerates
// surrounding prose and code fences by extracting the outermost JSON
// object first.
func ParseStructured(content string) (resp *model.ChatLLMResponse, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "structured_parser").Msgf("panic recovered: %v", r)
			resp = nil
			err = errx.NewKind(fmt.Errorf("structured parser panic"), errx.KindParse, errx.SystemErrorMessage)
		}
	}()

	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "structured_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}

	raw := extractJSONObject(content)
	if raw == "" {
		return nil, errx.NewKind(fmt.Errorf("no JSON object in output"), errx.KindParse, "structured output malformed")
	}

	var out model.ChatLLMResponse
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, errx.NewKind(err, errx.KindParse, "structured output malformed")
	}
	if strings.TrimSpace(out.Reply) == "" {
		return nil, errx.NewKind(fmt.Errorf("empty reply field"), errx.KindParse, "structured output malformed")
	}
	return &out, nil
}

// extractJSONObject returns the outermost {...} span of s, or "".
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// Fallback synthesizes a degraded but non-empty ChatLLMResponse from
// the best available plain text. Questions stay empty unless no plan
// could be assembled at all, in which case the default clarifying
// questions are substituted.
func Fallback(lastAssistantText string, planAssembled bool) *model.ChatLLMResponse {
	reply := strings.TrimSpace(lastAssistantText)
	if reply == "" {
		reply = "I could not finish putting your trip plan together. Could you share a few more details?"
	}

	out := &model.ChatLLMResponse{Reply: reply}
	if !planAssembled {
		out.Questions = append([]string(nil), DefaultQuestions...)
	}
	return out
}
