package loop

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/chatmodels"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/tools"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/observability"
	logx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/pkg/logger"
)

const (
	defaultMaxMainRounds    = 4
	defaultMaxCleanupRounds = 2
)

// Controller drives the bounded tool-use loop: model call, sequential
// tool dispatch, model call again, until the model stops requesting
// tools or the round budget runs out. Tool calls within a round are
// executed strictly in the order received so every result stays
// correlated 1:1 with its request.
type Controller struct {
	model            chatmodels.ChatModel
	registry         *tools.Registry
	maxMainRounds    int
	maxCleanupRounds int
}

func NewController(m chatmodels.ChatModel, registry *tools.Registry, cfg model.LoopConfig) *Controller {
	main := cfg.MaxMainRounds
	if main <= 0 {
		main = defaultMaxMainRounds
	}
	cleanup := cfg.MaxCleanupRounds
	if cleanup <= 0 {
		cleanup = defaultMaxCleanupRounds
	}
	return &Controller{
		model:            m,
		registry:         registry,
		maxMainRounds:    main,
		maxCleanupRounds: cleanup,
	}
}

// Outcome is the result of one loop run. Transcript is sanitized: no
// assistant message in it carries a tool call without a matching tool
// result. RawTranscript is the pre-strip message set, kept for fallback
// reply synthesis.
type Outcome struct {
	Transcript    []*schema.Message
	RawTranscript []*schema.Message
	NewMessages   []*schema.Message
	Records       []model.ToolCallRecord
	Final         *schema.Message
	Exhausted     bool
	Rounds        int
}

// LastAssistantText returns the concatenated text of the last assistant
// turn of the pre-strip transcript, or "".
func (o *Outcome) LastAssistantText() string {
	for i := len(o.RawTranscript) - 1; i >= 0; i-- {
		m := o.RawTranscript[i]
		if m != nil && m.Role == schema.Assistant && strings.TrimSpace(m.Content) != "" {
			return strings.TrimSpace(m.Content)
		}
	}
	return ""
}

// Summaries digests the accumulated records for the caller-facing
// response.
func (o *Outcome) Summaries() []model.ToolCallSummary {
	out := make([]model.ToolCallSummary, 0, len(o.Records))
	for _, rec := range o.Records {
		out = append(out, model.ToolCallSummary{Tool: rec.Tool, Status: string(rec.Status)})
	}
	return out
}

// Run executes the loop over the seeded message set (system prompt +
// history + new user message). The seed is never mutated.
func (c *Controller) Run(ctx context.Context, seed []*schema.Message) (*Outcome, error) {
	conv := make([]*schema.Message, len(seed))
	copy(conv, seed)

	out := &Outcome{}

	for round := 0; round < c.maxMainRounds; round++ {
		resp, err := c.generate(ctx, conv)
		if err != nil {
			return nil, fmt.Errorf("model call failed in round %d: %w", round+1, err)
		}
		conv = append(conv, resp)
		out.Rounds++

		if len(resp.ToolCalls) == 0 {
			return c.finish(out, seed, conv, resp, false), nil
		}

		logx.Debug().Int("round", out.Rounds).Int("tool_count", len(resp.ToolCalls)).Msg("Dispatching tools")
		for _, call := range resp.ToolCalls {
			rec := c.registry.Dispatch(ctx, call)
			out.Records = append(out.Records, rec)
			conv = append(conv, toolResultMessage(rec))
		}
	}

	// Main budget spent: let the model wrap up, but dispatch nothing
	// more even if it keeps asking.
	conv = append(conv, &schema.Message{
		Role: schema.System,
		Content: fmt.Sprintf(
			"SYSTEM NOTICE: You have reached the maximum tool call budget (%d rounds). "+
				"Do not request any more tools. Synthesize a helpful response from the "+
				"information you have already gathered, acknowledging gaps if needed.",
			c.maxMainRounds,
		),
	})

	for round := 0; round < c.maxCleanupRounds; round++ {
		resp, err := c.generate(ctx, conv)
		if err != nil {
			return nil, fmt.Errorf("model call failed in cleanup round %d: %w", round+1, err)
		}
		conv = append(conv, resp)
		out.Rounds++

		if len(resp.ToolCalls) == 0 {
			return c.finish(out, seed, conv, resp, false), nil
		}
		logx.Warn().Int("round", out.Rounds).Msg("Model requested tools in cleanup round; not dispatching")
	}

	// Forced termination: proceed with whatever text was last produced.
	logx.Warn().Int("rounds", out.Rounds).Msg("Round budget exhausted, forcing termination")
	return c.finish(out, seed, conv, nil, true), nil
}

func (c *Controller) generate(ctx context.Context, conv []*schema.Message) (*schema.Message, error) {
	start := time.Now()
	resp, err := c.model.Generate(ctx, conv)
	observability.ObserveLLMLatency("plan", time.Since(start))
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("model returned no message")
	}
	ensureToolCallIDs(resp)
	return resp, nil
}

func (c *Controller) finish(out *Outcome, seed, conv []*schema.Message, final *schema.Message, exhausted bool) *Outcome {
	out.RawTranscript = conv
	out.Transcript = stripDanglingToolCalls(conv)
	out.NewMessages = stripDanglingToolCalls(conv[len(seed):])
	out.Final = final
	out.Exhausted = exhausted
	if final == nil {
		for i := len(out.Transcript) - 1; i >= 0; i-- {
			if out.Transcript[i].Role == schema.Assistant {
				out.Final = out.Transcript[i]
				break
			}
		}
	}
	observability.ObserveLoopRounds(out.Rounds)
	return out
}

// ensureToolCallIDs synthesizes IDs for providers that omit them, so
// results can always be correlated to their requests.
func ensureToolCallIDs(m *schema.Message) {
	for i := range m.ToolCalls {
		if strings.TrimSpace(m.ToolCalls[i].ID) == "" {
			m.ToolCalls[i].ID = "call_" + uuid.NewString()[:8]
		}
	}
}

// toolResultMessage renders a record as the tool-result message fed back
// to the model, correlated to its originating request.
func toolResultMessage(rec model.ToolCallRecord) *schema.Message {
	content := rec.Output
	if rec.Status.Failed() {
		b, _ := json.Marshal(map[string]string{
			"error": rec.Error,
			"kind":  string(rec.Status),
		})
		content = string(b)
	}
	return &schema.Message{
		Role:       schema.Tool,
		Content:    content,
		ToolCallID: rec.ID,
		ToolName:   rec.Tool,
	}
}

// stripDanglingToolCalls removes assistant messages that still carry a
// tool call with no matching tool result. Such messages can only exist
// after forced termination, and the structured parse requires a
// structurally complete transcript.
func stripDanglingToolCalls(conv []*schema.Message) []*schema.Message {
	resolved := make(map[string]bool)
	for _, m := range conv {
		if m.Role == schema.Tool && m.ToolCallID != "" {
			resolved[m.ToolCallID] = true
		}
	}

	out := make([]*schema.Message, 0, len(conv))
	for _, m := range conv {
		if m.Role == schema.Assistant && len(m.ToolCalls) > 0 {
			dangling := false
			for _, call := range m.ToolCalls {
				if !resolved[call.ID] {
					dangling = true
					break
				}
			}
			if dangling {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}
