package loop

import (
	"context"
	"fmt"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/tools"
)

// fakeModel scripts the planner: responses are returned in order, and
// the last one repeats once the script runs out.
type fakeModel struct {
	responses []*schema.Message
	calls     int
}

func (m *fakeModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++
	return m.responses[idx], nil
}

// loopingModel always requests another tool call, with a fresh ID each
// time, so round budgets and dangling-call stripping can be exercised.
type loopingModel struct {
	calls int
}

func (m *loopingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	m.calls++
	return assistantWithCall(fmt.Sprintf("call-%d", m.calls), "take_note", `{"text":"again"}`), nil
}

type noteInput struct {
	Text string `json:"text"`
}

type noteOutput struct {
	Echo       string `json:"echo"`
	DataSource string `json:"data_source"`
}

func testRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	params := map[string]*schema.ParameterInfo{
		"text": {Type: "string", Desc: "text to record", Required: true},
	}
	info := &schema.ToolInfo{
		Name:        "take_note",
		Desc:        "records a note",
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}
	impl := utils.NewTool(info, func(ctx context.Context, in *noteInput) (*noteOutput, error) {
		return &noteOutput{Echo: in.Text, DataSource: model.DataSourceLive}, nil
	})

	r := tools.NewRegistry()
	if err := r.Register(tools.Definition{Info: info, Params: params, Impl: impl}); err != nil {
		t.Fatalf("register: %v", err)
	}
	return r
}

func assistantWithCall(id, name, args string) *schema.Message {
	return schema.AssistantMessage("", []schema.ToolCall{
		{ID: id, Function: schema.FunctionCall{Name: name, Arguments: args}},
	})
}

func seedMessages() []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage("you are a test planner"),
		schema.UserMessage("plan something"),
	}
}

func TestRunToolThenAnswer(t *testing.T) {
	m := &fakeModel{responses: []*schema.Message{
		assistantWithCall("call-1", "take_note", `{"text":"day one"}`),
		schema.AssistantMessage("here is the plan", nil),
	}}
	c := NewController(m, testRegistry(t), model.LoopConfig{MaxMainRounds: 4, MaxCleanupRounds: 2})

	seed := seedMessages()
	out, err := c.Run(context.Background(), seed)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if out.Rounds != 2 {
		t.Fatalf("expected 2 rounds, got %d", out.Rounds)
	}
	if out.Exhausted {
		t.Fatal("loop must not report exhaustion after a clean finish")
	}
	if len(out.Records) != 1 || out.Records[0].Tool != "take_note" || out.Records[0].Status != model.ToolCallOK {
		t.Fatalf("unexpected records: %+v", out.Records)
	}
	if out.Final == nil || out.Final.Content != "here is the plan" {
		t.Fatalf("unexpected final message: %+v", out.Final)
	}

	// new messages: assistant tool request, tool result, final answer
	if len(out.NewMessages) != 3 {
		t.Fatalf("expected 3 new messages, got %d", len(out.NewMessages))
	}
	toolMsg := out.NewMessages[1]
	if toolMsg.Role != schema.Tool || toolMsg.ToolCallID != "call-1" || toolMsg.ToolName != "take_note" {
		t.Fatalf("tool result lost correlation: %+v", toolMsg)
	}
	if !strings.Contains(toolMsg.Content, "day one") {
		t.Fatalf("tool result content missing output: %q", toolMsg.Content)
	}

	// the seed is not mutated
	if len(seed) != 2 {
		t.Fatalf("seed mutated, len=%d", len(seed))
	}
}

func TestRunValidationErrorContinues(t *testing.T) {
	m := &fakeModel{responses: []*schema.Message{
		assistantWithCall("call-1", "take_note", `{"wrong":"field"}`),
		schema.AssistantMessage("working around the bad call", nil),
	}}
	c := NewController(m, testRegistry(t), model.LoopConfig{MaxMainRounds: 4, MaxCleanupRounds: 2})

	out, err := c.Run(context.Background(), seedMessages())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.Records) != 1 || out.Records[0].Status != model.ToolCallValidationError {
		t.Fatalf("expected one validation-error record, got %+v", out.Records)
	}

	// the failure is surfaced to the model as an error payload, the
	// loop itself keeps going
	toolMsg := out.NewMessages[1]
	if !strings.Contains(toolMsg.Content, "error") || !strings.Contains(toolMsg.Content, "validation_error") {
		t.Fatalf("expected error payload in tool result, got %q", toolMsg.Content)
	}
	if out.Final == nil || out.Final.Content == "" {
		t.Fatal("loop must still produce a final answer")
	}
}

func TestRunRoundBudget(t *testing.T) {
	// the model never stops asking for tools
	c := NewController(&loopingModel{}, testRegistry(t), model.LoopConfig{MaxMainRounds: 2, MaxCleanupRounds: 1})

	out, err := c.Run(context.Background(), seedMessages())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if out.Rounds != 3 {
		t.Fatalf("expected 2 main + 1 cleanup rounds, got %d", out.Rounds)
	}
	if !out.Exhausted {
		t.Fatal("expected forced termination to be reported")
	}
	// tools are only dispatched in main rounds
	if len(out.Records) != 2 {
		t.Fatalf("expected 2 dispatched calls, got %d", len(out.Records))
	}
}

func TestTranscriptHasNoDanglingToolCalls(t *testing.T) {
	c := NewController(&loopingModel{}, testRegistry(t), model.LoopConfig{MaxMainRounds: 1, MaxCleanupRounds: 1})

	out, err := c.Run(context.Background(), seedMessages())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	resolved := make(map[string]bool)
	for _, msg := range out.Transcript {
		if msg.Role == schema.Tool {
			resolved[msg.ToolCallID] = true
		}
	}
	for i, msg := range out.Transcript {
		if msg.Role != schema.Assistant {
			continue
		}
		for _, call := range msg.ToolCalls {
			if !resolved[call.ID] {
				t.Fatalf("message %d carries dangling tool call %s", i, call.ID)
			}
		}
	}

	// the raw transcript keeps the stripped messages for fallback text
	if len(out.RawTranscript) <= len(out.Transcript) {
		t.Fatal("expected the raw transcript to retain stripped messages")
	}
}

func TestRunSynthesizesMissingToolCallIDs(t *testing.T) {
	m := &fakeModel{responses: []*schema.Message{
		assistantWithCall("", "take_note", `{"text":"no id"}`),
		schema.AssistantMessage("done", nil),
	}}
	c := NewController(m, testRegistry(t), model.LoopConfig{})

	out, err := c.Run(context.Background(), seedMessages())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(out.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out.Records))
	}
	if out.Records[0].ID == "" {
		t.Fatal("expected a synthesized tool call ID")
	}
}

func TestLastAssistantText(t *testing.T) {
	out := &Outcome{RawTranscript: []*schema.Message{
		schema.UserMessage("hi"),
		schema.AssistantMessage("first", nil),
		schema.AssistantMessage("  ", nil),
	}}
	if got := out.LastAssistantText(); got != "first" {
		t.Fatalf("expected last non-empty assistant text, got %q", got)
	}

	empty := &Outcome{}
	if got := empty.LastAssistantText(); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestSummaries(t *testing.T) {
	out := &Outcome{Records: []model.ToolCallRecord{
		{Tool: "take_note", Status: model.ToolCallOK},
		{Tool: "take_note", Status: model.ToolCallValidationError},
	}}
	sums := out.Summaries()
	if len(sums) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sums))
	}
	if sums[1].Status != string(model.ToolCallValidationError) {
		t.Fatalf("unexpected status: %s", sums[1].Status)
	}
}
