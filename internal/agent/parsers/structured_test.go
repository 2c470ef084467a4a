package parsers

import (
	"context"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	errx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/core/error"
)

type fixedModel struct {
	content string
	seen    []*schema.Message
}

func (m *fixedModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	m.seen = input
	return schema.AssistantMessage(m.content, nil), nil
}

func TestParseStructured(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantReply string
		wantErr   bool
	}{
		{
			name:      "plain object",
			content:   `{"reply":"plan ready","questions":["one?"]}`,
			wantReply: "plan ready",
		},
		{
			name:      "fenced object",
			content:   "```json\n{\"reply\":\"plan ready\"}\n```",
			wantReply: "plan ready",
		},
		{
			name:      "surrounding prose",
			content:   "Sure, here you go: {\"reply\":\"ok\"} hope that helps",
			wantReply: "ok",
		},
		{
			name:    "no json",
			content: "I could not produce JSON, sorry",
			wantErr: true,
		},
		{
			name:    "malformed json",
			content: `{"reply": "unterminated`,
			wantErr: true,
		},
		{
			name:    "empty reply",
			content: `{"reply":"  ","questions":[]}`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := ParseStructured(tc.content)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errx.IsKind(err, errx.KindParse) {
					t.Fatalf("expected parse kind, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Reply != tc.wantReply {
				t.Fatalf("expected reply %q, got %q", tc.wantReply, out.Reply)
			}
		})
	}
}

func TestParseStructuredAdjustments(t *testing.T) {
	out, err := ParseStructured(`{"reply":"shortened","adjustments":{"target_days":2,"day_notes":{"1":"start early"}}}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.Adjustments == nil || out.Adjustments.TargetDays == nil || *out.Adjustments.TargetDays != 2 {
		t.Fatalf("adjustments not decoded: %+v", out.Adjustments)
	}
	if out.Adjustments.DayNotes["1"] != "start early" {
		t.Fatalf("day notes not decoded: %+v", out.Adjustments.DayNotes)
	}
}

func TestParserDisabled(t *testing.T) {
	p := NewParser(nil, false)
	_, err := p.Parse(context.Background(), nil)
	if err == nil || !errx.IsKind(err, errx.KindParse) {
		t.Fatalf("expected parse-kind error when disabled, got %v", err)
	}
}

func TestParserFiltersSystemMessages(t *testing.T) {
	m := &fixedModel{content: `{"reply":"done"}`}
	p := NewParser(m, true)

	transcript := []*schema.Message{
		schema.SystemMessage("planner system prompt"),
		schema.UserMessage("plan a trip"),
		schema.AssistantMessage("working on it", nil),
	}
	out, err := p.Parse(context.Background(), transcript)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.Reply != "done" {
		t.Fatalf("unexpected reply %q", out.Reply)
	}

	// exactly one system message: the structured instruction, not the
	// planner's
	systems := 0
	for _, msg := range m.seen {
		if msg.Role == schema.System {
			systems++
			if strings.Contains(msg.Content, "planner system prompt") {
				t.Fatal("planner system prompt leaked into the parse call")
			}
		}
	}
	if systems != 1 {
		t.Fatalf("expected exactly 1 system message, got %d", systems)
	}
}

func TestFallback(t *testing.T) {
	out := Fallback("here is what I found", true)
	if out.Reply != "here is what I found" {
		t.Fatalf("unexpected reply %q", out.Reply)
	}
	if len(out.Questions) != 0 {
		t.Fatal("questions must stay empty when a plan was assembled")
	}

	out = Fallback("", false)
	if out.Reply == "" {
		t.Fatal("fallback reply must never be empty")
	}
	if len(out.Questions) != len(DefaultQuestions) {
		t.Fatalf("expected default questions, got %d", len(out.Questions))
	}
}
