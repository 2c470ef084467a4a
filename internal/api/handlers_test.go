package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/memory"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/tools"
)

type scriptedModel struct {
	responses []*schema.Message
	calls     int
}

func (m *scriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	idx := m.calls
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	m.calls++
	return m.responses[idx], nil
}

func testServer(t *testing.T) *Server {
	t.Helper()

	r := tools.NewRegistry()
	defs := []tools.Definition{
		tools.RouteDefinition(func(ctx context.Context, start, end string) (float64, []string, error) {
			return 240, nil, nil
		}),
		tools.AccommodationDefinition(func(ctx context.Context, location string) ([]model.LodgingOption, error) {
			return nil, fmt.Errorf("offline")
		}),
		tools.WeatherDefinition(func(ctx context.Context, location string) ([]model.WeatherDaily, error) {
			return nil, fmt.Errorf("offline")
		}),
		tools.ElevationDefinition(),
		tools.POIDefinition(),
		tools.BudgetDefinition(),
		tools.VisaDefinition(),
	}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	planner := &scriptedModel{responses: []*schema.Message{
		schema.AssistantMessage("", []schema.ToolCall{{
			ID: "call-1",
			Function: schema.FunctionCall{
				Name:      tools.ToolGetRoute,
				Arguments: `{"start":"Porto","end":"Lisbon","daily_distance_km":80}`,
			},
		}}),
		schema.AssistantMessage("Plan ready.", nil),
	}}

	a := agent.New(agent.Config{
		Store:    memory.NewStore(50),
		Planner:  planner,
		Registry: r,
		Features: model.FeatureConfig{StructuredParse: false},
	})
	return NewServer(Config{ListenAddr: ":0"}, a)
}

func TestHealthz(t *testing.T) {
	s := testServer(t)
	resp, err := s.App().Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestChatEndpoint(t *testing.T) {
	s := testServer(t)

	body, _ := json.Marshal(ChatRequest{
		ConversationID: "conv-1",
		Message:        "Plan me a ride from Porto to Lisbon.",
	})
	req := httptest.NewRequest("POST", "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App().Test(req, 5000)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result model.ChatResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.ConversationID != "conv-1" {
		t.Fatalf("unexpected conversation id: %s", result.ConversationID)
	}
	if result.Reply != "Plan ready." {
		t.Fatalf("unexpected reply: %q", result.Reply)
	}
	if result.Plan == nil || len(result.Plan.Days) != 3 {
		t.Fatalf("expected a 3 day plan, got %+v", result.Plan)
	}
}

func TestChatEndpointRejectsBadInput(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "invalid json", body: "{not json", want: 400},
		{name: "empty message", body: `{"message":"  "}`, want: 400},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/chat", bytes.NewReader([]byte(tc.body)))
			req.Header.Set("Content-Type", "application/json")
			resp, err := s.App().Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(t)
	resp, err := s.App().Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
