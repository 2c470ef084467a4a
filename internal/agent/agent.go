package agent

import (
	"context"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/chatmodels"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/loop"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/parsers"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/planner"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/prompts"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/tools"
	errx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/core/error"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/observability"
	logx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/pkg/logger"
)

// Agent ties the conversation store, the bounded tool loop, the
// structured parser and the plan assembler into the single Chat entry
// point the transport layer calls.
type Agent struct {
	store    model.ConversationStore
	loop     *loop.Controller
	parser   *parsers.Parser
	registry *tools.Registry
}

// Config wires an Agent. Planner and Parser are the two bound chat
// models; Registry defaults to the full tool set when nil.
type Config struct {
	Store    model.ConversationStore
	Planner  chatmodels.ChatModel
	Parser   chatmodels.ChatModel
	Registry *tools.Registry
	Loop     model.LoopConfig
	Features model.FeatureConfig
}

func New(cfg Config) *Agent {
	registry := cfg.Registry
	if registry == nil {
		registry = tools.DefaultRegistry()
	}
	return &Agent{
		store:    cfg.Store,
		loop:     loop.NewController(cfg.Planner, registry, cfg.Loop),
		parser:   parsers.NewParser(cfg.Parser, cfg.Features.StructuredParse),
		registry: registry,
	}
}

// Chat runs one user turn end to end: seed the planner with history and
// the new message, drive the tool loop, parse the outcome into the
// response shape, assemble and adjust the plan, and persist the new
// messages. Parse failures degrade to the fallback response instead of
// failing the turn; only loop or prompt errors surface to the caller.
func (a *Agent) Chat(ctx context.Context, in model.ChatInput) (*model.ChatResult, error) {
	if strings.TrimSpace(in.Message) == "" {
		observability.ObserveChatRequest("error")
		appErr := errx.NewKind(nil, errx.KindToolValidation, "message must not be empty")
		appErr.Status = http.StatusBadRequest
		return nil, appErr
	}
	conversationID := in.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	seed, userMsg, err := a.seed(ctx, conversationID, in.Message)
	if err != nil {
		observability.ObserveChatRequest("error")
		return nil, err
	}

	outcome, err := a.loop.Run(ctx, seed)
	if err != nil {
		observability.ObserveChatRequest("error")
		return nil, errx.New(err, http.StatusBadGateway, "planner model call failed")
	}
	if outcome.Exhausted {
		logx.Warn().Str("conversation_id", conversationID).Int("rounds", outcome.Rounds).
			Msg("Tool loop hit its round budget before the model finished")
	}

	plan, planErr := planner.Assemble(outcome.Records)
	if planErr != nil && !errx.IsKind(planErr, errx.KindNoPlan) {
		observability.ObserveChatRequest("error")
		return nil, planErr
	}

	resp, parseErr := a.parser.Parse(ctx, outcome.Transcript)
	if parseErr != nil {
		if !errx.IsKind(parseErr, errx.KindParse) {
			observability.ObserveChatRequest("error")
			return nil, parseErr
		}
		logx.Warn().Str("conversation_id", conversationID).Err(parseErr).
			Msg("Structured parse failed, using fallback response")
		resp = parsers.Fallback(outcome.LastAssistantText(), plan != nil)
	}

	if plan != nil && resp.Adjustments != nil {
		planner.ApplyAdjustment(plan, resp.Adjustments)
	}

	a.persist(ctx, conversationID, userMsg, outcome.NewMessages, plan)

	questions := resp.Questions
	if errx.IsKind(planErr, errx.KindNoPlan) && len(questions) == 0 {
		questions = parsers.DefaultQuestions
	}

	observability.ObserveChatRequest("ok")
	return &model.ChatResult{
		ConversationID: conversationID,
		Reply:          resp.Reply,
		Plan:           plan,
		Questions:      questions,
		ToolCalls:      outcome.Summaries(),
	}, nil
}

// seed builds the planner conversation: system prompt (with the cached
// plan summary when one exists), prior history, then the new user turn.
func (a *Agent) seed(ctx context.Context, conversationID, message string) ([]*schema.Message, *schema.Message, error) {
	system, err := prompts.RenderPlannerSystem(ctx)
	if err != nil {
		return nil, nil, errx.New(err, http.StatusInternalServerError, "rendering system prompt failed")
	}

	derived, err := a.store.Derived(ctx, conversationID)
	if err != nil {
		logx.Warn().Str("conversation_id", conversationID).Err(err).Msg("Reading derived state failed")
	} else if derived.LastPlanSummary != "" {
		system += "\n\nCurrent plan on file: " + derived.LastPlanSummary
	}

	history, err := a.store.History(ctx, conversationID)
	if err != nil {
		return nil, nil, errx.New(err, http.StatusBadGateway, "loading conversation history failed")
	}

	userMsg := schema.UserMessage(message)
	seed := make([]*schema.Message, 0, len(history)+2)
	seed = append(seed, schema.SystemMessage(system))
	seed = append(seed, history...)
	seed = append(seed, userMsg)
	return seed, userMsg, nil
}

// persist writes the user turn and the loop's new messages back to the
// store and refreshes the derived plan summary. Store failures are
// logged, not surfaced: the reply already exists and losing history is
// the lesser harm.
func (a *Agent) persist(ctx context.Context, conversationID string, userMsg *schema.Message, newMessages []*schema.Message, plan *model.TripPlan) {
	if err := a.store.Append(ctx, conversationID, userMsg); err != nil {
		logx.Error().Str("conversation_id", conversationID).Err(err).Msg("Persisting user message failed")
		return
	}
	for _, m := range newMessages {
		// loop-internal system notices must not leak into future turns
		if m.Role == schema.System {
			continue
		}
		if err := a.store.Append(ctx, conversationID, m); err != nil {
			logx.Error().Str("conversation_id", conversationID).Err(err).Msg("Persisting loop message failed")
			return
		}
	}
	if plan != nil {
		state := model.DerivedState{LastPlanSummary: planner.Summary(plan)}
		if err := a.store.SetDerived(ctx, conversationID, state); err != nil {
			logx.Warn().Str("conversation_id", conversationID).Err(err).Msg("Persisting derived state failed")
		}
	}
}
