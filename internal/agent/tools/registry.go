package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/agent/model"
	errx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/core/error"
	"github.com/sharmajidotdev/cycle-trip-planner-agent-project/internal/observability"
	logx "github.com/sharmajidotdev/cycle-trip-planner-agent-project/pkg/logger"
)

// Tool names as declared to the model.
const (
	ToolGetRoute           = "get_route"
	ToolFindAccommodation  = "find_accommodation"
	ToolGetWeather         = "get_weather"
	ToolGetElevation       = "get_elevation_profile"
	ToolGetPOI             = "get_points_of_interest"
	ToolEstimateBudget     = "estimate_budget"
	ToolCheckVisa          = "check_visa_requirements"
)

// Definition couples a tool's declared contract with its executable
// implementation. Params is kept alongside the ToolInfo so the registry
// can validate raw inputs without round-tripping through a JSON schema.
type Definition struct {
	Info   *schema.ToolInfo
	Params map[string]*schema.ParameterInfo
	Impl   tool.InvokableTool
}

// Registry maps tool names to their contracts and execution functions.
// Registration order is preserved so derived tool specs are stable.
type Registry struct {
	order   []string
	entries map[string]Definition
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Definition)}
}

func (r *Registry) Register(def Definition) error {
	if def.Info == nil || def.Info.Name == "" {
		return fmt.Errorf("tool definition missing name")
	}
	if def.Impl == nil {
		return fmt.Errorf("tool %s missing implementation", def.Info.Name)
	}
	if _, dup := r.entries[def.Info.Name]; dup {
		return fmt.Errorf("tool %s already registered", def.Info.Name)
	}
	r.entries[def.Info.Name] = def
	r.order = append(r.order, def.Info.Name)
	return nil
}

// Specs returns the tool specs to bind to the planner model, derived
// mechanically from each tool's declared contract.
func (r *Registry) Specs() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.entries[name].Info)
	}
	return infos
}

// Validate checks a raw input payload against the named tool's declared
// contract: the payload must be a JSON object, every required parameter
// must be present, and present parameters must match their declared type.
func (r *Registry) Validate(name, argumentsJSON string) error {
	def, ok := r.entries[name]
	if !ok {
		return errx.NewKind(nil, errx.KindToolValidation, fmt.Sprintf("unknown tool %q", name))
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(argumentsJSON), &args); err != nil {
		return errx.NewKind(err, errx.KindToolValidation, "input is not a JSON object")
	}

	for pname, p := range def.Params {
		v, present := args[pname]
		if !present {
			if p.Required {
				return errx.NewKind(nil, errx.KindToolValidation, fmt.Sprintf("missing required parameter %q", pname))
			}
			continue
		}
		if err := checkParamType(pname, p, v); err != nil {
			return err
		}
	}
	return nil
}

func checkParamType(name string, p *schema.ParameterInfo, v any) error {
	switch p.Type {
	case "string":
		s, ok := v.(string)
		if !ok {
			return errx.NewKind(nil, errx.KindToolValidation, fmt.Sprintf("parameter %q must be a string", name))
		}
		if p.Required && strings.TrimSpace(s) == "" {
			return errx.NewKind(nil, errx.KindToolValidation, fmt.Sprintf("parameter %q must not be empty", name))
		}
	case "number", "integer":
		if _, ok := v.(float64); !ok {
			return errx.NewKind(nil, errx.KindToolValidation, fmt.Sprintf("parameter %q must be a number", name))
		}
	case "boolean":
		if _, ok := v.(bool); !ok {
			return errx.NewKind(nil, errx.KindToolValidation, fmt.Sprintf("parameter %q must be a boolean", name))
		}
	}
	return nil
}

// Dispatch validates and executes one model-declared tool call, always
// returning a record: validation failures never execute the tool and
// execution failures (including panics) are caught. The record's status
// distinguishes live data from a tool's internal synthetic fallback.
func (r *Registry) Dispatch(ctx context.Context, call schema.ToolCall) model.ToolCallRecord {
	rec := model.ToolCallRecord{
		ID:    call.ID,
		Tool:  call.Function.Name,
		Input: call.Function.Arguments,
	}

	out, err := r.execute(ctx, call)
	if err != nil {
		// The error kind decides the record status.
		if errx.IsKind(err, errx.KindToolValidation) {
			rec.Status = model.ToolCallValidationError
			logx.Warn().Str("tool", rec.Tool).Err(err).Msg("tool input failed validation")
		} else {
			rec.Status = model.ToolCallExecutionError
			logx.Error().Str("tool", rec.Tool).Err(err).Msg("tool execution failed")
		}
		rec.Error = err.Error()
		observability.ObserveToolCall(rec.Tool, string(rec.Status))
		return rec
	}

	rec.Output = out
	rec.Status = model.ToolCallOK
	if usedSyntheticData(out) {
		rec.Status = model.ToolCallFallback
	}
	observability.ObserveToolCall(rec.Tool, string(rec.Status))
	return rec
}

// execute validates the call against the declared contract and then
// runs the implementation. Every returned error carries an errx kind:
// KindToolValidation for contract violations, KindToolExecution for
// implementation failures and recovered panics.
func (r *Registry) execute(ctx context.Context, call schema.ToolCall) (out string, err error) {
	if err := r.Validate(call.Function.Name, call.Function.Arguments); err != nil {
		return "", err
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = errx.NewKind(fmt.Errorf("%v", rec), errx.KindToolExecution, "tool panicked")
		}
	}()
	out, err = r.entries[call.Function.Name].Impl.InvokableRun(ctx, call.Function.Arguments)
	if err != nil {
		err = errx.NewKind(err, errx.KindToolExecution, "tool call failed")
	}
	return out, err
}

// usedSyntheticData inspects a tool output for the data_source marker so
// the assembler and tests can tell real data from internal fallbacks.
func usedSyntheticData(output string) bool {
	var probe struct {
		DataSource string `json:"data_source"`
	}
	if err := json.Unmarshal([]byte(output), &probe); err != nil {
		return false
	}
	return probe.DataSource == model.DataSourceSynthetic
}
