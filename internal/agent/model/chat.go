package model

// ToolCallStatus tags the outcome of one dispatched tool call.
type ToolCallStatus string

const (
	// ToolCallOK means the tool ran and returned live data.
	ToolCallOK ToolCallStatus = "ok"
	// ToolCallFallback means the tool ran but substituted synthetic data
	// after its external lookup failed.
	ToolCallFallback ToolCallStatus = "fallback"
	// ToolCallValidationError means the declared input did not match the
	// tool's contract; the tool was never executed.
	ToolCallValidationError ToolCallStatus = "validation_error"
	// ToolCallExecutionError means the tool raised during execution.
	ToolCallExecutionError ToolCallStatus = "execution_error"
)

// Failed reports whether the call produced no usable output.
func (s ToolCallStatus) Failed() bool {
	return s == ToolCallValidationError || s == ToolCallExecutionError
}

// ToolCallRecord pairs one tool-use request with its result, in the
// order issued. The loop controller accumulates these into the raw
// transcript the assembler consumes.
type ToolCallRecord struct {
	ID     string         `json:"id"`
	Tool   string         `json:"tool"`
	Input  string         `json:"input"`
	Status ToolCallStatus `json:"status"`
	Output string         `json:"output,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// ToolCallSummary is the caller-facing digest of one tool call.
type ToolCallSummary struct {
	Tool   string `json:"tool"`
	Status string `json:"status"`
}

// Adjustment is a parser-declared change request applied to the
// assembled plan, never to raw tool outputs. DayNotes keys are 1-based
// day indexes encoded as strings (JSON object keys).
type Adjustment struct {
	TargetDays *int              `json:"target_days,omitempty"`
	DayNotes   map[string]string `json:"day_notes,omitempty"`
}

// ChatLLMResponse is the fixed-shape object the structured parse asks
// the model for.
type ChatLLMResponse struct {
	Reply       string            `json:"reply"`
	Questions   []string          `json:"questions,omitempty"`
	Adjustments *Adjustment       `json:"adjustments,omitempty"`
	ToolCalls   []ToolCallSummary `json:"tool_calls,omitempty"`
}

// ChatResult is what the agent core hands back to the transport layer.
type ChatResult struct {
	ConversationID string            `json:"conversation_id"`
	Reply          string            `json:"reply"`
	Plan           *TripPlan         `json:"plan,omitempty"`
	Questions      []string          `json:"questions,omitempty"`
	ToolCalls      []ToolCallSummary `json:"tool_calls,omitempty"`
}
