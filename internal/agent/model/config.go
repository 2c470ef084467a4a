package model

// ================ Config ================

type ConversationConfig struct {
	// TTL only applies to the Redis-backed store; the in-memory store
	// keeps conversations for the process lifetime.
	TTL         string `envconfig:"CONVERSATION_TTL" default:"15m"`
	MaxMessages int    `envconfig:"CONVERSATION_MAX_MESSAGES" default:"50"`
}

type LoopConfig struct {
	MaxMainRounds    int `envconfig:"LOOP_MAX_MAIN_ROUNDS" default:"4"`
	MaxCleanupRounds int `envconfig:"LOOP_MAX_CLEANUP_ROUNDS" default:"2"`
}

type PlannerModelConfig struct {
	Model       string  `envconfig:"PLANNER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"PLANNER_MAX_TOKENS" default:"3000"`
	Temperature float32 `envconfig:"PLANNER_TEMPERATURE" default:"0.4"`
}

type ParserModelConfig struct {
	Model       string  `envconfig:"PARSER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"PARSER_MAX_TOKENS" default:"1500"`
	Temperature float32 `envconfig:"PARSER_TEMPERATURE" default:"0.1"`
}

type FeatureConfig struct {
	// StructuredParse gates the second, tool-free model call. When off
	// the agent synthesizes the reply from the last assistant turn.
	StructuredParse bool `envconfig:"FEATURE_STRUCTURED_PARSE" default:"true"`
}
