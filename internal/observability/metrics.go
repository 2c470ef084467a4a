package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trip_agent_chat_requests_total",
		Help: "Total number of chat requests processed",
	}, []string{"status"})

	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trip_agent_tool_calls_total",
		Help: "Total number of dispatched tool calls",
	}, []string{"tool", "status"})

	llmLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trip_agent_llm_latency_seconds",
		Help:    "Latency of language-model calls",
		Buckets: []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
	}, []string{"phase"})

	loopRounds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trip_agent_loop_rounds",
		Help:    "Rounds used per tool-use loop, cleanup rounds included",
		Buckets: []float64{1, 2, 3, 4, 5, 6},
	})
)

// ObserveChatRequest records the outcome of one chat request.
func ObserveChatRequest(status string) {
	chatRequests.WithLabelValues(status).Inc()
}

// ObserveToolCall records the outcome of one dispatched tool call.
func ObserveToolCall(tool, status string) {
	toolCalls.WithLabelValues(tool, status).Inc()
}

// ObserveLLMLatency records the latency of one model call. Phase is
// "plan" for tool-use rounds and "parse" for the structured parse.
func ObserveLLMLatency(phase string, d time.Duration) {
	llmLatency.WithLabelValues(phase).Observe(d.Seconds())
}

// ObserveLoopRounds records total rounds consumed by one tool-use loop.
func ObserveLoopRounds(n int) {
	loopRounds.Observe(float64(n))
}
