// Package observability exposes the assistant's Prometheus metrics behind
// small recording functions so callers never touch collector types.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	chatTurnsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymlife_assistant",
		Subsystem: "chat",
		Name:      "turns_total",
		Help:      "Completed chat turns, counted once per POST /api/chat.",
	})
	classificationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gymlife_assistant",
		Subsystem: "classifier",
		Name:      "classifications_total",
		Help:      "Intent classifications by detected intent and method.",
	}, []string{"intent", "method"})
	fallbackAttemptCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymlife_assistant",
		Subsystem: "llm",
		Name:      "fallback_attempts_total",
		Help:      "Generative fallback calls issued by the dispatcher.",
	})
	fallbackFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gymlife_assistant",
		Subsystem: "llm",
		Name:      "fallback_failures_total",
		Help:      "Generative fallback calls that exhausted their retries.",
	})
)

func init() {
	prometheus.MustRegister(
		chatTurnsCounter,
		classificationCounter,
		fallbackAttemptCounter,
		fallbackFailureCounter,
	)
}

// RecordChatTurn counts one completed chat turn.
func RecordChatTurn() {
	chatTurnsCounter.Inc()
}

// RecordClassification counts one classification outcome. method is "rule",
// "llm" or "none"; the empty intent is recorded as "none".
func RecordClassification(intent, method string) {
	if intent == "" {
		intent = "none"
	}
	classificationCounter.WithLabelValues(intent, method).Inc()
}

// RecordFallbackAttempt counts one generative fallback call.
func RecordFallbackAttempt() {
	fallbackAttemptCounter.Inc()
}

// RecordFallbackFailure counts one fallback call that returned no text.
func RecordFallbackFailure() {
	fallbackFailureCounter.Inc()
}
