package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	ActiveInterviewSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tukma_active_interview_sessions",
		Help: "Number of open real-time interview channels",
	})

	TicketsIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tukma_tickets_issued_total",
		Help: "Total connection tickets issued",
	})

	InterviewTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tukma_interview_turns_total",
		Help: "Total interview turns processed",
	}, []string{"kind"})

	SpeechTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tukma_speech_tasks_total",
		Help: "Total speech synthesis tasks",
	}, []string{"outcome"})

	SpeechTaskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tukma_speech_task_duration_seconds",
		Help:    "Latency of individual speech synthesis tasks",
		Buckets: prometheus.DefBuckets,
	})

	// Infrastructure metrics
	WireMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tukma_wire_messages_total",
		Help: "Total framed messages on the interview channel",
	}, []string{"kind", "direction"})

	CompletionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tukma_completion_latency_seconds",
		Help:    "Latency of completion endpoint round trips",
		Buckets: prometheus.DefBuckets,
	})
)
