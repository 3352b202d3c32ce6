package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Poll metrics
	pollCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meetwatch_poll_cycles_total",
		Help: "Total number of transcript poll cycles",
	}, []string{"outcome"}) // outcome: "grown", "steady", "dropped", "failed", "skipped"

	segmentsAppended = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetwatch_segments_appended_total",
		Help: "Total number of transcript segments appended to the cache",
	})

	transcriptLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "meetwatch_transcript_length",
		Help: "Current number of cached transcript segments",
	})

	// Summary metrics
	summaryTiers = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meetwatch_summary_tier_total",
		Help: "Summary invocations by the tier that produced the result",
	}, []string{"tier"}) // tier: "generative", "server_frequency", "local_frequency"

	// Emotion metrics
	emotionRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meetwatch_emotion_refreshes_total",
		Help: "Total number of emotion analysis refreshes",
	}, []string{"status"})

	emotionTimelineAppends = promauto.NewCounter(prometheus.CounterOpts{
		Name: "meetwatch_emotion_timeline_appends_total",
		Help: "Emotion timeline entries appended after watermark filtering",
	})

	// Transport metrics
	apiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meetwatch_api_requests_total",
		Help: "Total number of requests to the meeting-bot service",
	}, []string{"endpoint", "status"})

	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "meetwatch_api_latency_seconds",
		Help:    "Latency of requests to the meeting-bot service",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0},
	}, []string{"endpoint"})
)

// RecordPollCycle records the outcome of one poll cycle
func RecordPollCycle(outcome string) {
	pollCycles.WithLabelValues(outcome).Inc()
}

// RecordSegmentsAppended records segments appended to the transcript cache
func RecordSegmentsAppended(count int, cacheLength int) {
	segmentsAppended.Add(float64(count))
	transcriptLength.Set(float64(cacheLength))
}

// RecordSummaryTier records which tier produced a summary
func RecordSummaryTier(tier string) {
	summaryTiers.WithLabelValues(tier).Inc()
}

// RecordEmotionRefresh records the outcome of an emotion refresh
func RecordEmotionRefresh(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	emotionRefreshes.WithLabelValues(status).Inc()
}

// RecordTimelineAppends records entries that survived watermark filtering
func RecordTimelineAppends(count int) {
	if count > 0 {
		emotionTimelineAppends.Add(float64(count))
	}
}

// RecordAPIRequest records one request to the remote service
func RecordAPIRequest(endpoint, status string, latencySeconds float64) {
	apiRequests.WithLabelValues(endpoint, status).Inc()
	apiLatency.WithLabelValues(endpoint).Observe(latencySeconds)
}
