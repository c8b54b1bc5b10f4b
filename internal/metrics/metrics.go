// Package metrics declares the Prometheus collectors shared by the bot.
// Label sets are kept small: update kinds and results are fixed enums.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Updates counts handled Telegram updates by endpoint and outcome.
	Updates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total number of handled bot updates.",
		},
		[]string{"endpoint", "status"},
	)

	// UpdateDuration records handler latency in seconds by endpoint.
	UpdateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Duration of bot update handling in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// RateLimited counts updates dropped by the per-user limiter.
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_rate_limited_total",
			Help: "Total number of updates rejected by the rate limiter.",
		},
	)

	// Answers counts graded quiz answers by verdict.
	Answers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answers_total",
			Help: "Total number of graded quiz answers.",
		},
		[]string{"verdict"},
	)

	// Broadcasts counts broadcast deliveries by result (sent, failed, left).
	Broadcasts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_messages_total",
			Help: "Total number of broadcast deliveries.",
		},
		[]string{"result"},
	)

	// Speech counts text-to-speech lookups by result (cached, synthesized, unavailable, failed).
	Speech = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tts_requests_total",
			Help: "Total number of text-to-speech lookups.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(Updates, UpdateDuration, RateLimited, Answers, Broadcasts, Speech)
}

// NewServer returns an HTTP server exposing /metrics on addr
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
