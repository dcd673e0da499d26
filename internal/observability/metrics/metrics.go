package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                       sync.Once
	metricsRouter              *chi.Mux
	messagesProcessedCounter   *prometheus.CounterVec
	processingDurationSeconds  *prometheus.HistogramVec
	reconnectAttemptsCounter   prometheus.Counter
	supervisorStateGauge       *prometheus.GaugeVec
	scoreArchiveErrorCounter   prometheus.Counter
	publishErrorCounter        prometheus.Counter
	dbLatency                  *prometheus.HistogramVec
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5}

	messagesProcessedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_messages_processed_total",
			Help: "Total number of wallet messages processed, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	processingDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_processing_duration_seconds",
			Help:    "Histogram of per-wallet pipeline durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"outcome"},
	)

	reconnectAttemptsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_reconnect_attempts_total",
			Help: "The total number of stream reconnection attempts after transport errors",
		},
	)

	supervisorStateGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stream_supervisor_state",
			Help: "Current supervisor state, 1 for the active state and 0 otherwise",
		},
		[]string{"state"},
	)

	scoreArchiveErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "score_archive_error_count",
			Help: "The total number of errors while archiving scores to the database",
		},
	)

	publishErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "output_publish_error_count",
			Help: "The total number of errors when publishing records to the output topics",
		},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_latency_seconds",
			Help:    "Histogram of db operation durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	prometheus.MustRegister(
		messagesProcessedCounter,
		processingDurationSeconds,
		reconnectAttemptsCounter,
		supervisorStateGauge,
		scoreArchiveErrorCounter,
		publishErrorCounter,
		dbLatency,
	)
}

func RecordMessageProcessed(outcome Outcome, duration time.Duration) {
	if messagesProcessedCounter == nil {
		return
	}
	messagesProcessedCounter.WithLabelValues(outcome.String()).Inc()
	processingDurationSeconds.WithLabelValues(outcome.String()).Observe(duration.Seconds())
}

func RecordReconnectAttempt() {
	if reconnectAttemptsCounter == nil {
		return
	}
	reconnectAttemptsCounter.Inc()
}

// SetSupervisorState marks the given state as active and clears the rest.
func SetSupervisorState(active string, all []string) {
	if supervisorStateGauge == nil {
		return
	}
	for _, state := range all {
		value := 0.0
		if state == active {
			value = 1.0
		}
		supervisorStateGauge.WithLabelValues(state).Set(value)
	}
}

func RecordScoreArchiveError() {
	if scoreArchiveErrorCounter == nil {
		return
	}
	scoreArchiveErrorCounter.Inc()
}

func RecordPublishError() {
	if publishErrorCounter == nil {
		return
	}
	publishErrorCounter.Inc()
}

func ObserveDbLatency(method string, outcome Outcome, duration time.Duration) {
	if dbLatency == nil {
		return
	}
	dbLatency.WithLabelValues(method, outcome.String()).Observe(duration.Seconds())
}
