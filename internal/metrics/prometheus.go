package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the audio cast service
type Metrics struct {
	// Frame emission metrics
	FramesSent   prometheus.Counter
	BytesSent    prometheus.Counter
	SendFailures prometheus.Counter

	// Playback session metrics
	SessionsStarted  prometheus.Counter
	SessionsStopped  prometheus.Counter
	SessionsReplaced prometheus.Counter
	SessionDuration  prometheus.Histogram
	PlaybackActive   prometheus.Gauge

	// Observer metrics
	ObserversConnected prometheus.Gauge
	EventsBroadcast    prometheus.Counter

	// Library metrics
	LibraryFiles prometheus.Gauge

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on the default registry
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates and registers all metrics on the given registerer
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FramesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "audiocast_frames_sent_total",
			Help: "Total number of frames handed to the publish channel",
		}),
		BytesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "audiocast_bytes_sent_total",
			Help: "Total payload bytes handed to the publish channel",
		}),
		SendFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "audiocast_send_failures_total",
			Help: "Total number of frame sends that failed",
		}),

		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "audiocast_sessions_started_total",
			Help: "Total number of playback sessions started",
		}),
		SessionsStopped: factory.NewCounter(prometheus.CounterOpts{
			Name: "audiocast_sessions_stopped_total",
			Help: "Total number of playback sessions stopped or completed",
		}),
		SessionsReplaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "audiocast_sessions_replaced_total",
			Help: "Total number of playback sessions superseded by a newer start",
		}),
		SessionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "audiocast_session_duration_seconds",
			Help:    "Duration of playback sessions in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~7 minutes
		}),
		PlaybackActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "audiocast_playback_active",
			Help: "Whether a playback session is currently active (0 or 1)",
		}),

		ObserversConnected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "audiocast_observers_connected",
			Help: "Current number of connected status observers",
		}),
		EventsBroadcast: factory.NewCounter(prometheus.CounterOpts{
			Name: "audiocast_events_broadcast_total",
			Help: "Total number of status events broadcast to observers",
		}),

		LibraryFiles: factory.NewGauge(prometheus.GaugeOpts{
			Name: "audiocast_library_files",
			Help: "Current number of sample sources in the library",
		}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audiocast_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "audiocast_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audiocast_http_errors_total",
			Help: "Total number of HTTP errors",
		}, []string{"method", "endpoint", "error_type"}),
	}
}

// RecordFrameSent records one successfully published frame
func (m *Metrics) RecordFrameSent(payloadBytes int) {
	m.FramesSent.Inc()
	m.BytesSent.Add(float64(payloadBytes))
}

// RecordSendFailure increments the send failures counter
func (m *Metrics) RecordSendFailure() {
	m.SendFailures.Inc()
}

// RecordSessionStarted records a new playback session
func (m *Metrics) RecordSessionStarted() {
	m.SessionsStarted.Inc()
	m.PlaybackActive.Set(1)
}

// RecordSessionStopped records a finished session and its duration
func (m *Metrics) RecordSessionStopped(durationSeconds float64) {
	m.SessionsStopped.Inc()
	m.SessionDuration.Observe(durationSeconds)
	m.PlaybackActive.Set(0)
}

// RecordSessionReplaced increments the replaced sessions counter
func (m *Metrics) RecordSessionReplaced() {
	m.SessionsReplaced.Inc()
}

// RecordEventBroadcast increments the broadcast events counter
func (m *Metrics) RecordEventBroadcast() {
	m.EventsBroadcast.Inc()
}

// SetObserversConnected sets the current observer count
func (m *Metrics) SetObserversConnected(count int) {
	m.ObserversConnected.Set(float64(count))
}

// SetLibraryFiles sets the current library file count
func (m *Metrics) SetLibraryFiles(count int) {
	m.LibraryFiles.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordHTTPError records an HTTP error
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}
