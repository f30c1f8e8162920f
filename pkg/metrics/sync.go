package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncJobMetrics records metadata for sync jobs and their record throughput.
type SyncJobMetrics struct {
	duration       *prometheus.HistogramVec
	success        *prometheus.CounterVec
	failure        *prometheus.CounterVec
	recordsFetched *prometheus.CounterVec
	recordsStored  *prometheus.CounterVec
	recordsFailed  *prometheus.CounterVec
}

// NewSyncJobMetrics registers the sync metrics on the provided registerer.
func NewSyncJobMetrics(reg prometheus.Registerer) *SyncJobMetrics {
	if reg == nil {
		return &SyncJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_job_duration_seconds",
		Help:    "Duration of sync jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_job_success",
		Help: "Successful sync job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_job_failure",
		Help: "Failed sync job executions.",
	}, []string{"job"})
	recordsFetched := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_records_fetched_total",
		Help: "Vendor records fetched, by sync mode.",
	}, []string{"mode"})
	recordsStored := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_records_stored_total",
		Help: "Records durably upserted, by sync mode.",
	}, []string{"mode"})
	recordsFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_records_failed_total",
		Help: "Records that failed to persist, by sync mode.",
	}, []string{"mode"})
	reg.MustRegister(duration, success, failure, recordsFetched, recordsStored, recordsFailed)
	return &SyncJobMetrics{
		duration:       duration,
		success:        success,
		failure:        failure,
		recordsFetched: recordsFetched,
		recordsStored:  recordsStored,
		recordsFailed:  recordsFailed,
	}
}

// ObserveDuration records the duration for the named job.
func (m *SyncJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (m *SyncJobMetrics) IncSuccess(job string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (m *SyncJobMetrics) IncFailure(job string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

// AddFetched counts vendor records fetched for the given mode.
func (m *SyncJobMetrics) AddFetched(mode string, n int) {
	if m == nil || m.recordsFetched == nil || n <= 0 {
		return
	}
	m.recordsFetched.WithLabelValues(normalizeLabel(mode)).Add(float64(n))
}

// AddStored counts records durably upserted for the given mode.
func (m *SyncJobMetrics) AddStored(mode string, n int) {
	if m == nil || m.recordsStored == nil || n <= 0 {
		return
	}
	m.recordsStored.WithLabelValues(normalizeLabel(mode)).Add(float64(n))
}

// AddFailed counts records that failed to persist for the given mode.
func (m *SyncJobMetrics) AddFailed(mode string, n int) {
	if m == nil || m.recordsFailed == nil || n <= 0 {
		return
	}
	m.recordsFailed.WithLabelValues(normalizeLabel(mode)).Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
