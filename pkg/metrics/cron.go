package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CronJobRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cron_job_runs_total",
			Help:      "Total number of cron job runs",
		},
		[]string{"job_name"},
	)

	CronJobErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cron_job_errors_total",
			Help:      "Total number of failed cron job runs",
		},
		[]string{"job_name"},
	)

	CronJobRunDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cron_job_run_duration_seconds",
			Help:      "Duration of cron job runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15),
		},
		[]string{"job_name"},
	)
)

func cronCollectors() []prometheus.Collector {
	return []prometheus.Collector{CronJobRunsTotal, CronJobErrorsTotal, CronJobRunDurationSeconds}
}

// CronRecorder satisfies the cron package's run recorder.
type CronRecorder struct{}

func (CronRecorder) RecordJobRun(jobName string, duration time.Duration, err error) {
	if err != nil {
		CronJobErrorsTotal.WithLabelValues(jobName).Inc()
	}
	CronJobRunsTotal.WithLabelValues(jobName).Inc()
	CronJobRunDurationSeconds.WithLabelValues(jobName).Observe(duration.Seconds())
}
