// Package metrics registers the daemon's Prometheus collectors.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "alarmd_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	alarmOps       *prometheus.CounterVec
	alarmOpLatency *prometheus.HistogramVec

	wakeFires prometheus.Counter

	sweepRuns         *prometheus.CounterVec
	sweepPurged       prometheus.Counter
	sweepReregistered prometheus.Counter
	sweepFailures     prometheus.Counter
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		alarmOps = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alarm_ops_total",
				Help: "Total alarm lifecycle operations by op and result",
			},
			[]string{"op", "result"},
		)
		alarmOpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "alarm_op_latency_seconds",
				Help:    "Alarm operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		)

		wakeFires = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "wake_fires_total",
				Help: "Total wake-timer callbacks delivered",
			},
		)

		sweepRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sweep_runs_total",
				Help: "Total consistency sweeps by trigger and result",
			},
			[]string{"trigger", "result"},
		)
		sweepPurged = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "sweep_purged_total",
				Help: "Total alarms purged by the consistency sweep",
			},
		)
		sweepReregistered = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "sweep_reregistered_total",
				Help: "Total alarms re-registered with the wake scheduler",
			},
		)
		sweepFailures = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "sweep_item_failures_total",
				Help: "Total per-alarm scheduler failures tolerated by sweeps",
			},
		)

		prometheus.MustRegister(
			alarmOps,
			alarmOpLatency,
			wakeFires,
			sweepRuns,
			sweepPurged,
			sweepReregistered,
			sweepFailures,
		)
	})
}

// ObserveAlarmOp records one orchestrator operation.
func ObserveAlarmOp(op, result string, duration time.Duration) {
	if op == "" {
		op = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if alarmOps != nil {
		alarmOps.WithLabelValues(op, result).Inc()
	}
	if alarmOpLatency != nil {
		alarmOpLatency.WithLabelValues(op).Observe(duration.Seconds())
	}
}

// IncWakeFire counts one delivered wake-up.
func IncWakeFire() {
	if wakeFires != nil {
		wakeFires.Inc()
	}
}

// ObserveSweep records one sweep run.
func ObserveSweep(trigger, result string, purged, reregistered, failures int) {
	if trigger == "" {
		trigger = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if sweepRuns != nil {
		sweepRuns.WithLabelValues(trigger, result).Inc()
	}
	if purged > 0 && sweepPurged != nil {
		sweepPurged.Add(float64(purged))
	}
	if reregistered > 0 && sweepReregistered != nil {
		sweepReregistered.Add(float64(reregistered))
	}
	if failures > 0 && sweepFailures != nil {
		sweepFailures.Add(float64(failures))
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
