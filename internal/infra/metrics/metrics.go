// File: internal/infra/metrics/metrics.go
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	tasksProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_tasks_processed_total",
			Help: "Tasks executed successfully, by kind.",
		},
		[]string{"kind"},
	)

	tasksFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_tasks_failed_total",
			Help: "Tasks that faulted at the worker boundary, by kind.",
		},
		[]string{"kind"},
	)

	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "diary_queue_depth",
			Help: "Tasks currently waiting in the shared bounded queue.",
		},
	)

	remindersEnqueued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "diary_reminders_enqueued_total",
			Help: "Reminder tasks produced by the scheduler.",
		},
	)

	storageErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_storage_errors_total",
			Help: "Ledger store failures, by operation.",
		},
		[]string{"op"},
	)
)

// Register installs every collector exactly once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			tasksProcessed,
			tasksFailed,
			queueDepth,
			remindersEnqueued,
			storageErrors,
		)
	})
}

func IncTaskProcessed(kind string) { tasksProcessed.WithLabelValues(kind).Inc() }
func IncTaskFailed(kind string)    { tasksFailed.WithLabelValues(kind).Inc() }
func SetQueueDepth(n int)          { queueDepth.Set(float64(n)) }
func IncReminderEnqueued()         { remindersEnqueued.Inc() }
func IncStorageError(op string)    { storageErrors.WithLabelValues(op).Inc() }
