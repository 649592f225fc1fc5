// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncUserRegistered()
	IncLogin(status string) // status: "success" or "failed"
	IncAuthRejected()

	// Resource metrics
	IncExpenseCreated()
	IncExpenseUpdated()
	IncExpenseDeleted()
	IncCategoryCreated()
	IncCategoryDeleted()

	// Reporting metrics
	ObserveReportDuration(duration time.Duration)

	// Event publishing metrics
	IncEventPublished(status string) // status: "success" or "failed"
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
