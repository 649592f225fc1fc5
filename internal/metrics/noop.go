package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(status string) {}

// IncAuthRejected is a no-op.
func (n *NoopRecorder) IncAuthRejected() {}

// IncExpenseCreated is a no-op.
func (n *NoopRecorder) IncExpenseCreated() {}

// IncExpenseUpdated is a no-op.
func (n *NoopRecorder) IncExpenseUpdated() {}

// IncExpenseDeleted is a no-op.
func (n *NoopRecorder) IncExpenseDeleted() {}

// IncCategoryCreated is a no-op.
func (n *NoopRecorder) IncCategoryCreated() {}

// IncCategoryDeleted is a no-op.
func (n *NoopRecorder) IncCategoryDeleted() {}

// ObserveReportDuration is a no-op.
func (n *NoopRecorder) ObserveReportDuration(duration time.Duration) {}

// IncEventPublished is a no-op.
func (n *NoopRecorder) IncEventPublished(status string) {}
