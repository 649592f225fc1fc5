package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered       uint64
	LoginsSucceeded       uint64
	LoginsFailed          uint64
	AuthRejected          uint64
	ExpensesCreated       uint64
	ExpensesUpdated       uint64
	ExpensesDeleted       uint64
	CategoriesCreated     uint64
	CategoriesDeleted     uint64
	ReportDurationCount   uint64
	ReportDurationTotalNs int64
	EventsPublished       uint64
	EventsFailed          uint64
}

// InMemoryRecorder stores metrics in memory.
// It backs the /metrics endpoint and is used directly in tests.
type InMemoryRecorder struct {
	usersRegistered       uint64
	loginsSucceeded       uint64
	loginsFailed          uint64
	authRejected          uint64
	expensesCreated       uint64
	expensesUpdated       uint64
	expensesDeleted       uint64
	categoriesCreated     uint64
	categoriesDeleted     uint64
	reportDurationCount   uint64
	reportDurationTotalNs int64
	eventsPublished       uint64
	eventsFailed          uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:       atomic.LoadUint64(&m.usersRegistered),
		LoginsSucceeded:       atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:          atomic.LoadUint64(&m.loginsFailed),
		AuthRejected:          atomic.LoadUint64(&m.authRejected),
		ExpensesCreated:       atomic.LoadUint64(&m.expensesCreated),
		ExpensesUpdated:       atomic.LoadUint64(&m.expensesUpdated),
		ExpensesDeleted:       atomic.LoadUint64(&m.expensesDeleted),
		CategoriesCreated:     atomic.LoadUint64(&m.categoriesCreated),
		CategoriesDeleted:     atomic.LoadUint64(&m.categoriesDeleted),
		ReportDurationCount:   atomic.LoadUint64(&m.reportDurationCount),
		ReportDurationTotalNs: atomic.LoadInt64(&m.reportDurationTotalNs),
		EventsPublished:       atomic.LoadUint64(&m.eventsPublished),
		EventsFailed:          atomic.LoadUint64(&m.eventsFailed),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLogin increments the login counter for the given status.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == "success" {
		atomic.AddUint64(&m.loginsSucceeded, 1)
		return
	}
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncAuthRejected increments the rejected bearer token counter.
func (m *InMemoryRecorder) IncAuthRejected() {
	atomic.AddUint64(&m.authRejected, 1)
}

// IncExpenseCreated increments expense created counter.
func (m *InMemoryRecorder) IncExpenseCreated() {
	atomic.AddUint64(&m.expensesCreated, 1)
}

// IncExpenseUpdated increments expense updated counter.
func (m *InMemoryRecorder) IncExpenseUpdated() {
	atomic.AddUint64(&m.expensesUpdated, 1)
}

// IncExpenseDeleted increments expense deleted counter.
func (m *InMemoryRecorder) IncExpenseDeleted() {
	atomic.AddUint64(&m.expensesDeleted, 1)
}

// IncCategoryCreated increments category created counter.
func (m *InMemoryRecorder) IncCategoryCreated() {
	atomic.AddUint64(&m.categoriesCreated, 1)
}

// IncCategoryDeleted increments category deleted counter.
func (m *InMemoryRecorder) IncCategoryDeleted() {
	atomic.AddUint64(&m.categoriesDeleted, 1)
}

// ObserveReportDuration records report query duration.
func (m *InMemoryRecorder) ObserveReportDuration(duration time.Duration) {
	atomic.AddUint64(&m.reportDurationCount, 1)
	atomic.AddInt64(&m.reportDurationTotalNs, duration.Nanoseconds())
}

// IncEventPublished increments the event counter for the given status.
func (m *InMemoryRecorder) IncEventPublished(status string) {
	if status == "success" {
		atomic.AddUint64(&m.eventsPublished, 1)
		return
	}
	atomic.AddUint64(&m.eventsFailed, 1)
}
