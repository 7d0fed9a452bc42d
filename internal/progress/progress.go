// Package progress renders byte-count progress updates to the terminal.
// Three implementations exist: animated bars for interactive terminals,
// a plain percent line for dumb terminals, and a silent one.
package progress

// Reporter receives progress updates for one or more concurrent tasks,
// keyed by task ID. Implementations must be safe for concurrent use.
type Reporter interface {
	// StartTask registers a task. A non-positive total means unknown.
	StartTask(id, label string, total int64)

	// UpdateTask reports the current byte position of a task
	UpdateTask(id string, current, total int64)

	// FinishTask marks a task as done or failed
	FinishTask(id string, success bool)

	// Wait blocks until all rendering has been flushed
	Wait()
}

// NopReporter discards all updates
type NopReporter struct{}

// NewNop returns a reporter that renders nothing
func NewNop() *NopReporter {
	return &NopReporter{}
}

func (NopReporter) StartTask(string, string, int64) {}

func (NopReporter) UpdateTask(string, int64, int64) {}

func (NopReporter) FinishTask(string, bool) {}

func (NopReporter) Wait() {}
