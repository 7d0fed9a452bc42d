package progress

import (
	"context"
	"sync"

	"github.com/vbauerster/mpb/v6"
	"github.com/vbauerster/mpb/v6/decor"
)

// Bar layout constants
const (
	containerWidth = 64
	barWidth       = 12

	// placeholder total while the real size is unknown
	unknownTotal = 100 * 1024 * 1024 * 1024
)

// BarReporter renders one animated progress bar per task
type BarReporter struct {
	container *mpb.Progress

	mu    sync.Mutex
	bars  map[string]*mpb.Bar
	order int
}

// NewBar creates a bar reporter whose rendering stops when ctx is cancelled
func NewBar(ctx context.Context) *BarReporter {
	return &BarReporter{
		container: mpb.NewWithContext(ctx, mpb.WithWidth(containerWidth)),
		bars:      make(map[string]*mpb.Bar),
	}
}

// StartTask adds a bar for the task. Repeated calls for the same ID are
// ignored.
func (r *BarReporter) StartTask(id, label string, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bars[id]; exists {
		return
	}
	if total <= 0 {
		total = unknownTotal
	}

	bar := r.container.AddBar(total,
		mpb.BarWidth(barWidth),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.AverageSpeed(decor.UnitKB, " %.1f", decor.WC{W: 15, C: decor.DidentRight}),
			decor.Name(label),
		),
		mpb.BarRemoveOnComplete(),
	)
	r.order++
	bar.SetPriority(r.order)
	r.bars[id] = bar
}

// UpdateTask moves the bar to the current position
func (r *BarReporter) UpdateTask(id string, current, total int64) {
	r.mu.Lock()
	bar, exists := r.bars[id]
	r.mu.Unlock()
	if !exists {
		return
	}

	if total > 0 {
		bar.SetTotal(total, false)
	}
	bar.SetCurrent(current)
}

// FinishTask completes the bar on success or drops it on failure
func (r *BarReporter) FinishTask(id string, success bool) {
	r.mu.Lock()
	bar, exists := r.bars[id]
	delete(r.bars, id)
	r.mu.Unlock()
	if !exists {
		return
	}

	if success {
		// negative total completes the bar at its current position
		bar.SetTotal(-1, true)
		return
	}
	bar.Abort(true)
}

// Wait flushes the container rendering
func (r *BarReporter) Wait() {
	r.container.Wait()
}
