package progress

import (
	"fmt"
	"io"
	"sync"
)

// TextReporter prints a carriage-return updated percent line. It renders
// live output only while a single task is active; once tasks overlap it
// stays quiet for good and leaves reporting to the caller's logs.
type TextReporter struct {
	mu     sync.Mutex
	w      io.Writer
	labels map[string]string
	last   map[string]int
	active int
	quiet  bool
}

// NewText creates a text reporter writing to w
func NewText(w io.Writer) *TextReporter {
	return &TextReporter{
		w:      w,
		labels: make(map[string]string),
		last:   make(map[string]int),
	}
}

func (r *TextReporter) StartTask(id, label string, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.labels[id]; exists {
		return
	}
	r.labels[id] = label
	r.last[id] = -1
	r.active++
	if r.active > 1 {
		r.quiet = true
	}
}

func (r *TextReporter) UpdateTask(id string, current, total int64) {
	if total <= 0 {
		return
	}

	percent := int(float64(current) / float64(total) * 100)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	label, exists := r.labels[id]
	if !exists || r.last[id] == percent {
		return
	}
	r.last[id] = percent

	if !r.quiet {
		fmt.Fprintf(r.w, "\r%s: %3d%%", label, percent)
	}
}

func (r *TextReporter) FinishTask(id string, success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	label, exists := r.labels[id]
	if !exists {
		return
	}
	delete(r.labels, id)
	delete(r.last, id)
	r.active--

	if !r.quiet {
		if success {
			fmt.Fprintf(r.w, "\r%s: 100%%\n", label)
		} else {
			fmt.Fprintln(r.w)
		}
	}
}

func (r *TextReporter) Wait() {}
