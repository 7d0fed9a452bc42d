package cmd

import (
	"path/filepath"
	"sync"

	"github.com/Hangghost/youtube-converter/internal/download"
	"github.com/Hangghost/youtube-converter/internal/encode"
	"github.com/Hangghost/youtube-converter/internal/model"
	"github.com/Hangghost/youtube-converter/internal/progress"
)

// trackDownloads forwards download task updates to the progress reporter.
// Updates arrive from worker goroutines, so the seen set is locked.
func trackDownloads(svc *download.Service, reporter progress.Reporter) {
	var mu sync.Mutex
	seen := make(map[string]bool)
	finished := make(map[string]bool)

	svc.SetUpdateCallback(func(task *model.DownloadTask) {
		mu.Lock()
		defer mu.Unlock()

		if task.Status.IsFinished() {
			if seen[task.ID] && !finished[task.ID] {
				finished[task.ID] = true
				reporter.FinishTask(task.ID, task.Status == model.TaskStatusCompleted)
			}
			return
		}

		if !seen[task.ID] {
			seen[task.ID] = true
			reporter.StartTask(task.ID, task.GetDisplayTitle(), task.FileSize)
			return
		}
		current := int64(task.Progress * float64(task.FileSize))
		reporter.UpdateTask(task.ID, current, task.FileSize)
	})
}

// trackEncodes forwards conversion progress to the reporter. ffmpeg
// reports time rather than bytes, so percent is rendered against a
// fixed total of 100.
func trackEncodes(enc *encode.Service, reporter progress.Reporter) {
	var mu sync.Mutex
	seen := make(map[string]bool)
	finished := make(map[string]bool)

	enc.SetUpdateCallback(func(task *model.EncodeTask) {
		mu.Lock()
		defer mu.Unlock()

		if task.Status.IsFinished() {
			if seen[task.ID] && !finished[task.ID] {
				finished[task.ID] = true
				reporter.FinishTask(task.ID, task.Status == model.TaskStatusCompleted)
			}
			return
		}

		if !seen[task.ID] {
			seen[task.ID] = true
			reporter.StartTask(task.ID, "convert "+filepath.Base(task.OutputPath), 100)
			return
		}
		reporter.UpdateTask(task.ID, int64(task.Percent), 100)
	})
}
