package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/rs/zerolog/log"
	"github.com/ytget/ytdlp/v2"
	"github.com/ytget/ytdlp/v2/client"
	"github.com/ytget/ytdlp/v2/errs"
	"github.com/ytget/ytdlp/v2/youtube/formats"

	"github.com/Hangghost/youtube-converter/internal/model"
	"github.com/Hangghost/youtube-converter/internal/platform"
	"github.com/Hangghost/youtube-converter/internal/quality"
	"github.com/Hangghost/youtube-converter/internal/validate"
)

// HTTP and retry behavior
const (
	RequestTimeout = 30 * time.Second

	maxRetries = 1
	retryDelay = 2 * time.Second
)

// Service handles download operations
type Service struct {
	outputDir   string
	maxParallel int
	rateLimit   int64 // bytes per second, 0 means unlimited

	httpClient *client.Client

	tasks      map[string]*model.DownloadTask
	tasksMutex sync.RWMutex

	playlistMu sync.Mutex // guards playlist mutations during parallel downloads

	onUpdate func(*model.DownloadTask)
}

// NewService creates a new download service writing into outputDir.
func NewService(outputDir string, maxParallel int) *Service {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Service{
		outputDir:   outputDir,
		maxParallel: maxParallel,
		httpClient:  client.NewWith(client.Config{Timeout: RequestTimeout}),
		tasks:       make(map[string]*model.DownloadTask),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.onUpdate = callback
}

// SetRateLimit limits download throughput to bytesPerSecond. Zero disables
// the limit.
func (s *Service) SetRateLimit(bytesPerSecond int64) {
	if bytesPerSecond < 0 {
		bytesPerSecond = 0
	}
	s.rateLimit = bytesPerSecond
}

// GetTask returns a task by ID
func (s *Service) GetTask(id string) (*model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	return task, exists
}

// FetchInfo resolves video metadata without downloading anything.
func (s *Service) FetchInfo(ctx context.Context, rawURL string) (*model.VideoInfo, error) {
	if err := validate.CheckVideoURL(rawURL); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	d := ytdlp.New().WithHTTPClient(s.httpClient.HTTPClient)
	_, info, err := d.ResolveURL(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video info: %w", err)
	}
	return mapVideoInfo(info), nil
}

// Download fetches a single video chosen by the format selector and writes
// it into the service output directory. It blocks until the download has
// finished or ctx is cancelled. The returned task carries the final status
// and output path; on error the task (when one was registered) is returned
// along with the error.
func (s *Service) Download(ctx context.Context, rawURL, selector, ext string) (*model.DownloadTask, error) {
	return s.runDownload(ctx, rawURL, selector, ext, "")
}

// DownloadAudioSource fetches the audio stream of a video, to be fed into
// the MP3 encoder afterwards.
func (s *Service) DownloadAudioSource(ctx context.Context, rawURL string) (*model.DownloadTask, error) {
	return s.runDownload(ctx, rawURL, quality.AudioSelector, "", "")
}

func (s *Service) runDownload(ctx context.Context, rawURL, selector, ext, title string) (*model.DownloadTask, error) {
	if err := validate.CheckVideoURL(rawURL); err != nil {
		return nil, err
	}

	task, err := s.registerTask(rawURL, title)
	if err != nil {
		return nil, err
	}

	if err := platform.CreateDirectoryIfNotExists(s.outputDir); err != nil {
		s.failTask(task, err)
		return task, err
	}

	s.setTaskStatus(task, model.TaskStatusStarting)

	info, err := s.downloadWithRetry(ctx, task, rawURL, selector, ext)
	if err != nil {
		if ctx.Err() != nil {
			s.stopTask(task)
			return task, err
		}
		s.failTask(task, err)
		return task, err
	}

	s.completeTask(task, info, selector, ext)
	return task, nil
}

// downloadWithRetry attempts the download with retry logic for transient
// errors. Permanent failures such as private or removed videos are
// surfaced immediately.
func (s *Service) downloadWithRetry(ctx context.Context, task *model.DownloadTask, rawURL, selector, ext string) (*ytdlp.VideoInfo, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			log.Info().Str("svc", "download").Str("task_id", task.ID).Int("attempt", attempt+1).Msg("retrying download")
		}

		info, err := s.attemptDownload(ctx, task, rawURL, selector, ext)
		if err == nil {
			return info, nil
		}
		lastErr = err
		log.Debug().Err(err).Str("svc", "download").Str("task_id", task.ID).Int("attempt", attempt+1).Msg("download attempt failed")

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isRetryable(err) {
			break
		}
	}

	return nil, lastErr
}

func (s *Service) attemptDownload(ctx context.Context, task *model.DownloadTask, rawURL, selector, ext string) (*ytdlp.VideoInfo, error) {
	d := ytdlp.New().
		WithHTTPClient(s.httpClient.HTTPClient).
		WithOutputPath(s.outputDir).
		WithProgress(func(p ytdlp.Progress) {
			s.updateTaskProgress(task, p)
		})
	if selector != "" || ext != "" {
		d = d.WithFormat(selector, ext)
	}
	if s.rateLimit > 0 {
		d = d.WithRateLimit(s.rateLimit)
	}

	s.setTaskStatus(task, model.TaskStatusDownloading)

	info, err := d.Download(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	return info, nil
}

// isRetryable reports whether a failed attempt is worth repeating.
func isRetryable(err error) bool {
	switch {
	case errors.Is(err, errs.ErrVideoUnavailable),
		errors.Is(err, errs.ErrPrivate),
		errors.Is(err, errs.ErrAgeRestricted),
		errors.Is(err, errs.ErrGeoBlocked):
		return false
	}
	return true
}

// registerTask adds a new task, rejecting duplicate in-flight URLs.
func (s *Service) registerTask(rawURL, title string) (*model.DownloadTask, error) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	for _, task := range s.tasks {
		if task.URL == rawURL && !task.Status.IsFinished() {
			return nil, fmt.Errorf("download already in progress for URL: %s", rawURL)
		}
	}

	task := &model.DownloadTask{
		ID:       generateTaskID(),
		URL:      rawURL,
		Title:    title,
		Status:   model.TaskStatusPending,
		Progress: 0.0,
		Percent:  0,
		ETASec:   -1,
	}
	s.tasks[task.ID] = task
	return task, nil
}

// updateTaskProgress updates task progress from a download progress event.
func (s *Service) updateTaskProgress(task *model.DownloadTask, p ytdlp.Progress) {
	s.tasksMutex.Lock()

	if p.TotalSize > 0 {
		percent := float64(p.DownloadedSize) / float64(p.TotalSize) * 100
		task.Percent = int(percent)
		task.Progress = percent / 100.0
		task.FileSize = p.TotalSize
	}

	if !task.StartedAt.IsZero() {
		elapsed := time.Since(task.StartedAt)
		if elapsed.Seconds() > 0 && p.DownloadedSize > 0 {
			bytesPerSecond := float64(p.DownloadedSize) / elapsed.Seconds()
			task.Speed = fmt.Sprintf("%.1fMB/s", bytesPerSecond/1024/1024)
			if p.TotalSize > p.DownloadedSize {
				task.ETASec = int(float64(p.TotalSize-p.DownloadedSize) / bytesPerSecond)
			} else {
				task.ETASec = 0
			}
		}
	}

	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

func (s *Service) setTaskStatus(task *model.DownloadTask, status model.TaskStatus) {
	s.tasksMutex.Lock()
	task.Status = status
	if status == model.TaskStatusDownloading && task.StartedAt.IsZero() {
		task.StartedAt = time.Now()
	}
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

func (s *Service) stopTask(task *model.DownloadTask) {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusStopped
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
	log.Info().Str("svc", "download").Str("task_id", task.ID).Str("url", task.URL).Msg("download cancelled")
}

func (s *Service) failTask(task *model.DownloadTask, err error) {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusError
	task.LastError = err.Error()
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
	log.Error().Err(err).Str("svc", "download").Str("task_id", task.ID).Str("url", task.URL).Msg("download failed")
}

func (s *Service) completeTask(task *model.DownloadTask, info *ytdlp.VideoInfo, selector, ext string) {
	outputPath := s.locateOutput(info, selector, ext)

	s.tasksMutex.Lock()
	task.Status = model.TaskStatusCompleted
	task.Progress = 1.0
	task.Percent = 100
	task.ETASec = 0
	task.FinishedAt = time.Now()
	if info != nil {
		task.Title = info.Title
		task.Author = info.Author
		task.Duration = info.Duration
	}
	if outputPath != "" {
		task.OutputPath = outputPath
		if size, err := platform.FileSize(outputPath); err == nil {
			task.FileSize = size
		}
	}
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	log.Info().Str("svc", "download").Str("task_id", task.ID).Str("output", outputPath).Msg("download completed")
}

// locateOutput determines where the library wrote the downloaded media.
// The expected name is derived from the video title the same way the
// library derives it; when the extension guess misses, the output
// directory is scanned for the newest file matching the title.
func (s *Service) locateOutput(info *ytdlp.VideoInfo, selector, ext string) string {
	if info == nil {
		return ""
	}

	mediaExt := ext
	if chosen := formats.SelectFormat(info.Formats, selector, ext); chosen != nil {
		if e := extFromMime(chosen.MimeType); e != "" {
			mediaExt = e
		}
	}
	if mediaExt == "" {
		mediaExt = "mp4"
	}

	expected := filepath.Join(s.outputDir, platform.SafeFileName(info.Title, mediaExt))
	if _, err := os.Stat(expected); err == nil {
		return expected
	}
	return s.findNewestMatch(info.Title)
}

// findNewestMatch scans the output directory for the most recently
// modified file whose name starts with the sanitized title.
func (s *Service) findNewestMatch(title string) string {
	base := platform.SafeFileName(title, "")
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return ""
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasPrefix(entry.Name(), base+".") {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		if fi.ModTime().After(newestMod) {
			newest = filepath.Join(s.outputDir, entry.Name())
			newestMod = fi.ModTime()
		}
	}
	return newest
}

// extFromMime maps a MIME type to a file extension the same way the
// download library names its output files.
func extFromMime(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.TrimSpace(mimeType)

	switch mimeType {
	case "video/mp4":
		return "mp4"
	case "audio/mp4":
		return "m4a"
	case "video/webm", "audio/webm":
		return "webm"
	}
	if i := strings.Index(mimeType, "/"); i >= 0 && i+1 < len(mimeType) {
		return mimeType[i+1:]
	}
	return "mp4"
}

func mapVideoInfo(info *ytdlp.VideoInfo) *model.VideoInfo {
	if info == nil {
		return nil
	}
	out := &model.VideoInfo{
		ID:       info.ID,
		Title:    info.Title,
		Author:   info.Author,
		Duration: info.Duration,
	}
	for _, f := range info.Formats {
		out.Formats = append(out.Formats, model.FormatInfo{
			Itag:     f.Itag,
			Quality:  f.Quality,
			MimeType: f.MimeType,
			Bitrate:  f.Bitrate,
			Size:     f.Size,
		})
	}
	return out
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("download-%d", time.Now().UnixNano())
	}
	return "download-" + id.String()
}
