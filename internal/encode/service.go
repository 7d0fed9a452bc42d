package encode

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/rs/zerolog/log"

	"github.com/Hangghost/youtube-converter/internal/model"
	"github.com/Hangghost/youtube-converter/internal/platform"
)

// FFmpeg constants for MP3 conversion
const (
	// Audio codec settings
	AudioCodec = "libmp3lame"

	// Flags
	NoVideoFlag   = "-vn"
	OverwriteFlag = "-y"

	// Output suffix used when input and output paths collide
	AudioSuffix = "-audio"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	TaskIDPrefix        = "encode-"
	OutputExtensionMP3  = ".mp3"
)

// Service converts downloaded media files to MP3 via the external ffmpeg
// binary
type Service struct {
	tasks      map[string]*model.EncodeTask
	tasksMutex sync.RWMutex
	onUpdate   func(*model.EncodeTask) // callback for progress rendering
}

// NewService creates a new encode service
func NewService() *Service {
	return &Service{
		tasks: make(map[string]*model.EncodeTask),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.EncodeTask)) {
	s.onUpdate = callback
}

// FFmpegAvailable reports whether the ffmpeg binary can be found in PATH
func (s *Service) FFmpegAvailable() bool {
	return platform.CommandExists(FFmpegCommand)
}

// EncodeToMP3 converts inputPath to an MP3 file at outputPath with the
// given bitrate in kbit/s. It blocks until ffmpeg exits or ctx is
// cancelled. Success requires a zero exit code and a non-empty output
// file; on failure any partial output is left on disk for inspection.
func (s *Service) EncodeToMP3(ctx context.Context, inputPath, outputPath string, bitrate int) (*model.EncodeTask, error) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file does not exist: %s", inputPath)
	}

	task, err := s.registerTask(inputPath, outputPath, bitrate)
	if err != nil {
		return nil, err
	}

	s.setTaskStatus(task, model.TaskStatusStarting)

	// Duration drives percent calculation; without it the conversion
	// still runs, just without progress updates.
	duration, err := s.ProbeDuration(inputPath)
	if err != nil {
		log.Debug().Err(err).Str("svc", "encode").Str("file", inputPath).Msg("ffprobe failed, progress disabled")
		duration = 0
	}

	args := BuildFFmpegArgs(inputPath, outputPath, bitrate)
	log.Debug().Str("svc", "encode").Strs("args", args).Msg("starting ffmpeg")
	cmd := exec.CommandContext(ctx, FFmpegCommand, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		pipeErr := fmt.Errorf("failed to create stderr pipe: %w", err)
		s.setTaskError(task, pipeErr)
		return task, pipeErr
	}

	if err := cmd.Start(); err != nil {
		startErr := fmt.Errorf("failed to start ffmpeg: %w", err)
		s.setTaskError(task, startErr)
		return task, startErr
	}

	s.setTaskStatus(task, model.TaskStatusConverting)

	// Drain stderr before Wait; the last diagnostic line enriches the
	// error when ffmpeg fails.
	lastLine := s.monitorProgress(stderr, task, duration)

	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		s.setTaskStatus(task, model.TaskStatusStopped)
		s.finishTask(task)
		return task, fmt.Errorf("conversion cancelled: %w", ctx.Err())
	}

	if waitErr != nil {
		runErr := fmt.Errorf("ffmpeg failed: %v", waitErr)
		if lastLine != "" {
			runErr = fmt.Errorf("ffmpeg failed: %v: %s", waitErr, lastLine)
		}
		s.setTaskError(task, runErr)
		return task, runErr
	}

	size, err := platform.FileSize(outputPath)
	if err != nil || size == 0 {
		outErr := fmt.Errorf("ffmpeg produced no output at %s", outputPath)
		s.setTaskError(task, outErr)
		return task, outErr
	}

	s.tasksMutex.Lock()
	task.Status = model.TaskStatusCompleted
	task.Progress = 1.0
	task.Percent = 100
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	return task, nil
}

// GetTask returns an encode task by ID
func (s *Service) GetTask(taskID string) (*model.EncodeTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[taskID]
	return task, exists
}

// registerTask creates and stores a task, rejecting concurrent conversions
// of the same input file
func (s *Service) registerTask(inputPath, outputPath string, bitrate int) (*model.EncodeTask, error) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	for _, task := range s.tasks {
		if task.InputPath == inputPath && task.Status.IsActive() {
			return nil, fmt.Errorf("conversion already in progress for file: %s", inputPath)
		}
	}

	task := &model.EncodeTask{
		ID:         generateTaskID(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		Bitrate:    bitrate,
		Status:     model.TaskStatusPending,
		Progress:   0.0,
		Percent:    0,
		StartedAt:  time.Now(),
	}
	s.tasks[task.ID] = task
	return task, nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments for MP3 extraction
func BuildFFmpegArgs(inputPath, outputPath string, bitrate int) []string {
	return []string{
		OverwriteFlag,   // Overwrite output file
		"-i", inputPath, // Input file
		NoVideoFlag,           // Drop the video stream
		"-acodec", AudioCodec, // MP3 encoder
		"-b:a", fmt.Sprintf("%dk", bitrate), // Audio bitrate
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats", // No stats output
		outputPath, // Output file
	}
}

// DeriveOutputPath maps an input media path to its MP3 output path in the
// same directory
func DeriveOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	baseName := strings.TrimSuffix(inputPath, ext)

	outputPath := baseName + OutputExtensionMP3
	if outputPath == inputPath {
		outputPath = baseName + AudioSuffix + OutputExtensionMP3
	}
	return outputPath
}

// ProbeDuration gets the duration of a media file in seconds using ffprobe
func (s *Service) ProbeDuration(filePath string) (float64, error) {
	cmd := exec.Command(FFprobeCommand, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	durationStr := strings.TrimSpace(string(output))
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

// monitorProgress reads ffmpeg progress output until EOF and returns the
// last non-progress stderr line
func (s *Service) monitorProgress(stderr io.Reader, task *model.EncodeTask, totalDuration float64) string {
	scanner := bufio.NewScanner(stderr)
	var lastLine string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Progress line: out_time_us=123456
		if strings.HasPrefix(line, ProgressTimePrefix) {
			timeStr := strings.TrimPrefix(line, ProgressTimePrefix)
			timeMicroseconds, err := strconv.ParseInt(timeStr, 10, 64)
			if err != nil {
				continue
			}

			timeSeconds := float64(timeMicroseconds) / 1000000.0
			if totalDuration > 0 {
				progress := timeSeconds / totalDuration
				if progress > 1.0 {
					progress = 1.0
				}

				s.tasksMutex.Lock()
				task.Progress = progress
				task.Percent = int(progress * 100)
				s.tasksMutex.Unlock()

				s.notifyUpdate(task)
			}
			continue
		}

		// -progress emits key=value pairs; anything else is diagnostics
		if !strings.Contains(line, "=") {
			lastLine = line
		}
	}

	return lastLine
}

// setTaskStatus updates the status and notifies
func (s *Service) setTaskStatus(task *model.EncodeTask, status model.TaskStatus) {
	s.tasksMutex.Lock()
	task.Status = status
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

// setTaskError sets an error state for a task
func (s *Service) setTaskError(task *model.EncodeTask, err error) {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusError
	task.LastError = err.Error()
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
}

// finishTask stamps the finish time and notifies
func (s *Service) finishTask(task *model.EncodeTask) {
	s.tasksMutex.Lock()
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.EncodeTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}

// generateTaskID generates a unique task ID using UUID v7 for better uniqueness and time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
