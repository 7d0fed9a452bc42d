package encode

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Hangghost/youtube-converter/internal/model"
)

func TestNewService(t *testing.T) {
	service := NewService()

	if len(service.tasks) != 0 {
		t.Errorf("Expected empty tasks map, got %d items", len(service.tasks))
	}
}

func TestDeriveOutputPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/path/to/video.mp4", "/path/to/video.mp3"},
		{"/path/to/audio.m4a", "/path/to/audio.mp3"},
		{"/path/to/clip.webm", "/path/to/clip.mp3"},
		{"song.mp3", "song-audio.mp3"},
		{"/no/ext/file", "/no/ext/file.mp3"},
	}

	for _, test := range tests {
		result := DeriveOutputPath(test.input)
		if result != test.expected {
			t.Errorf("DeriveOutputPath(%s) = %s, expected %s", test.input, result, test.expected)
		}
	}
}

func TestBuildFFmpegArgs(t *testing.T) {
	args := BuildFFmpegArgs("/input.m4a", "/output.mp3", 192)

	expectedArgs := []string{
		"-y",
		"-i", "/input.m4a",
		"-vn",
		"-acodec", AudioCodec,
		"-b:a", "192k",
		"-progress", "pipe:2",
		"-nostats",
		"/output.mp3",
	}

	if len(args) != len(expectedArgs) {
		t.Fatalf("Expected %d args, got %d", len(expectedArgs), len(args))
	}

	for i, expected := range expectedArgs {
		if args[i] != expected {
			t.Errorf("Arg %d: expected %s, got %s", i, expected, args[i])
		}
	}
}

func TestEncodeToMP3_NonExistentInput(t *testing.T) {
	service := NewService()

	_, err := service.EncodeToMP3(context.Background(), "/path/to/nonexistent/file.m4a", "/tmp/out.mp3", 192)
	if err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}

	if !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist' error, got: %v", err)
	}
}

func TestEncodeToMP3_InvalidInput(t *testing.T) {
	service := NewService()

	// An empty file is not decodable media, so the conversion must fail
	// whether or not ffmpeg is installed.
	tempFile, err := os.CreateTemp("", "test_audio_*.m4a")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())
	tempFile.Close()

	outputPath := DeriveOutputPath(tempFile.Name())
	defer os.Remove(outputPath)

	task, err := service.EncodeToMP3(context.Background(), tempFile.Name(), outputPath, 192)
	if err == nil {
		t.Fatal("Expected error for empty input, got nil")
	}
	if task == nil {
		t.Fatal("Expected task to be returned even on failure")
	}

	if task.Status != model.TaskStatusError {
		t.Errorf("Expected status Error, got %s", task.Status)
	}
	if task.LastError == "" {
		t.Error("Expected LastError to be set")
	}

	stored, exists := service.GetTask(task.ID)
	if !exists {
		t.Fatal("Task should exist in service")
	}
	if stored.InputPath != tempFile.Name() {
		t.Errorf("Expected InputPath %s, got %s", tempFile.Name(), stored.InputPath)
	}
}

func TestEncodeToMP3_DuplicateInput(t *testing.T) {
	service := NewService()

	tempFile, err := os.CreateTemp("", "test_audio_*.m4a")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tempFile.Name())
	tempFile.Close()

	// Simulate a conversion already running for this input
	active := &model.EncodeTask{
		ID:        "encode-active",
		InputPath: tempFile.Name(),
		Status:    model.TaskStatusConverting,
	}
	service.tasksMutex.Lock()
	service.tasks[active.ID] = active
	service.tasksMutex.Unlock()

	_, err = service.EncodeToMP3(context.Background(), tempFile.Name(), "/tmp/out.mp3", 192)
	if err == nil {
		t.Fatal("Expected error for duplicate conversion, got nil")
	}
	if !strings.Contains(err.Error(), "already in progress") {
		t.Errorf("Expected 'already in progress' error, got: %v", err)
	}
}

func TestMonitorProgress(t *testing.T) {
	service := NewService()

	var percents []int
	service.SetUpdateCallback(func(task *model.EncodeTask) {
		percents = append(percents, task.Percent)
	})

	task := &model.EncodeTask{ID: "encode-test", Status: model.TaskStatusConverting}
	output := strings.Join([]string{
		"bitrate= 192.0kbits/s",
		"out_time_us=5000000",
		"progress=continue",
		"out_time_us=10000000",
		"progress=end",
	}, "\n")

	lastLine := service.monitorProgress(strings.NewReader(output), task, 10.0)

	if task.Percent != 100 {
		t.Errorf("Expected final percent 100, got %d", task.Percent)
	}
	if task.Progress != 1.0 {
		t.Errorf("Expected final progress 1.0, got %f", task.Progress)
	}
	if len(percents) != 2 {
		t.Errorf("Expected 2 progress updates, got %d", len(percents))
	}
	if len(percents) == 2 && percents[0] != 50 {
		t.Errorf("Expected first update at 50%%, got %d", percents[0])
	}
	if lastLine != "" {
		t.Errorf("Expected no diagnostic line, got %q", lastLine)
	}
}

func TestMonitorProgress_CapsAtFull(t *testing.T) {
	service := NewService()
	task := &model.EncodeTask{ID: "encode-test"}

	service.monitorProgress(strings.NewReader("out_time_us=20000000\n"), task, 10.0)

	if task.Percent != 100 {
		t.Errorf("Expected percent capped at 100, got %d", task.Percent)
	}
}

func TestMonitorProgress_UnknownDuration(t *testing.T) {
	service := NewService()

	updates := 0
	service.SetUpdateCallback(func(task *model.EncodeTask) {
		updates++
	})

	task := &model.EncodeTask{ID: "encode-test"}
	service.monitorProgress(strings.NewReader("out_time_us=5000000\n"), task, 0)

	if updates != 0 {
		t.Errorf("Expected no updates without duration, got %d", updates)
	}
	if task.Percent != 0 {
		t.Errorf("Expected percent 0, got %d", task.Percent)
	}
}

func TestMonitorProgress_KeepsDiagnosticLine(t *testing.T) {
	service := NewService()
	task := &model.EncodeTask{ID: "encode-test"}

	output := strings.Join([]string{
		"out_time_us=1000000",
		"Error while opening encoder for output stream",
		"progress=end",
	}, "\n")

	lastLine := service.monitorProgress(strings.NewReader(output), task, 10.0)

	if lastLine != "Error while opening encoder for output stream" {
		t.Errorf("Expected diagnostic line to be kept, got %q", lastLine)
	}
}

func TestUpdateCallback(t *testing.T) {
	service := NewService()

	updateCalled := false
	var updatedTask *model.EncodeTask

	service.SetUpdateCallback(func(task *model.EncodeTask) {
		updateCalled = true
		updatedTask = task
	})

	task := &model.EncodeTask{
		ID:         "test-id",
		InputPath:  "/test/input.m4a",
		OutputPath: "/test/output.mp3",
		Status:     model.TaskStatusConverting,
	}

	service.notifyUpdate(task)

	if !updateCalled {
		t.Error("Expected update callback to be called")
	}
	if updatedTask != task {
		t.Error("Expected updated task to be the same as input task")
	}
}

func TestProbeDuration_NonExistentFile(t *testing.T) {
	service := NewService()

	if _, err := service.ProbeDuration("/path/to/nonexistent/file.m4a"); err == nil {
		t.Error("Expected error for non-existent file, got nil")
	}
}

func TestGenerateTaskID(t *testing.T) {
	id1 := generateTaskID()
	time.Sleep(1 * time.Millisecond)
	id2 := generateTaskID()

	if id1 == id2 {
		t.Error("Expected different task IDs")
	}

	if !strings.HasPrefix(id1, "encode-") {
		t.Errorf("Expected ID to start with 'encode-', got: %s", id1)
	}
}
