package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Hangghost/youtube-converter/internal/model"
	"github.com/Hangghost/youtube-converter/internal/validate"
)

func TestResolvePlaylistID(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  string
		expectErr bool
	}{
		{"raw PL id", "PLabc123xyz", "PLabc123xyz", false},
		{"raw UU id", "UUchannel42", "UUchannel42", false},
		{"raw album id", "OLAK5uy_abcdef", "OLAK5uy_abcdef", false},
		{"playlist url", "https://www.youtube.com/playlist?list=PLx9cvGhi", "PLx9cvGhi", false},
		{"watch url with list", "https://www.youtube.com/watch?v=abc&list=PLfoo&index=2", "PLfoo", false},
		{"padded raw id", "  PLabc123  ", "PLabc123", false},
		{"watch url without list", "https://www.youtube.com/watch?v=abc", "", true},
		{"empty input", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolvePlaylistID(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("resolvePlaylistID(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolvePlaylistID(%q) failed: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("resolvePlaylistID(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFetchPlaylistRejectsNonPlaylistInput(t *testing.T) {
	service := NewService(t.TempDir(), 1)

	_, err := service.FetchPlaylist(context.Background(), "https://www.youtube.com/watch?v=abc", 0)
	if err == nil {
		t.Fatal("FetchPlaylist should fail for a URL without a playlist ID")
	}
	if !errors.Is(err, validate.ErrInvalidPlaylistURL) {
		t.Errorf("error = %v, expected ErrInvalidPlaylistURL", err)
	}
}

func TestPlaylistTitle(t *testing.T) {
	tests := []struct {
		name     string
		titles   []string
		expected string
	}{
		{"no videos", nil, "Unknown Playlist"},
		{"single video", []string{"Go Tutorial"}, "Go Tutorial Playlist"},
		{"shared prefix", []string{"Go Tutorial Part 1", "Go Tutorial Part 2"}, "Go Tutorial Part Playlist"},
		{"short prefix", []string{"Alpha", "Beta"}, "Alpha Playlist"},
		{"untitled first video", []string{"", "Something"}, "Unknown Playlist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var videos []*model.PlaylistVideo
			for _, title := range tt.titles {
				videos = append(videos, &model.PlaylistVideo{Title: title})
			}
			if got := playlistTitle(videos); got != tt.expected {
				t.Errorf("playlistTitle = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected string
	}{
		{"Episode 01", "Episode 02", "Episode 0"},
		{"same", "same", "same"},
		{"", "anything", ""},
		{"abc", "xyz", ""},
	}

	for _, tt := range tests {
		if got := commonPrefix(tt.s1, tt.s2); got != tt.expected {
			t.Errorf("commonPrefix(%q, %q) = %q, expected %q", tt.s1, tt.s2, got, tt.expected)
		}
	}
}

func TestExistingMediaPath(t *testing.T) {
	dir := t.TempDir()
	service := NewService(dir, 1)

	saved := filepath.Join(dir, "Song One.m4a")
	if err := os.WriteFile(saved, []byte("audio"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if got := service.existingMediaPath("Song One", "m4a"); got != saved {
		t.Errorf("existingMediaPath = %s, expected %s", got, saved)
	}

	// Extension guess misses, the scan should still find the file
	if got := service.existingMediaPath("Song One", ""); got != saved {
		t.Errorf("existingMediaPath with default ext = %s, expected %s", got, saved)
	}

	if got := service.existingMediaPath("Missing Song", ""); got != "" {
		t.Errorf("existingMediaPath = %s, expected empty string", got)
	}
}

func TestExistingMediaPathIgnoresEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	service := NewService(dir, 1)

	empty := filepath.Join(dir, "Broken Download.mp4")
	if err := os.WriteFile(empty, nil, 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if got := service.existingMediaPath("Broken Download", ""); got != "" {
		t.Errorf("existingMediaPath = %s, expected empty string for zero-length file", got)
	}
}

func TestDownloadPlaylistNoPendingVideos(t *testing.T) {
	service := NewService(t.TempDir(), 1)

	p := model.NewPlaylist("https://www.youtube.com/playlist?list=PLdone")
	p.ID = "PLdone"
	p.AddVideo(&model.PlaylistVideo{ID: "v1", Title: "Done", Status: model.VideoStatusCompleted})

	if err := service.DownloadPlaylist(context.Background(), p, PlaylistOptions{}); err == nil {
		t.Error("DownloadPlaylist should fail when no videos are pending")
	}
}

func TestDownloadPlaylistCancelledContext(t *testing.T) {
	service := NewService(t.TempDir(), 2)

	p := model.NewPlaylist("https://www.youtube.com/playlist?list=PLwork")
	p.ID = "PLwork"
	p.AddVideo(&model.PlaylistVideo{ID: "v1", Title: "First", Status: model.VideoStatusPending})
	p.AddVideo(&model.PlaylistVideo{ID: "v2", Title: "Second", Status: model.VideoStatusPending})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := service.DownloadPlaylist(ctx, p, PlaylistOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, expected context.Canceled", err)
	}
	for _, video := range p.Videos {
		if video.Status != model.VideoStatusPending {
			t.Errorf("video %s status = %s, expected pending after cancellation", video.ID, video.Status)
		}
	}
}

func TestDownloadPlaylistSkipsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	service := NewService(dir, 2)

	saved := filepath.Join(dir, "Cool Song.mp4")
	if err := os.WriteFile(saved, []byte("media"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	p := model.NewPlaylist("https://www.youtube.com/playlist?list=PLmusic")
	p.ID = "PLmusic"
	p.AddVideo(&model.PlaylistVideo{ID: "v1", Title: "Cool Song", Status: model.VideoStatusPending})

	var done []*model.PlaylistVideo
	opts := PlaylistOptions{
		SkipExisting: true,
		ItemDone: func(video *model.PlaylistVideo) {
			done = append(done, video)
		},
	}

	if err := service.DownloadPlaylist(context.Background(), p, opts); err != nil {
		t.Fatalf("DownloadPlaylist failed: %v", err)
	}

	video := p.Videos[0]
	if video.Status != model.VideoStatusSkipped {
		t.Errorf("video status = %s, expected %s", video.Status, model.VideoStatusSkipped)
	}
	if video.OutputPath != saved {
		t.Errorf("video output path = %s, expected %s", video.OutputPath, saved)
	}
	if p.Status != model.PlaylistStatusCompleted {
		t.Errorf("playlist status = %s, expected %s", p.Status, model.PlaylistStatusCompleted)
	}
	if len(done) != 1 || done[0].ID != "v1" {
		t.Errorf("ItemDone called with %v, expected the skipped video once", done)
	}
}
