package model

import (
	"time"
)

// PlaylistStatus represents the current status of a playlist
type PlaylistStatus string

const (
	PlaylistStatusParsing     PlaylistStatus = "parsing"
	PlaylistStatusReady       PlaylistStatus = "ready"
	PlaylistStatusDownloading PlaylistStatus = "downloading"
	PlaylistStatusCompleted   PlaylistStatus = "completed"
	PlaylistStatusError       PlaylistStatus = "error"
)

// VideoStatus represents the status of a single video in a playlist
type VideoStatus string

const (
	VideoStatusPending     VideoStatus = "pending"
	VideoStatusDownloading VideoStatus = "downloading"
	VideoStatusCompleted   VideoStatus = "completed"
	VideoStatusError       VideoStatus = "error"
	// Skipped is used when the target file already exists on disk
	VideoStatusSkipped VideoStatus = "skipped"
)

// PlaylistVideo represents a single video in a playlist
type PlaylistVideo struct {
	ID         string
	Title      string
	Duration   int // seconds
	URL        string
	Status     VideoStatus
	Progress   float64
	Error      string
	OutputPath string // path to downloaded file
	FileSize   int64  // file size in bytes
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Playlist represents a YouTube playlist with its videos
type Playlist struct {
	ID          string
	Title       string
	URL         string
	Videos      []*PlaylistVideo
	Status      PlaylistStatus
	TotalVideos int
	Downloaded  int
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(url string) *Playlist {
	now := time.Now()
	return &Playlist{
		URL:       url,
		Status:    PlaylistStatusParsing,
		Videos:    make([]*PlaylistVideo, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddVideo adds a video to the playlist
func (p *Playlist) AddVideo(video *PlaylistVideo) {
	p.Videos = append(p.Videos, video)
	p.TotalVideos = len(p.Videos)
	p.UpdatedAt = time.Now()
}

// UpdateStatus updates the playlist status
func (p *Playlist) UpdateStatus(status PlaylistStatus) {
	p.Status = status
	p.UpdatedAt = time.Now()
}

// UpdateVideoStatus updates the status of a specific video
func (p *Playlist) UpdateVideoStatus(videoID string, status VideoStatus) {
	for _, video := range p.Videos {
		if video.ID == videoID {
			video.Status = status
			video.UpdatedAt = time.Now()
			break
		}
	}
}

// UpdateVideoProgress updates the progress of a specific video
func (p *Playlist) UpdateVideoProgress(videoID string, progress float64) {
	for _, video := range p.Videos {
		if video.ID == videoID {
			video.Progress = progress
			video.UpdatedAt = time.Now()
			break
		}
	}
}

// UpdateVideoOutputPath updates the output path and file size of a specific video
func (p *Playlist) UpdateVideoOutputPath(videoID string, outputPath string, fileSize int64) {
	for _, video := range p.Videos {
		if video.ID == videoID {
			video.OutputPath = outputPath
			video.FileSize = fileSize
			video.UpdatedAt = time.Now()
			break
		}
	}
}

// GetPendingVideos returns all videos with pending status
func (p *Playlist) GetPendingVideos() []*PlaylistVideo {
	var pending []*PlaylistVideo
	for _, video := range p.Videos {
		if video.Status == VideoStatusPending {
			pending = append(pending, video)
		}
	}
	return pending
}

// GetCompletedVideos returns all completed videos
func (p *Playlist) GetCompletedVideos() []*PlaylistVideo {
	var completed []*PlaylistVideo
	for _, video := range p.Videos {
		if video.Status == VideoStatusCompleted {
			completed = append(completed, video)
		}
	}
	return completed
}

// GetFailedVideos returns all videos that ended in an error
func (p *Playlist) GetFailedVideos() []*PlaylistVideo {
	var failed []*PlaylistVideo
	for _, video := range p.Videos {
		if video.Status == VideoStatusError {
			failed = append(failed, video)
		}
	}
	return failed
}

// GetDownloadProgress returns overall download progress as percentage
func (p *Playlist) GetDownloadProgress() float64 {
	if p.TotalVideos == 0 {
		return 0
	}

	completed := len(p.GetCompletedVideos())
	return float64(completed) / float64(p.TotalVideos) * 100
}

// HasErrors checks if any video has errors
func (p *Playlist) HasErrors() bool {
	for _, video := range p.Videos {
		if video.Status == VideoStatusError {
			return true
		}
	}
	return false
}
