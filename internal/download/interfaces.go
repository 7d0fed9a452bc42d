package download

import (
	"context"

	"github.com/Hangghost/youtube-converter/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))
	SetRateLimit(bytesPerSecond int64)
	GetTask(id string) (*model.DownloadTask, bool)

	FetchInfo(ctx context.Context, url string) (*model.VideoInfo, error)
	Download(ctx context.Context, url, selector, ext string) (*model.DownloadTask, error)
	DownloadAudioSource(ctx context.Context, url string) (*model.DownloadTask, error)

	FetchPlaylist(ctx context.Context, input string, limit int) (*model.Playlist, error)
	DownloadPlaylist(ctx context.Context, playlist *model.Playlist, opts PlaylistOptions) error
}

var _ Downloader = (*Service)(nil)
