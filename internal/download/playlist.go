package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	log "github.com/rs/zerolog/log"
	"github.com/ytget/ytdlp/v2"

	"github.com/Hangghost/youtube-converter/internal/model"
	"github.com/Hangghost/youtube-converter/internal/platform"
	"github.com/Hangghost/youtube-converter/internal/validate"
)

const (
	playlistFetchTimeout = 60 * time.Second

	watchURLTemplate = "https://www.youtube.com/watch?v=%s"

	minTitlePrefixLength = 10
	playlistTitleSuffix  = " Playlist"
	defaultPlaylistTitle = "Unknown Playlist"
)

// rawPlaylistPrefixes are ID prefixes accepted without a full URL.
var rawPlaylistPrefixes = []string{"PL", "UU", "OLAK5uy_"}

// PlaylistOptions controls how DownloadPlaylist processes its videos.
type PlaylistOptions struct {
	Selector     string
	Ext          string
	Parallel     int  // worker count, 0 uses the service default
	SkipExisting bool // skip videos whose output file already exists

	// ItemDone is called after each video finishes, whatever the outcome.
	ItemDone func(*model.PlaylistVideo)
}

// FetchPlaylist resolves a playlist URL or raw playlist ID into a playlist
// with its video entries. limit caps the number of entries, 0 means all.
func (s *Service) FetchPlaylist(ctx context.Context, input string, limit int) (*model.Playlist, error) {
	playlistID, err := resolvePlaylistID(input)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, playlistFetchTimeout)
	defer cancel()

	d := ytdlp.New().WithHTTPClient(s.httpClient.HTTPClient)
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist items: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("playlist %s contains no videos", playlistID)
	}

	p := model.NewPlaylist(input)
	p.ID = playlistID
	now := time.Now()
	for _, item := range items {
		p.AddVideo(&model.PlaylistVideo{
			ID:        item.VideoID,
			Title:     item.Title,
			URL:       fmt.Sprintf(watchURLTemplate, item.VideoID),
			Status:    model.VideoStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	p.Title = playlistTitle(p.Videos)
	p.UpdateStatus(model.PlaylistStatusReady)

	log.Info().Str("svc", "download").Str("playlist_id", playlistID).Int("videos", p.TotalVideos).Msg("playlist fetched")
	return p, nil
}

// DownloadPlaylist downloads all pending videos of a playlist with a bounded
// worker pool. It blocks until every video has been processed or ctx is
// cancelled. Videos that fail are recorded on the playlist; the first class
// of failure is reported through the returned error.
func (s *Service) DownloadPlaylist(ctx context.Context, p *model.Playlist, opts PlaylistOptions) error {
	pending := p.GetPendingVideos()
	if len(pending) == 0 {
		return fmt.Errorf("playlist %s has no pending videos", p.ID)
	}

	parallel := opts.Parallel
	if parallel < 1 {
		parallel = s.maxParallel
	}
	if parallel > len(pending) {
		parallel = len(pending)
	}

	p.UpdateStatus(model.PlaylistStatusDownloading)
	log.Info().Str("svc", "download").Str("playlist_id", p.ID).Int("videos", len(pending)).Int("parallel", parallel).Msg("starting playlist download")

	jobs := make(chan *model.PlaylistVideo, len(pending))
	var wg sync.WaitGroup
	wg.Add(parallel)
	for w := 0; w < parallel; w++ {
		go func() {
			defer wg.Done()
			for video := range jobs {
				if ctx.Err() != nil {
					continue
				}
				s.downloadPlaylistVideo(ctx, p, video, opts)
			}
		}()
	}
	for _, video := range pending {
		jobs <- video
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.playlistMu.Lock()
	defer s.playlistMu.Unlock()
	if p.HasErrors() {
		failed := len(p.GetFailedVideos())
		p.UpdateStatus(model.PlaylistStatusError)
		p.Error = fmt.Sprintf("%d of %d videos failed", failed, p.TotalVideos)
		return fmt.Errorf("%d of %d videos failed", failed, p.TotalVideos)
	}
	p.UpdateStatus(model.PlaylistStatusCompleted)
	return nil
}

func (s *Service) downloadPlaylistVideo(ctx context.Context, p *model.Playlist, video *model.PlaylistVideo, opts PlaylistOptions) {
	if opts.SkipExisting {
		if existing := s.existingMediaPath(video.Title, opts.Ext); existing != "" {
			size, _ := platform.FileSize(existing)
			s.playlistMu.Lock()
			p.UpdateVideoOutputPath(video.ID, existing, size)
			p.UpdateVideoStatus(video.ID, model.VideoStatusSkipped)
			s.playlistMu.Unlock()
			log.Info().Str("svc", "download").Str("video_id", video.ID).Str("path", existing).Msg("skipping, file already exists")
			if opts.ItemDone != nil {
				opts.ItemDone(video)
			}
			return
		}
	}

	s.playlistMu.Lock()
	p.UpdateVideoStatus(video.ID, model.VideoStatusDownloading)
	s.playlistMu.Unlock()

	task, err := s.runDownload(ctx, video.URL, opts.Selector, opts.Ext, video.Title)

	s.playlistMu.Lock()
	if err != nil {
		video.Error = err.Error()
		p.UpdateVideoStatus(video.ID, model.VideoStatusError)
	} else {
		if task.OutputPath != "" {
			p.UpdateVideoOutputPath(video.ID, task.OutputPath, task.FileSize)
		}
		p.UpdateVideoProgress(video.ID, 1.0)
		p.UpdateVideoStatus(video.ID, model.VideoStatusCompleted)
		p.Downloaded = len(p.GetCompletedVideos())
	}
	s.playlistMu.Unlock()

	if opts.ItemDone != nil {
		opts.ItemDone(video)
	}
}

// existingMediaPath returns the path of an already downloaded file for the
// given title, or empty when none exists. The exact name is checked first;
// a previous run may have saved a different container, so the directory is
// scanned for the title as a fallback.
func (s *Service) existingMediaPath(title, ext string) string {
	guess := ext
	if guess == "" {
		guess = "mp4"
	}
	expected := filepath.Join(s.outputDir, platform.SafeFileName(title, guess))
	if fi, err := os.Stat(expected); err == nil && fi.Size() > 0 {
		return expected
	}
	if found := s.findNewestMatch(title); found != "" {
		if size, err := platform.FileSize(found); err == nil && size > 0 {
			return found
		}
	}
	return ""
}

// resolvePlaylistID accepts playlist URLs and raw playlist IDs.
func resolvePlaylistID(input string) (string, error) {
	input = strings.TrimSpace(input)
	for _, prefix := range rawPlaylistPrefixes {
		if strings.HasPrefix(input, prefix) {
			return input, nil
		}
	}
	return validate.ExtractPlaylistID(input)
}

// playlistTitle derives a playlist title from its video titles. Videos of
// one playlist frequently share a long common prefix, which names the
// playlist better than the first title alone.
func playlistTitle(videos []*model.PlaylistVideo) string {
	if len(videos) == 0 || videos[0].Title == "" {
		return defaultPlaylistTitle
	}
	if len(videos) > 1 {
		prefix := commonPrefix(videos[0].Title, videos[1].Title)
		if len(prefix) > minTitlePrefixLength {
			return strings.TrimSpace(prefix) + playlistTitleSuffix
		}
	}
	return videos[0].Title + playlistTitleSuffix
}

func commonPrefix(s1, s2 string) string {
	n := min(len(s1), len(s2))
	for i := 0; i < n; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:n]
}
