package cmd

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	log "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Hangghost/youtube-converter/internal/config"
	"github.com/Hangghost/youtube-converter/internal/download"
	"github.com/Hangghost/youtube-converter/internal/model"
	"github.com/Hangghost/youtube-converter/internal/quality"
	"github.com/Hangghost/youtube-converter/internal/ui"
)

var playlistFlags struct {
	quality  string
	limit    int
	parallel int
}

var playlistCmd = &cobra.Command{
	Use:   "playlist <url>",
	Short: "Download every video in a playlist as MP4",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlaylist(cmd.Context(), args[0])
	},
}

func init() {
	playlistCmd.Flags().StringVarP(&playlistFlags.quality, "quality", "q", "", "video quality: "+strings.Join(quality.Labels(), ", "))
	playlistCmd.Flags().IntVar(&playlistFlags.limit, "limit", 0, "maximum number of videos to fetch (0 = all)")
	playlistCmd.Flags().IntVar(&playlistFlags.parallel, "parallel", 0, "concurrent downloads (default from config)")
	rootCmd.AddCommand(playlistCmd)
}

func runPlaylist(ctx context.Context, rawURL string) error {
	label := playlistFlags.quality
	if label == "" {
		label = settings.Quality
	}
	selector, err := quality.SelectorFor(label)
	if err != nil {
		return err
	}

	parallel := playlistFlags.parallel
	if parallel <= 0 {
		parallel = settings.MaxParallel
	}
	if parallel > config.MaxParallelLimit {
		parallel = config.MaxParallelLimit
	}

	svc := download.NewService(settings.OutputDir, settings.MaxParallel)
	svc.SetRateLimit(settings.RateLimit)

	p, err := svc.FetchPlaylist(ctx, rawURL, playlistFlags.limit)
	if err != nil {
		return err
	}
	ui.PrintHeader(fmt.Sprintf("%s (%d videos)", p.Title, p.TotalVideos))

	reporter := newReporter(ctx)
	trackDownloads(svc, reporter)

	var done int64
	dlErr := svc.DownloadPlaylist(ctx, p, download.PlaylistOptions{
		Selector:     selector,
		Ext:          "mp4",
		Parallel:     parallel,
		SkipExisting: true,
		ItemDone: func(v *model.PlaylistVideo) {
			n := atomic.AddInt64(&done, 1)
			log.Debug().Int64("done", n).Int("total", p.TotalVideos).Str("video", v.ID).Msg("playlist item finished")
		},
	})
	reporter.Wait()

	fmt.Print(ui.RenderPlaylistSummary(p))
	return dlErr
}
