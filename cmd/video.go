package cmd

import (
	"context"
	"strings"

	log "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Hangghost/youtube-converter/internal/download"
	"github.com/Hangghost/youtube-converter/internal/quality"
	"github.com/Hangghost/youtube-converter/internal/ui"
	"github.com/Hangghost/youtube-converter/internal/validate"
)

var videoFlags struct {
	quality string
}

var videoCmd = &cobra.Command{
	Use:   "video <url>",
	Short: "Download a video as MP4",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVideo(cmd.Context(), args[0])
	},
}

func init() {
	videoCmd.Flags().StringVarP(&videoFlags.quality, "quality", "q", "", "video quality: "+strings.Join(quality.Labels(), ", "))
	rootCmd.AddCommand(videoCmd)
}

func runVideo(ctx context.Context, rawURL string) error {
	if err := validate.CheckVideoURL(rawURL); err != nil {
		return err
	}

	label := videoFlags.quality
	if label == "" {
		label = settings.Quality
	}
	selector, err := quality.SelectorFor(label)
	if err != nil {
		return err
	}
	log.Debug().Str("label", label).Str("selector", selector).Msg("quality selected")

	svc := download.NewService(settings.OutputDir, settings.MaxParallel)
	svc.SetRateLimit(settings.RateLimit)
	reporter := newReporter(ctx)
	trackDownloads(svc, reporter)

	task, err := svc.Download(ctx, rawURL, selector, "mp4")
	reporter.Wait()
	if err != nil {
		return err
	}

	if task.OutputPath != "" {
		ui.PrintSuccess("Saved " + task.OutputPath)
	} else {
		ui.PrintSuccess("Downloaded " + task.GetDisplayTitle())
	}
	return nil
}
