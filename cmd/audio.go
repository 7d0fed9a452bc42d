package cmd

import (
	"context"
	"fmt"
	"os"

	log "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Hangghost/youtube-converter/internal/download"
	"github.com/Hangghost/youtube-converter/internal/encode"
	"github.com/Hangghost/youtube-converter/internal/quality"
	"github.com/Hangghost/youtube-converter/internal/ui"
	"github.com/Hangghost/youtube-converter/internal/validate"
)

var audioFlags struct {
	bitrate string
}

var audioCmd = &cobra.Command{
	Use:   "audio <url>",
	Short: "Download a video and convert it to MP3",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAudio(cmd.Context(), args[0])
	},
}

func init() {
	audioCmd.Flags().StringVarP(&audioFlags.bitrate, "quality", "q", "", "MP3 bitrate in kbit/s (32-320, default 192)")
	rootCmd.AddCommand(audioCmd)
}

func runAudio(ctx context.Context, rawURL string) error {
	if err := validate.CheckVideoURL(rawURL); err != nil {
		return err
	}

	bitrate := settings.AudioBitrate
	if audioFlags.bitrate != "" {
		parsed, err := quality.ParseBitrate(audioFlags.bitrate)
		if err != nil {
			return err
		}
		bitrate = parsed
	}

	// Check for ffmpeg before spending bandwidth on the download.
	enc := encode.NewService()
	if !enc.FFmpegAvailable() {
		return fmt.Errorf("ffmpeg not found in PATH, install it to enable MP3 conversion")
	}

	svc := download.NewService(settings.OutputDir, settings.MaxParallel)
	svc.SetRateLimit(settings.RateLimit)
	reporter := newReporter(ctx)
	trackDownloads(svc, reporter)
	trackEncodes(enc, reporter)

	task, err := svc.DownloadAudioSource(ctx, rawURL)
	if err != nil {
		reporter.Wait()
		return err
	}
	if task.OutputPath == "" {
		reporter.Wait()
		return fmt.Errorf("could not locate downloaded file in %s", settings.OutputDir)
	}

	mp3Path := encode.DeriveOutputPath(task.OutputPath)
	log.Debug().Str("input", task.OutputPath).Str("output", mp3Path).Int("bitrate", bitrate).Msg("starting conversion")

	encTask, err := enc.EncodeToMP3(ctx, task.OutputPath, mp3Path, bitrate)
	reporter.Wait()
	if err != nil {
		return err
	}

	if err := os.Remove(task.OutputPath); err != nil {
		log.Warn().Err(err).Str("path", task.OutputPath).Msg("could not remove intermediate file")
	}

	ui.PrintSuccess("Saved " + encTask.OutputPath)
	return nil
}
