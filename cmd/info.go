package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Hangghost/youtube-converter/internal/download"
	"github.com/Hangghost/youtube-converter/internal/ui"
)

var infoCmd = &cobra.Command{
	Use:   "info <url>",
	Short: "Show video metadata and available formats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(ctx context.Context, rawURL string) error {
	svc := download.NewService(settings.OutputDir, settings.MaxParallel)
	info, err := svc.FetchInfo(ctx, rawURL)
	if err != nil {
		return err
	}
	fmt.Print(ui.RenderVideoInfo(info))
	return nil
}
