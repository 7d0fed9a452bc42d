package encode

import (
	"context"

	"github.com/Hangghost/youtube-converter/internal/model"
)

// Encoder defines the interface for the MP3 conversion service.
type Encoder interface {
	SetUpdateCallback(func(*model.EncodeTask))
	EncodeToMP3(ctx context.Context, inputPath, outputPath string, bitrate int) (*model.EncodeTask, error)
	FFmpegAvailable() bool
}
