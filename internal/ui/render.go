package ui

import (
	"fmt"
	"strings"

	"github.com/Hangghost/youtube-converter/internal/model"
)

// RenderVideoInfo formats the metadata block shown by the info command:
// title, uploader, duration and one row per available format.
func RenderVideoInfo(info *model.VideoInfo) string {
	if info == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(info.Title) + "\n")
	if info.Author != "" {
		b.WriteString(fmt.Sprintf("Uploader: %s\n", info.Author))
	}
	if info.Duration > 0 {
		b.WriteString(fmt.Sprintf("Duration: %s\n", model.FormatDuration(info.Duration)))
	}
	if info.ID != "" {
		b.WriteString(fmt.Sprintf("Video ID: %s\n", info.ID))
	}

	if len(info.Formats) == 0 {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(detailStyle.Render(fmt.Sprintf("%-6s %-12s %-22s %10s", "ITAG", "QUALITY", "MIME", "SIZE")) + "\n")
	for _, f := range info.Formats {
		mime := f.MimeType
		if i := strings.Index(mime, ";"); i >= 0 {
			mime = strings.TrimSpace(mime[:i])
		}
		quality := f.Quality
		if quality == "" {
			quality = "-"
		}
		size := "unknown"
		if f.Size > 0 {
			size = model.FormatSize(f.Size)
		}
		b.WriteString(fmt.Sprintf("%-6d %-12s %-22s %10s\n", f.Itag, quality, mime, size))
	}
	return b.String()
}

// RenderPlaylistSummary formats the per-video result list printed after a
// playlist run, followed by a one line total.
func RenderPlaylistSummary(p *model.Playlist) string {
	if p == nil || len(p.Videos) == 0 {
		return ""
	}

	var b strings.Builder
	for _, v := range p.Videos {
		title := v.Title
		if title == "" {
			title = v.ID
		}
		switch v.Status {
		case model.VideoStatusCompleted:
			line := Symbols["pass"] + " " + title
			if v.FileSize > 0 {
				line += fmt.Sprintf(" (%s)", model.FormatSize(v.FileSize))
			}
			b.WriteString(successStyle.Render(line) + "\n")
		case model.VideoStatusSkipped:
			b.WriteString(detailStyle.Render(Symbols["skip"]+" "+title+" (already exists)") + "\n")
		case model.VideoStatusError:
			line := Symbols["fail"] + " " + title
			if v.Error != "" {
				line += ": " + v.Error
			}
			b.WriteString(errorStyle.Render(line) + "\n")
		default:
			b.WriteString(fmt.Sprintf("%s %s (%s)\n", Symbols["skip"], title, v.Status))
		}
	}

	completed := len(p.GetCompletedVideos())
	failed := len(p.GetFailedVideos())
	total := fmt.Sprintf("%d of %d downloaded", completed, p.TotalVideos)
	if failed > 0 {
		total += fmt.Sprintf(", %d failed", failed)
	}
	b.WriteString(total + "\n")
	return b.String()
}
