// Package download implements the download pipeline built on the ytdlp
// library. It manages task lifecycle, retry behavior, output path
// resolution, and bounded parallel playlist processing.
package download
