package model

// FormatInfo describes a single media format offered for a video.
type FormatInfo struct {
	Itag     int
	Quality  string
	MimeType string
	Bitrate  int
	Size     int64
}

// VideoInfo holds the metadata fetched for a single video before or
// after download. Author and Duration may be empty when the source
// does not expose them.
type VideoInfo struct {
	ID       string
	Title    string
	Author   string
	Duration int // seconds
	Formats  []FormatInfo
}
