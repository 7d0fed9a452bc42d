// Package validate checks YouTube URLs before any network call is made.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// URL parameters
const (
	playlistParam  = "list="
	paramSeparator = "&"
)

var (
	// ErrInvalidURL is returned when a URL does not match any known
	// YouTube video URL shape
	ErrInvalidURL = errors.New("invalid YouTube URL")

	// ErrInvalidPlaylistURL is returned when a URL does not carry a
	// playlist identifier
	ErrInvalidPlaylistURL = errors.New("invalid YouTube playlist URL")
)

// videoURLPatterns are the accepted YouTube video URL shapes: the standard
// watch page, the short youtu.be form, and the embed form.
var videoURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtu\.be/[\w-]+`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/embed/[\w-]+`),
}

// IsVideoURL reports whether the string matches one of the known YouTube
// video URL shapes
func IsVideoURL(url string) bool {
	for _, pattern := range videoURLPatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}

// CheckVideoURL returns ErrInvalidURL if the string is not a recognized
// YouTube video URL
func CheckVideoURL(url string) error {
	if !IsVideoURL(url) {
		return fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}
	return nil
}

// IsPlaylistURL reports whether the URL carries a playlist identifier
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, playlistParam)
}

// ExtractPlaylistID extracts the playlist ID from various URL formats
func ExtractPlaylistID(url string) (string, error) {
	if !strings.Contains(url, playlistParam) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPlaylistURL, url)
	}

	parts := strings.Split(url, playlistParam)
	playlistPart := parts[1]
	if strings.Contains(playlistPart, paramSeparator) {
		playlistPart = strings.Split(playlistPart, paramSeparator)[0]
	}
	if playlistPart == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidPlaylistURL, url)
	}
	return playlistPart, nil
}
