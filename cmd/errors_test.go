package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/ytget/ytdlp/v2/errs"

	"github.com/Hangghost/youtube-converter/internal/validate"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid url", fmt.Errorf("%w: not-a-url", validate.ErrInvalidURL), "invalid YouTube URL: not-a-url"},
		{"invalid playlist url", fmt.Errorf("%w: no-list", validate.ErrInvalidPlaylistURL), "invalid YouTube playlist URL: no-list"},
		{"unavailable", fmt.Errorf("download failed: %w", errs.ErrVideoUnavailable), "video is unavailable or has been removed"},
		{"private", errs.ErrPrivate, "video is private"},
		{"age restricted", errs.ErrAgeRestricted, "video is age restricted and cannot be downloaded without signing in"},
		{"geo blocked", errs.ErrGeoBlocked, "video is not available in your region"},
		{"rate limited", errs.ErrRateLimited, "rate limited by YouTube, try again later"},
		{"cancelled", context.Canceled, "cancelled"},
		{"deadline exceeded", fmt.Errorf("fetch: %w", context.DeadlineExceeded), "network timeout, check your connection"},
		{"ffmpeg passthrough", errors.New("ffmpeg failed: exit status 1"), "ffmpeg failed: exit status 1"},
		{"filesystem passthrough", errors.New("mkdir /readonly: permission denied"), "mkdir /readonly: permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := friendlyError(tt.err); got != tt.want {
				t.Errorf("friendlyError(%v) = %q, expected %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestFriendlyErrorNetwork(t *testing.T) {
	timeout := &url.Error{Op: "Get", URL: "https://www.youtube.com/watch?v=abc", Err: timeoutError{}}
	if got := friendlyError(fmt.Errorf("download failed: %w", timeout)); !strings.HasPrefix(got, "network timeout:") {
		t.Errorf("friendlyError(timeout) = %q, expected network timeout prefix", got)
	}

	refused := &url.Error{Op: "Get", URL: "https://www.youtube.com/watch?v=abc", Err: errors.New("connection refused")}
	if got := friendlyError(refused); !strings.HasPrefix(got, "network error:") {
		t.Errorf("friendlyError(refused) = %q, expected network error prefix", got)
	}
}
