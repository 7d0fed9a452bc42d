package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/ytget/ytdlp/v2/errs"

	"github.com/Hangghost/youtube-converter/internal/validate"
)

// friendlyError maps known failure classes to stable human readable
// messages. Anything unrecognized passes through unchanged so library
// and filesystem errors keep their original text.
func friendlyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, validate.ErrInvalidURL), errors.Is(err, validate.ErrInvalidPlaylistURL):
		return err.Error()
	case errors.Is(err, errs.ErrVideoUnavailable):
		return "video is unavailable or has been removed"
	case errors.Is(err, errs.ErrPrivate):
		return "video is private"
	case errors.Is(err, errs.ErrAgeRestricted):
		return "video is age restricted and cannot be downloaded without signing in"
	case errors.Is(err, errs.ErrGeoBlocked):
		return "video is not available in your region"
	case errors.Is(err, errs.ErrRateLimited):
		return "rate limited by YouTube, try again later"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "network timeout, check your connection"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return fmt.Sprintf("network timeout: %v", urlErr)
		}
		return fmt.Sprintf("network error: %v", urlErr)
	}
	return err.Error()
}
