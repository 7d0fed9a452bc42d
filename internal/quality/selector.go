// Package quality maps user-facing quality labels to selector expressions
// understood by the extraction library.
package quality

import (
	"fmt"
	"strconv"
	"strings"
)

// Defaults
const (
	DefaultLabel   = "best"
	DefaultBitrate = 192
)

// Audio bitrate bounds accepted by the MP3 encoder, in kbit/s
const (
	MinBitrate = 32
	MaxBitrate = 320
)

// AudioSelector picks the 128k AAC audio-only stream (itag 140), which is
// present on virtually every video and avoids pulling full video data when
// only audio is wanted.
const AudioSelector = "itag=140"

// selectorByLabel is a fixed mapping from quality label to the selector
// expression passed to the extraction library.
var selectorByLabel = map[string]string{
	"best":  "best",
	"worst": "worst",
	"1080p": "height<=1080",
	"720p":  "height<=720",
	"480p":  "height<=480",
	"360p":  "height<=360",
}

// labelOrder keeps help and error output stable
var labelOrder = []string{"best", "worst", "1080p", "720p", "480p", "360p"}

// Labels returns the accepted quality labels in display order
func Labels() []string {
	out := make([]string, len(labelOrder))
	copy(out, labelOrder)
	return out
}

// SelectorFor maps a quality label to a selector expression. The label is
// case-insensitive. An unknown label is an error; availability of the
// selected quality is checked only by the extraction library at download
// time.
func SelectorFor(label string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(label))
	if normalized == "" {
		normalized = DefaultLabel
	}

	selector, ok := selectorByLabel[normalized]
	if !ok {
		return "", fmt.Errorf("unknown quality %q (valid: %s)", label, strings.Join(labelOrder, ", "))
	}
	return selector, nil
}

// ParseBitrate parses a target MP3 bitrate in kbit/s. An empty string maps
// to the default. Values outside the encoder's supported range are errors.
func ParseBitrate(s string) (int, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "k"))
	if trimmed == "" {
		return DefaultBitrate, nil
	}

	bitrate, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid bitrate %q: expected a number of kbit/s", s)
	}
	if bitrate < MinBitrate || bitrate > MaxBitrate {
		return 0, fmt.Errorf("bitrate %d out of range (%d-%d kbit/s)", bitrate, MinBitrate, MaxBitrate)
	}
	return bitrate, nil
}
