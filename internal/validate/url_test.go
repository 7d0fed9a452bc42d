package validate

import (
	"errors"
	"testing"
)

func TestIsVideoURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"http://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"youtu.be/dQw4w9WgXcQ", true},
		{"https://www.youtu.be/dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", true},
		{"youtube.com/embed/dQw4w9WgXcQ", true},

		{"", false},
		{"not a url", false},
		{"https://vimeo.com/123456", false},
		{"https://www.youtube.com/", false},
		{"https://www.youtube.com/watch", false},
		{"https://www.youtube.com/watch?v=", false},
		{"https://youtu.be/", false},
		{"https://www.youtube.com/embed/", false},
		{"https://example.com/watch?v=dQw4w9WgXcQ", false},
		{"ftp://youtube.com/watch?v=dQw4w9WgXcQ", false},
	}

	for _, test := range tests {
		result := IsVideoURL(test.url)
		if result != test.expected {
			t.Errorf("IsVideoURL(%q) = %v, expected %v", test.url, result, test.expected)
		}
	}
}

func TestCheckVideoURL(t *testing.T) {
	if err := CheckVideoURL("https://youtu.be/dQw4w9WgXcQ"); err != nil {
		t.Errorf("CheckVideoURL on valid URL returned error: %v", err)
	}

	err := CheckVideoURL("https://vimeo.com/123456")
	if err == nil {
		t.Fatal("CheckVideoURL on invalid URL returned nil")
	}
	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("Expected ErrInvalidURL, got %v", err)
	}
}

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		url      string
		expected bool
	}{
		{"https://www.youtube.com/playlist?list=PLxyz", true},
		{"https://www.youtube.com/watch?v=abc&list=PLxyz", true},
		{"https://www.youtube.com/watch?v=abc", false},
		{"https://youtu.be/abc", false},
	}

	for _, test := range tests {
		result := IsPlaylistURL(test.url)
		if result != test.expected {
			t.Errorf("IsPlaylistURL(%q) = %v, expected %v", test.url, result, test.expected)
		}
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
		wantErr  bool
	}{
		{"https://www.youtube.com/playlist?list=PLabc123", "PLabc123", false},
		{"https://www.youtube.com/watch?v=xyz&list=PLabc123&index=2", "PLabc123", false},
		{"https://www.youtube.com/playlist?list=", "", true},
		{"https://www.youtube.com/watch?v=xyz", "", true},
	}

	for _, test := range tests {
		id, err := ExtractPlaylistID(test.url)
		if test.wantErr {
			if err == nil {
				t.Errorf("ExtractPlaylistID(%q) expected error, got nil", test.url)
			}
			if err != nil && !errors.Is(err, ErrInvalidPlaylistURL) {
				t.Errorf("ExtractPlaylistID(%q) expected ErrInvalidPlaylistURL, got %v", test.url, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ExtractPlaylistID(%q) returned error: %v", test.url, err)
			continue
		}
		if id != test.expected {
			t.Errorf("ExtractPlaylistID(%q) = %s, expected %s", test.url, id, test.expected)
		}
	}
}
